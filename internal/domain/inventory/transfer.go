package inventory

import (
	"strings"
	"time"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// TransferStatus represents the approval state of a stock transfer
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusApproved  TransferStatus = "approved"
	TransferStatusRejected  TransferStatus = "rejected"
	TransferStatusCompleted TransferStatus = "completed"
)

// IsValid checks if the status is a valid TransferStatus
func (s TransferStatus) IsValid() bool {
	switch s {
	case TransferStatusPending, TransferStatusApproved, TransferStatusRejected, TransferStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of TransferStatus
func (s TransferStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s TransferStatus) CanTransitionTo(target TransferStatus) bool {
	switch s {
	case TransferStatusPending:
		return target == TransferStatusApproved || target == TransferStatusRejected
	case TransferStatusApproved:
		return target == TransferStatusCompleted
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s TransferStatus) IsTerminal() bool {
	return s == TransferStatusRejected || s == TransferStatusCompleted
}

// InventoryTransfer moves a quantity of one product between two warehouses
// through a request, approval and completion workflow.
type InventoryTransfer struct {
	shared.BaseAggregateRoot
	TransferNumber         string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	SourceWarehouseID      uuid.UUID      `gorm:"type:uuid;not null;index"`
	DestinationWarehouseID uuid.UUID      `gorm:"type:uuid;not null;index"`
	ProductID              uuid.UUID      `gorm:"type:uuid;not null;index"`
	Quantity               int            `gorm:"not null"`
	Status                 TransferStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Notes                  string         `gorm:"type:text"`
	RequestedBy            uuid.UUID      `gorm:"type:uuid;not null"`
	DecidedBy              *uuid.UUID     `gorm:"type:uuid"`
	DecidedAt              *time.Time
	RejectionReason        string     `gorm:"type:varchar(500)"`
	CompletedBy            *uuid.UUID `gorm:"type:uuid"`
	CompletedAt            *time.Time
}

// TableName returns the table name for GORM
func (InventoryTransfer) TableName() string {
	return "inventory_transfers"
}

// NewInventoryTransfer creates a pending transfer request
func NewInventoryTransfer(number string, sourceID, destinationID, productID uuid.UUID, quantity int, requestedBy uuid.UUID) (*InventoryTransfer, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_TRANSFER_NUMBER", "Transfer number cannot be empty")
	}
	if sourceID == uuid.Nil || destinationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Source and destination warehouses are required")
	}
	if sourceID == destinationID {
		return nil, shared.NewDomainError("SAME_WAREHOUSE", "Source and destination warehouses must differ")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if err := shared.CheckQuantity(quantity); err != nil {
		return nil, err
	}

	t := &InventoryTransfer{
		BaseAggregateRoot:      shared.NewBaseAggregateRoot(),
		TransferNumber:         number,
		SourceWarehouseID:      sourceID,
		DestinationWarehouseID: destinationID,
		ProductID:              productID,
		Quantity:               quantity,
		Status:                 TransferStatusPending,
		RequestedBy:            requestedBy,
	}
	t.AddDomainEvent(NewTransferRequestedEvent(t))
	return t, nil
}

// Approve accepts a pending request
func (t *InventoryTransfer) Approve(by uuid.UUID) error {
	if err := t.transition(TransferStatusApproved); err != nil {
		return err
	}
	now := time.Now()
	t.DecidedBy = &by
	t.DecidedAt = &now
	t.AddDomainEvent(NewTransferDecidedEvent(t))
	return nil
}

// Reject declines a pending request
func (t *InventoryTransfer) Reject(by uuid.UUID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("REASON_REQUIRED", "Rejection reason is required")
	}
	if err := t.transition(TransferStatusRejected); err != nil {
		return err
	}
	now := time.Now()
	t.DecidedBy = &by
	t.DecidedAt = &now
	t.RejectionReason = reason
	t.AddDomainEvent(NewTransferDecidedEvent(t))
	return nil
}

// Complete marks an approved transfer as executed. The caller moves the stock
// in the same transaction.
func (t *InventoryTransfer) Complete(by uuid.UUID) error {
	if err := t.transition(TransferStatusCompleted); err != nil {
		return err
	}
	now := time.Now()
	t.CompletedBy = &by
	t.CompletedAt = &now
	t.AddDomainEvent(NewTransferCompletedEvent(t))
	return nil
}

// Involves reports whether the warehouse is one of the two ends
func (t *InventoryTransfer) Involves(warehouseID uuid.UUID) bool {
	return t.SourceWarehouseID == warehouseID || t.DestinationWarehouseID == warehouseID
}

func (t *InventoryTransfer) transition(target TransferStatus) error {
	if !t.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.ErrInvalidState.Code,
			"Cannot move transfer from "+t.Status.String()+" to "+target.String())
	}
	t.Status = target
	t.Touch()
	return nil
}
