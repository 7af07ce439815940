package inventory

import (
	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeTransfer is the aggregate type of InventoryTransfer events
const AggregateTypeTransfer = "InventoryTransfer"

// Event type constants
const (
	EventTypeTransferRequested = "TransferRequested"
	EventTypeTransferDecided   = "TransferDecided"
	EventTypeTransferCompleted = "TransferCompleted"
	EventTypeStockAdjusted     = "StockAdjusted"
)

// TransferRequestedEvent is raised when a transfer request is created
type TransferRequestedEvent struct {
	shared.BaseDomainEvent
	TransferNumber string    `json:"transfer_number"`
	SourceID       uuid.UUID `json:"source_warehouse_id"`
	DestinationID  uuid.UUID `json:"destination_warehouse_id"`
	ProductID      uuid.UUID `json:"product_id"`
	Quantity       int       `json:"quantity"`
}

// NewTransferRequestedEvent creates a TransferRequestedEvent
func NewTransferRequestedEvent(t *InventoryTransfer) *TransferRequestedEvent {
	return &TransferRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferRequested, AggregateTypeTransfer, t.ID),
		TransferNumber:  t.TransferNumber,
		SourceID:        t.SourceWarehouseID,
		DestinationID:   t.DestinationWarehouseID,
		ProductID:       t.ProductID,
		Quantity:        t.Quantity,
	}
}

// TransferDecidedEvent is raised on approval or rejection
type TransferDecidedEvent struct {
	shared.BaseDomainEvent
	TransferNumber string         `json:"transfer_number"`
	Status         TransferStatus `json:"status"`
	Reason         string         `json:"reason,omitempty"`
}

// NewTransferDecidedEvent creates a TransferDecidedEvent
func NewTransferDecidedEvent(t *InventoryTransfer) *TransferDecidedEvent {
	return &TransferDecidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferDecided, AggregateTypeTransfer, t.ID),
		TransferNumber:  t.TransferNumber,
		Status:          t.Status,
		Reason:          t.RejectionReason,
	}
}

// TransferCompletedEvent is raised once stock has moved
type TransferCompletedEvent struct {
	shared.BaseDomainEvent
	TransferNumber string    `json:"transfer_number"`
	SourceID       uuid.UUID `json:"source_warehouse_id"`
	DestinationID  uuid.UUID `json:"destination_warehouse_id"`
	ProductID      uuid.UUID `json:"product_id"`
	Quantity       int       `json:"quantity"`
}

// NewTransferCompletedEvent creates a TransferCompletedEvent
func NewTransferCompletedEvent(t *InventoryTransfer) *TransferCompletedEvent {
	return &TransferCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferCompleted, AggregateTypeTransfer, t.ID),
		TransferNumber:  t.TransferNumber,
		SourceID:        t.SourceWarehouseID,
		DestinationID:   t.DestinationWarehouseID,
		ProductID:       t.ProductID,
		Quantity:        t.Quantity,
	}
}

// StockAdjustedEvent is raised on a manual stock correction
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	WarehouseID uuid.UUID `json:"warehouse_id"`
	ProductID   uuid.UUID `json:"product_id"`
	Delta       int       `json:"delta"`
	Quantity    int       `json:"quantity"`
	Reason      string    `json:"reason"`
	AdjustedBy  uuid.UUID `json:"adjusted_by"`
}

// NewStockAdjustedEvent creates a StockAdjustedEvent
func NewStockAdjustedEvent(item *InventoryItem, delta int, reason string, by uuid.UUID) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, "InventoryItem", item.ID),
		WarehouseID:     item.WarehouseID,
		ProductID:       item.ProductID,
		Delta:           delta,
		Quantity:        item.Quantity,
		Reason:          reason,
		AdjustedBy:      by,
	}
}
