package trade

import (
	"strings"
	"time"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "draft"
	PurchaseOrderStatusSubmitted PurchaseOrderStatus = "submitted"
	PurchaseOrderStatusApproved  PurchaseOrderStatus = "approved"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "received"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "cancelled"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusSubmitted, PurchaseOrderStatusApproved,
		PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusSubmitted || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusSubmitted:
		return target == PurchaseOrderStatusApproved || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusApproved:
		return target == PurchaseOrderStatusReceived || target == PurchaseOrderStatusCancelled
	}
	return false
}

// PurchaseOrderItem represents a line item in a purchase order
type PurchaseOrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	SKU         string          `gorm:"type:varchar(50);not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int             `gorm:"not null"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// PurchaseLine is the input for one purchase order item
type PurchaseLine struct {
	ProductID   uuid.UUID
	SKU         string
	ProductName string
	Quantity    int
	UnitCost    decimal.Decimal
}

// PurchaseOrder is a replenishment order to a supplier, received into one warehouse
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	PONumber     string              `gorm:"column:po_number;type:varchar(50);not null;uniqueIndex"`
	SupplierID   uuid.UUID           `gorm:"type:uuid;not null;index"`
	WarehouseID  uuid.UUID           `gorm:"type:uuid;not null;index"`
	Status       PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	ExpectedDate *time.Time          `gorm:"type:date"`
	TotalAmount  decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	Notes        string              `gorm:"type:text"`
	Items        []PurchaseOrderItem `gorm:"foreignKey:OrderID;references:ID"`
	CreatedBy    uuid.UUID           `gorm:"type:uuid;not null"`
	SubmittedAt  *time.Time
	ApprovedBy   *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt   *time.Time
	ReceivedBy   *uuid.UUID `gorm:"type:uuid"`
	ReceivedAt   *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a draft purchase order with at least one line
func NewPurchaseOrder(number string, supplierID, warehouseID, createdBy uuid.UUID, lines []PurchaseLine) (*PurchaseOrder, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}

	po := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PONumber:          number,
		SupplierID:        supplierID,
		WarehouseID:       warehouseID,
		Status:            PurchaseOrderStatusDraft,
		CreatedBy:         createdBy,
	}
	if err := po.setLines(lines); err != nil {
		return nil, err
	}
	return po, nil
}

// ReplaceItems swaps the order lines. Only allowed in draft.
func (o *PurchaseOrder) ReplaceItems(lines []PurchaseLine) error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "Cannot change items of a non-draft order")
	}
	return o.setLines(lines)
}

// SetDetails sets the expected delivery date and notes
func (o *PurchaseOrder) SetDetails(expected *time.Time, notes string) {
	o.ExpectedDate = expected
	o.Notes = strings.TrimSpace(notes)
	o.Touch()
}

// Submit sends the draft for approval
func (o *PurchaseOrder) Submit() error {
	if err := o.transition(PurchaseOrderStatusSubmitted); err != nil {
		return err
	}
	now := time.Now()
	o.SubmittedAt = &now
	return nil
}

// Approve authorizes the order with the supplier
func (o *PurchaseOrder) Approve(by uuid.UUID) error {
	if err := o.transition(PurchaseOrderStatusApproved); err != nil {
		return err
	}
	now := time.Now()
	o.ApprovedBy = &by
	o.ApprovedAt = &now
	return nil
}

// Receive marks the goods as delivered. The caller books the stock.
func (o *PurchaseOrder) Receive(by uuid.UUID) error {
	if err := o.transition(PurchaseOrderStatusReceived); err != nil {
		return err
	}
	now := time.Now()
	o.ReceivedBy = &by
	o.ReceivedAt = &now
	o.AddDomainEvent(NewPurchaseOrderReceivedEvent(o))
	return nil
}

// Cancel abandons the order before receipt
func (o *PurchaseOrder) Cancel(reason string) error {
	if err := o.transition(PurchaseOrderStatusCancelled); err != nil {
		return err
	}
	now := time.Now()
	o.CancelledAt = &now
	o.CancelReason = strings.TrimSpace(reason)
	return nil
}

func (o *PurchaseOrder) setLines(lines []PurchaseLine) error {
	if len(lines) == 0 {
		return shared.NewDomainError(shared.ErrInvalidInput.Code, "Purchase order must contain at least one item")
	}
	items := make([]PurchaseOrderItem, 0, len(lines))
	seen := make(map[uuid.UUID]bool, len(lines))
	total := decimal.Zero
	now := time.Now()
	for _, l := range lines {
		if l.ProductID == uuid.Nil {
			return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
		}
		if seen[l.ProductID] {
			return shared.NewDomainError("DUPLICATE_PRODUCT", "Each product may appear only once per order")
		}
		seen[l.ProductID] = true
		if err := shared.CheckQuantity(l.Quantity); err != nil {
			return err
		}
		if l.UnitCost.IsNegative() {
			return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
		}
		lineTotal := l.UnitCost.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2)
		items = append(items, PurchaseOrderItem{
			ID:          uuid.New(),
			OrderID:     o.ID,
			ProductID:   l.ProductID,
			SKU:         l.SKU,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitCost:    l.UnitCost,
			LineTotal:   lineTotal,
			CreatedAt:   now,
		})
		total = total.Add(lineTotal)
	}
	o.Items = items
	o.TotalAmount = total
	o.Touch()
	return nil
}

func (o *PurchaseOrder) transition(target PurchaseOrderStatus) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.ErrInvalidState.Code,
			"Cannot move purchase order from "+o.Status.String()+" to "+target.String())
	}
	o.Status = target
	o.Touch()
	return nil
}
