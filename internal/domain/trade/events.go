package trade

import (
	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeOrder         = "Order"
	AggregateTypePurchaseOrder = "PurchaseOrder"
)

// Event type constants
const (
	EventTypeOrderCreated          = "OrderCreated"
	EventTypeOrderCancelled        = "OrderCancelled"
	EventTypePurchaseOrderReceived = "PurchaseOrderReceived"
)

// OrderCreatedEvent is raised when a sale is recorded
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber   string          `json:"order_number"`
	StoreID       uuid.UUID       `json:"store_id"`
	SalespersonID uuid.UUID       `json:"salesperson_id"`
	Pieces        int             `json:"pieces"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// NewOrderCreatedEvent creates an OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		StoreID:         o.StoreID,
		SalespersonID:   o.SalespersonID,
		Pieces:          o.TotalQuantity(),
		TotalAmount:     o.TotalAmount,
	}
}

// OrderCancelledEvent is raised when a sale is voided
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	StoreID     uuid.UUID       `json:"store_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Reason      string          `json:"reason"`
}

// NewOrderCancelledEvent creates an OrderCancelledEvent
func NewOrderCancelledEvent(o *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		StoreID:         o.StoreID,
		TotalAmount:     o.TotalAmount,
		Reason:          o.CancelReason,
	}
}

// PurchaseOrderReceivedEvent is raised when supplier goods are booked into stock
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	PONumber    string          `json:"po_number"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewPurchaseOrderReceivedEvent creates a PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(o *PurchaseOrder) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderReceived, AggregateTypePurchaseOrder, o.ID),
		PONumber:        o.PONumber,
		SupplierID:      o.SupplierID,
		WarehouseID:     o.WarehouseID,
		TotalAmount:     o.TotalAmount,
	}
}
