package trade

import (
	"strings"
	"time"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a sales order. A sale is recorded at
// the counter, so orders are born completed and can only be cancelled.
type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid checks if the status is known
func (s OrderStatus) IsValid() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// PaymentMethod is how the customer paid
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

// IsValid checks if the payment method is known
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

// OrderItem is a line on a sales order
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU         string          `gorm:"type:varchar(50);not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Discount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderLine is the input for one order item
type OrderLine struct {
	ProductID   uuid.UUID
	SKU         string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
}

// Order is a completed sale at a store counter
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber    string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	StoreID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	WarehouseID    uuid.UUID       `gorm:"type:uuid;not null"`
	SalespersonID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerName   string          `gorm:"type:varchar(200)"`
	CustomerPhone  string          `gorm:"type:varchar(50)"`
	CustomerEmail  string          `gorm:"type:varchar(200)"`
	PaymentMethod  PaymentMethod   `gorm:"type:varchar(20);not null"`
	Status         OrderStatus     `gorm:"type:varchar(20);not null;default:'completed';index"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Notes          string          `gorm:"type:text"`
	Items          []OrderItem     `gorm:"foreignKey:OrderID;references:ID"`
	CancelledAt    *time.Time
	CancelledBy    *uuid.UUID `gorm:"type:uuid"`
	CancelReason   string     `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// Customer holds the optional buyer details on a sale
type Customer struct {
	Name  string
	Phone string
	Email string
}

// NewOrder builds a completed sale. An order without lines is rejected.
func NewOrder(number string, storeID, warehouseID, salespersonID uuid.UUID, payment PaymentMethod, lines []OrderLine, tax decimal.Decimal) (*Order, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "Order must contain at least one item")
	}
	if storeID == uuid.Nil || warehouseID == uuid.Nil || salespersonID == uuid.Nil {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "Store, warehouse and salesperson are required")
	}
	if !payment.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method must be cash, card or transfer")
	}
	if tax.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX", "Tax cannot be negative")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       number,
		StoreID:           storeID,
		WarehouseID:       warehouseID,
		SalespersonID:     salespersonID,
		PaymentMethod:     payment,
		Status:            OrderStatusCompleted,
		TaxAmount:         tax,
	}

	seen := make(map[uuid.UUID]bool, len(lines))
	for _, l := range lines {
		if seen[l.ProductID] {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Each product may appear only once per order")
		}
		seen[l.ProductID] = true
		item, err := newOrderItem(o.ID, l)
		if err != nil {
			return nil, err
		}
		o.Items = append(o.Items, *item)
	}
	o.recalculate()

	o.AddDomainEvent(NewOrderCreatedEvent(o))
	return o, nil
}

func newOrderItem(orderID uuid.UUID, l OrderLine) (*OrderItem, error) {
	if l.ProductID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if err := shared.CheckQuantity(l.Quantity); err != nil {
		return nil, err
	}
	if l.UnitPrice.IsNegative() || l.Discount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price and discount cannot be negative")
	}
	gross := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
	if l.Discount.GreaterThan(gross) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed line amount")
	}
	return &OrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   l.ProductID,
		SKU:         l.SKU,
		ProductName: l.ProductName,
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice,
		Discount:    l.Discount,
		LineTotal:   gross.Sub(l.Discount).Round(2),
		CreatedAt:   time.Now(),
	}, nil
}

// SetCustomer records the buyer
func (o *Order) SetCustomer(c Customer) {
	o.CustomerName = strings.TrimSpace(c.Name)
	o.CustomerPhone = strings.TrimSpace(c.Phone)
	o.CustomerEmail = strings.ToLower(strings.TrimSpace(c.Email))
}

// Cancel voids the sale. The caller puts the pieces back into stock.
func (o *Order) Cancel(by uuid.UUID, reason string) error {
	if o.Status != OrderStatusCompleted {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "Only completed orders can be cancelled")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("REASON_REQUIRED", "Cancellation reason is required")
	}
	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelledBy = &by
	o.CancelReason = reason
	o.Touch()
	o.AddDomainEvent(NewOrderCancelledEvent(o))
	return nil
}

// TotalQuantity returns the number of pieces sold
func (o *Order) TotalQuantity() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

func (o *Order) recalculate() {
	subtotal := decimal.Zero
	discount := decimal.Zero
	for _, it := range o.Items {
		subtotal = subtotal.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
		discount = discount.Add(it.Discount)
	}
	o.Subtotal = subtotal.Round(2)
	o.DiscountAmount = discount.Round(2)
	o.TotalAmount = subtotal.Sub(discount).Add(o.TaxAmount).Round(2)
}
