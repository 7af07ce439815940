package trade

import (
	"time"

	"github.com/gemline/backoffice/internal/application/common"
	"github.com/gemline/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLineRequest is one line of a new sale. A nil unit price sells at the
// product's retail price.
type OrderLineRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,min=1,max=1000000"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal  `json:"discount"`
}

// CreateOrderRequest represents a request to record a sale
type CreateOrderRequest struct {
	StoreID       *uuid.UUID         `json:"store_id"`
	WarehouseID   *uuid.UUID         `json:"warehouse_id"`
	SalespersonID *uuid.UUID         `json:"salesperson_id"`
	CustomerName  string             `json:"customer_name" binding:"omitempty,max=200"`
	CustomerPhone string             `json:"customer_phone" binding:"omitempty,max=50"`
	CustomerEmail string             `json:"customer_email" binding:"omitempty,email"`
	PaymentMethod string             `json:"payment_method" binding:"required,oneof=cash card transfer"`
	Tax           decimal.Decimal    `json:"tax"`
	Notes         string             `json:"notes" binding:"omitempty,max=2000"`
	Items         []OrderLineRequest `json:"items" binding:"dive"`
}

// CancelOrderRequest represents a request to void a sale
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	common.PageQuery
	StoreID       *uuid.UUID `form:"store_id" parser:"encoding.TextUnmarshaler"`
	SalespersonID *uuid.UUID `form:"salesperson_id" parser:"encoding.TextUnmarshaler"`
	Status        string     `form:"status" binding:"omitempty,oneof=completed cancelled"`
	From          *time.Time `form:"from" time_format:"2006-01-02"`
	To            *time.Time `form:"to" time_format:"2006-01-02"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderResponse represents a sale in API responses
type OrderResponse struct {
	ID             uuid.UUID           `json:"id"`
	OrderNumber    string              `json:"order_number"`
	StoreID        uuid.UUID           `json:"store_id"`
	WarehouseID    uuid.UUID           `json:"warehouse_id"`
	SalespersonID  uuid.UUID           `json:"salesperson_id"`
	CustomerName   string              `json:"customer_name,omitempty"`
	CustomerPhone  string              `json:"customer_phone,omitempty"`
	CustomerEmail  string              `json:"customer_email,omitempty"`
	PaymentMethod  string              `json:"payment_method"`
	Status         string              `json:"status"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	TaxAmount      decimal.Decimal     `json:"tax_amount"`
	TotalAmount    decimal.Decimal     `json:"total_amount"`
	Notes          string              `json:"notes,omitempty"`
	Items          []OrderItemResponse `json:"items"`
	CancelledAt    *time.Time          `json:"cancelled_at,omitempty"`
	CancelledBy    *uuid.UUID          `json:"cancelled_by,omitempty"`
	CancelReason   string              `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			SKU:         it.SKU,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
			LineTotal:   it.LineTotal,
		}
	}
	return OrderResponse{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		StoreID:        o.StoreID,
		WarehouseID:    o.WarehouseID,
		SalespersonID:  o.SalespersonID,
		CustomerName:   o.CustomerName,
		CustomerPhone:  o.CustomerPhone,
		CustomerEmail:  o.CustomerEmail,
		PaymentMethod:  string(o.PaymentMethod),
		Status:         string(o.Status),
		Subtotal:       o.Subtotal,
		DiscountAmount: o.DiscountAmount,
		TaxAmount:      o.TaxAmount,
		TotalAmount:    o.TotalAmount,
		Notes:          o.Notes,
		Items:          items,
		CancelledAt:    o.CancelledAt,
		CancelledBy:    o.CancelledBy,
		CancelReason:   o.CancelReason,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

// PurchaseLineRequest is one line of a purchase order. A nil unit cost
// uses the product's cost price.
type PurchaseLineRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,min=1,max=1000000"`
	UnitCost  *decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseOrderRequest represents a request to draft a purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID   uuid.UUID             `json:"supplier_id" binding:"required"`
	WarehouseID  uuid.UUID             `json:"warehouse_id" binding:"required"`
	ExpectedDate *time.Time            `json:"expected_date"`
	Notes        string                `json:"notes" binding:"omitempty,max=2000"`
	Items        []PurchaseLineRequest `json:"items" binding:"dive"`
}

// UpdatePurchaseOrderRequest represents a request to edit a draft purchase order
type UpdatePurchaseOrderRequest struct {
	ExpectedDate *time.Time            `json:"expected_date"`
	Notes        *string               `json:"notes" binding:"omitempty,max=2000"`
	Items        []PurchaseLineRequest `json:"items" binding:"omitempty,dive"`
}

// CancelPurchaseOrderRequest represents a request to abandon a purchase order
type CancelPurchaseOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// PurchaseOrderListFilter represents filter options for the purchase order list
type PurchaseOrderListFilter struct {
	common.PageQuery
	SupplierID  *uuid.UUID `form:"supplier_id" parser:"encoding.TextUnmarshaler"`
	WarehouseID *uuid.UUID `form:"warehouse_id" parser:"encoding.TextUnmarshaler"`
	Status      string     `form:"status" binding:"omitempty,oneof=draft submitted approved received cancelled"`
}

// PurchaseOrderItemResponse represents a purchase order line in API responses
type PurchaseOrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID           uuid.UUID                   `json:"id"`
	PONumber     string                      `json:"po_number"`
	SupplierID   uuid.UUID                   `json:"supplier_id"`
	WarehouseID  uuid.UUID                   `json:"warehouse_id"`
	Status       string                      `json:"status"`
	ExpectedDate *time.Time                  `json:"expected_date,omitempty"`
	TotalAmount  decimal.Decimal             `json:"total_amount"`
	Notes        string                      `json:"notes,omitempty"`
	Items        []PurchaseOrderItemResponse `json:"items"`
	CreatedBy    uuid.UUID                   `json:"created_by"`
	SubmittedAt  *time.Time                  `json:"submitted_at,omitempty"`
	ApprovedBy   *uuid.UUID                  `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time                  `json:"approved_at,omitempty"`
	ReceivedBy   *uuid.UUID                  `json:"received_by,omitempty"`
	ReceivedAt   *time.Time                  `json:"received_at,omitempty"`
	CancelledAt  *time.Time                  `json:"cancelled_at,omitempty"`
	CancelReason string                      `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
	Version      int                         `json:"version"`
}

// ToPurchaseOrderResponse converts a domain PurchaseOrder to PurchaseOrderResponse
func ToPurchaseOrderResponse(o *trade.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = PurchaseOrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			SKU:         it.SKU,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitCost:    it.UnitCost,
			LineTotal:   it.LineTotal,
		}
	}
	return PurchaseOrderResponse{
		ID:           o.ID,
		PONumber:     o.PONumber,
		SupplierID:   o.SupplierID,
		WarehouseID:  o.WarehouseID,
		Status:       o.Status.String(),
		ExpectedDate: o.ExpectedDate,
		TotalAmount:  o.TotalAmount,
		Notes:        o.Notes,
		Items:        items,
		CreatedBy:    o.CreatedBy,
		SubmittedAt:  o.SubmittedAt,
		ApprovedBy:   o.ApprovedBy,
		ApprovedAt:   o.ApprovedAt,
		ReceivedBy:   o.ReceivedBy,
		ReceivedAt:   o.ReceivedAt,
		CancelledAt:  o.CancelledAt,
		CancelReason: o.CancelReason,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
		Version:      o.Version,
	}
}
