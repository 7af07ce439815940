package inventory

import (
	"time"

	"github.com/gemline/backoffice/internal/application/common"
	"github.com/gemline/backoffice/internal/domain/catalog"
	"github.com/gemline/backoffice/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateWarehouseRequest represents a request to create a warehouse
type CreateWarehouseRequest struct {
	Code    string     `json:"code" binding:"required,min=1,max=50"`
	Name    string     `json:"name" binding:"required,max=200"`
	StoreID *uuid.UUID `json:"store_id"`
	Address string     `json:"address" binding:"omitempty,max=500"`
}

// UpdateWarehouseRequest represents a request to update a warehouse
type UpdateWarehouseRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=200"`
	Address *string `json:"address" binding:"omitempty,max=500"`
}

// WarehouseListFilter represents filter options for the warehouse list
type WarehouseListFilter struct {
	common.PageQuery
	StoreID  *uuid.UUID `form:"store_id" parser:"encoding.TextUnmarshaler"`
	IsActive *bool      `form:"is_active"`
}

// WarehouseResponse represents a warehouse in API responses
type WarehouseResponse struct {
	ID        uuid.UUID  `json:"id"`
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	StoreID   *uuid.UUID `json:"store_id,omitempty"`
	Address   string     `json:"address,omitempty"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ToWarehouseResponse converts a domain Warehouse to WarehouseResponse
func ToWarehouseResponse(w *inventory.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:        w.ID,
		Code:      w.Code,
		Name:      w.Name,
		StoreID:   w.StoreID,
		Address:   w.Address,
		IsActive:  w.IsActive,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// StockListFilter represents filter options for the stock list
type StockListFilter struct {
	common.PageQuery
	WarehouseID *uuid.UUID `form:"warehouse_id" parser:"encoding.TextUnmarshaler"`
	ProductID   *uuid.UUID `form:"product_id" parser:"encoding.TextUnmarshaler"`
	StoreID     *uuid.UUID `form:"store_id" parser:"encoding.TextUnmarshaler"`
	LowStock    bool       `form:"low_stock"`
}

// AdjustStockRequest represents a manual stock correction
type AdjustStockRequest struct {
	WarehouseID uuid.UUID `json:"warehouse_id" binding:"required"`
	ProductID   uuid.UUID `json:"product_id" binding:"required"`
	Delta       int       `json:"delta" binding:"required,ne=0,min=-1000000,max=1000000"`
	Reason      string    `json:"reason" binding:"required,min=1,max=500"`
}

// StockResponse represents a stock row in API responses
type StockResponse struct {
	ID           uuid.UUID       `json:"id"`
	WarehouseID  uuid.UUID       `json:"warehouse_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	SKU          string          `json:"sku,omitempty"`
	ProductName  string          `json:"product_name,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	StockValue   decimal.Decimal `json:"stock_value"`
	ReorderLevel int             `json:"reorder_level"`
	LowStock     bool            `json:"low_stock"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToStockResponse converts a stock row, enriched with its product when known
func ToStockResponse(item *inventory.InventoryItem, product *catalog.Product) StockResponse {
	r := StockResponse{
		ID:          item.ID,
		WarehouseID: item.WarehouseID,
		ProductID:   item.ProductID,
		Quantity:    item.Quantity,
		UnitCost:    item.UnitCost,
		StockValue:  item.StockValue(),
		UpdatedAt:   item.UpdatedAt,
	}
	if product != nil {
		r.SKU = product.SKU
		r.ProductName = product.Name
		r.ReorderLevel = product.ReorderLevel
		r.LowStock = item.Quantity <= product.ReorderLevel
	}
	return r
}

// RequestTransferRequest represents a request to move stock between warehouses
type RequestTransferRequest struct {
	SourceWarehouseID      uuid.UUID `json:"source_warehouse_id" binding:"required"`
	DestinationWarehouseID uuid.UUID `json:"destination_warehouse_id" binding:"required"`
	ProductID              uuid.UUID `json:"product_id" binding:"required"`
	Quantity               int       `json:"quantity" binding:"required,min=1,max=1000000"`
	Notes                  string    `json:"notes" binding:"omitempty,max=2000"`
}

// RejectTransferRequest carries the rejection reason
type RejectTransferRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// TransferListFilter represents filter options for the transfer list
type TransferListFilter struct {
	common.PageQuery
	Status      string     `form:"status" binding:"omitempty,oneof=pending approved rejected completed"`
	WarehouseID *uuid.UUID `form:"warehouse_id" parser:"encoding.TextUnmarshaler"`
	ProductID   *uuid.UUID `form:"product_id" parser:"encoding.TextUnmarshaler"`
}

// TransferResponse represents a transfer in API responses
type TransferResponse struct {
	ID                     uuid.UUID  `json:"id"`
	TransferNumber         string     `json:"transfer_number"`
	SourceWarehouseID      uuid.UUID  `json:"source_warehouse_id"`
	DestinationWarehouseID uuid.UUID  `json:"destination_warehouse_id"`
	ProductID              uuid.UUID  `json:"product_id"`
	Quantity               int        `json:"quantity"`
	Status                 string     `json:"status"`
	Notes                  string     `json:"notes,omitempty"`
	RequestedBy            uuid.UUID  `json:"requested_by"`
	DecidedBy              *uuid.UUID `json:"decided_by,omitempty"`
	DecidedAt              *time.Time `json:"decided_at,omitempty"`
	RejectionReason        string     `json:"rejection_reason,omitempty"`
	CompletedBy            *uuid.UUID `json:"completed_by,omitempty"`
	CompletedAt            *time.Time `json:"completed_at,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// ToTransferResponse converts a domain InventoryTransfer to TransferResponse
func ToTransferResponse(t *inventory.InventoryTransfer) TransferResponse {
	return TransferResponse{
		ID:                     t.ID,
		TransferNumber:         t.TransferNumber,
		SourceWarehouseID:      t.SourceWarehouseID,
		DestinationWarehouseID: t.DestinationWarehouseID,
		ProductID:              t.ProductID,
		Quantity:               t.Quantity,
		Status:                 t.Status.String(),
		Notes:                  t.Notes,
		RequestedBy:            t.RequestedBy,
		DecidedBy:              t.DecidedBy,
		DecidedAt:              t.DecidedAt,
		RejectionReason:        t.RejectionReason,
		CompletedBy:            t.CompletedBy,
		CompletedAt:            t.CompletedAt,
		CreatedAt:              t.CreatedAt,
		UpdatedAt:              t.UpdatedAt,
	}
}
