package inventory

import (
	"fmt"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is the stock row for one product in one warehouse.
// Quantity counts whole pieces and never goes below zero.
type InventoryItem struct {
	shared.BaseAggregateRoot
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_wh_product,priority:1"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_wh_product,priority:2;index"`
	Quantity    int             `gorm:"not null;default:0"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// NewInventoryItem creates an empty stock row
func NewInventoryItem(warehouseID, productID uuid.UUID) (*InventoryItem, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	return &InventoryItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		WarehouseID:       warehouseID,
		ProductID:         productID,
		UnitCost:          decimal.Zero,
	}, nil
}

// Increase adds stock. When unitCost is given the row cost becomes the
// moving weighted average of the old and incoming pieces.
func (i *InventoryItem) Increase(quantity int, unitCost *decimal.Decimal) error {
	if err := shared.CheckQuantity(quantity); err != nil {
		return err
	}
	if i.Quantity > shared.MaxStockQuantity-quantity {
		return shared.NewDomainError("INVALID_QUANTITY",
			fmt.Sprintf("Stock on hand cannot exceed %d", shared.MaxStockQuantity))
	}
	if unitCost != nil && !unitCost.IsNegative() {
		oldValue := i.UnitCost.Mul(decimal.NewFromInt(int64(i.Quantity)))
		inValue := unitCost.Mul(decimal.NewFromInt(int64(quantity)))
		total := decimal.NewFromInt(int64(i.Quantity + quantity))
		i.UnitCost = oldValue.Add(inValue).Div(total).Round(2)
	}
	i.Quantity += quantity
	i.Touch()
	return nil
}

// Decrease removes stock, failing with INSUFFICIENT_STOCK if not enough is on hand
func (i *InventoryItem) Decrease(quantity int) error {
	if err := shared.CheckQuantity(quantity); err != nil {
		return err
	}
	if !i.CanFulfill(quantity) {
		return shared.NewDomainError(shared.ErrInsufficientStock.Code,
			fmt.Sprintf("Insufficient stock: requested %d, available %d", quantity, i.Quantity))
	}
	i.Quantity -= quantity
	i.Touch()
	return nil
}

// Adjust applies a signed correction, e.g. after a count or damage write-off
func (i *InventoryItem) Adjust(delta int) error {
	if delta == 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Adjustment cannot be zero")
	}
	if delta > 0 {
		return i.Increase(delta, nil)
	}
	return i.Decrease(-delta)
}

// CanFulfill reports whether quantity pieces are on hand
func (i *InventoryItem) CanFulfill(quantity int) bool {
	return i.Quantity >= quantity
}

// StockValue returns quantity times unit cost
func (i *InventoryItem) StockValue() decimal.Decimal {
	return i.UnitCost.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
