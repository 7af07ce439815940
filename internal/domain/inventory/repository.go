package inventory

import (
	"context"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// WarehouseRepository defines persistence for warehouses
type WarehouseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Warehouse, error)
	FindByStore(ctx context.Context, storeID uuid.UUID) (*Warehouse, error)
	// FindAll supports filters: store_id, is_active
	FindAll(ctx context.Context, filter shared.Filter) ([]Warehouse, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, warehouse *Warehouse) error
}

// InventoryItemRepository defines persistence for stock rows
type InventoryItemRepository interface {
	FindByWarehouseAndProduct(ctx context.Context, warehouseID, productID uuid.UUID) (*InventoryItem, error)
	// FindAll supports filters: warehouse_id, product_id, low_stock (bool), store_id
	FindAll(ctx context.Context, filter shared.Filter) ([]InventoryItem, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// FindForUpdate loads a stock row with a row lock. Must run inside a transaction.
	FindForUpdate(ctx context.Context, warehouseID, productID uuid.UUID) (*InventoryItem, error)
	// GetOrCreateForUpdate ensures the row exists and returns it locked
	GetOrCreateForUpdate(ctx context.Context, warehouseID, productID uuid.UUID) (*InventoryItem, error)
	Save(ctx context.Context, item *InventoryItem) error
	// SaveWithLock writes the row only if its version has not moved
	SaveWithLock(ctx context.Context, item *InventoryItem) error
}

// TransferRepository defines persistence for inventory transfers
type TransferRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryTransfer, error)
	// FindForUpdate loads the transfer with a row lock. Must run inside a transaction.
	FindForUpdate(ctx context.Context, id uuid.UUID) (*InventoryTransfer, error)
	// FindAll supports filters: status, warehouse_id (either end), product_id
	FindAll(ctx context.Context, filter shared.Filter) ([]InventoryTransfer, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, transfer *InventoryTransfer) error
}
