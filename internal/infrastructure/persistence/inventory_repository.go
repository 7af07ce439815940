package persistence

import (
	"context"
	"strings"

	"github.com/gemline/backoffice/internal/domain/inventory"
	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWarehouseRepository implements inventory.WarehouseRepository using GORM
type GormWarehouseRepository struct {
	db *gorm.DB
}

// NewGormWarehouseRepository creates a new GormWarehouseRepository
func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

// FindByID finds a warehouse by ID
func (r *GormWarehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Warehouse, error) {
	var w inventory.Warehouse
	if err := conn(ctx, r.db).First(&w, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &w, nil
}

// FindByStore returns the active back-room warehouse of a store
func (r *GormWarehouseRepository) FindByStore(ctx context.Context, storeID uuid.UUID) (*inventory.Warehouse, error) {
	var w inventory.Warehouse
	err := conn(ctx, r.db).
		Where("store_id = ? AND is_active = ?", storeID, true).
		Order("created_at").
		First(&w).Error
	if err != nil {
		return nil, translate(err)
	}
	return &w, nil
}

// FindAll finds warehouses matching the filter
func (r *GormWarehouseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Warehouse, error) {
	var ws []inventory.Warehouse
	q := paginate(r.filtered(ctx, filter), filter, WarehouseSortFields, "code")
	if err := q.Find(&ws).Error; err != nil {
		return nil, err
	}
	return ws, nil
}

// Count counts warehouses matching the filter
func (r *GormWarehouseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var n int64
	err := r.filtered(ctx, filter).Count(&n).Error
	return n, err
}

func (r *GormWarehouseRepository) filtered(ctx context.Context, f shared.Filter) *gorm.DB {
	q := conn(ctx, r.db).Model(&inventory.Warehouse{})
	q = search(q, f.Search, "code", "name")
	q = eq(q, f, "store_id", "store_id")
	return eq(q, f, "is_active", "is_active")
}

// ExistsByCode checks if a warehouse code is taken
func (r *GormWarehouseRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return exists(conn(ctx, r.db), &inventory.Warehouse{}, "code = ?", strings.ToUpper(strings.TrimSpace(code)))
}

// Save creates or updates a warehouse
func (r *GormWarehouseRepository) Save(ctx context.Context, w *inventory.Warehouse) error {
	return save(conn(ctx, r.db), w)
}

// GormInventoryItemRepository implements inventory.InventoryItemRepository using GORM
type GormInventoryItemRepository struct {
	db *gorm.DB
}

// NewGormInventoryItemRepository creates a new GormInventoryItemRepository
func NewGormInventoryItemRepository(db *gorm.DB) *GormInventoryItemRepository {
	return &GormInventoryItemRepository{db: db}
}

// FindByWarehouseAndProduct finds the stock row of a product in a warehouse
func (r *GormInventoryItemRepository) FindByWarehouseAndProduct(ctx context.Context, warehouseID, productID uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	err := conn(ctx, r.db).
		Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
		First(&item).Error
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// FindAll finds stock rows matching the filter
func (r *GormInventoryItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryItem, error) {
	var items []inventory.InventoryItem
	field := ValidateSortField(filter.OrderBy, InventorySortFields, "updated_at")
	q := r.filtered(ctx, filter).Order("inventory_items." + field + " " + ValidateSortOrder(filter.OrderDir))
	if filter.PageSize > 0 {
		q = q.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	if err := q.Select("inventory_items.*").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Count counts stock rows matching the filter
func (r *GormInventoryItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var n int64
	err := r.filtered(ctx, filter).Count(&n).Error
	return n, err
}

func (r *GormInventoryItemRepository) filtered(ctx context.Context, f shared.Filter) *gorm.DB {
	q := conn(ctx, r.db).Model(&inventory.InventoryItem{})
	q = eq(q, f, "warehouse_id", "inventory_items.warehouse_id")
	q = eq(q, f, "product_id", "inventory_items.product_id")
	if v, ok := f.Filters["store_id"]; ok && v != nil {
		q = q.Joins("JOIN warehouses ON warehouses.id = inventory_items.warehouse_id").
			Where("warehouses.store_id = ?", v)
	}
	if low, ok := f.Filters["low_stock"].(bool); ok && low {
		q = q.Joins("JOIN products ON products.id = inventory_items.product_id").
			Where("inventory_items.quantity <= products.reorder_level")
	}
	return q
}

// FindForUpdate loads a stock row and holds a row lock until the transaction ends
func (r *GormInventoryItemRepository) FindForUpdate(ctx context.Context, warehouseID, productID uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	err := forUpdate(conn(ctx, r.db)).
		Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
		First(&item).Error
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// GetOrCreateForUpdate inserts an empty row when none exists, then locks it.
// Concurrent callers race on the unique (warehouse_id, product_id) index and
// the loser's insert becomes a no-op.
func (r *GormInventoryItemRepository) GetOrCreateForUpdate(ctx context.Context, warehouseID, productID uuid.UUID) (*inventory.InventoryItem, error) {
	fresh, err := inventory.NewInventoryItem(warehouseID, productID)
	if err != nil {
		return nil, err
	}
	err = conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "warehouse_id"}, {Name: "product_id"}},
		DoNothing: true,
	}).Create(fresh).Error
	if err != nil {
		return nil, translate(err)
	}
	return r.FindForUpdate(ctx, warehouseID, productID)
}

// Save creates or updates a stock row
func (r *GormInventoryItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	return save(conn(ctx, r.db), item)
}

// SaveWithLock updates a stock row with optimistic locking
func (r *GormInventoryItemRepository) SaveWithLock(ctx context.Context, item *inventory.InventoryItem) error {
	return saveWithLock(conn(ctx, r.db), item)
}

// GormTransferRepository implements inventory.TransferRepository using GORM
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

// FindByID finds a transfer by ID
func (r *GormTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryTransfer, error) {
	var t inventory.InventoryTransfer
	if err := conn(ctx, r.db).First(&t, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// FindForUpdate loads a transfer and holds a row lock until the transaction ends
func (r *GormTransferRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*inventory.InventoryTransfer, error) {
	var t inventory.InventoryTransfer
	if err := forUpdate(conn(ctx, r.db)).First(&t, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// FindAll finds transfers matching the filter
func (r *GormTransferRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryTransfer, error) {
	var ts []inventory.InventoryTransfer
	q := paginate(r.filtered(ctx, filter), filter, TransferSortFields, "created_at")
	if err := q.Find(&ts).Error; err != nil {
		return nil, err
	}
	return ts, nil
}

// Count counts transfers matching the filter
func (r *GormTransferRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var n int64
	err := r.filtered(ctx, filter).Count(&n).Error
	return n, err
}

func (r *GormTransferRepository) filtered(ctx context.Context, f shared.Filter) *gorm.DB {
	q := conn(ctx, r.db).Model(&inventory.InventoryTransfer{})
	q = search(q, f.Search, "transfer_number")
	q = eq(q, f, "status", "status")
	q = eq(q, f, "product_id", "product_id")
	if v, ok := f.Filters["warehouse_id"]; ok && v != nil {
		q = q.Where("(source_warehouse_id = ? OR destination_warehouse_id = ?)", v, v)
	}
	if v, ok := f.Filters["warehouse_ids"].([]uuid.UUID); ok {
		q = q.Where("(source_warehouse_id IN ? OR destination_warehouse_id IN ?)", v, v)
	}
	return q
}

// Save creates or updates a transfer
func (r *GormTransferRepository) Save(ctx context.Context, t *inventory.InventoryTransfer) error {
	return save(conn(ctx, r.db), t)
}
