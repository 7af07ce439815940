package persistence

import (
	"context"
	"time"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/gemline/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormOrderRepository implements trade.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID loads an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var o trade.Order
	err := conn(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, sku") }).
		First(&o, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

// FindAll finds orders matching the filter, items included
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	var orders []trade.Order
	q := paginate(r.filtered(ctx, filter), filter, OrderSortFields, "created_at")
	if err := q.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var n int64
	err := r.filtered(ctx, filter).Count(&n).Error
	return n, err
}

func (r *GormOrderRepository) filtered(ctx context.Context, f shared.Filter) *gorm.DB {
	q := conn(ctx, r.db).Model(&trade.Order{})
	q = search(q, f.Search, "order_number", "customer_name", "customer_phone")
	q = eq(q, f, "store_id", "store_id")
	q = eq(q, f, "salesperson_id", "salesperson_id")
	q = eq(q, f, "status", "status")
	q = since(q, f, "from", "created_at")
	q = until(q, f, "to", "created_at")
	return q
}

// Create inserts the order together with its items
func (r *GormOrderRepository) Create(ctx context.Context, o *trade.Order) error {
	return translate(conn(ctx, r.db).Create(o).Error)
}

// Save updates the order header if its version has not moved
func (r *GormOrderRepository) Save(ctx context.Context, o *trade.Order) error {
	return saveWithLock(conn(ctx, r.db), o)
}

// SumCompletedBySalesperson totals completed orders of a salesperson created in [from, to)
func (r *GormOrderRepository) SumCompletedBySalesperson(ctx context.Context, salespersonID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := conn(ctx, r.db).Model(&trade.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("salesperson_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
			salespersonID, trade.OrderStatusCompleted, from, to).
		Row().Scan(&total)
	return total, err
}

// GormPurchaseOrderRepository implements trade.PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID loads a purchase order with its items
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var o trade.PurchaseOrder
	err := conn(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, sku") }).
		First(&o, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

// FindAll finds purchase orders matching the filter
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.PurchaseOrder, error) {
	var orders []trade.PurchaseOrder
	q := paginate(r.filtered(ctx, filter), filter, PurchaseSortFields, "created_at")
	if err := q.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Count counts purchase orders matching the filter
func (r *GormPurchaseOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var n int64
	err := r.filtered(ctx, filter).Count(&n).Error
	return n, err
}

func (r *GormPurchaseOrderRepository) filtered(ctx context.Context, f shared.Filter) *gorm.DB {
	q := conn(ctx, r.db).Model(&trade.PurchaseOrder{})
	q = search(q, f.Search, "po_number")
	q = eq(q, f, "supplier_id", "supplier_id")
	q = eq(q, f, "warehouse_id", "warehouse_id")
	q = eq(q, f, "status", "status")
	if v, ok := f.Filters["warehouse_ids"].([]uuid.UUID); ok {
		q = q.Where("warehouse_id IN ?", v)
	}
	return q
}

// Save upserts the header and replaces the item lines
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, o *trade.PurchaseOrder) error {
	return r.inTx(ctx, func(db *gorm.DB) error {
		if err := save(db, o); err != nil {
			return err
		}
		return replacePurchaseItems(db, o)
	})
}

// SaveWithLock is Save guarded by the header version
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, o *trade.PurchaseOrder) error {
	return r.inTx(ctx, func(db *gorm.DB) error {
		if err := saveWithLock(db, o); err != nil {
			return err
		}
		return replacePurchaseItems(db, o)
	})
}

func (r *GormPurchaseOrderRepository) inTx(ctx context.Context, fn func(db *gorm.DB) error) error {
	if InTx(ctx) {
		return fn(conn(ctx, r.db))
	}
	return r.db.WithContext(ctx).Transaction(fn)
}

func replacePurchaseItems(db *gorm.DB, o *trade.PurchaseOrder) error {
	if err := db.Where("order_id = ?", o.ID).Delete(&trade.PurchaseOrderItem{}).Error; err != nil {
		return err
	}
	if len(o.Items) == 0 {
		return nil
	}
	return translate(db.Create(&o.Items).Error)
}
