package trade

import (
	"context"
	"time"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderRepository defines persistence for sales orders
type OrderRepository interface {
	// FindByID loads the order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindAll supports filters: store_id, salesperson_id, status, from, to
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Create inserts the order and its items
	Create(ctx context.Context, order *Order) error
	// Save updates the order header, failing when the version has moved
	Save(ctx context.Context, order *Order) error
	// SumCompletedBySalesperson totals completed orders created in [from, to)
	SumCompletedBySalesperson(ctx context.Context, salespersonID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}

// PurchaseOrderRepository defines persistence for purchase orders
type PurchaseOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	// FindAll supports filters: supplier_id, warehouse_id, warehouse_ids, status
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Save upserts the header and replaces the items
	Save(ctx context.Context, order *PurchaseOrder) error
	// SaveWithLock writes the header only if its version has not moved
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error
}
