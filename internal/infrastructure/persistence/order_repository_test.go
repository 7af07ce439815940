package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/gemline/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(t *testing.T, number string, storeID, warehouseID, salesperson, productID uuid.UUID, qty int, price string, at time.Time) *trade.Order {
	t.Helper()
	o, err := trade.NewOrder(number, storeID, warehouseID, salesperson, trade.PaymentCard, []trade.OrderLine{
		{ProductID: productID, SKU: "RG-1", ProductName: "Ring", Quantity: qty, UnitPrice: decimal.RequireFromString(price)},
	}, decimal.Zero)
	require.NoError(t, err)
	o.CreatedAt = at
	return o
}

func TestGormOrderRepository_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	storeID, whID, sp, productID := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	o := newOrder(t, "SO-20260301-0001", storeID, whID, sp, productID, 2, "450.00", day(2026, 3, 1, 10))
	o.SetCustomer(trade.Customer{Name: "Dana Whitfield", Phone: "555-0101"})
	require.NoError(t, repo.Create(ctx, o))

	got, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "SO-20260301-0001", got.OrderNumber)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(900)))

	dup := newOrder(t, "SO-20260301-0001", storeID, whID, sp, productID, 1, "10", day(2026, 3, 1, 11))
	assert.ErrorIs(t, repo.Create(ctx, dup), shared.ErrAlreadyExists)

	found, err := repo.FindAll(ctx, shared.Filter{Search: "whitfield"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Len(t, found[0].Items, 1)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormOrderRepository_SumCompletedBySalesperson(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	storeID, whID, productID := uuid.New(), uuid.New(), uuid.New()
	sp, other := uuid.New(), uuid.New()

	orders := []*trade.Order{
		newOrder(t, "SO-1", storeID, whID, sp, productID, 1, "1000.00", day(2026, 2, 3, 12)),
		newOrder(t, "SO-2", storeID, whID, sp, productID, 2, "250.50", day(2026, 2, 27, 18)),
		newOrder(t, "SO-3", storeID, whID, sp, productID, 1, "99.00", day(2026, 3, 1, 0)),
		newOrder(t, "SO-4", storeID, whID, other, productID, 1, "500.00", day(2026, 2, 10, 9)),
		newOrder(t, "SO-5", storeID, whID, sp, productID, 1, "800.00", day(2026, 2, 11, 9)),
	}
	// SO-3 falls in the next month and SO-5 is voided
	require.NoError(t, orders[4].Cancel(sp, "customer changed mind"))
	for _, o := range orders {
		require.NoError(t, repo.Create(ctx, o))
	}

	total, err := repo.SumCompletedBySalesperson(ctx, sp, day(2026, 2, 1, 0), day(2026, 3, 1, 0))
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("1501.00")), total.String())

	none, err := repo.SumCompletedBySalesperson(ctx, uuid.New(), day(2026, 2, 1, 0), day(2026, 3, 1, 0))
	require.NoError(t, err)
	assert.True(t, none.IsZero())

	inRange, err := repo.Count(ctx, shared.DefaultFilter().
		With("salesperson_id", sp).
		With("status", trade.OrderStatusCompleted).
		With("from", day(2026, 2, 1, 0)).
		With("to", day(2026, 3, 1, 0)))
	require.NoError(t, err)
	assert.Equal(t, int64(2), inRange)
}

func TestGormPurchaseOrderRepository_SaveReplacesItems(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPurchaseOrderRepository(db)
	ctx := context.Background()

	p1, p2 := uuid.New(), uuid.New()
	po, err := trade.NewPurchaseOrder("PO-20260301-0001", uuid.New(), uuid.New(), uuid.New(), []trade.PurchaseLine{
		{ProductID: p1, SKU: "RG-1", ProductName: "Ring", Quantity: 5, UnitCost: decimal.NewFromInt(200)},
		{ProductID: p2, SKU: "NK-1", ProductName: "Necklace", Quantity: 1, UnitCost: decimal.NewFromInt(900)},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, po))

	require.NoError(t, po.ReplaceItems([]trade.PurchaseLine{
		{ProductID: p2, SKU: "NK-1", ProductName: "Necklace", Quantity: 3, UnitCost: decimal.NewFromInt(850)},
	}))
	require.NoError(t, repo.SaveWithLock(ctx, po))

	got, err := repo.FindByID(ctx, po.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, p2, got.Items[0].ProductID)
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(2550)))
	assert.Equal(t, 2, got.Version)

	stale := *got
	stale.Version = 1
	assert.ErrorIs(t, repo.SaveWithLock(ctx, &stale), ErrOptimisticLock)
}
