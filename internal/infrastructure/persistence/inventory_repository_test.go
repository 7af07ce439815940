package persistence

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gemline/backoffice/internal/domain/inventory"
	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormInventoryItemRepository_GetOrCreateForUpdate(t *testing.T) {
	db := newTestDB(t)
	fx := newFixtures(t, db)
	repo := NewGormInventoryItemRepository(db)
	tm := NewGormTxManager(db)
	ctx := context.Background()

	wh := fx.warehouse("VAULT", nil)
	p := fx.product("RG-100", 0)

	var firstID uuid.UUID
	err := tm.WithinTx(ctx, func(ctx context.Context) error {
		item, err := repo.GetOrCreateForUpdate(ctx, wh.ID, p.ID)
		if err != nil {
			return err
		}
		firstID = item.ID
		assert.Equal(t, 0, item.Quantity)
		return nil
	})
	require.NoError(t, err)

	// second call finds the existing row instead of inserting
	err = tm.WithinTx(ctx, func(ctx context.Context) error {
		item, err := repo.GetOrCreateForUpdate(ctx, wh.ID, p.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, firstID, item.ID)
		return nil
	})
	require.NoError(t, err)

	n, err := repo.Count(ctx, shared.DefaultFilter().With("warehouse_id", wh.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestGormInventoryItemRepository_FindAllFilters(t *testing.T) {
	db := newTestDB(t)
	fx := newFixtures(t, db)
	repo := NewGormInventoryItemRepository(db)
	ctx := context.Background()

	nyc := fx.store("NYC01")
	bos := fx.store("BOS01")
	nycWH := fx.warehouse("NYC01-WH", &nyc.ID)
	bosWH := fx.warehouse("BOS01-WH", &bos.ID)
	ring := fx.product("RG-1", 5)
	chain := fx.product("CH-1", 1)

	fx.stock(nycWH.ID, ring.ID, 3)
	fx.stock(nycWH.ID, chain.ID, 10)
	fx.stock(bosWH.ID, ring.ID, 8)

	t.Run("store scope joins warehouses", func(t *testing.T) {
		items, err := repo.FindAll(ctx, shared.DefaultFilter().With("store_id", nyc.ID))
		require.NoError(t, err)
		assert.Len(t, items, 2)
		for _, it := range items {
			assert.Equal(t, nycWH.ID, it.WarehouseID)
		}
	})

	t.Run("low stock compares against reorder level", func(t *testing.T) {
		f := shared.DefaultFilter().With("low_stock", true)
		items, err := repo.FindAll(ctx, f)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, ring.ID, items[0].ProductID)
		assert.Equal(t, 3, items[0].Quantity)

		n, err := repo.Count(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("both joins together", func(t *testing.T) {
		items, err := repo.FindAll(ctx, shared.DefaultFilter().With("store_id", bos.ID).With("low_stock", true))
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByWarehouseAndProduct(ctx, bosWH.ID, chain.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormInventoryItemRepository_SaveWithLock(t *testing.T) {
	db := newTestDB(t)
	fx := newFixtures(t, db)
	repo := NewGormInventoryItemRepository(db)
	ctx := context.Background()

	wh := fx.warehouse("VAULT", nil)
	p := fx.product("RG-7", 0)
	fx.stock(wh.ID, p.ID, 10)

	a, err := repo.FindByWarehouseAndProduct(ctx, wh.ID, p.ID)
	require.NoError(t, err)
	b, err := repo.FindByWarehouseAndProduct(ctx, wh.ID, p.ID)
	require.NoError(t, err)

	require.NoError(t, a.Decrease(4))
	require.NoError(t, repo.SaveWithLock(ctx, a))
	assert.Equal(t, 2, a.Version)

	require.NoError(t, b.Decrease(7))
	err = repo.SaveWithLock(ctx, b)
	assert.ErrorIs(t, err, ErrOptimisticLock)

	got, err := repo.FindByWarehouseAndProduct(ctx, wh.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Quantity)
	assert.Equal(t, 2, got.Version)
}

func TestGormInventoryItemRepository_FindForUpdateSQL(t *testing.T) {
	db, mock, _ := newMockDB(t)
	repo := NewGormInventoryItemRepository(db)
	wh, p := uuid.New(), uuid.New()

	rows := sqlmock.NewRows([]string{"id", "warehouse_id", "product_id", "quantity", "unit_cost", "version"}).
		AddRow(uuid.New(), wh, p, 4, "100.00", 3)
	mock.ExpectQuery(`SELECT \* FROM "inventory_items" WHERE .*warehouse_id = \$1 AND product_id = \$2.* ORDER BY .* LIMIT .* FOR UPDATE`).
		WithArgs(wh, p, 1).
		WillReturnRows(rows)

	item, err := repo.FindForUpdate(context.Background(), wh, p)
	require.NoError(t, err)
	assert.Equal(t, 4, item.Quantity)
	assert.Equal(t, 3, item.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormInventoryItemRepository_SaveWithLockSQL(t *testing.T) {
	db, mock, _ := newMockDB(t)
	repo := NewGormInventoryItemRepository(db)

	item, err := inventory.NewInventoryItem(uuid.New(), uuid.New())
	require.NoError(t, err)
	item.Version = 5

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "inventory_items" SET`) + `.*"version"=\$\d+.* WHERE version = \$\d+ AND .*"id" = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.SaveWithLock(context.Background(), item)
	assert.ErrorIs(t, err, ErrOptimisticLock)
	assert.Equal(t, 6, item.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTransferRepository_Filters(t *testing.T) {
	db := newTestDB(t)
	fx := newFixtures(t, db)
	repo := NewGormTransferRepository(db)
	ctx := context.Background()

	a := fx.warehouse("A-WH", nil)
	b := fx.warehouse("B-WH", nil)
	c := fx.warehouse("C-WH", nil)
	p := fx.product("RG-9", 0)
	requester := uuid.New()

	ab, err := inventory.NewInventoryTransfer("TRF-1", a.ID, b.ID, p.ID, 1, requester)
	require.NoError(t, err)
	bc, err := inventory.NewInventoryTransfer("TRF-2", b.ID, c.ID, p.ID, 2, requester)
	require.NoError(t, err)
	require.NoError(t, bc.Approve(requester))
	require.NoError(t, repo.Save(ctx, ab))
	require.NoError(t, repo.Save(ctx, bc))

	byWarehouse, err := repo.FindAll(ctx, shared.DefaultFilter().With("warehouse_id", b.ID))
	require.NoError(t, err)
	assert.Len(t, byWarehouse, 2)

	byScope, err := repo.FindAll(ctx, shared.DefaultFilter().With("warehouse_ids", []uuid.UUID{c.ID}))
	require.NoError(t, err)
	require.Len(t, byScope, 1)
	assert.Equal(t, "TRF-2", byScope[0].TransferNumber)

	approved, err := repo.Count(ctx, shared.DefaultFilter().With("status", inventory.TransferStatusApproved))
	require.NoError(t, err)
	assert.Equal(t, int64(1), approved)

	searched, err := repo.FindAll(ctx, shared.Filter{Search: "trf-1"})
	require.NoError(t, err)
	assert.Len(t, searched, 1)
}
