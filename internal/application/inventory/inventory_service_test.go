package inventory

import (
	"sync"
	"testing"

	"github.com/gemline/backoffice/internal/domain/identity"
	"github.com/gemline/backoffice/internal/domain/inventory"
	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/gemline/backoffice/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStockService(env *testutil.Env) *StockService {
	return NewStockService(env.Items, env.Warehouses, env.Products, env.Tx, env.Publisher, zap.NewNop())
}

func newTransferService(env *testutil.Env) *TransferService {
	return NewTransferService(env.Transfers, env.Items, env.Warehouses, env.Products, env.Sequences, env.Tx, env.Publisher, zap.NewNop())
}

func TestWarehouseService(t *testing.T) {
	env := testutil.NewEnv(t)
	svc := NewWarehouseService(env.Warehouses, env.Stores, zap.NewNop())

	vault, err := svc.Create(env.Ctx, CreateWarehouseRequest{Code: "vault", Name: "Central vault", Address: "1 Gold St"})
	require.NoError(t, err)
	assert.Nil(t, vault.StoreID)
	assert.Equal(t, "VAULT", vault.Code)

	_, err = svc.Create(env.Ctx, CreateWarehouseRequest{Code: "VAULT", Name: "Copy"})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)

	name := "Main vault"
	updated, err := svc.Update(env.Ctx, vault.ID, UpdateWarehouseRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Main vault", updated.Name)
	assert.Equal(t, "1 Gold St", updated.Address)

	require.NoError(t, svc.Deactivate(env.Ctx, vault.ID))
	assert.ErrorIs(t, svc.Deactivate(env.Ctx, vault.ID), shared.ErrInvalidState)
}

func TestStockService_AdjustStock(t *testing.T) {
	env := testutil.NewEnv(t)
	st, wh := env.Store("NYC1")
	product := env.Product("RG-1", 800)
	manager := testutil.ActorFor(env.User("mgr", identity.RoleStoreManager, &st.ID))
	svc := newStockService(env)

	t.Run("adding creates the row", func(t *testing.T) {
		resp, err := svc.AdjustStock(env.Ctx, manager, AdjustStockRequest{WarehouseID: wh.ID, ProductID: product.ID, Delta: 5, Reason: "count"})
		require.NoError(t, err)
		assert.Equal(t, 5, resp.Quantity)
		assert.Equal(t, "RG-1", resp.SKU)
		assert.Contains(t, env.Publisher.Types(), inventory.EventTypeStockAdjusted)
	})

	t.Run("never below zero", func(t *testing.T) {
		_, err := svc.AdjustStock(env.Ctx, manager, AdjustStockRequest{WarehouseID: wh.ID, ProductID: product.ID, Delta: -6, Reason: "lost"})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, 5, env.Quantity(wh.ID, product.ID))
	})

	t.Run("delta beyond the movement limit", func(t *testing.T) {
		_, err := svc.AdjustStock(env.Ctx, manager, AdjustStockRequest{WarehouseID: wh.ID, ProductID: product.ID, Delta: 3_000_000_000, Reason: "typo"})
		assert.ErrorIs(t, err, shared.NewDomainError("INVALID_QUANTITY", ""))
		assert.Equal(t, 5, env.Quantity(wh.ID, product.ID))
	})

	t.Run("removing from an empty warehouse", func(t *testing.T) {
		other := env.Product("RG-2", 500)
		_, err := svc.AdjustStock(env.Ctx, manager, AdjustStockRequest{WarehouseID: wh.ID, ProductID: other.ID, Delta: -1, Reason: "damaged"})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("other store is forbidden", func(t *testing.T) {
		_, otherWH := env.Store("BOS1")
		_, err := svc.AdjustStock(env.Ctx, manager, AdjustStockRequest{WarehouseID: otherWH.ID, ProductID: product.ID, Delta: 1, Reason: "count"})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("central vault needs a district manager", func(t *testing.T) {
		vault := env.Warehouse("VAULT", nil)
		_, err := svc.AdjustStock(env.Ctx, manager, AdjustStockRequest{WarehouseID: vault.ID, ProductID: product.ID, Delta: 1, Reason: "count"})
		assert.ErrorIs(t, err, shared.ErrForbidden)

		_, err = svc.AdjustStock(env.Ctx, testutil.DistrictManager(), AdjustStockRequest{WarehouseID: vault.ID, ProductID: product.ID, Delta: 1, Reason: "count"})
		assert.NoError(t, err)
	})
}

func TestStockService_ListAndGet(t *testing.T) {
	env := testutil.NewEnv(t)
	nyc, nycWH := env.Store("NYC1")
	_, bosWH := env.Store("BOS1")
	ring := env.Product("RG-1", 800)
	env.Stock(nycWH.ID, ring.ID, 1, 400)
	env.Stock(bosWH.ID, ring.ID, 9, 400)
	clerk := testutil.ActorFor(env.User("clerk", identity.RoleSalesAssociate, &nyc.ID))
	svc := newStockService(env)

	rows, total, err := svc.ListStock(env.Ctx, clerk, StockListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, nycWH.ID, rows[0].WarehouseID)
	assert.True(t, rows[0].LowStock)

	rows, total, err = svc.ListStock(env.Ctx, testutil.DistrictManager(), StockListFilter{LowStock: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, rows, 1)

	_, _, err = svc.ListStock(env.Ctx, clerk, StockListFilter{StoreID: bosWH.StoreID})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	_, err = svc.GetStock(env.Ctx, clerk, bosWH.ID, ring.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	empty := env.Product("NK-1", 300)
	got, err := svc.GetStock(env.Ctx, clerk, nycWH.ID, empty.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Quantity)
}

func TestTransferService_Workflow(t *testing.T) {
	env := testutil.NewEnv(t)
	nyc, nycWH := env.Store("NYC1")
	bos, bosWH := env.Store("BOS1")
	ring := env.Product("RG-1", 800)
	env.Stock(nycWH.ID, ring.ID, 5, 400)
	nycManager := testutil.ActorFor(env.User("nycmgr", identity.RoleStoreManager, &nyc.ID))
	bosLeader := testutil.ActorFor(env.User("boslead", identity.RoleShiftLeader, &bos.ID))
	svc := newTransferService(env)

	requested, err := svc.RequestTransfer(env.Ctx, bosLeader, RequestTransferRequest{
		SourceWarehouseID:      nycWH.ID,
		DestinationWarehouseID: bosWH.ID,
		ProductID:              ring.ID,
		Quantity:               3,
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", requested.Status)
	assert.Regexp(t, `^TRF-\d{8}-\d{4}$`, requested.TransferNumber)

	_, err = svc.CompleteTransfer(env.Ctx, nycManager, requested.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	approved, err := svc.ApproveTransfer(env.Ctx, nycManager, requested.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)

	_, err = svc.ApproveTransfer(env.Ctx, nycManager, requested.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	completed, err := svc.CompleteTransfer(env.Ctx, bosLeader, requested.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", completed.Status)
	assert.Equal(t, 2, env.Quantity(nycWH.ID, ring.ID))
	assert.Equal(t, 3, env.Quantity(bosWH.ID, ring.ID))

	moved, err := env.Items.FindByWarehouseAndProduct(env.Ctx, bosWH.ID, ring.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(400).Equal(moved.UnitCost))

	assert.Equal(t, []string{
		inventory.EventTypeTransferRequested,
		inventory.EventTypeTransferDecided,
		inventory.EventTypeTransferCompleted,
	}, env.Publisher.Types())
}

func TestTransferService_RequestValidation(t *testing.T) {
	env := testutil.NewEnv(t)
	nyc, nycWH := env.Store("NYC1")
	_, bosWH := env.Store("BOS1")
	_, laWH := env.Store("LA1")
	ring := env.Product("RG-1", 800)
	clerkLeader := testutil.ActorFor(env.User("lead", identity.RoleShiftLeader, &nyc.ID))
	svc := newTransferService(env)

	_, err := svc.RequestTransfer(env.Ctx, clerkLeader, RequestTransferRequest{
		SourceWarehouseID: nycWH.ID, DestinationWarehouseID: nycWH.ID, ProductID: ring.ID, Quantity: 1,
	})
	require.Error(t, err)

	_, err = svc.RequestTransfer(env.Ctx, clerkLeader, RequestTransferRequest{
		SourceWarehouseID: bosWH.ID, DestinationWarehouseID: laWH.ID, ProductID: ring.ID, Quantity: 1,
	})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	_, err = svc.RequestTransfer(env.Ctx, clerkLeader, RequestTransferRequest{
		SourceWarehouseID: nycWH.ID, DestinationWarehouseID: bosWH.ID, ProductID: ring.ID, Quantity: shared.MaxQuantity + 1,
	})
	assert.ErrorIs(t, err, shared.NewDomainError("INVALID_QUANTITY", ""))

	vault := env.Warehouse("VAULT", nil)
	wh, err := env.Warehouses.FindByID(env.Ctx, vault.ID)
	require.NoError(t, err)
	require.NoError(t, wh.Deactivate())
	require.NoError(t, env.Warehouses.Save(env.Ctx, wh))
	_, err = svc.RequestTransfer(env.Ctx, testutil.DistrictManager(), RequestTransferRequest{
		SourceWarehouseID: vault.ID, DestinationWarehouseID: nycWH.ID, ProductID: ring.ID, Quantity: 1,
	})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestTransferService_RejectAndScope(t *testing.T) {
	env := testutil.NewEnv(t)
	nyc, nycWH := env.Store("NYC1")
	bos, bosWH := env.Store("BOS1")
	ring := env.Product("RG-1", 800)
	dm := testutil.DistrictManager()
	bosManager := testutil.ActorFor(env.User("bosmgr", identity.RoleStoreManager, &bos.ID))
	nycClerk := testutil.ActorFor(env.User("nycclerk", identity.RoleSalesAssociate, &nyc.ID))
	svc := newTransferService(env)

	req, err := svc.RequestTransfer(env.Ctx, dm, RequestTransferRequest{
		SourceWarehouseID: nycWH.ID, DestinationWarehouseID: bosWH.ID, ProductID: ring.ID, Quantity: 1,
	})
	require.NoError(t, err)

	_, err = svc.ApproveTransfer(env.Ctx, bosManager, req.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	_, err = svc.RejectTransfer(env.Ctx, dm, req.ID, " ")
	require.Error(t, err)

	rejected, err := svc.RejectTransfer(env.Ctx, dm, req.ID, "Display piece")
	require.NoError(t, err)
	assert.Equal(t, "rejected", rejected.Status)
	assert.Equal(t, "Display piece", rejected.RejectionReason)

	list, total, err := svc.ListTransfers(env.Ctx, nycClerk, TransferListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)

	_, laWH := env.Store("LA1")
	_, err = svc.RequestTransfer(env.Ctx, dm, RequestTransferRequest{
		SourceWarehouseID: bosWH.ID, DestinationWarehouseID: laWH.ID, ProductID: ring.ID, Quantity: 1,
	})
	require.NoError(t, err)

	_, total, err = svc.ListTransfers(env.Ctx, nycClerk, TransferListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = svc.ListTransfers(env.Ctx, dm, TransferListFilter{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestTransferService_CompleteInsufficientStock(t *testing.T) {
	env := testutil.NewEnv(t)
	_, nycWH := env.Store("NYC1")
	_, bosWH := env.Store("BOS1")
	ring := env.Product("RG-1", 800)
	env.Stock(nycWH.ID, ring.ID, 1, 400)
	dm := testutil.DistrictManager()
	svc := newTransferService(env)

	req, err := svc.RequestTransfer(env.Ctx, dm, RequestTransferRequest{
		SourceWarehouseID: nycWH.ID, DestinationWarehouseID: bosWH.ID, ProductID: ring.ID, Quantity: 2,
	})
	require.NoError(t, err)
	_, err = svc.ApproveTransfer(env.Ctx, dm, req.ID)
	require.NoError(t, err)

	_, err = svc.CompleteTransfer(env.Ctx, dm, req.ID)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)

	got, err := svc.GetTransfer(env.Ctx, dm, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", got.Status, "failed completion must roll back")
	assert.Equal(t, 1, env.Quantity(nycWH.ID, ring.ID))
	assert.Zero(t, env.Quantity(bosWH.ID, ring.ID))
}

func TestTransferService_ConcurrentCompletion(t *testing.T) {
	env := testutil.NewEnv(t)
	_, nycWH := env.Store("NYC1")
	_, bosWH := env.Store("BOS1")
	ring := env.Product("RG-1", 800)
	env.Stock(nycWH.ID, ring.ID, 10, 400)
	dm := testutil.DistrictManager()
	svc := newTransferService(env)

	req, err := svc.RequestTransfer(env.Ctx, dm, RequestTransferRequest{
		SourceWarehouseID: nycWH.ID, DestinationWarehouseID: bosWH.ID, ProductID: ring.ID, Quantity: 4,
	})
	require.NoError(t, err)
	_, err = svc.ApproveTransfer(env.Ctx, dm, req.ID)
	require.NoError(t, err)

	const workers = 5
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.CompleteTransfer(env.Ctx, dm, req.ID); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 6, env.Quantity(nycWH.ID, ring.ID))
	assert.Equal(t, 4, env.Quantity(bosWH.ID, ring.ID))
}
