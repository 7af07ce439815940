package trade

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/gemline/backoffice/internal/domain/identity"
	"github.com/gemline/backoffice/internal/domain/inventory"
	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/gemline/backoffice/internal/domain/trade"
	"github.com/gemline/backoffice/internal/infrastructure/persistence"
	"github.com/gemline/backoffice/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPurchaseOrderService(env *testutil.Env) *PurchaseOrderService {
	return NewPurchaseOrderService(env.Purchases, env.Items, env.Warehouses, env.Products, env.Suppliers,
		env.Sequences, env.Tx, env.Publisher, zap.NewNop())
}

func TestPurchaseOrderService_Lifecycle(t *testing.T) {
	env := testutil.NewEnv(t)
	st, wh := env.Store("NYC1")
	supplier := env.Supplier("ANTWERP")
	ring := env.Product("RING-1", 1000)
	pendant := env.Product("PEND-1", 600)
	env.Stock(wh.ID, ring.ID, 2, 400)
	manager := testutil.ActorFor(env.User("mgr", identity.RoleStoreManager, &st.ID))
	dm := testutil.DistrictManager()
	svc := newPurchaseOrderService(env)

	po, err := svc.Create(env.Ctx, manager, CreatePurchaseOrderRequest{
		SupplierID:  supplier.ID,
		WarehouseID: wh.ID,
		Notes:       "holiday restock",
		Items: []PurchaseLineRequest{
			{ProductID: ring.ID, Quantity: 3, UnitCost: testutil.Ptr(decimal.NewFromInt(600))},
			{ProductID: pendant.ID, Quantity: 4},
		},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(po.PONumber, "PO-"))
	assert.Equal(t, "draft", po.Status)
	// 3 x 600 + 4 x 300 (cost price)
	assert.True(t, decimal.NewFromInt(3000).Equal(po.TotalAmount))

	_, err = svc.Submit(env.Ctx, manager, po.ID)
	require.NoError(t, err)

	_, err = svc.Approve(env.Ctx, manager, po.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	approved, err := svc.Approve(env.Ctx, dm, po.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)
	assert.Equal(t, dm.UserID, *approved.ApprovedBy)

	received, err := svc.Receive(env.Ctx, manager, po.ID)
	require.NoError(t, err)
	assert.Equal(t, "received", received.Status)
	assert.NotNil(t, received.ReceivedAt)

	assert.Equal(t, 5, env.Quantity(wh.ID, ring.ID))
	assert.Equal(t, 4, env.Quantity(wh.ID, pendant.ID))

	// (2 x 400 + 3 x 600) / 5
	item, err := env.Items.FindByWarehouseAndProduct(env.Ctx, wh.ID, ring.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(520).Equal(item.UnitCost))

	_, err = svc.Receive(env.Ctx, manager, po.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.Equal(t, 5, env.Quantity(wh.ID, ring.ID))

	assert.Equal(t, []string{trade.EventTypePurchaseOrderReceived}, env.Publisher.Types())
}

// lockRecorder notes the product of every stock row locked for update
type lockRecorder struct {
	*persistence.GormInventoryItemRepository
	locked []uuid.UUID
}

func (r *lockRecorder) GetOrCreateForUpdate(ctx context.Context, warehouseID, productID uuid.UUID) (*inventory.InventoryItem, error) {
	r.locked = append(r.locked, productID)
	return r.GormInventoryItemRepository.GetOrCreateForUpdate(ctx, warehouseID, productID)
}

func TestPurchaseOrderService_ReceiveLocksInProductOrder(t *testing.T) {
	env := testutil.NewEnv(t)
	_, wh := env.Store("NYC1")
	supplier := env.Supplier("ANTWERP")
	dm := testutil.DistrictManager()

	var lines []PurchaseLineRequest
	for _, sku := range []string{"RING-1", "PEND-1", "BRAC-1", "EAR-1"} {
		lines = append(lines, PurchaseLineRequest{ProductID: env.Product(sku, 500).ID, Quantity: 1})
	}
	// listed in descending ID order, the opposite of the lock order
	slices.SortFunc(lines, func(a, b PurchaseLineRequest) int {
		return bytes.Compare(b.ProductID[:], a.ProductID[:])
	})

	recorder := &lockRecorder{GormInventoryItemRepository: env.Items}
	svc := NewPurchaseOrderService(env.Purchases, recorder, env.Warehouses, env.Products, env.Suppliers,
		env.Sequences, env.Tx, env.Publisher, zap.NewNop())

	po, err := svc.Create(env.Ctx, dm, CreatePurchaseOrderRequest{SupplierID: supplier.ID, WarehouseID: wh.ID, Items: lines})
	require.NoError(t, err)
	_, err = svc.Submit(env.Ctx, dm, po.ID)
	require.NoError(t, err)
	_, err = svc.Approve(env.Ctx, dm, po.ID)
	require.NoError(t, err)
	_, err = svc.Receive(env.Ctx, dm, po.ID)
	require.NoError(t, err)

	require.Len(t, recorder.locked, len(lines))
	assert.True(t, slices.IsSortedFunc(recorder.locked, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	}), "stock rows must be locked in product ID order")
}

func TestPurchaseOrderService_ReceiveRequiresApproval(t *testing.T) {
	env := testutil.NewEnv(t)
	_, wh := env.Store("NYC1")
	supplier := env.Supplier("ANTWERP")
	ring := env.Product("RING-1", 1000)
	dm := testutil.DistrictManager()
	svc := newPurchaseOrderService(env)

	po, err := svc.Create(env.Ctx, dm, CreatePurchaseOrderRequest{
		SupplierID:  supplier.ID,
		WarehouseID: wh.ID,
		Items:       []PurchaseLineRequest{{ProductID: ring.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.Receive(env.Ctx, dm, po.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.Equal(t, 0, env.Quantity(wh.ID, ring.ID))
}

func TestPurchaseOrderService_Create_Validation(t *testing.T) {
	env := testutil.NewEnv(t)
	st, wh := env.Store("NYC1")
	_, otherWH := env.Store("BOS1")
	vault := env.Warehouse("VAULT", nil)
	supplier := env.Supplier("ANTWERP")
	retired := env.Supplier("OLDCO")
	require.NoError(t, retired.Deactivate())
	require.NoError(t, env.Suppliers.Save(env.Ctx, retired))
	ring := env.Product("RING-1", 1000)
	manager := testutil.ActorFor(env.User("mgr", identity.RoleStoreManager, &st.ID))
	svc := newPurchaseOrderService(env)
	line := []PurchaseLineRequest{{ProductID: ring.ID, Quantity: 1}}

	_, err := svc.Create(env.Ctx, manager, CreatePurchaseOrderRequest{SupplierID: supplier.ID, WarehouseID: wh.ID})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = svc.Create(env.Ctx, manager, CreatePurchaseOrderRequest{SupplierID: retired.ID, WarehouseID: wh.ID, Items: line})
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	_, err = svc.Create(env.Ctx, manager, CreatePurchaseOrderRequest{SupplierID: supplier.ID, WarehouseID: otherWH.ID, Items: line})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	_, err = svc.Create(env.Ctx, manager, CreatePurchaseOrderRequest{SupplierID: supplier.ID, WarehouseID: vault.ID, Items: line})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	_, err = svc.Create(env.Ctx, testutil.DistrictManager(), CreatePurchaseOrderRequest{SupplierID: supplier.ID, WarehouseID: vault.ID, Items: line})
	assert.NoError(t, err)
}

func TestPurchaseOrderService_Update(t *testing.T) {
	env := testutil.NewEnv(t)
	_, wh := env.Store("NYC1")
	supplier := env.Supplier("ANTWERP")
	ring := env.Product("RING-1", 1000)
	pendant := env.Product("PEND-1", 600)
	dm := testutil.DistrictManager()
	svc := newPurchaseOrderService(env)

	po, err := svc.Create(env.Ctx, dm, CreatePurchaseOrderRequest{
		SupplierID:  supplier.ID,
		WarehouseID: wh.ID,
		Items:       []PurchaseLineRequest{{ProductID: ring.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	notes := "call before delivery"
	updated, err := svc.Update(env.Ctx, dm, po.ID, UpdatePurchaseOrderRequest{
		Notes: &notes,
		Items: []PurchaseLineRequest{{ProductID: pendant.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, notes, updated.Notes)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, pendant.ID, updated.Items[0].ProductID)

	reloaded, err := svc.Get(env.Ctx, dm, po.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.True(t, decimal.NewFromInt(600).Equal(reloaded.TotalAmount))

	_, err = svc.Submit(env.Ctx, dm, po.ID)
	require.NoError(t, err)
	_, err = svc.Update(env.Ctx, dm, po.ID, UpdatePurchaseOrderRequest{Notes: &notes})
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	cancelled, err := svc.Cancel(env.Ctx, dm, po.ID, "supplier out of stock")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)

	_, err = svc.Cancel(env.Ctx, dm, po.ID, "again")
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestPurchaseOrderService_Scope(t *testing.T) {
	env := testutil.NewEnv(t)
	nyc, nycWH := env.Store("NYC1")
	_, bosWH := env.Store("BOS1")
	supplier := env.Supplier("ANTWERP")
	ring := env.Product("RING-1", 1000)
	dm := testutil.DistrictManager()
	svc := newPurchaseOrderService(env)

	create := func(warehouseID uuid.UUID) *PurchaseOrderResponse {
		resp, err := svc.Create(env.Ctx, dm, CreatePurchaseOrderRequest{
			SupplierID:  supplier.ID,
			WarehouseID: warehouseID,
			Items:       []PurchaseLineRequest{{ProductID: ring.ID, Quantity: 1}},
		})
		require.NoError(t, err)
		return resp
	}
	create(nycWH.ID)
	bosPO := create(bosWH.ID)

	manager := testutil.ActorFor(env.User("mgr", identity.RoleStoreManager, &nyc.ID))

	_, err := svc.Get(env.Ctx, manager, bosPO.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	items, total, err := svc.List(env.Ctx, manager, PurchaseOrderListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, nycWH.ID, items[0].WarehouseID)

	_, total, err = svc.List(env.Ctx, dm, PurchaseOrderListFilter{Status: "draft"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}
