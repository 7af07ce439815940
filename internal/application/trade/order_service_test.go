package trade

import (
	"strings"
	"testing"
	"time"

	"github.com/gemline/backoffice/internal/domain/identity"
	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/gemline/backoffice/internal/domain/trade"
	"github.com/gemline/backoffice/internal/infrastructure/cache"
	"github.com/gemline/backoffice/internal/infrastructure/persistence"
	"github.com/gemline/backoffice/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newOrderService(env *testutil.Env) *OrderService {
	return NewOrderService(env.Orders, env.Items, env.Warehouses, env.Products, env.Stores, env.Users,
		env.Sequences, env.Tx, env.Publisher, zap.NewNop())
}

func TestOrderService_CreateOrder_NumbersSurviveRestart(t *testing.T) {
	env := testutil.NewEnv(t)
	st, wh := env.Store("NYC1")
	ring := env.Product("RING-1", 1000)
	env.Stock(wh.ID, ring.ID, 5, 400)
	clerk := testutil.ActorFor(env.User("clerk", identity.RoleSalesAssociate, &st.ID))
	req := CreateOrderRequest{PaymentMethod: "cash", Items: []OrderLineRequest{{ProductID: ring.ID, Quantity: 1}}}

	first, err := newOrderService(env).CreateOrder(env.Ctx, clerk, req)
	require.NoError(t, err)

	// a fresh generator stands in for a restarted process
	env.Sequences = cache.NewInMemorySequenceGenerator(time.UTC).SeedFrom(persistence.NewGormSequenceFloor(env.DB))
	second, err := newOrderService(env).CreateOrder(env.Ctx, clerk, req)
	require.NoError(t, err)

	assert.NotEqual(t, first.OrderNumber, second.OrderNumber)
	assert.True(t, strings.HasSuffix(second.OrderNumber, "-0002"), second.OrderNumber)
	assert.Equal(t, 3, env.Quantity(wh.ID, ring.ID))
}

func TestOrderService_CreateOrder_DecrementsStock(t *testing.T) {
	env := testutil.NewEnv(t)
	st, wh := env.Store("NYC1")
	ring := env.Product("RING-1", 1000)
	chain := env.Product("CHAIN-1", 250)
	env.Stock(wh.ID, ring.ID, 5, 400)
	env.Stock(wh.ID, chain.ID, 3, 100)
	clerk := env.User("clerk", identity.RoleSalesAssociate, &st.ID)

	resp, err := newOrderService(env).CreateOrder(env.Ctx, testutil.ActorFor(clerk), CreateOrderRequest{
		PaymentMethod: "card",
		CustomerName:  "  Ada Lovelace ",
		Tax:           decimal.NewFromInt(50),
		Items: []OrderLineRequest{
			{ProductID: ring.ID, Quantity: 2},
			{ProductID: chain.ID, Quantity: 1, UnitPrice: testutil.Ptr(decimal.NewFromInt(200)), Discount: decimal.NewFromInt(20)},
		},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.OrderNumber, "SO-"))
	assert.Equal(t, st.ID, resp.StoreID)
	assert.Equal(t, wh.ID, resp.WarehouseID)
	assert.Equal(t, clerk.ID, resp.SalespersonID)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, "Ada Lovelace", resp.CustomerName)
	assert.True(t, decimal.NewFromInt(2200).Equal(resp.Subtotal))
	assert.True(t, decimal.NewFromInt(20).Equal(resp.DiscountAmount))
	assert.True(t, decimal.NewFromInt(2230).Equal(resp.TotalAmount))

	assert.Equal(t, 3, env.Quantity(wh.ID, ring.ID))
	assert.Equal(t, 2, env.Quantity(wh.ID, chain.ID))

	stored, err := env.Orders.FindByID(env.Ctx, resp.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
	assert.Equal(t, []string{trade.EventTypeOrderCreated}, env.Publisher.Types())
}

func TestOrderService_CreateOrder_Rejects(t *testing.T) {
	env := testutil.NewEnv(t)
	st, wh := env.Store("NYC1")
	other, _ := env.Store("BOS1")
	ring := env.Product("RING-1", 1000)
	chain := env.Product("CHAIN-1", 250)
	env.Stock(wh.ID, ring.ID, 5, 400)
	env.Stock(wh.ID, chain.ID, 1, 100)
	clerk := env.User("clerk", identity.RoleSalesAssociate, &st.ID)
	colleague := env.User("colleague", identity.RoleSalesAssociate, &st.ID)
	svc := newOrderService(env)
	actor := testutil.ActorFor(clerk)

	t.Run("empty order", func(t *testing.T) {
		_, err := svc.CreateOrder(env.Ctx, actor, CreateOrderRequest{PaymentMethod: "cash"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("short line rolls back the whole sale", func(t *testing.T) {
		_, err := svc.CreateOrder(env.Ctx, actor, CreateOrderRequest{
			PaymentMethod: "cash",
			Items: []OrderLineRequest{
				{ProductID: ring.ID, Quantity: 1},
				{ProductID: chain.ID, Quantity: 2},
			},
		})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, 5, env.Quantity(wh.ID, ring.ID))
		assert.Equal(t, 1, env.Quantity(wh.ID, chain.ID))

		n, err := env.Orders.Count(env.Ctx, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("product never stocked here", func(t *testing.T) {
		bangle := env.Product("BANGLE-1", 800)
		_, err := svc.CreateOrder(env.Ctx, actor, CreateOrderRequest{
			PaymentMethod: "cash",
			Items:         []OrderLineRequest{{ProductID: bangle.ID, Quantity: 1}},
		})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := svc.CreateOrder(env.Ctx, actor, CreateOrderRequest{
			PaymentMethod: "cash",
			Items:         []OrderLineRequest{{ProductID: uuid.New(), Quantity: 1}},
		})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("another store", func(t *testing.T) {
		_, err := svc.CreateOrder(env.Ctx, actor, CreateOrderRequest{
			StoreID:       &other.ID,
			PaymentMethod: "cash",
			Items:         []OrderLineRequest{{ProductID: ring.ID, Quantity: 1}},
		})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("associate booking for a colleague", func(t *testing.T) {
		_, err := svc.CreateOrder(env.Ctx, actor, CreateOrderRequest{
			SalespersonID: &colleague.ID,
			PaymentMethod: "cash",
			Items:         []OrderLineRequest{{ProductID: ring.ID, Quantity: 1}},
		})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("discontinued product", func(t *testing.T) {
		old := env.Product("OLD-1", 300)
		require.NoError(t, old.Discontinue())
		require.NoError(t, env.Products.Save(env.Ctx, old))
		env.Stock(wh.ID, old.ID, 1, 100)

		_, err := svc.CreateOrder(env.Ctx, actor, CreateOrderRequest{
			PaymentMethod: "cash",
			Items:         []OrderLineRequest{{ProductID: old.ID, Quantity: 1}},
		})
		assertCode(t, err, "PRODUCT_NOT_SELLABLE")
	})

	assert.Empty(t, env.Publisher.Types())
}

func TestOrderService_CreateOrder_ManagerBooksForStaff(t *testing.T) {
	env := testutil.NewEnv(t)
	st, wh := env.Store("NYC1")
	other, _ := env.Store("BOS1")
	ring := env.Product("RING-1", 1000)
	env.Stock(wh.ID, ring.ID, 2, 400)
	manager := env.User("mgr", identity.RoleStoreManager, &st.ID)
	clerk := env.User("clerk", identity.RoleSalesAssociate, &st.ID)
	outsider := env.User("outsider", identity.RoleSalesAssociate, &other.ID)
	svc := newOrderService(env)

	_, err := svc.CreateOrder(env.Ctx, testutil.ActorFor(manager), CreateOrderRequest{
		SalespersonID: &outsider.ID,
		PaymentMethod: "cash",
		Items:         []OrderLineRequest{{ProductID: ring.ID, Quantity: 1}},
	})
	assertCode(t, err, "INVALID_SALESPERSON")

	resp, err := svc.CreateOrder(env.Ctx, testutil.ActorFor(manager), CreateOrderRequest{
		SalespersonID: &clerk.ID,
		PaymentMethod: "transfer",
		Items:         []OrderLineRequest{{ProductID: ring.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, clerk.ID, resp.SalespersonID)
}

func TestOrderService_CancelOrder(t *testing.T) {
	env := testutil.NewEnv(t)
	st, wh := env.Store("NYC1")
	other, _ := env.Store("BOS1")
	ring := env.Product("RING-1", 1000)
	env.Stock(wh.ID, ring.ID, 4, 400)
	lead := env.User("lead", identity.RoleShiftLeader, &st.ID)
	outsider := env.User("outsider", identity.RoleShiftLeader, &other.ID)
	svc := newOrderService(env)

	order, err := svc.CreateOrder(env.Ctx, testutil.ActorFor(lead), CreateOrderRequest{
		PaymentMethod: "cash",
		Items:         []OrderLineRequest{{ProductID: ring.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, env.Quantity(wh.ID, ring.ID))

	_, err = svc.CancelOrder(env.Ctx, testutil.ActorFor(outsider), order.ID, "wrong size")
	assert.ErrorIs(t, err, shared.ErrForbidden)

	_, err = svc.CancelOrder(env.Ctx, testutil.ActorFor(lead), order.ID, "  ")
	assertCode(t, err, "REASON_REQUIRED")

	cancelled, err := svc.CancelOrder(env.Ctx, testutil.ActorFor(lead), order.ID, "wrong size")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.Equal(t, "wrong size", cancelled.CancelReason)
	assert.Equal(t, 4, env.Quantity(wh.ID, ring.ID))

	_, err = svc.CancelOrder(env.Ctx, testutil.ActorFor(lead), order.ID, "again")
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.Equal(t, 4, env.Quantity(wh.ID, ring.ID))

	assert.Equal(t, []string{trade.EventTypeOrderCreated, trade.EventTypeOrderCancelled}, env.Publisher.Types())
}

func TestOrderService_GetAndList_Scoped(t *testing.T) {
	env := testutil.NewEnv(t)
	nyc, nycWH := env.Store("NYC1")
	bos, bosWH := env.Store("BOS1")
	ring := env.Product("RING-1", 1000)
	env.Stock(nycWH.ID, ring.ID, 5, 400)
	env.Stock(bosWH.ID, ring.ID, 5, 400)
	nycClerk := env.User("nyc", identity.RoleSalesAssociate, &nyc.ID)
	bosClerk := env.User("bos", identity.RoleSalesAssociate, &bos.ID)
	svc := newOrderService(env)

	sell := func(u *identity.User) *OrderResponse {
		resp, err := svc.CreateOrder(env.Ctx, testutil.ActorFor(u), CreateOrderRequest{
			PaymentMethod: "cash",
			Items:         []OrderLineRequest{{ProductID: ring.ID, Quantity: 1}},
		})
		require.NoError(t, err)
		return resp
	}
	nycOrder := sell(nycClerk)
	sell(nycClerk)
	bosOrder := sell(bosClerk)

	_, err := svc.GetOrder(env.Ctx, testutil.ActorFor(nycClerk), bosOrder.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	got, err := svc.GetOrder(env.Ctx, testutil.DistrictManager(), nycOrder.ID)
	require.NoError(t, err)
	assert.Equal(t, nycOrder.OrderNumber, got.OrderNumber)

	_, err = svc.GetOrder(env.Ctx, testutil.DistrictManager(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	mine, total, err := svc.ListOrders(env.Ctx, testutil.ActorFor(nycClerk), OrderListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, o := range mine {
		assert.Equal(t, nyc.ID, o.StoreID)
	}

	_, _, err = svc.ListOrders(env.Ctx, testutil.ActorFor(nycClerk), OrderListFilter{StoreID: &bos.ID})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	all, total, err := svc.ListOrders(env.Ctx, testutil.DistrictManager(), OrderListFilter{SalespersonID: &bosClerk.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, bosOrder.ID, all[0].ID)
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}
