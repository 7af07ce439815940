package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/gemline/backoffice/internal/domain/catalog"
	"github.com/gemline/backoffice/internal/domain/identity"
	"github.com/gemline/backoffice/internal/domain/inventory"
	"github.com/gemline/backoffice/internal/domain/partner"
	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/gemline/backoffice/internal/domain/store"
	"github.com/gemline/backoffice/internal/infrastructure/cache"
	"github.com/gemline/backoffice/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Env bundles a sqlite database with every repository bound to it, so
// application services can be exercised against real queries and
// transactions.
type Env struct {
	T   *testing.T
	Ctx context.Context
	DB  *gorm.DB

	Tx        *persistence.GormTxManager
	Sequences *cache.InMemorySequenceGenerator
	Publisher *RecordingPublisher

	Users      *persistence.GormUserRepository
	Stores     *persistence.GormStoreRepository
	Categories *persistence.GormCategoryRepository
	Products   *persistence.GormProductRepository
	Suppliers  *persistence.GormSupplierRepository
	Warehouses *persistence.GormWarehouseRepository
	Items      *persistence.GormInventoryItemRepository
	Transfers  *persistence.GormTransferRepository
	Orders     *persistence.GormOrderRepository
	Purchases  *persistence.GormPurchaseOrderRepository
	Shifts     *persistence.GormShiftRepository
	Attendance *persistence.GormAttendanceRepository
	Payrolls   *persistence.GormPayrollRepository
	Reports    *persistence.GormReportRepository
}

// NewEnv creates a fresh environment backed by its own database.
func NewEnv(t *testing.T) *Env {
	t.Helper()
	return NewEnvWithDB(t, NewSQLiteDB(t))
}

// NewEnvWithDB binds the repositories to an existing connection, e.g. a
// postgres container in the integration suite.
func NewEnvWithDB(t *testing.T, db *gorm.DB) *Env {
	return &Env{
		T:          t,
		Ctx:        context.Background(),
		DB:         db,
		Tx:         persistence.NewGormTxManager(db),
		Sequences:  cache.NewInMemorySequenceGenerator(time.UTC).SeedFrom(persistence.NewGormSequenceFloor(db)),
		Publisher:  NewRecordingPublisher(),
		Users:      persistence.NewGormUserRepository(db),
		Stores:     persistence.NewGormStoreRepository(db),
		Categories: persistence.NewGormCategoryRepository(db),
		Products:   persistence.NewGormProductRepository(db),
		Suppliers:  persistence.NewGormSupplierRepository(db),
		Warehouses: persistence.NewGormWarehouseRepository(db),
		Items:      persistence.NewGormInventoryItemRepository(db),
		Transfers:  persistence.NewGormTransferRepository(db),
		Orders:     persistence.NewGormOrderRepository(db),
		Purchases:  persistence.NewGormPurchaseOrderRepository(db),
		Shifts:     persistence.NewGormShiftRepository(db),
		Attendance: persistence.NewGormAttendanceRepository(db),
		Payrolls:   persistence.NewGormPayrollRepository(db),
		Reports:    persistence.NewGormReportRepository(db),
	}
}

// Store saves an active store with a back-room warehouse.
func (e *Env) Store(code string) (*store.Store, *inventory.Warehouse) {
	e.T.Helper()
	s, err := store.NewStore(code, code+" boutique")
	require.NoError(e.T, err)
	require.NoError(e.T, e.Stores.Save(e.Ctx, s))
	return s, e.Warehouse(s.WarehouseCode(), &s.ID)
}

// Warehouse saves an active warehouse. A nil store makes it a central vault.
func (e *Env) Warehouse(code string, storeID *uuid.UUID) *inventory.Warehouse {
	e.T.Helper()
	w, err := inventory.NewWarehouse(code, code+" vault", storeID)
	require.NoError(e.T, err)
	require.NoError(e.T, e.Warehouses.Save(e.Ctx, w))
	return w
}

// Product saves a sellable gold ring priced at retail.
func (e *Env) Product(sku string, retail int64) *catalog.Product {
	e.T.Helper()
	p, err := catalog.NewProduct(sku, catalog.ProductDetails{
		Name:         sku + " ring",
		Metal:        catalog.MetalGold,
		CostPrice:    decimal.NewFromInt(retail / 2),
		RetailPrice:  decimal.NewFromInt(retail),
		ReorderLevel: 1,
	})
	require.NoError(e.T, err)
	require.NoError(e.T, e.Products.Save(e.Ctx, p))
	return p
}

// Supplier saves an active supplier.
func (e *Env) Supplier(code string) *partner.Supplier {
	e.T.Helper()
	s, err := partner.NewSupplier(code, partner.SupplierContact{Name: code + " Gems", PaymentTermsDays: 30})
	require.NoError(e.T, err)
	require.NoError(e.T, e.Suppliers.Save(e.Ctx, s))
	return s
}

// User saves an active user without hashing a password, which keeps the
// suites fast. Use identity.NewUser when the password matters.
func (e *Env) User(username string, role identity.Role, storeID *uuid.UUID) *identity.User {
	e.T.Helper()
	u := &identity.User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          username,
		PasswordHash:      "not-a-hash",
		FullName:          username,
		Role:              role,
		StoreID:           storeID,
		Status:            identity.UserStatusActive,
	}
	require.NoError(e.T, e.Users.Save(e.Ctx, u))
	return u
}

// Stock puts qty units of a product into a warehouse at the given unit cost.
func (e *Env) Stock(warehouseID, productID uuid.UUID, qty int, unitCost int64) *inventory.InventoryItem {
	e.T.Helper()
	item, err := inventory.NewInventoryItem(warehouseID, productID)
	require.NoError(e.T, err)
	cost := decimal.NewFromInt(unitCost)
	require.NoError(e.T, item.Increase(qty, &cost))
	require.NoError(e.T, e.Items.Save(e.Ctx, item))
	return item
}

// Quantity reads the current on-hand quantity, zero when no row exists.
func (e *Env) Quantity(warehouseID, productID uuid.UUID) int {
	e.T.Helper()
	item, err := e.Items.FindByWarehouseAndProduct(e.Ctx, warehouseID, productID)
	if err != nil {
		require.ErrorIs(e.T, err, shared.ErrNotFound)
		return 0
	}
	return item.Quantity
}

// DistrictManager returns a chain-wide actor.
func DistrictManager() identity.Actor {
	return identity.Actor{UserID: uuid.New(), Role: identity.RoleDistrictManager}
}

// ActorFor returns the actor of a saved user.
func ActorFor(u *identity.User) identity.Actor {
	return identity.Actor{UserID: u.ID, Role: u.Role, StoreID: u.StoreID}
}
