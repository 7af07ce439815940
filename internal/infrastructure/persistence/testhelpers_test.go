package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gemline/backoffice/internal/domain/catalog"
	"github.com/gemline/backoffice/internal/domain/identity"
	"github.com/gemline/backoffice/internal/domain/inventory"
	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/gemline/backoffice/internal/domain/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory sqlite database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, NewDatabaseFromGorm(db).AutoMigrate())
	return db
}

// newMockDB wires gorm's postgres dialector onto sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return db, mock, mockDB
}

type fixtures struct {
	t   *testing.T
	db  *gorm.DB
	ctx context.Context
}

func newFixtures(t *testing.T, db *gorm.DB) *fixtures {
	return &fixtures{t: t, db: db, ctx: context.Background()}
}

func (f *fixtures) store(code string) *store.Store {
	f.t.Helper()
	s, err := store.NewStore(code, code+" store")
	require.NoError(f.t, err)
	require.NoError(f.t, NewGormStoreRepository(f.db).Save(f.ctx, s))
	return s
}

func (f *fixtures) warehouse(code string, storeID *uuid.UUID) *inventory.Warehouse {
	f.t.Helper()
	w, err := inventory.NewWarehouse(code, code+" vault", storeID)
	require.NoError(f.t, err)
	require.NoError(f.t, NewGormWarehouseRepository(f.db).Save(f.ctx, w))
	return w
}

func (f *fixtures) product(sku string, reorder int) *catalog.Product {
	f.t.Helper()
	p, err := catalog.NewProduct(sku, catalog.ProductDetails{
		Name:         sku + " ring",
		Metal:        catalog.MetalGold,
		CostPrice:    decimal.NewFromInt(300),
		RetailPrice:  decimal.NewFromInt(750),
		ReorderLevel: reorder,
	})
	require.NoError(f.t, err)
	require.NoError(f.t, NewGormProductRepository(f.db).Save(f.ctx, p))
	return p
}

// user skips bcrypt hashing to keep the suite fast
func (f *fixtures) user(username string, role identity.Role, storeID *uuid.UUID) *identity.User {
	f.t.Helper()
	u := &identity.User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          username,
		PasswordHash:      "not-a-hash",
		FullName:          username,
		Role:              role,
		StoreID:           storeID,
		Status:            identity.UserStatusActive,
	}
	require.NoError(f.t, NewGormUserRepository(f.db).Save(f.ctx, u))
	return u
}

func (f *fixtures) stock(warehouseID, productID uuid.UUID, qty int) *inventory.InventoryItem {
	f.t.Helper()
	item, err := inventory.NewInventoryItem(warehouseID, productID)
	require.NoError(f.t, err)
	cost := decimal.NewFromInt(300)
	require.NoError(f.t, item.Increase(qty, &cost))
	require.NoError(f.t, NewGormInventoryItemRepository(f.db).Save(f.ctx, item))
	return item
}

func ptr[T any](v T) *T { return &v }

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}
