package persistence

import (
	"context"
	"strings"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/gemline/backoffice/internal/domain/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStoreRepository implements store.StoreRepository using GORM
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GormStoreRepository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// FindByID finds a store by its ID
func (r *GormStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.Store, error) {
	var s store.Store
	if err := conn(ctx, r.db).First(&s, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// FindByCode finds a store by its code
func (r *GormStoreRepository) FindByCode(ctx context.Context, code string) (*store.Store, error) {
	var s store.Store
	if err := conn(ctx, r.db).First(&s, "code = ?", strings.ToUpper(strings.TrimSpace(code))).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// FindAll finds all stores matching the filter
func (r *GormStoreRepository) FindAll(ctx context.Context, filter shared.Filter) ([]store.Store, error) {
	var stores []store.Store
	q := paginate(r.filtered(ctx, filter), filter, StoreSortFields, "code")
	if err := q.Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// Count counts stores matching the filter
func (r *GormStoreRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var n int64
	err := r.filtered(ctx, filter).Count(&n).Error
	return n, err
}

func (r *GormStoreRepository) filtered(ctx context.Context, f shared.Filter) *gorm.DB {
	q := conn(ctx, r.db).Model(&store.Store{})
	q = search(q, f.Search, "code", "name", "city")
	q = eq(q, f, "status", "status")
	q = eq(q, f, "city", "city")
	return q
}

// ExistsByCode checks if a store code is taken
func (r *GormStoreRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return exists(conn(ctx, r.db), &store.Store{}, "code = ?", strings.ToUpper(strings.TrimSpace(code)))
}

// Save creates or updates a store
func (r *GormStoreRepository) Save(ctx context.Context, s *store.Store) error {
	return save(conn(ctx, r.db), s)
}
