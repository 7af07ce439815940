package persistence

import (
	"context"
	"strings"

	"github.com/gemline/backoffice/internal/domain/catalog"
	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCategoryRepository implements catalog.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var c catalog.Category
	if err := conn(ctx, r.db).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// FindAll finds categories matching the filter
func (r *GormCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	var cats []catalog.Category
	q := paginate(r.filtered(ctx, filter), filter, CategorySortFields, "code")
	if err := q.Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

// Count counts categories matching the filter
func (r *GormCategoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var n int64
	err := r.filtered(ctx, filter).Count(&n).Error
	return n, err
}

func (r *GormCategoryRepository) filtered(ctx context.Context, f shared.Filter) *gorm.DB {
	q := conn(ctx, r.db).Model(&catalog.Category{})
	q = search(q, f.Search, "code", "name")
	return eq(q, f, "parent_id", "parent_id")
}

// ExistsByCode checks if a category code is taken
func (r *GormCategoryRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return exists(conn(ctx, r.db), &catalog.Category{}, "code = ?", strings.ToUpper(strings.TrimSpace(code)))
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, c *catalog.Category) error {
	return save(conn(ctx, r.db), c)
}

// Delete removes a category
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := conn(ctx, r.db).Delete(&catalog.Category{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var p catalog.Product
	if err := conn(ctx, r.db).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// FindByIDs loads the products with the given IDs; missing IDs are skipped
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []catalog.Product
	err := conn(ctx, r.db).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

// FindAll finds products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	q := paginate(r.filtered(ctx, filter), filter, ProductSortFields, "sku")
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var n int64
	err := r.filtered(ctx, filter).Count(&n).Error
	return n, err
}

func (r *GormProductRepository) filtered(ctx context.Context, f shared.Filter) *gorm.DB {
	q := conn(ctx, r.db).Model(&catalog.Product{})
	q = search(q, f.Search, "sku", "name")
	q = eq(q, f, "category_id", "category_id")
	q = eq(q, f, "supplier_id", "supplier_id")
	q = eq(q, f, "status", "status")
	q = eq(q, f, "metal", "metal")
	return q
}

// CountByCategory counts products referencing the category
func (r *GormProductRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Model(&catalog.Product{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, err
}

// ExistsBySKU checks if a SKU is taken
func (r *GormProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	return exists(conn(ctx, r.db), &catalog.Product{}, "sku = ?", strings.ToUpper(strings.TrimSpace(sku)))
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	return save(conn(ctx, r.db), p)
}
