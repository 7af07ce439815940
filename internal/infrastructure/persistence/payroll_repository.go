package persistence

import (
	"context"

	"github.com/gemline/backoffice/internal/domain/payroll"
	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPayrollRepository implements payroll.Repository using GORM
type GormPayrollRepository struct {
	db *gorm.DB
}

// NewGormPayrollRepository creates a new GormPayrollRepository
func NewGormPayrollRepository(db *gorm.DB) *GormPayrollRepository {
	return &GormPayrollRepository{db: db}
}

// FindByID finds a payroll record by ID
func (r *GormPayrollRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.Payroll, error) {
	var p payroll.Payroll
	if err := conn(ctx, r.db).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// Exists reports whether the user already has a payroll for the period
func (r *GormPayrollRepository) Exists(ctx context.Context, userID uuid.UUID, p payroll.Period) (bool, error) {
	return exists(conn(ctx, r.db), &payroll.Payroll{}, "user_id = ? AND month = ? AND year = ?", userID, p.Month, p.Year)
}

// FindAll finds payroll records matching the filter
func (r *GormPayrollRepository) FindAll(ctx context.Context, filter shared.Filter) ([]payroll.Payroll, error) {
	var out []payroll.Payroll
	q := paginate(r.filtered(ctx, filter), filter, PayrollSortFields, "created_at")
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Count counts payroll records matching the filter
func (r *GormPayrollRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var n int64
	err := r.filtered(ctx, filter).Count(&n).Error
	return n, err
}

func (r *GormPayrollRepository) filtered(ctx context.Context, f shared.Filter) *gorm.DB {
	q := conn(ctx, r.db).Model(&payroll.Payroll{})
	q = eq(q, f, "month", "month")
	q = eq(q, f, "year", "year")
	q = eq(q, f, "store_id", "store_id")
	q = eq(q, f, "user_id", "user_id")
	q = eq(q, f, "status", "status")
	return q
}

// CreateIfAbsent inserts unless (user_id, month, year) already exists.
// Concurrent batch runs therefore never produce duplicates.
func (r *GormPayrollRepository) CreateIfAbsent(ctx context.Context, p *payroll.Payroll) (bool, error) {
	res := conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "month"}, {Name: "year"}},
		DoNothing: true,
	}).Create(p)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

// Save updates a payroll record with optimistic locking
func (r *GormPayrollRepository) Save(ctx context.Context, p *payroll.Payroll) error {
	return saveWithLock(conn(ctx, r.db), p)
}
