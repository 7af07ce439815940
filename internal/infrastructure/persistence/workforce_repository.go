package persistence

import (
	"context"
	"time"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/gemline/backoffice/internal/domain/workforce"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormShiftRepository implements workforce.ShiftRepository using GORM
type GormShiftRepository struct {
	db *gorm.DB
}

// NewGormShiftRepository creates a new GormShiftRepository
func NewGormShiftRepository(db *gorm.DB) *GormShiftRepository {
	return &GormShiftRepository{db: db}
}

// FindByID finds a shift by ID
func (r *GormShiftRepository) FindByID(ctx context.Context, id uuid.UUID) (*workforce.Shift, error) {
	var s workforce.Shift
	if err := conn(ctx, r.db).First(&s, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// FindAll finds shifts matching the filter
func (r *GormShiftRepository) FindAll(ctx context.Context, filter shared.Filter) ([]workforce.Shift, error) {
	var shifts []workforce.Shift
	q := paginate(r.filtered(ctx, filter), filter, ShiftSortFields, "starts_at")
	if err := q.Find(&shifts).Error; err != nil {
		return nil, err
	}
	return shifts, nil
}

// Count counts shifts matching the filter
func (r *GormShiftRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var n int64
	err := r.filtered(ctx, filter).Count(&n).Error
	return n, err
}

func (r *GormShiftRepository) filtered(ctx context.Context, f shared.Filter) *gorm.DB {
	q := conn(ctx, r.db).Model(&workforce.Shift{})
	q = eq(q, f, "store_id", "store_id")
	q = eq(q, f, "user_id", "user_id")
	q = eq(q, f, "status", "status")
	q = since(q, f, "from", "starts_at")
	q = until(q, f, "to", "starts_at")
	return q
}

// FindOverlapping returns the user's scheduled shifts intersecting [start, end)
func (r *GormShiftRepository) FindOverlapping(ctx context.Context, userID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]workforce.Shift, error) {
	q := conn(ctx, r.db).
		Where("user_id = ? AND status = ? AND starts_at < ? AND ends_at > ?",
			userID, workforce.ShiftStatusScheduled, end, start)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var shifts []workforce.Shift
	err := q.Order("starts_at").Find(&shifts).Error
	return shifts, err
}

// FindCurrent returns the user's scheduled shift covering at
func (r *GormShiftRepository) FindCurrent(ctx context.Context, userID uuid.UUID, at time.Time) (*workforce.Shift, error) {
	var s workforce.Shift
	err := conn(ctx, r.db).
		Where("user_id = ? AND status = ? AND starts_at <= ? AND ends_at > ?",
			userID, workforce.ShiftStatusScheduled, at, at).
		Order("starts_at").
		First(&s).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// Save creates or updates a shift
func (r *GormShiftRepository) Save(ctx context.Context, s *workforce.Shift) error {
	return save(conn(ctx, r.db), s)
}

// GormAttendanceRepository implements workforce.AttendanceRepository using GORM
type GormAttendanceRepository struct {
	db *gorm.DB
}

// NewGormAttendanceRepository creates a new GormAttendanceRepository
func NewGormAttendanceRepository(db *gorm.DB) *GormAttendanceRepository {
	return &GormAttendanceRepository{db: db}
}

// FindByID finds an attendance record by ID
func (r *GormAttendanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*workforce.AttendanceRecord, error) {
	var a workforce.AttendanceRecord
	if err := conn(ctx, r.db).First(&a, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

// FindOpenByUser returns the user's open record, if any
func (r *GormAttendanceRepository) FindOpenByUser(ctx context.Context, userID uuid.UUID) (*workforce.AttendanceRecord, error) {
	var a workforce.AttendanceRecord
	err := conn(ctx, r.db).
		Where("user_id = ? AND status = ?", userID, workforce.AttendanceStatusOpen).
		Order("clock_in DESC").
		First(&a).Error
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

// FindAll finds attendance records matching the filter
func (r *GormAttendanceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]workforce.AttendanceRecord, error) {
	var records []workforce.AttendanceRecord
	q := paginate(r.filtered(ctx, filter), filter, AttendanceSortFields, "clock_in")
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Count counts attendance records matching the filter
func (r *GormAttendanceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var n int64
	err := r.filtered(ctx, filter).Count(&n).Error
	return n, err
}

func (r *GormAttendanceRepository) filtered(ctx context.Context, f shared.Filter) *gorm.DB {
	q := conn(ctx, r.db).Model(&workforce.AttendanceRecord{})
	q = eq(q, f, "store_id", "store_id")
	q = eq(q, f, "user_id", "user_id")
	q = eq(q, f, "status", "status")
	q = since(q, f, "from", "clock_in")
	q = until(q, f, "to", "clock_in")
	return q
}

// SumHours totals closed hours of the user whose clock-in falls in [from, to)
func (r *GormAttendanceRepository) SumHours(ctx context.Context, userID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := conn(ctx, r.db).Model(&workforce.AttendanceRecord{}).
		Select("COALESCE(SUM(hours_worked), 0)").
		Where("user_id = ? AND status = ? AND clock_in >= ? AND clock_in < ?",
			userID, workforce.AttendanceStatusClosed, from, to).
		Row().Scan(&total)
	return total, err
}

// Save creates or updates an attendance record
func (r *GormAttendanceRepository) Save(ctx context.Context, a *workforce.AttendanceRecord) error {
	return save(conn(ctx, r.db), a)
}
