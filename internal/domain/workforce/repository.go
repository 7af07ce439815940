package workforce

import (
	"context"
	"time"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShiftRepository defines persistence for shifts
type ShiftRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Shift, error)
	// FindAll supports filters: store_id, user_id, status, from, to
	FindAll(ctx context.Context, filter shared.Filter) ([]Shift, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// FindOverlapping returns scheduled shifts of the user intersecting [start, end)
	FindOverlapping(ctx context.Context, userID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]Shift, error)
	// FindCurrent returns the user's scheduled shift covering at, if any
	FindCurrent(ctx context.Context, userID uuid.UUID, at time.Time) (*Shift, error)
	Save(ctx context.Context, shift *Shift) error
}

// AttendanceRepository defines persistence for attendance records
type AttendanceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AttendanceRecord, error)
	FindOpenByUser(ctx context.Context, userID uuid.UUID) (*AttendanceRecord, error)
	// FindAll supports filters: store_id, user_id, status, from, to
	FindAll(ctx context.Context, filter shared.Filter) ([]AttendanceRecord, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// SumHours totals closed hours whose clock-in falls in [from, to)
	SumHours(ctx context.Context, userID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
	Save(ctx context.Context, record *AttendanceRecord) error
}
