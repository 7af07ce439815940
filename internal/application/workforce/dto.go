package workforce

import (
	"time"

	"github.com/gemline/backoffice/internal/application/common"
	"github.com/gemline/backoffice/internal/domain/workforce"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateShiftRequest represents a request to schedule a shift
type CreateShiftRequest struct {
	StoreID  *uuid.UUID `json:"store_id"`
	UserID   uuid.UUID  `json:"user_id" binding:"required"`
	StartsAt time.Time  `json:"starts_at" binding:"required"`
	EndsAt   time.Time  `json:"ends_at" binding:"required"`
	Notes    string     `json:"notes" binding:"omitempty,max=500"`
}

// UpdateShiftRequest represents a request to move or annotate a shift
type UpdateShiftRequest struct {
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
	Notes    *string    `json:"notes" binding:"omitempty,max=500"`
}

// ShiftListFilter represents filter options for the shift list
type ShiftListFilter struct {
	common.PageQuery
	StoreID *uuid.UUID `form:"store_id" parser:"encoding.TextUnmarshaler"`
	UserID  *uuid.UUID `form:"user_id" parser:"encoding.TextUnmarshaler"`
	Status  string     `form:"status" binding:"omitempty,oneof=scheduled completed cancelled"`
	From    *time.Time `form:"from" time_format:"2006-01-02"`
	To      *time.Time `form:"to" time_format:"2006-01-02"`
}

// ShiftResponse represents a shift in API responses
type ShiftResponse struct {
	ID        uuid.UUID `json:"id"`
	StoreID   uuid.UUID `json:"store_id"`
	UserID    uuid.UUID `json:"user_id"`
	Date      string    `json:"date"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Hours     float64   `json:"hours"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToShiftResponse converts a domain Shift to ShiftResponse
func ToShiftResponse(s *workforce.Shift) ShiftResponse {
	return ShiftResponse{
		ID:        s.ID,
		StoreID:   s.StoreID,
		UserID:    s.UserID,
		Date:      s.StartsAt.Format("2006-01-02"),
		StartsAt:  s.StartsAt,
		EndsAt:    s.EndsAt,
		Hours:     s.Duration().Hours(),
		Status:    string(s.Status),
		Notes:     s.Notes,
		CreatedBy: s.CreatedBy,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// CorrectAttendanceRequest represents a manager's fix of recorded times
type CorrectAttendanceRequest struct {
	ClockIn  time.Time `json:"clock_in" binding:"required"`
	ClockOut time.Time `json:"clock_out" binding:"required"`
	Notes    string    `json:"notes" binding:"required,max=500"`
}

// AttendanceListFilter represents filter options for the attendance list
type AttendanceListFilter struct {
	common.PageQuery
	StoreID *uuid.UUID `form:"store_id" parser:"encoding.TextUnmarshaler"`
	UserID  *uuid.UUID `form:"user_id" parser:"encoding.TextUnmarshaler"`
	Status  string     `form:"status" binding:"omitempty,oneof=open closed"`
	From    *time.Time `form:"from" time_format:"2006-01-02"`
	To      *time.Time `form:"to" time_format:"2006-01-02"`
}

// AttendanceResponse represents an attendance record in API responses
type AttendanceResponse struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	StoreID     uuid.UUID       `json:"store_id"`
	ShiftID     *uuid.UUID      `json:"shift_id,omitempty"`
	ClockIn     time.Time       `json:"clock_in"`
	ClockOut    *time.Time      `json:"clock_out,omitempty"`
	HoursWorked decimal.Decimal `json:"hours_worked"`
	Status      string          `json:"status"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToAttendanceResponse converts a domain AttendanceRecord to AttendanceResponse
func ToAttendanceResponse(a *workforce.AttendanceRecord) AttendanceResponse {
	return AttendanceResponse{
		ID:          a.ID,
		UserID:      a.UserID,
		StoreID:     a.StoreID,
		ShiftID:     a.ShiftID,
		ClockIn:     a.ClockIn,
		ClockOut:    a.ClockOut,
		HoursWorked: a.HoursWorked,
		Status:      string(a.Status),
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
