package workforce

import (
	"time"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AttendanceStatus is open while the employee is clocked in
type AttendanceStatus string

const (
	AttendanceStatusOpen   AttendanceStatus = "open"
	AttendanceStatusClosed AttendanceStatus = "closed"
)

// MaxAttendanceLength bounds a single clock-in to clock-out span
const MaxAttendanceLength = 24 * time.Hour

// AttendanceRecord is one clock-in / clock-out pair
type AttendanceRecord struct {
	shared.BaseAggregateRoot
	UserID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	StoreID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	ShiftID     *uuid.UUID       `gorm:"type:uuid;index"`
	ClockIn     time.Time        `gorm:"not null;index"`
	ClockOut    *time.Time
	HoursWorked decimal.Decimal  `gorm:"type:decimal(6,2);not null;default:0"`
	Status      AttendanceStatus `gorm:"type:varchar(20);not null;default:'open';index"`
	Notes       string           `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// ClockIn opens an attendance record
func ClockIn(userID, storeID uuid.UUID, shiftID *uuid.UUID, at time.Time) (*AttendanceRecord, error) {
	if userID == uuid.Nil || storeID == uuid.Nil {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "User and store are required")
	}
	return &AttendanceRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		StoreID:           storeID,
		ShiftID:           shiftID,
		ClockIn:           at,
		HoursWorked:       decimal.Zero,
		Status:            AttendanceStatusOpen,
	}, nil
}

// Close clocks the user out and computes hours worked
func (a *AttendanceRecord) Close(at time.Time) error {
	if a.Status != AttendanceStatusOpen {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "Attendance record is already closed")
	}
	if err := validateSpan(a.ClockIn, at); err != nil {
		return err
	}
	a.ClockOut = &at
	a.HoursWorked = HoursBetween(a.ClockIn, at)
	a.Status = AttendanceStatusClosed
	a.Touch()
	return nil
}

// Correct lets a manager fix the recorded times of a closed record
func (a *AttendanceRecord) Correct(clockIn, clockOut time.Time, notes string) error {
	if err := validateSpan(clockIn, clockOut); err != nil {
		return err
	}
	a.ClockIn = clockIn
	a.ClockOut = &clockOut
	a.HoursWorked = HoursBetween(clockIn, clockOut)
	a.Status = AttendanceStatusClosed
	a.Notes = notes
	a.Touch()
	return nil
}

// IsOpen reports whether the employee is still clocked in
func (a *AttendanceRecord) IsOpen() bool {
	return a.Status == AttendanceStatusOpen
}

// HoursBetween returns the span in hours rounded to two places
func HoursBetween(from, to time.Time) decimal.Decimal {
	minutes := decimal.NewFromInt(int64(to.Sub(from) / time.Minute))
	return minutes.Div(decimal.NewFromInt(60)).Round(2)
}

func validateSpan(in, out time.Time) error {
	if !out.After(in) {
		return shared.NewDomainError("INVALID_CLOCK_OUT", "Clock-out must be after clock-in")
	}
	if out.Sub(in) > MaxAttendanceLength {
		return shared.NewDomainError("INVALID_CLOCK_OUT", "Attendance span cannot exceed 24 hours")
	}
	return nil
}
