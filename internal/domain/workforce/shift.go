package workforce

import (
	"strings"
	"time"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// ShiftStatus represents the state of a scheduled shift
type ShiftStatus string

const (
	ShiftStatusScheduled ShiftStatus = "scheduled"
	ShiftStatusCompleted ShiftStatus = "completed"
	ShiftStatusCancelled ShiftStatus = "cancelled"
)

// IsValid checks if the status is known
func (s ShiftStatus) IsValid() bool {
	switch s {
	case ShiftStatusScheduled, ShiftStatusCompleted, ShiftStatusCancelled:
		return true
	}
	return false
}

// MaxShiftLength caps a single scheduled shift
const MaxShiftLength = 14 * time.Hour

// Shift is a scheduled block of work for one staff member at one store
type Shift struct {
	shared.BaseAggregateRoot
	StoreID   uuid.UUID   `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID   `gorm:"type:uuid;not null;index"`
	StartsAt  time.Time   `gorm:"not null;index"`
	EndsAt    time.Time   `gorm:"not null"`
	Status    ShiftStatus `gorm:"type:varchar(20);not null;default:'scheduled'"`
	Notes     string      `gorm:"type:varchar(500)"`
	CreatedBy uuid.UUID   `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (Shift) TableName() string {
	return "shifts"
}

// NewShift schedules a shift
func NewShift(storeID, userID uuid.UUID, startsAt, endsAt time.Time, createdBy uuid.UUID) (*Shift, error) {
	if storeID == uuid.Nil || userID == uuid.Nil {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "Store and user are required")
	}
	s := &Shift{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StoreID:           storeID,
		UserID:            userID,
		Status:            ShiftStatusScheduled,
		CreatedBy:         createdBy,
	}
	if err := s.Reschedule(startsAt, endsAt); err != nil {
		return nil, err
	}
	return s, nil
}

// Reschedule moves the shift window
func (s *Shift) Reschedule(startsAt, endsAt time.Time) error {
	if s.Status != ShiftStatusScheduled {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "Only scheduled shifts can be changed")
	}
	if !endsAt.After(startsAt) {
		return shared.NewDomainError("INVALID_SHIFT_WINDOW", "Shift must end after it starts")
	}
	if endsAt.Sub(startsAt) > MaxShiftLength {
		return shared.NewDomainError("INVALID_SHIFT_WINDOW", "Shift cannot exceed 14 hours")
	}
	s.StartsAt = startsAt
	s.EndsAt = endsAt
	s.Touch()
	return nil
}

// SetNotes sets free-form notes
func (s *Shift) SetNotes(notes string) {
	s.Notes = strings.TrimSpace(notes)
	s.Touch()
}

// Cancel calls off a scheduled shift
func (s *Shift) Cancel() error {
	if s.Status != ShiftStatusScheduled {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "Only scheduled shifts can be cancelled")
	}
	s.Status = ShiftStatusCancelled
	s.Touch()
	return nil
}

// MarkCompleted records that the shift was worked
func (s *Shift) MarkCompleted() {
	if s.Status == ShiftStatusScheduled {
		s.Status = ShiftStatusCompleted
		s.Touch()
	}
}

// Overlaps reports whether the window intersects [start, end)
func (s *Shift) Overlaps(start, end time.Time) bool {
	return s.StartsAt.Before(end) && start.Before(s.EndsAt)
}

// Duration returns the scheduled length
func (s *Shift) Duration() time.Duration {
	return s.EndsAt.Sub(s.StartsAt)
}
