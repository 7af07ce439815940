package payroll

import (
	"fmt"
	"time"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status of a payroll record
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusPaid     Status = "paid"
)

// IsValid checks if the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusPaid:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusApproved
	case StatusApproved:
		return target == StatusPaid
	}
	return false
}

// PayType decides how the base amount is computed
type PayType string

const (
	PayTypeHourly   PayType = "hourly"
	PayTypeSalaried PayType = "salaried"
)

// Period is a calendar month
type Period struct {
	Month int
	Year  int
}

// NewPeriod validates a month/year pair
func NewPeriod(month, year int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, shared.NewDomainError("INVALID_PERIOD", "Month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		return Period{}, shared.NewDomainError("INVALID_PERIOD", "Year must be between 2000 and 2100")
	}
	return Period{Month: month, Year: year}, nil
}

// PreviousPeriod returns the month before the one containing t
func PreviousPeriod(t time.Time) Period {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	prev := first.AddDate(0, -1, 0)
	return Period{Month: int(prev.Month()), Year: prev.Year()}
}

// Bounds returns the half-open [start, end) window of the month in loc
func (p Period) Bounds(loc *time.Location) (time.Time, time.Time) {
	start := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// String renders the period as YYYY-MM
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Payroll is the computed monthly pay of one employee
type Payroll struct {
	shared.BaseAggregateRoot
	UserID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_payroll_user_period,priority:1"`
	StoreID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Month            int             `gorm:"not null;uniqueIndex:idx_payroll_user_period,priority:2"`
	Year             int             `gorm:"not null;uniqueIndex:idx_payroll_user_period,priority:3"`
	PayType          PayType         `gorm:"type:varchar(20);not null"`
	HoursWorked      decimal.Decimal `gorm:"type:decimal(8,2);not null;default:0"`
	HourlyWage       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	BaseSalary       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	BaseAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	EstimatedSales   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	CommissionRate   decimal.Decimal `gorm:"type:decimal(5,4);not null;default:0"`
	CommissionAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	FinalAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Status           Status          `gorm:"type:varchar(20);not null;default:'pending';index"`
	ApprovedBy       *uuid.UUID      `gorm:"type:uuid"`
	ApprovedAt       *time.Time
	PaidAt           *time.Time
}

// TableName returns the table name for GORM
func (Payroll) TableName() string {
	return "payrolls"
}

// Period returns the pay period
func (p *Payroll) Period() Period {
	return Period{Month: p.Month, Year: p.Year}
}

// Approve signs off a pending payroll
func (p *Payroll) Approve(by uuid.UUID) error {
	if !p.Status.CanTransitionTo(StatusApproved) {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "Only pending payrolls can be approved")
	}
	now := time.Now()
	p.Status = StatusApproved
	p.ApprovedBy = &by
	p.ApprovedAt = &now
	p.Touch()
	return nil
}

// MarkPaid records payout of an approved payroll
func (p *Payroll) MarkPaid() error {
	if !p.Status.CanTransitionTo(StatusPaid) {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "Only approved payrolls can be marked paid")
	}
	now := time.Now()
	p.Status = StatusPaid
	p.PaidAt = &now
	p.Touch()
	return nil
}
