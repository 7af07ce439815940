package payroll

import (
	"time"

	"github.com/gemline/backoffice/internal/application/common"
	"github.com/gemline/backoffice/internal/domain/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GenerateRequest represents a request to run payroll for a month
type GenerateRequest struct {
	Month int `json:"month" binding:"required,min=1,max=12"`
	Year  int `json:"year" binding:"required,min=2000,max=2100"`
}

// Summary reports the outcome of a payroll run
type Summary struct {
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	Created     int             `json:"created"`
	Skipped     int             `json:"skipped"`
	Failed      int             `json:"failed"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// PayrollListFilter represents filter options for the payroll list
type PayrollListFilter struct {
	common.PageQuery
	Month   int        `form:"month" binding:"omitempty,min=1,max=12"`
	Year    int        `form:"year" binding:"omitempty,min=2000,max=2100"`
	StoreID *uuid.UUID `form:"store_id" parser:"encoding.TextUnmarshaler"`
	UserID  *uuid.UUID `form:"user_id" parser:"encoding.TextUnmarshaler"`
	Status  string     `form:"status" binding:"omitempty,oneof=pending approved paid"`
}

// PayrollResponse represents a payroll record in API responses
type PayrollResponse struct {
	ID               uuid.UUID       `json:"id"`
	UserID           uuid.UUID       `json:"user_id"`
	StoreID          uuid.UUID       `json:"store_id"`
	Month            int             `json:"month"`
	Year             int             `json:"year"`
	PayType          string          `json:"pay_type"`
	HoursWorked      decimal.Decimal `json:"hours_worked"`
	HourlyWage       decimal.Decimal `json:"hourly_wage"`
	BaseSalary       decimal.Decimal `json:"base_salary"`
	BaseAmount       decimal.Decimal `json:"base_amount"`
	EstimatedSales   decimal.Decimal `json:"estimated_sales"`
	CommissionRate   decimal.Decimal `json:"commission_rate"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	FinalAmount      decimal.Decimal `json:"final_amount"`
	Status           string          `json:"status"`
	ApprovedBy       *uuid.UUID      `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time      `json:"approved_at,omitempty"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ToPayrollResponse converts a domain Payroll to PayrollResponse
func ToPayrollResponse(p *payroll.Payroll) PayrollResponse {
	return PayrollResponse{
		ID:               p.ID,
		UserID:           p.UserID,
		StoreID:          p.StoreID,
		Month:            p.Month,
		Year:             p.Year,
		PayType:          string(p.PayType),
		HoursWorked:      p.HoursWorked,
		HourlyWage:       p.HourlyWage,
		BaseSalary:       p.BaseSalary,
		BaseAmount:       p.BaseAmount,
		EstimatedSales:   p.EstimatedSales,
		CommissionRate:   p.CommissionRate,
		CommissionAmount: p.CommissionAmount,
		FinalAmount:      p.FinalAmount,
		Status:           string(p.Status),
		ApprovedBy:       p.ApprovedBy,
		ApprovedAt:       p.ApprovedAt,
		PaidAt:           p.PaidAt,
		CreatedAt:        p.CreatedAt,
	}
}
