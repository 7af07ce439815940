package payroll

import (
	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Input is everything the calculation needs for one employee and month
type Input struct {
	UserID         uuid.UUID
	StoreID        uuid.UUID
	Period         Period
	Salaried       bool
	HourlyWage     decimal.Decimal
	BaseSalary     decimal.Decimal
	CommissionRate decimal.Decimal
	HoursWorked    decimal.Decimal
	EstimatedSales decimal.Decimal
}

// Calculate builds a pending payroll:
//
//	base       = hourly_wage * hours   (hourly staff)
//	           = base_salary           (managers)
//	commission = commission_rate * estimated_sales
//	final      = base + commission
func Calculate(in Input) (*Payroll, error) {
	if in.UserID == uuid.Nil || in.StoreID == uuid.Nil {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "Payroll requires an employee with an assigned store")
	}
	if _, err := NewPeriod(in.Period.Month, in.Period.Year); err != nil {
		return nil, err
	}
	if in.HoursWorked.IsNegative() || in.EstimatedSales.IsNegative() {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "Hours and sales cannot be negative")
	}

	payType := PayTypeHourly
	base := in.HourlyWage.Mul(in.HoursWorked)
	if in.Salaried {
		payType = PayTypeSalaried
		base = in.BaseSalary
	}
	base = base.Round(2)
	commission := in.CommissionRate.Mul(in.EstimatedSales).Round(2)

	return &Payroll{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            in.UserID,
		StoreID:           in.StoreID,
		Month:             in.Period.Month,
		Year:              in.Period.Year,
		PayType:           payType,
		HoursWorked:       in.HoursWorked,
		HourlyWage:        in.HourlyWage,
		BaseSalary:        in.BaseSalary,
		BaseAmount:        base,
		EstimatedSales:    in.EstimatedSales,
		CommissionRate:    in.CommissionRate,
		CommissionAmount:  commission,
		FinalAmount:       base.Add(commission),
		Status:            StatusPending,
	}, nil
}
