// Package payroll computes and signs off monthly pay.
package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/gemline/backoffice/internal/application/common"
	"github.com/gemline/backoffice/internal/domain/identity"
	"github.com/gemline/backoffice/internal/domain/payroll"
	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/gemline/backoffice/internal/domain/trade"
	"github.com/gemline/backoffice/internal/domain/workforce"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PayrollService generates monthly payroll and moves it through approval
type PayrollService struct {
	payrollRepo    payroll.Repository
	userRepo       identity.UserRepository
	attendanceRepo workforce.AttendanceRepository
	orderRepo      trade.OrderRepository
	publisher      shared.EventPublisher
	loc            *time.Location
	logger         *zap.Logger
}

// NewPayrollService creates a new PayrollService. Month boundaries are taken
// in loc.
func NewPayrollService(
	payrollRepo payroll.Repository,
	userRepo identity.UserRepository,
	attendanceRepo workforce.AttendanceRepository,
	orderRepo trade.OrderRepository,
	publisher shared.EventPublisher,
	loc *time.Location,
	logger *zap.Logger,
) *PayrollService {
	if loc == nil {
		loc = time.UTC
	}
	return &PayrollService{
		payrollRepo:    payrollRepo,
		userRepo:       userRepo,
		attendanceRepo: attendanceRepo,
		orderRepo:      orderRepo,
		publisher:      publisher,
		loc:            loc,
		logger:         logger,
	}
}

// Generate computes a pending payroll for every active employee with a store
// who has none for the period yet. Employees are processed independently; a
// failure is counted and logged and does not stop the run. The insert is
// conflict-safe, so a concurrent run for the same period only skips.
func (s *PayrollService) Generate(ctx context.Context, period payroll.Period) (*Summary, error) {
	if _, err := payroll.NewPeriod(period.Month, period.Year); err != nil {
		return nil, err
	}
	users, err := s.userRepo.FindPayable(ctx)
	if err != nil {
		return nil, err
	}

	from, to := period.Bounds(s.loc)
	summary := &Summary{Month: period.Month, Year: period.Year, TotalAmount: decimal.Zero}
	for i := range users {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		u := &users[i]
		p, created, err := s.generateOne(ctx, u, period, from, to)
		switch {
		case err != nil:
			summary.Failed++
			s.logger.Error("Payroll generation failed for employee",
				zap.String("user", u.Username),
				zap.String("period", period.String()),
				zap.Error(err))
		case created:
			summary.Created++
			summary.TotalAmount = summary.TotalAmount.Add(p.FinalAmount)
		default:
			summary.Skipped++
		}
	}

	s.logger.Info("Payroll generated",
		zap.String("period", period.String()),
		zap.Int("created", summary.Created),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.String("total", summary.TotalAmount.StringFixed(2)))
	common.Publish(ctx, s.publisher, s.logger,
		payroll.NewGeneratedEvent(period, summary.Created, summary.Skipped, summary.Failed, summary.TotalAmount))
	return summary, nil
}

func (s *PayrollService) generateOne(ctx context.Context, u *identity.User, period payroll.Period, from, to time.Time) (*payroll.Payroll, bool, error) {
	exists, err := s.payrollRepo.Exists(ctx, u.ID, period)
	if err != nil || exists {
		return nil, false, err
	}
	hours, err := s.attendanceRepo.SumHours(ctx, u.ID, from, to)
	if err != nil {
		return nil, false, fmt.Errorf("sum hours: %w", err)
	}
	sales, err := s.orderRepo.SumCompletedBySalesperson(ctx, u.ID, from, to)
	if err != nil {
		return nil, false, fmt.Errorf("sum sales: %w", err)
	}

	storeID := uuid.Nil
	if u.StoreID != nil {
		storeID = *u.StoreID
	}
	p, err := payroll.Calculate(payroll.Input{
		UserID:         u.ID,
		StoreID:        storeID,
		Period:         period,
		Salaried:       !u.IsHourly(),
		HourlyWage:     u.HourlyWage,
		BaseSalary:     u.BaseSalary,
		CommissionRate: u.CommissionRate,
		HoursWorked:    hours.Round(2),
		EstimatedSales: sales.Round(2),
	})
	if err != nil {
		return nil, false, err
	}
	created, err := s.payrollRepo.CreateIfAbsent(ctx, p)
	if err != nil {
		return nil, false, err
	}
	return p, created, nil
}

// RunPayroll is the batch entry point used by the scheduler. A run with
// failures reports an error so the caller can retry; records already
// created are skipped on the next attempt.
func (s *PayrollService) RunPayroll(ctx context.Context, period payroll.Period) error {
	summary, err := s.Generate(ctx, period)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("payroll %s: %d employees failed", period, summary.Failed)
	}
	return nil
}

// GenerateForActor runs Generate on behalf of an API caller
func (s *PayrollService) GenerateForActor(ctx context.Context, actor identity.Actor, req GenerateRequest) (*Summary, error) {
	if err := actor.Require(identity.PermPayrollGenerate); err != nil {
		return nil, err
	}
	period, err := payroll.NewPeriod(req.Month, req.Year)
	if err != nil {
		return nil, err
	}
	return s.Generate(ctx, period)
}

// Approve signs off a pending payroll
func (s *PayrollService) Approve(ctx context.Context, actor identity.Actor, id uuid.UUID) (*PayrollResponse, error) {
	return s.transition(ctx, actor, id, "approved", func(p *payroll.Payroll) error {
		return p.Approve(actor.UserID)
	})
}

// MarkPaid records payout of an approved payroll
func (s *PayrollService) MarkPaid(ctx context.Context, actor identity.Actor, id uuid.UUID) (*PayrollResponse, error) {
	return s.transition(ctx, actor, id, "paid", func(p *payroll.Payroll) error {
		return p.MarkPaid()
	})
}

func (s *PayrollService) transition(ctx context.Context, actor identity.Actor, id uuid.UUID, status string, apply func(*payroll.Payroll) error) (*PayrollResponse, error) {
	if err := actor.Require(identity.PermPayrollApprove); err != nil {
		return nil, err
	}
	p, err := s.payrollRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(p); err != nil {
		return nil, err
	}
	if err := s.payrollRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("Payroll "+status,
		zap.String("payroll_id", p.ID.String()),
		zap.String("period", p.Period().String()),
		zap.String("user_id", actor.UserID.String()))

	response := ToPayrollResponse(p)
	return &response, nil
}

// Get retrieves a payroll record visible to the actor
func (s *PayrollService) Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*PayrollResponse, error) {
	p, err := s.payrollRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.CheckStore(p.StoreID); err != nil {
		return nil, err
	}
	response := ToPayrollResponse(p)
	return &response, nil
}

// List returns payroll records, pinned to the actor's store for store managers
func (s *PayrollService) List(ctx context.Context, actor identity.Actor, filter PayrollListFilter) ([]PayrollResponse, int64, error) {
	storeID, err := actor.ScopeStore(filter.StoreID)
	if err != nil {
		return nil, 0, err
	}
	f := filter.PageQuery.Filter().With("status", filter.Status)
	if filter.Month > 0 {
		f = f.With("month", filter.Month)
	}
	if filter.Year > 0 {
		f = f.With("year", filter.Year)
	}
	if storeID != nil {
		f = f.With("store_id", *storeID)
	}
	if filter.UserID != nil {
		f = f.With("user_id", *filter.UserID)
	}

	records, err := s.payrollRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.payrollRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PayrollResponse, len(records))
	for i := range records {
		out[i] = ToPayrollResponse(&records[i])
	}
	return out, total, nil
}
