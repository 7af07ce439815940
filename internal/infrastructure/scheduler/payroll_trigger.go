// Package scheduler runs the in-process monthly payroll batch.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gemline/backoffice/internal/domain/payroll"
	"github.com/gemline/backoffice/internal/infrastructure/config"
	"github.com/gemline/backoffice/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// maxAttempts bounds retries of a failed run within the trigger day
const maxAttempts = 3

// PayrollRunner generates payroll for one period
type PayrollRunner interface {
	RunPayroll(ctx context.Context, period payroll.Period) error
}

// TriggerConfig holds the schedule of the payroll batch
type TriggerConfig struct {
	Day           int // day of month, 1..28
	Hour          int
	Minute        int
	CheckInterval time.Duration
	JobTimeout    time.Duration
	Location      *time.Location
}

// TriggerConfigFrom converts the scheduler config section
func TriggerConfigFrom(cfg config.SchedulerConfig, loc *time.Location) (TriggerConfig, error) {
	at, err := time.Parse("15:04", cfg.PayrollTime)
	if err != nil {
		return TriggerConfig{}, fmt.Errorf("invalid payroll time %q: %w", cfg.PayrollTime, err)
	}
	return TriggerConfig{
		Day:           cfg.PayrollDay,
		Hour:          at.Hour(),
		Minute:        at.Minute(),
		CheckInterval: cfg.CheckInterval,
		JobTimeout:    cfg.JobTimeout,
		Location:      loc,
	}, nil
}

// PayrollTrigger fires the payroll batch for the previous month once the
// configured day and time have been reached. A run that ticks late (after a
// restart, say) still fires the same day; lastRun keeps it to one success
// per period.
type PayrollTrigger struct {
	config TriggerConfig
	runner PayrollRunner
	logger *zap.Logger
	now    func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	lastRun   string // period that last completed
	attempts  map[string]int
}

// NewPayrollTrigger creates a new payroll trigger
func NewPayrollTrigger(cfg TriggerConfig, runner PayrollRunner, logger *zap.Logger) *PayrollTrigger {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = time.Minute
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 10 * time.Minute
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Day < 1 {
		cfg.Day = 1
	}
	return &PayrollTrigger{
		config:   cfg,
		runner:   runner,
		logger:   logger,
		now:      time.Now,
		attempts: make(map[string]int),
	}
}

// Start starts the check loop
func (t *PayrollTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Payroll trigger started",
		zap.Int("day", t.config.Day),
		zap.String("time", fmt.Sprintf("%02d:%02d", t.config.Hour, t.config.Minute)),
		zap.String("timezone", t.config.Location.String()),
		zap.Duration("check_interval", t.config.CheckInterval),
	)
	return nil
}

// Stop stops the loop and waits for an in-flight run
func (t *PayrollTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Payroll trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *PayrollTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.checkAndTrigger(ctx)
		}
	}
}

// due reports whether now is on the trigger day at or after the trigger time
func (t *PayrollTrigger) due(now time.Time) bool {
	if now.Day() != t.config.Day {
		return false
	}
	at := time.Date(now.Year(), now.Month(), now.Day(), t.config.Hour, t.config.Minute, 0, 0, t.config.Location)
	return !now.Before(at)
}

// checkAndTrigger runs the batch when due. It reports whether a run happened.
func (t *PayrollTrigger) checkAndTrigger(ctx context.Context) bool {
	now := t.now().In(t.config.Location)
	if !t.due(now) {
		return false
	}
	period := payroll.PreviousPeriod(now)
	key := period.String()

	t.mu.Lock()
	if t.lastRun == key || t.attempts[key] >= maxAttempts {
		t.mu.Unlock()
		return false
	}
	t.attempts[key]++
	attempt := t.attempts[key]
	t.mu.Unlock()

	log := t.logger.With(zap.String("period", key), zap.Int("attempt", attempt))
	log.Info("Triggering monthly payroll generation")

	runCtx, cancel := context.WithTimeout(ctx, t.config.JobTimeout)
	defer cancel()

	start := time.Now()
	if err := t.run(runCtx, period, attempt); err != nil {
		log.Error("Monthly payroll generation failed", zap.Error(err))
		return true
	}

	t.mu.Lock()
	t.lastRun = key
	t.mu.Unlock()
	log.Info("Monthly payroll generation finished", zap.Duration("duration", time.Since(start)))
	return true
}

// RunNow generates payroll for the given period outside the schedule
func (t *PayrollTrigger) RunNow(ctx context.Context, period payroll.Period) error {
	ctx, cancel := context.WithTimeout(ctx, t.config.JobTimeout)
	defer cancel()
	return t.run(ctx, period, 0)
}

func (t *PayrollTrigger) run(ctx context.Context, period payroll.Period, attempt int) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "payroll.scheduled_run",
		attribute.String("payroll.period", period.String()),
		attribute.Int("payroll.attempt", attempt))
	defer telemetry.End(span, &err)
	return t.runner.RunPayroll(ctx, period)
}
