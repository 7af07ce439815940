package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gemline/backoffice/internal/domain/payroll"
	"github.com/gemline/backoffice/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRunner struct {
	mu      sync.Mutex
	periods []payroll.Period
	err     error
}

func (r *stubRunner) RunPayroll(_ context.Context, p payroll.Period) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.periods = append(r.periods, p)
	return r.err
}

func (r *stubRunner) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.periods)
}

func newTrigger(t *testing.T, runner PayrollRunner, clock *time.Time) *PayrollTrigger {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	trig := NewPayrollTrigger(TriggerConfig{Day: 1, Hour: 2, Minute: 0, Location: loc}, runner, zap.NewNop())
	trig.now = func() time.Time { return *clock }
	return trig
}

func TestTriggerConfigFrom(t *testing.T) {
	cfg, err := TriggerConfigFrom(config.SchedulerConfig{PayrollDay: 3, PayrollTime: "06:30"}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Day)
	assert.Equal(t, 6, cfg.Hour)
	assert.Equal(t, 30, cfg.Minute)

	_, err = TriggerConfigFrom(config.SchedulerConfig{PayrollTime: "6pm"}, time.UTC)
	assert.Error(t, err)
}

func TestPayrollTrigger_RunsOncePerPeriod(t *testing.T) {
	runner := &stubRunner{}
	// 01:30 on March 1st in New York: not yet time
	clock := time.Date(2026, 3, 1, 6, 30, 0, 0, time.UTC)
	trig := newTrigger(t, runner, &clock)
	ctx := context.Background()

	assert.False(t, trig.checkAndTrigger(ctx))

	clock = time.Date(2026, 3, 1, 7, 5, 0, 0, time.UTC) // 02:05 local
	assert.True(t, trig.checkAndTrigger(ctx))
	require.Equal(t, 1, runner.calls())
	assert.Equal(t, payroll.Period{Month: 2, Year: 2026}, runner.periods[0])

	clock = clock.Add(time.Hour)
	assert.False(t, trig.checkAndTrigger(ctx), "already ran for February")

	clock = time.Date(2026, 3, 2, 7, 5, 0, 0, time.UTC)
	assert.False(t, trig.checkAndTrigger(ctx), "not the trigger day")
	assert.Equal(t, 1, runner.calls())
}

func TestPayrollTrigger_JanuaryRunsDecember(t *testing.T) {
	runner := &stubRunner{}
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	trig := newTrigger(t, runner, &clock)

	require.True(t, trig.checkAndTrigger(context.Background()))
	assert.Equal(t, payroll.Period{Month: 12, Year: 2025}, runner.periods[0])
}

func TestPayrollTrigger_RetriesFailuresUpToLimit(t *testing.T) {
	runner := &stubRunner{err: errors.New("database unavailable")}
	clock := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	trig := newTrigger(t, runner, &clock)
	ctx := context.Background()

	for i := 0; i < maxAttempts+2; i++ {
		trig.checkAndTrigger(ctx)
	}
	assert.Equal(t, maxAttempts, runner.calls())
}

func TestPayrollTrigger_StartStop(t *testing.T) {
	runner := &stubRunner{}
	clock := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	trig := newTrigger(t, runner, &clock)
	trig.config.CheckInterval = 5 * time.Millisecond

	require.NoError(t, trig.Start(context.Background()))
	require.NoError(t, trig.Start(context.Background()))
	assert.Eventually(t, func() bool { return runner.calls() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, trig.Stop(ctx))
	require.NoError(t, trig.Stop(ctx))
	assert.Equal(t, 1, runner.calls())
}

func TestPayrollTrigger_RunNow(t *testing.T) {
	runner := &stubRunner{}
	clock := time.Now()
	trig := newTrigger(t, runner, &clock)

	require.NoError(t, trig.RunNow(context.Background(), payroll.Period{Month: 7, Year: 2026}))
	assert.Equal(t, []payroll.Period{{Month: 7, Year: 2026}}, runner.periods)
}
