// Command payroll runs the monthly payroll batch once and exits. It is meant
// for cron or a Kubernetes CronJob when the in-process trigger is disabled.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	payrollapp "github.com/gemline/backoffice/internal/application/payroll"
	reportapp "github.com/gemline/backoffice/internal/application/report"
	"github.com/gemline/backoffice/internal/domain/identity"
	"github.com/gemline/backoffice/internal/domain/payroll"
	"github.com/gemline/backoffice/internal/domain/report"
	"github.com/gemline/backoffice/internal/infrastructure/config"
	"github.com/gemline/backoffice/internal/infrastructure/event"
	"github.com/gemline/backoffice/internal/infrastructure/export"
	"github.com/gemline/backoffice/internal/infrastructure/logger"
	"github.com/gemline/backoffice/internal/infrastructure/persistence"
	"github.com/gemline/backoffice/internal/infrastructure/storage"
	"go.uber.org/zap"
)

func main() {
	var (
		month   int
		year    int
		format  string
		outDir  string
		archive bool
	)
	flag.IntVar(&month, "month", 0, "Month to generate, 1-12 (default: previous month)")
	flag.IntVar(&year, "year", 0, "Year to generate (default: year of the previous month)")
	flag.StringVar(&format, "export", "", "Also export the payroll report: csv, xlsx or pdf")
	flag.StringVar(&outDir, "out", ".", "Directory for the exported report")
	flag.BoolVar(&archive, "archive", false, "Upload the exported report to object storage instead of -out")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}
	log := logger.Must(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output},
		logger.WithFields(zap.String("job", "payroll")))
	defer func() { _ = log.Sync() }()

	loc := cfg.App.Location()
	period, err := resolvePeriod(month, year, time.Now().In(loc))
	if err != nil {
		log.Fatal("Invalid period", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cfg.Scheduler.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Scheduler.JobTimeout)
		defer cancel()
	}

	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Database.SlowThreshold)
	db, err := persistence.NewDatabase(&cfg.Database, persistence.Options{Logger: gormLog})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	bus := event.NewInMemoryEventBus(log)
	if cfg.Event.AMQPURL != "" {
		forwarder, err := event.NewAMQPForwarder(cfg.Event.AMQPURL, cfg.Event.Exchange, log)
		if err != nil {
			log.Warn("Payroll event will not be forwarded", zap.Error(err))
		} else {
			defer func() { _ = forwarder.Close() }()
			bus.Subscribe(forwarder)
		}
	}
	_ = bus.Start(ctx)
	defer func() { _ = bus.Stop(context.Background()) }()

	service := payrollapp.NewPayrollService(
		persistence.NewGormPayrollRepository(db.DB),
		persistence.NewGormUserRepository(db.DB),
		persistence.NewGormAttendanceRepository(db.DB),
		persistence.NewGormOrderRepository(db.DB),
		bus, loc, log,
	)

	summary, err := service.Generate(ctx, period)
	if err != nil {
		log.Fatal("Payroll run aborted", zap.String("period", period.String()), zap.Error(err))
	}
	fmt.Printf("payroll %s: created=%d skipped=%d failed=%d total=%s\n",
		period, summary.Created, summary.Skipped, summary.Failed, summary.TotalAmount.StringFixed(2))

	if format != "" {
		if err := exportReport(ctx, cfg, db, log, period, format, outDir, archive); err != nil {
			log.Fatal("Payroll export failed", zap.Error(err))
		}
	}
	if summary.Failed > 0 {
		// non-zero exit so the scheduler retries; created rows are skipped next time
		os.Exit(2)
	}
}

// resolvePeriod defaults to the month before now
func resolvePeriod(month, year int, now time.Time) (payroll.Period, error) {
	prev := payroll.PreviousPeriod(now)
	if month == 0 {
		month = prev.Month
	}
	if year == 0 {
		year = prev.Year
	}
	return payroll.NewPeriod(month, year)
}

func exportReport(ctx context.Context, cfg *config.Config, db *persistence.Database, log *zap.Logger,
	period payroll.Period, format, outDir string, toArchive bool) error {
	var converter export.HTMLConverter
	if format == string(report.FormatPDF) {
		c := export.NewChromedpConverter(export.ChromedpConfig{
			RemoteURL: cfg.Report.ChromeURL,
			Timeout:   cfg.Report.PDFTimeout,
			NoSandbox: cfg.Report.ChromeURL == "",
			Logger:    log,
		})
		defer func() { _ = c.Close() }()
		converter = c
	}

	var archive reportapp.Archive
	if toArchive {
		if !cfg.Storage.Enabled() {
			return fmt.Errorf("-archive needs storage.bucket to be configured")
		}
		s3, err := storage.NewS3Archive(ctx, cfg.Storage,
			storage.WithLogger(log), storage.WithPresignExpiration(cfg.Storage.PresignExpiration))
		if err != nil {
			return err
		}
		archive = s3
	}

	reports := reportapp.NewService(persistence.NewGormReportRepository(db.DB), export.Default(converter),
		archive, cfg.Report.MaxRows, cfg.App.Location(), log)
	// the batch acts with district-wide visibility
	actor := identity.Actor{Role: identity.RoleDistrictManager}
	q := reportapp.Query{Format: format, Month: period.Month, Year: period.Year}

	if toArchive {
		res, err := reports.Archive(ctx, actor, report.TypePayroll, q)
		if err != nil {
			return err
		}
		log.Info("Payroll report archived", zap.String("key", res.Key), zap.String("url", res.URL))
		return nil
	}

	file, err := reports.Export(ctx, actor, report.TypePayroll, q)
	if err != nil {
		return err
	}
	path := filepath.Join(outDir, file.Name)
	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Info("Payroll report written", zap.String("path", path), zap.Int("bytes", len(file.Data)))
	return nil
}
