// Command server runs the back-office HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	catalogapp "github.com/gemline/backoffice/internal/application/catalog"
	identityapp "github.com/gemline/backoffice/internal/application/identity"
	inventoryapp "github.com/gemline/backoffice/internal/application/inventory"
	partnerapp "github.com/gemline/backoffice/internal/application/partner"
	payrollapp "github.com/gemline/backoffice/internal/application/payroll"
	reportapp "github.com/gemline/backoffice/internal/application/report"
	storeapp "github.com/gemline/backoffice/internal/application/store"
	tradeapp "github.com/gemline/backoffice/internal/application/trade"
	workforceapp "github.com/gemline/backoffice/internal/application/workforce"
	"github.com/gemline/backoffice/internal/infrastructure/auth"
	"github.com/gemline/backoffice/internal/infrastructure/cache"
	"github.com/gemline/backoffice/internal/infrastructure/config"
	"github.com/gemline/backoffice/internal/infrastructure/event"
	"github.com/gemline/backoffice/internal/infrastructure/export"
	"github.com/gemline/backoffice/internal/infrastructure/logger"
	"github.com/gemline/backoffice/internal/infrastructure/persistence"
	"github.com/gemline/backoffice/internal/infrastructure/scheduler"
	"github.com/gemline/backoffice/internal/infrastructure/storage"
	"github.com/gemline/backoffice/internal/infrastructure/telemetry"
	"github.com/gemline/backoffice/internal/interfaces/http/handler"
	"github.com/gemline/backoffice/internal/interfaces/http/middleware"
	"github.com/gemline/backoffice/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	providers, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	if providers.Enabled() {
		// tee every entry into the OTLP log pipeline as well
		log, err = logger.New(logCfg, logger.WithCore(providers.ZapCore(logger.ParseLevel(cfg.Log.Level))))
		if err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	defer func() { _ = log.Sync() }()

	if err := run(ctx, cfg, log, providers); err != nil {
		log.Fatal("Server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, providers *telemetry.Providers) error {
	log.Info("Starting back office",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("database", cfg.Database.Driver),
	)
	loc := cfg.App.Location()

	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Database.SlowThreshold)
	db, err := persistence.NewDatabase(&cfg.Database, persistence.Options{Logger: gormLog})
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.InstrumentGorm(db.DB, db.Driver(), false); err != nil {
			log.Warn("Database tracing disabled", zap.Error(err))
		}
	}
	if db.Driver() == "sqlite" {
		// postgres schemas are owned by cmd/migrate
		if err := db.AutoMigrate(); err != nil {
			return err
		}
	}
	log.Info("Database connected")

	caches := cache.NewFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithLocation(loc),
		cache.WithSequenceFloor(persistence.NewGormSequenceFloor(db.DB)),
	)
	defer func() { _ = caches.Close() }()
	sequences, err := caches.SequenceGenerator()
	if err != nil {
		return err
	}
	revocations, err := caches.RevocationStore()
	if err != nil {
		return err
	}

	var prom *telemetry.PrometheusMetrics
	if cfg.Metrics.Enabled {
		prom = telemetry.NewPrometheusMetrics()
	}

	bus := event.NewInMemoryEventBus(log)
	if prom != nil {
		bus.Subscribe(event.NewMetricsHandler(prom))
	}
	if cfg.Event.AMQPURL != "" {
		forwarder, err := event.NewAMQPForwarder(cfg.Event.AMQPURL, cfg.Event.Exchange, log)
		if err != nil {
			// the API keeps working without the broker; events stay in-process
			log.Error("Failed to connect to RabbitMQ, events will not be forwarded", zap.Error(err))
		} else {
			defer func() { _ = forwarder.Close() }()
			bus.Subscribe(forwarder)
		}
	}
	if err := bus.Start(ctx); err != nil {
		return err
	}

	tx := persistence.NewGormTxManager(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	itemRepo := persistence.NewGormInventoryItemRepository(db.DB)
	transferRepo := persistence.NewGormTransferRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	purchaseRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	shiftRepo := persistence.NewGormShiftRepository(db.DB)
	attendanceRepo := persistence.NewGormAttendanceRepository(db.DB)
	payrollRepo := persistence.NewGormPayrollRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, revocations, log)
	userService := identityapp.NewUserService(userRepo, storeRepo, revocations, jwtService.RefreshTokenExpiration(), log)
	storeService := storeapp.NewStoreService(storeRepo, warehouseRepo, userRepo, tx, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, supplierRepo, log)
	supplierService := partnerapp.NewSupplierService(supplierRepo, log)
	warehouseService := inventoryapp.NewWarehouseService(warehouseRepo, storeRepo, log)
	stockService := inventoryapp.NewStockService(itemRepo, warehouseRepo, productRepo, tx, bus, log)
	transferService := inventoryapp.NewTransferService(transferRepo, itemRepo, warehouseRepo, productRepo, sequences, tx, bus, log)
	orderService := tradeapp.NewOrderService(orderRepo, itemRepo, warehouseRepo, productRepo, storeRepo, userRepo, sequences, tx, bus, log)
	purchaseService := tradeapp.NewPurchaseOrderService(purchaseRepo, itemRepo, warehouseRepo, productRepo, supplierRepo, sequences, tx, bus, log)
	shiftService := workforceapp.NewShiftService(shiftRepo, userRepo, log)
	attendanceService := workforceapp.NewAttendanceService(attendanceRepo, shiftRepo, tx, log)
	payrollService := payrollapp.NewPayrollService(payrollRepo, userRepo, attendanceRepo, orderRepo, bus, loc, log)

	converter := export.NewChromedpConverter(export.ChromedpConfig{
		RemoteURL: cfg.Report.ChromeURL,
		Timeout:   cfg.Report.PDFTimeout,
		NoSandbox: cfg.Report.ChromeURL == "",
		Logger:    log,
	})
	defer func() { _ = converter.Close() }()
	var archive reportapp.Archive
	if cfg.Storage.Enabled() {
		s3, err := storage.NewS3Archive(ctx, cfg.Storage,
			storage.WithLogger(log), storage.WithPresignExpiration(cfg.Storage.PresignExpiration))
		if err != nil {
			log.Error("Report archive disabled", zap.Error(err))
		} else {
			archive = s3
		}
	}
	reportService := reportapp.NewService(reportRepo, export.Default(converter), archive, cfg.Report.MaxRows, loc, log)

	var trigger *scheduler.PayrollTrigger
	if cfg.Scheduler.PayrollEnabled {
		triggerCfg, err := scheduler.TriggerConfigFrom(cfg.Scheduler, loc)
		if err != nil {
			return err
		}
		trigger = scheduler.NewPayrollTrigger(triggerCfg, payrollService, log)
		if err := trigger.Start(ctx); err != nil {
			return err
		}
	}

	checks := map[string]handler.HealthCheck{"database": db.Ping}
	if client, err := caches.Client(); err == nil && client != nil {
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := router.NewEngine(router.EngineConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Production:  cfg.App.IsProduction(),
		HTTP:        cfg.HTTP,
		Logger:      log,
		JWT:         jwtService,
		Revocations: revocations,
		Tracing:     providers.Enabled(),
		Profiling:   providers.Enabled() && cfg.Telemetry.ProfilingEnabled,
		Prometheus:  prom,
		MetricsPath: cfg.Metrics.Path,
		OTLPMetrics: providers.Enabled(),
	}, router.Handlers{
		Auth:           handler.NewAuthHandler(authService),
		Users:          handler.NewUserHandler(userService),
		Stores:         handler.NewStoreHandler(storeService),
		Categories:     handler.NewCategoryHandler(categoryService),
		Products:       handler.NewProductHandler(productService),
		Suppliers:      handler.NewSupplierHandler(supplierService),
		Warehouses:     handler.NewWarehouseHandler(warehouseService),
		Inventory:      handler.NewInventoryHandler(stockService),
		Transfers:      handler.NewTransferHandler(transferService),
		Orders:         handler.NewOrderHandler(orderService),
		PurchaseOrders: handler.NewPurchaseOrderHandler(purchaseService),
		Shifts:         handler.NewShiftHandler(shiftService),
		Attendance:     handler.NewAttendanceHandler(attendanceService),
		Payroll:        handler.NewPayrollHandler(payrollService),
		Reports:        handler.NewReportHandler(reportService),
		System:         handler.NewSystemHandler(cfg.App.Name, telemetry.ServiceVersion, checks),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return err
	case sig := <-quit:
		log.Info("Shutting down server", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if trigger != nil {
		if err := trigger.Stop(shutdownCtx); err != nil {
			log.Warn("Payroll trigger did not stop cleanly", zap.Error(err))
		}
	}
	_ = bus.Stop(shutdownCtx)
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Warn("Telemetry shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
	return nil
}
