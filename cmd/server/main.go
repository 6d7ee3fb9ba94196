package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	leaseapp "github.com/saifghl/lms/internal/application/lease"
	notificationapp "github.com/saifghl/lms/internal/application/notification"
	occupancyapp "github.com/saifghl/lms/internal/application/occupancy"
	reportapp "github.com/saifghl/lms/internal/application/report"
	"github.com/saifghl/lms/internal/domain/lease"
	"github.com/saifghl/lms/internal/infrastructure/cache"
	"github.com/saifghl/lms/internal/infrastructure/config"
	"github.com/saifghl/lms/internal/infrastructure/event"
	"github.com/saifghl/lms/internal/infrastructure/logger"
	"github.com/saifghl/lms/internal/infrastructure/persistence"
	"github.com/saifghl/lms/internal/infrastructure/telemetry"
	"github.com/saifghl/lms/internal/interfaces/http/handler"
	"github.com/saifghl/lms/internal/interfaces/http/middleware"
	"github.com/saifghl/lms/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const (
	shutdownTimeout       = 30 * time.Second
	leaseGaugeInterval    = time.Minute
	telemetryFlushTimeout = 5 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	bootLog, err := logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	collector := telemetry.Collector{
		Endpoint:    cfg.Telemetry.CollectorEndpoint,
		Insecure:    cfg.Telemetry.Insecure,
		ServiceName: cfg.Telemetry.ServiceName,
		Environment: cfg.App.Env,
	}

	// Log export has to exist before the final logger so the OTLP core can be teed in
	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:   cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		Collector: collector,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log export", zap.Error(err))
	}

	log := bootLog
	if logsProvider.IsEnabled() {
		log, err = logger.New(&logger.Config{
			Level:   cfg.Log.Level,
			Format:  cfg.Log.Format,
			Output:  cfg.Log.Output,
			Service: cfg.App.Name,
		}, logsProvider.ZapCore(logger.ParseLevel(cfg.Log.Level)))
		if err != nil {
			bootLog.Fatal("Failed to initialize logger", zap.Error(err))
		}
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting lease management API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:       cfg.Telemetry.Enabled,
		SamplingRatio: cfg.Telemetry.SamplingRatio,
		Collector:     collector,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:        cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		ExportInterval: cfg.Telemetry.MetricsInterval,
		Collector:      collector,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Profiling.Enabled,
		ServerAddress:   cfg.Profiling.ServerAddress,
		ApplicationName: cfg.Telemetry.ServiceName + cfg.Profiling.ApplicationSuffix,
		Tags:            map[string]string{"env": cfg.App.Env},
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if cfg.Profiling.Enabled && cfg.Profiling.SpanProfiles {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Span profiles unavailable", zap.Error(err))
		}
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithSQLText(cfg.App.Env != "production"),
	)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	dbSystem := "postgresql"
	if cfg.Database.Driver == "sqlite" {
		dbSystem = "sqlite"
	}
	if err := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        dbSystem,
	}, log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	capabilities := persistence.ProbeCapabilities(db.DB)
	log.Info("Database connected", zap.Any("capabilities", capabilities.Snapshot()))
	for table, present := range capabilities.Snapshot() {
		if !present {
			log.Warn("Auxiliary table missing, dependent features degrade",
				zap.String("table", table),
				zap.String("operation", "startup.probe"),
			)
		}
	}

	// Repositories
	unitRepo := persistence.NewGormUnitRepository(db.DB)
	partyRepo := persistence.NewGormPartyRepository(db.DB)
	assignmentRepo := persistence.NewGormAssignmentRepository(db.DB)
	queryRepo := persistence.NewGormLeaseQueryRepository(db.DB)
	escalationRepo := persistence.NewGormEscalationRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	dashboardRepo := persistence.NewGormDashboardRepository(db.DB)

	// Metrics
	leaseCounts := telemetry.LeaseCountFunc(func(ctx context.Context) (map[string]int64, error) {
		counts, err := dashboardRepo.CountByStatus(ctx)
		if err != nil {
			return nil, err
		}
		out := make(map[string]int64, len(counts))
		for status, n := range counts {
			out[string(status)] = n
		}
		return out, nil
	})
	leaseMetrics, err := telemetry.NewLeaseMetrics(meterProvider.Meter("lms.lease"), leaseCounts, log)
	if err != nil {
		log.Fatal("Failed to register lease metrics", zap.Error(err))
	}
	metricsCtx, stopMetrics := context.WithCancel(ctx)
	defer stopMetrics()
	if meterProvider.IsEnabled() {
		leaseMetrics.StartPeriodicCollection(metricsCtx, leaseGaugeInterval)
	}
	defer leaseMetrics.Stop()

	// Dashboard cache
	statsCache, err := cache.NewDashboardCacheFactory(cfg.Redis, cache.WithLogger(log)).Create()
	if err != nil {
		log.Fatal("Failed to create dashboard cache", zap.Error(err))
	}
	defer func() {
		if err := statsCache.Close(); err != nil {
			log.Error("Error closing dashboard cache", zap.Error(err))
		}
	}()

	// Services
	leaseService := leaseapp.NewLeaseService(
		persistence.NewGormLeaseTransactionScope(db.DB),
		unitRepo,
		partyRepo,
		queryRepo,
		escalationRepo,
		capabilities,
	)
	leaseService.SetLeaseMetrics(leaseMetrics)

	assignmentService := occupancyapp.NewAssignmentService(
		persistence.NewGormOccupancyTransactionScope(db.DB),
		unitRepo,
		partyRepo,
		assignmentRepo,
		capabilities,
	)

	dashboardService := reportapp.NewDashboardService(dashboardRepo, escalationRepo, notificationRepo, capabilities,
		dashboardOptions(cfg))
	dashboardService.SetCache(statsCache)
	dashboardService.SetLeaseMetrics(leaseMetrics)

	// Events are published after commit; handlers write notifications and
	// drop cached dashboards.
	eventBus := event.NewInMemoryEventBus(log)
	notificationHandler := notificationapp.NewLeaseEventHandler(notificationRepo, capabilities)
	eventBus.Subscribe(notificationHandler, notificationHandler.EventTypes()...)
	cacheInvalidator := reportapp.NewCacheInvalidator(dashboardService)
	eventBus.Subscribe(cacheInvalidator, cacheInvalidator.EventTypes()...)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	leaseService.SetEventPublisher(eventBus)
	assignmentService.SetEventPublisher(eventBus)

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to access connection pool", zap.Error(err))
	}

	tracingCfg := middleware.DefaultTracingConfig()
	tracingCfg.Enabled = cfg.Telemetry.Enabled
	tracingCfg.ServiceName = cfg.Telemetry.ServiceName

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	profilingCfg := middleware.DefaultProfilingConfig()
	profilingCfg.Enabled = profiler.IsEnabled()

	engine := router.New(router.Options{
		Logger:    log,
		Meter:     meterProvider,
		Tracing:   tracingCfg,
		Profiling: profilingCfg,
		CORS:      corsCfg,
	}, router.Handlers{
		Lease:     handler.NewLeaseHandler(leaseService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Unit:      handler.NewUnitHandler(assignmentService),
		System:    handler.NewSystemHandler(cfg.App.Name, telemetry.ServiceVersion, sqlDB, capabilities),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}
	if cfg.HTTP.RequestTimeout > 0 {
		srv.Handler = http.TimeoutHandler(engine, cfg.HTTP.RequestTimeout, `{"success":false,"error":{"code":"ERR_INTERNAL","message":"Request timed out"}}`)
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Event bus did not drain", zap.Error(err))
	}
	shutdownTelemetry(log, tracerProvider, meterProvider, logsProvider, profiler)

	log.Info("Server exited gracefully")
}

func dashboardOptions(cfg *config.Config) reportapp.DashboardOptions {
	opts := reportapp.DefaultDashboardOptions()
	d := cfg.Dashboard
	opts.RenewalWindowDays = d.RenewalWindowDays
	opts.ExpiryWindowDays = d.ExpiryWindowDays
	opts.ExpiringSoonDays = d.ExpiringSoonDays
	opts.EscalationWindowDays = d.EscalationWindowDays
	opts.HighUrgencyThreshold = d.HighUrgencyThreshold
	opts.ProjectionMonths = d.ProjectionMonths
	opts.RecentNotificationsMax = d.RecentNotificationsMax
	if d.CurrencyCode != "" {
		opts.CurrencyCode = d.CurrencyCode
	} else {
		opts.CurrencyCode = lease.DefaultCurrencyCode
	}
	if cfg.Redis.DashboardTTL > 0 {
		opts.CacheTTL = cfg.Redis.DashboardTTL
	}
	return opts
}

func shutdownTelemetry(
	log *zap.Logger,
	tp *telemetry.TracerProvider,
	mp *telemetry.MeterProvider,
	lp *telemetry.LoggerProvider,
	profiler *telemetry.Profiler,
) {
	ctx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
	defer cancel()

	if err := tp.Shutdown(ctx); err != nil {
		log.Error("Tracer shutdown failed", zap.Error(err))
	}
	if err := mp.Shutdown(ctx); err != nil {
		log.Error("Meter shutdown failed", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Profiler stop failed", zap.Error(err))
	}
	// Log export goes last so the lines above still reach the collector
	if err := lp.Shutdown(ctx); err != nil {
		log.Error("Log export shutdown failed", zap.Error(err))
	}
}
