package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric"

	"github.com/aniketri/real-insights-data/internal/application/usecase"
	"github.com/aniketri/real-insights-data/internal/domain/port"
	"github.com/aniketri/real-insights-data/internal/infrastructure/archive"
	"github.com/aniketri/real-insights-data/internal/infrastructure/cache"
	"github.com/aniketri/real-insights-data/internal/infrastructure/config"
	"github.com/aniketri/real-insights-data/internal/infrastructure/export"
	"github.com/aniketri/real-insights-data/internal/infrastructure/kafka"
	"github.com/aniketri/real-insights-data/internal/infrastructure/persistence/postgres"
	"github.com/aniketri/real-insights-data/internal/infrastructure/scheduler"
	grpcPresentation "github.com/aniketri/real-insights-data/internal/presentation/grpc"
	"github.com/aniketri/real-insights-data/internal/presentation/rest"
	"github.com/aniketri/real-insights-data/pkg/auth"
	pkgkafka "github.com/aniketri/real-insights-data/pkg/kafka"
	"github.com/aniketri/real-insights-data/pkg/observability"
	pkgpostgres "github.com/aniketri/real-insights-data/pkg/postgres"
)

func newServeCmd() *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and gRPC servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, config.Load(), !skipMigrations)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on start")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, migrate bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.ServiceName,
	})
	logger.Info("starting "+cfg.ServiceName,
		"version", version,
		"instance_id", cfg.InstanceID,
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// --- Telemetry ----------------------------------------------------------
	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.OTLPEndpoint,
			Insecure:    true,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
		}
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: cfg.ServiceName})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck

	// --- Database -----------------------------------------------------------
	pgCfg := cfg.Postgres()
	if migrate {
		if err := postgres.Migrate(pgCfg.DSN()); err != nil {
			logger.Warn("migration warning", "error", err)
		}
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()
	pool, err := pkgpostgres.NewPool(dbCtx, pgCfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database", "host", cfg.DB.Host, "database", cfg.DB.Name)

	loanRepo := postgres.NewLoanRepo(pool)
	propertyRepo := postgres.NewPropertyRepo(pool)
	counterpartyRepo := postgres.NewCounterpartyRepo(pool)
	noteRepo := postgres.NewNoteRepo(pool)
	reportRepo := postgres.NewReportRepo(pool)
	runRepo := postgres.NewReportRunRepo(pool)

	// --- Cache and events ---------------------------------------------------
	resultCache, closeCache, err := buildCache(cfg.Cache, meterProvider.Meter(cfg.ServiceName+"/cache"), logger)
	if err != nil {
		return err
	}
	defer closeCache()
	invalidator := usecase.NewCacheInvalidator(resultCache, logger)

	kafkaCfg := pkgkafka.Config{
		Brokers:       cfg.Kafka.Brokers,
		ConsumerGroup: cfg.Kafka.ConsumerGroup,
		SASLMechanism: cfg.Kafka.SASLMechanism,
		SASLUsername:  cfg.Kafka.SASLUsername,
		SASLPassword:  cfg.Kafka.SASLPassword,
		TLS:           cfg.Kafka.TLS,
		SASLEnabled:   cfg.Kafka.SASLMechanism != "",
	}

	var publisher port.EventPublisher = kafka.NewLogPublisher(logger)
	var consumer *pkgkafka.Consumer
	if kafkaCfg.Enabled() {
		producer, err := pkgkafka.NewProducer(kafkaCfg)
		if err != nil {
			return fmt.Errorf("create kafka producer: %w", err)
		}
		defer func() { _ = producer.Close() }() //nolint:errcheck
		publisher = kafka.NewPublisher(producer, cfg.Kafka.Topic, cfg.InstanceID, logger)

		consumer, err = pkgkafka.NewConsumer(kafkaCfg, cfg.Kafka.Topic,
			kafka.InvalidationHandler(invalidator, cfg.InstanceID, logger), logger)
		if err != nil {
			return fmt.Errorf("create kafka consumer: %w", err)
		}
		defer func() { _ = consumer.Close() }() //nolint:errcheck
	} else {
		logger.Info("KAFKA_BROKERS not set, events are logged and cache invalidation stays local")
	}

	// --- Reports ------------------------------------------------------------
	var reportArchive port.ReportArchive = archive.InlineArchive{}
	if cfg.Reports.ArchiveBucket != "" {
		s3Archive, err := archive.NewS3ArchiveFromEnv(ctx, cfg.Reports.AWSRegion, cfg.Reports.ArchiveBucket, cfg.Reports.ArchivePrefix)
		if err != nil {
			return fmt.Errorf("configure report archive: %w", err)
		}
		reportArchive = s3Archive
	}
	renderer := export.NewRenderer()

	runReportUC := usecase.NewRunReportUseCase(reportRepo, loanRepo, runRepo, renderer, reportArchive, publisher, logger)
	cronScheduler := scheduler.NewCronScheduler(runReportUC, logger)
	if cfg.Reports.SchedulerEnabled {
		n, err := cronScheduler.Load(ctx, reportRepo)
		if err != nil {
			return fmt.Errorf("load report schedules: %w", err)
		}
		cronScheduler.Start()
		logger.Info("report scheduler started", "reports", n)
	}

	// --- Use cases ----------------------------------------------------------
	ttl := cfg.Cache.TTL
	computeUC := usecase.NewComputeScheduleUseCase()
	loanScheduleUC := usecase.NewGetLoanScheduleUseCase(loanRepo, resultCache, logger, ttl)
	listLoansUC := usecase.NewListLoansUseCase(loanRepo, resultCache, logger, ttl)
	dashboardUC := usecase.NewGetDashboardUseCase(loanRepo, propertyRepo, resultCache, logger, ttl)

	handlers := rest.Handlers{
		ComputeSchedule: computeUC,
		LoanSchedule:    loanScheduleUC,
		ListLoans:       listLoansUC,
		GetLoan:         usecase.NewGetLoanUseCase(loanRepo),
		CreateLoan:      usecase.NewCreateLoanUseCase(loanRepo, propertyRepo, counterpartyRepo, publisher, invalidator, logger),
		UpdateLoan:      usecase.NewUpdateLoanUseCase(loanRepo, publisher, invalidator, logger),
		DeleteLoan:      usecase.NewDeleteLoanUseCase(loanRepo, publisher, invalidator, logger),
		ListNotes:       usecase.NewListNotesUseCase(loanRepo, noteRepo),
		AddNote:         usecase.NewAddNoteUseCase(loanRepo, noteRepo, publisher, logger),
		EditNote:        usecase.NewEditNoteUseCase(loanRepo, noteRepo, publisher, logger),
		DeleteNote:      usecase.NewDeleteNoteUseCase(loanRepo, noteRepo, publisher, logger),
		Dashboard:       dashboardUC,
		Reports:         usecase.NewGetReportsUseCase(loanRepo, propertyRepo, reportRepo),
		CreateReport:    usecase.NewCreateReportUseCase(reportRepo, cronScheduler, publisher, logger),
		RunReport:       runReportUC,
		ReportRuns:      usecase.NewListReportRunsUseCase(reportRepo, runRepo),
		ExportLoans:     usecase.NewExportLoansUseCase(loanRepo, renderer),
	}

	jwtSvc, err := buildJWT(cfg.JWT)
	if err != nil {
		return err
	}

	// --- Servers ------------------------------------------------------------
	httpServer := rest.NewServer(cfg.HTTPAddr(), rest.NewRouter(rest.RouterConfig{
		Handlers:    handlers,
		JWT:         jwtSvc,
		DB:          pool,
		Metrics:     metricsHandler,
		Logger:      logger,
		ServiceName: cfg.ServiceName,
	}), logger)
	if cfg.TLS.CertFile != "" && cfg.TLS.KeyFile != "" {
		if err := httpServer.EnableTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile); err != nil {
			return fmt.Errorf("configure HTTP TLS: %w", err)
		}
	}

	grpcServer := grpcPresentation.NewServer(
		grpcPresentation.NewPortfolioHandler(computeUC, loanScheduleUC, dashboardUC, listLoansUC, logger),
		logger,
		jwtSvc,
		grpcPresentation.ServerOptions{
			HealthService: cfg.ServiceName,
			TLSCertFile:   cfg.TLS.CertFile,
			TLSKeyFile:    cfg.TLS.KeyFile,
			Reflection:    cfg.GRPCReflection,
		},
	)

	errCh := make(chan error, 3)
	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()
	go func() {
		if err := httpServer.Serve(); err != nil {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()
	if consumer != nil {
		go func() {
			if err := consumer.Start(ctx); err != nil {
				errCh <- fmt.Errorf("cache invalidation consumer error: %w", err)
			}
		}()
	}

	// Wait for shutdown signal.
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("server error", "error", runErr)
	}

	// Graceful shutdown.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	grpcServer.GracefulStop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	if err := cronScheduler.Stop(shutdownCtx); err != nil {
		logger.Error("report scheduler shutdown error", "error", err)
	}

	logger.Info(cfg.ServiceName + " stopped")
	return runErr
}

// buildCache returns the configured ResultCache decorated with metrics.
func buildCache(cfg config.CacheConfig, meter metric.Meter, logger *slog.Logger) (port.ResultCache, func(), error) {
	metrics, err := cache.NewMetrics(meter)
	if err != nil {
		return nil, nil, fmt.Errorf("init cache metrics: %w", err)
	}

	switch cfg.Backend {
	case "redis":
		redisCache := cache.NewRedisCache(cache.RedisOptions{
			Addr:       cfg.RedisAddr,
			TTL:        cfg.TTL,
			MaxEntries: cfg.MaxEntries,
			KeyPrefix:  config.ServiceName + ":",
			OnEvict:    metrics.RecordEviction,
		}, logger)
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := redisCache.Ping(pingCtx); err != nil {
			logger.Warn("redis unreachable at startup, cache lookups will miss until it recovers", "error", err)
		}
		closeFn := func() { _ = redisCache.Close() } //nolint:errcheck
		return cache.NewInstrumented(redisCache, metrics, "redis"), closeFn, nil
	case "none":
		return cache.NewInstrumented(cache.NoopCache{}, metrics, "none"), func() {}, nil
	default:
		memCache := cache.NewMemoryCache(cache.MemoryOptions{
			TTL:        cfg.TTL,
			MaxEntries: cfg.MaxEntries,
			OnEvict:    metrics.RecordEviction,
		})
		return cache.NewInstrumented(memCache, metrics, "memory"), func() {}, nil
	}
}

// buildJWT configures token validation: an RSA public key when given,
// otherwise the shared HMAC secret.
func buildJWT(cfg config.JWTConfig) (*auth.JWTService, error) {
	jwtCfg := auth.JWTConfig{
		Issuer: cfg.Issuer,
		Leeway: cfg.Leeway,
	}
	if cfg.PublicKeyFile != "" {
		keyData, err := auth.LoadKeyFromFile(cfg.PublicKeyFile)
		if err != nil {
			return nil, fmt.Errorf("load JWT public key: %w", err)
		}
		jwtCfg.PublicKeyPEM = string(keyData)
	} else {
		jwtCfg.Secret = cfg.Secret
	}

	svc, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		return nil, fmt.Errorf("init JWT service: %w", err)
	}
	return svc, nil
}
