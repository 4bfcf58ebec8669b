package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "royalty-analytics-service/docs"

	analyticsHttp "royalty-analytics-service/internal/analytics/adapters/http/fiber"
	analyticsRepoPg "royalty-analytics-service/internal/analytics/adapters/postgres"
	analyticsUsecase "royalty-analytics-service/internal/analytics/core/usecase"

	ingestionAmqp "royalty-analytics-service/internal/ingestion/adapters/amqp"
	ingestionHttp "royalty-analytics-service/internal/ingestion/adapters/http/fiber"
	ingestionRepoPg "royalty-analytics-service/internal/ingestion/adapters/postgres"
	ingestionDomain "royalty-analytics-service/internal/ingestion/core/domain"
	ingestionPorts "royalty-analytics-service/internal/ingestion/core/ports"
	ingestionUsecase "royalty-analytics-service/internal/ingestion/core/usecase"

	snapshotsAmqp "royalty-analytics-service/internal/snapshots/adapters/amqp"
	snapshotsHttp "royalty-analytics-service/internal/snapshots/adapters/http/fiber"
	snapshotsRepoPg "royalty-analytics-service/internal/snapshots/adapters/postgres"
	snapshotsRedis "royalty-analytics-service/internal/snapshots/adapters/redis"
	"royalty-analytics-service/internal/snapshots/adapters/scheduler"
	snapshotsPorts "royalty-analytics-service/internal/snapshots/core/ports"
	snapshotsUsecase "royalty-analytics-service/internal/snapshots/core/usecase"

	tenantsRepoPg "royalty-analytics-service/internal/tenants/adapters/postgres"
	tenantsDomain "royalty-analytics-service/internal/tenants/core/domain"
	tenantsUsecase "royalty-analytics-service/internal/tenants/core/usecase"

	"royalty-analytics-service/internal/amqp"
	"royalty-analytics-service/internal/config"
	"royalty-analytics-service/internal/platform/clock"
	"royalty-analytics-service/internal/platform/database"
	"royalty-analytics-service/internal/platform/logging"
	"royalty-analytics-service/internal/platform/metrics"
)

// @title Royalty Analytics API
// @version 1.0
// @description Revenue event ingestion and dashboard analytics for labels and sub-labels.
// @BasePath /
func main() {
	// Config
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("load analytics timezone", zap.Error(err))
	}
	clk := clock.System{Location: loc}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB connection + schema
	db, err := database.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// Optional messaging
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logging.Component(logger, "amqp"))
		if err != nil {
			logger.Fatal("failed to connect amqp", zap.Error(err))
		}
		defer amqpClient.Close()
	}

	// Optional distributed refresh lock
	var runLock snapshotsPorts.RunLockPort
	if cfg.RedisAddress != "" {
		rdb, err := snapshotsRedis.Connect(ctx, cfg.RedisAddress)
		if err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		defer rdb.Close()
		runLock = snapshotsRedis.NewRunLock(rdb, snapshotsRedis.DefaultLockKey, cfg.SnapshotLockTTL)
	}

	uc, err := buildUseCases(cfg, database.NewSQLDB(db), clk, m, runLock, amqpClient, logger)
	if err != nil {
		logger.Fatal("failed to build use cases", zap.Error(err))
	}

	// HTTP (Fiber) app + handlers
	app := fiber.New(fiber.Config{
		BodyLimit:             cfg.MaxUploadBytes,
		DisableStartupMessage: true,
	})

	dashboardHandler := analyticsHttp.NewDashboardHandler(uc.dashboard)
	app.Get("/dashboard", dashboardHandler.GetDashboard)

	snapshotHandler := snapshotsHttp.NewSnapshotHandler(uc.refresh, uc.scopes)
	app.Post("/admin/snapshots/refresh", snapshotHandler.RefreshSnapshots)

	uploadHandler := ingestionHttp.NewUploadHandler(uc.ingest)
	app.Post("/uploads", uploadHandler.CreateUpload)
	app.Post("/uploads/rows", uploadHandler.IngestRows)

	app.Get("/internal/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	app.Get("/healthz", healthz(db))

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	// Background workers
	g, gctx := errgroup.WithContext(ctx)

	refreshScheduler := scheduler.New(uc.refresh, scheduler.Config{
		Interval:   cfg.SnapshotInterval,
		RunOnStart: cfg.SnapshotRunOnStart,
	}, logging.Component(logger, "scheduler"))
	g.Go(func() error {
		refreshScheduler.Run(gctx)
		return nil
	})

	if amqpClient != nil {
		trigger := snapshotsAmqp.NewUploadTrigger(uc.refresh, logging.Component(logger, "upload-trigger"))
		g.Go(func() error {
			err := amqpClient.ConsumeUploadProcessed(gctx, trigger.HandleUploadProcessed)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	// Graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("fiber stopped", zap.Error(err))
		}
	}()

	logger.Info("server started", zap.String("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case <-gctx.Done():
		logger.Error("background worker stopped", zap.Error(context.Cause(gctx)))
	}

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("fiber shutdown error", zap.Error(err))
	}

	if err := g.Wait(); err != nil {
		logger.Error("background worker error", zap.Error(err))
	}

	logger.Info("server exiting")
}

type useCases struct {
	scopes    *tenantsUsecase.ResolveScopeUseCase
	dashboard *analyticsUsecase.ComputeDashboardUseCase
	refresh   *snapshotsUsecase.RefreshSnapshotsUseCase
	ingest    *ingestionUsecase.IngestUploadUseCase
}

func buildUseCases(
	cfg *config.Config,
	sqlDB database.DB,
	clk clock.Clock,
	m *metrics.Metrics,
	runLock snapshotsPorts.RunLockPort,
	amqpClient *amqp.Client,
	logger *zap.Logger,
) (*useCases, error) {
	roles := make([]tenantsDomain.Role, 0, len(cfg.GlobalRoles))
	for _, r := range cfg.GlobalRoles {
		roles = append(roles, tenantsDomain.NormalizeRole(r))
	}

	// Repositories
	tenantRepository := tenantsRepoPg.NewTenantRepository(sqlDB)
	eventRepository := analyticsRepoPg.NewEventRepository(sqlDB)
	snapshotRepository := snapshotsRepoPg.NewSnapshotRepository(sqlDB)
	uploadRepository := ingestionRepoPg.NewUploadRepository(sqlDB)
	eventWriter := ingestionRepoPg.NewEventWriter(sqlDB)
	rawRowWriter := ingestionRepoPg.NewRawRowWriter(sqlDB)

	registry, err := platformRegistry(cfg.PlatformConfigPath)
	if err != nil {
		return nil, err
	}

	var notifier ingestionPorts.UploadNotifierPort
	if amqpClient != nil {
		notifier = ingestionAmqp.NewUploadNotifier(amqpClient)
	}

	// Usecases
	scopes := tenantsUsecase.NewResolveScopeUseCase(tenantRepository, roles)
	engine := analyticsUsecase.NewEngine(eventRepository, clk, cfg.AggregationTimeout, logging.Component(logger, "engine"))

	return &useCases{
		scopes: scopes,
		dashboard: analyticsUsecase.NewComputeDashboardUseCase(
			scopes, tenantRepository, snapshotRepository, engine, clk, m,
			logging.Component(logger, "dashboard"),
		),
		refresh: snapshotsUsecase.NewRefreshSnapshotsUseCase(
			tenantRepository, engine, snapshotRepository, runLock,
			snapshotsUsecase.RefreshSnapshotsConfig{GlobalRoles: roles, Workers: cfg.SnapshotWorkers},
			clk, m, logging.Component(logger, "snapshot-refresh"),
		),
		ingest: ingestionUsecase.NewIngestUploadUseCase(
			registry, uploadRepository, eventWriter, rawRowWriter, notifier,
			ingestionUsecase.IngestConfig{
				ChunkSize:     cfg.IngestChunkSize,
				UnknownPolicy: ingestionDomain.UnknownPlatformPolicy(cfg.UnknownPlatformPolicy),
			},
			clk, m, logging.Component(logger, "ingestion"),
		),
	}, nil
}

func platformRegistry(path string) (*ingestionUsecase.PlatformRegistry, error) {
	if path == "" {
		return ingestionUsecase.DefaultPlatformRegistry()
	}
	return ingestionUsecase.LoadPlatformRegistry(path)
}

func healthz(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
