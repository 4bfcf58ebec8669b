package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	analyticsRepoPg "royalty-analytics-service/internal/analytics/adapters/postgres"
	analyticsUsecase "royalty-analytics-service/internal/analytics/core/usecase"
	"royalty-analytics-service/internal/config"
	"royalty-analytics-service/internal/platform/clock"
	"royalty-analytics-service/internal/platform/database"
	"royalty-analytics-service/internal/platform/logging"
	"royalty-analytics-service/internal/platform/metrics"
	snapshotsRepoPg "royalty-analytics-service/internal/snapshots/adapters/postgres"
	snapshotsRedis "royalty-analytics-service/internal/snapshots/adapters/redis"
	snapshotsPorts "royalty-analytics-service/internal/snapshots/core/ports"
	snapshotsUsecase "royalty-analytics-service/internal/snapshots/core/usecase"
	tenantsRepoPg "royalty-analytics-service/internal/tenants/adapters/postgres"
	tenantsDomain "royalty-analytics-service/internal/tenants/core/domain"
)

// snapshot-refresh recomputes every global tenant's dashboard snapshot once
// and logs the run report.
func main() {
	timeout := flag.Duration("timeout", 15*time.Minute, "Abort the run after this long")
	migrate := flag.Bool("migrate", false, "Apply pending migrations first")
	noLock := flag.Bool("no-lock", false, "Skip the Redis run lock even if REDIS_ADDRESS is set")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, *timeout, *migrate, *noLock, logger); err != nil {
		logger.Error("snapshot refresh failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, timeout time.Duration, migrate, noLock bool, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	clk := clock.System{Location: loc}

	db, err := database.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if migrate {
		if err := database.RunMigrations(db); err != nil {
			return err
		}
	}

	var runLock snapshotsPorts.RunLockPort
	if cfg.RedisAddress != "" && !noLock {
		rdb, err := snapshotsRedis.Connect(ctx, cfg.RedisAddress)
		if err != nil {
			return err
		}
		defer rdb.Close()
		runLock = snapshotsRedis.NewRunLock(rdb, snapshotsRedis.DefaultLockKey, cfg.SnapshotLockTTL)
	}

	roles := make([]tenantsDomain.Role, 0, len(cfg.GlobalRoles))
	for _, r := range cfg.GlobalRoles {
		roles = append(roles, tenantsDomain.NormalizeRole(r))
	}

	sqlDB := database.NewSQLDB(db)
	engine := analyticsUsecase.NewEngine(
		analyticsRepoPg.NewEventRepository(sqlDB), clk, cfg.AggregationTimeout,
		logging.Component(logger, "engine"),
	)
	refresh := snapshotsUsecase.NewRefreshSnapshotsUseCase(
		tenantsRepoPg.NewTenantRepository(sqlDB),
		engine,
		snapshotsRepoPg.NewSnapshotRepository(sqlDB),
		runLock,
		snapshotsUsecase.RefreshSnapshotsConfig{GlobalRoles: roles, Workers: cfg.SnapshotWorkers},
		clk,
		metrics.New(prometheus.NewRegistry()),
		logging.Component(logger, "snapshot-refresh"),
	)

	report, err := refresh.Execute(ctx)
	if err != nil {
		return err
	}

	logger.Info("snapshot refresh finished",
		zap.Time("started_at", report.StartedAt),
		zap.Duration("duration", report.Duration),
		zap.Int("tenants", report.Tenants),
		zap.Int("refreshed", report.Refreshed),
		zap.Int64s("failed_tenant_ids", report.FailedTenantIDs),
	)
	if report.Failed > 0 {
		return fmt.Errorf("%d of %d tenants failed", report.Failed, report.Tenants)
	}
	return nil
}
