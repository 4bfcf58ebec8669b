package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	analyticsdomain "royalty-analytics-service/internal/analytics/core/domain"
	"royalty-analytics-service/internal/platform/clock"
	"royalty-analytics-service/internal/platform/metrics"
	"royalty-analytics-service/internal/snapshots/core/domain"
	"royalty-analytics-service/internal/snapshots/core/ports"
	tenantdomain "royalty-analytics-service/internal/tenants/core/domain"
)

var ErrRefreshInProgress = errors.New("snapshot refresh already in progress")

type RefreshSnapshotsUseCase struct {
	tenants     ports.PrivilegedTenantLister
	computer    ports.BundleComputer
	store       ports.SnapshotStorePort
	lock        ports.RunLockPort // optional
	globalRoles []tenantdomain.Role
	workers     int
	clock       clock.Clock
	metrics     *metrics.Metrics
	logger      *zap.Logger

	running atomic.Bool
}

type RefreshSnapshotsConfig struct {
	GlobalRoles []tenantdomain.Role
	Workers     int
}

func NewRefreshSnapshotsUseCase(
	tenants ports.PrivilegedTenantLister,
	computer ports.BundleComputer,
	store ports.SnapshotStorePort,
	lock ports.RunLockPort,
	cfg RefreshSnapshotsConfig,
	clk clock.Clock,
	m *metrics.Metrics,
	logger *zap.Logger,
) *RefreshSnapshotsUseCase {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	return &RefreshSnapshotsUseCase{
		tenants:     tenants,
		computer:    computer,
		store:       store,
		lock:        lock,
		globalRoles: cfg.GlobalRoles,
		workers:     workers,
		clock:       clk,
		metrics:     m,
		logger:      logger,
	}
}

// Execute recomputes and replaces the snapshot of every globally privileged
// tenant. A failing tenant is logged and counted; the others still refresh.
// Only one run may be active at a time.
func (uc *RefreshSnapshotsUseCase) Execute(ctx context.Context) (domain.RefreshReport, error) {
	if !uc.running.CompareAndSwap(false, true) {
		uc.metrics.SnapshotRunsTotal.WithLabelValues("skipped").Inc()
		return domain.RefreshReport{}, ErrRefreshInProgress
	}
	defer uc.running.Store(false)

	if uc.lock != nil {
		release, acquired, err := uc.lock.Acquire(ctx)
		if err != nil {
			uc.metrics.SnapshotRunsTotal.WithLabelValues("failed").Inc()
			return domain.RefreshReport{}, fmt.Errorf("acquire refresh lock: %w", err)
		}
		if !acquired {
			uc.metrics.SnapshotRunsTotal.WithLabelValues("skipped").Inc()
			return domain.RefreshReport{}, ErrRefreshInProgress
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				uc.logger.Warn("release refresh lock", zap.Error(err))
			}
		}()
	}

	now := uc.clock.Now()
	report := domain.RefreshReport{StartedAt: now}
	start := time.Now()

	tenants, err := uc.tenants.ListByRoles(ctx, uc.globalRoles)
	if err != nil {
		uc.metrics.SnapshotRunsTotal.WithLabelValues("failed").Inc()
		return report, fmt.Errorf("list privileged tenants: %w", err)
	}
	report.Tenants = len(tenants)

	// The unrestricted bundle is the same for every privileged tenant.
	var (
		bundle     *analyticsdomain.FacetBundle
		computeErr error
	)
	if len(tenants) > 0 {
		bundle, computeErr = uc.computer.ComputeAt(ctx, analyticsdomain.EventQuery{Scope: tenantdomain.UnrestrictedScope()}, now)
		if computeErr != nil {
			uc.logger.Error("snapshot bundle computation failed", zap.Error(computeErr))
		}
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(uc.workers)

	for _, t := range tenants {
		g.Go(func() error {
			err := computeErr
			if err != nil {
				err = fmt.Errorf("compute bundle: %w", err)
			} else {
				err = uc.replaceTenant(ctx, t.ID, bundle)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed++
				report.FailedTenantIDs = append(report.FailedTenantIDs, t.ID)
				uc.metrics.SnapshotTenantFailuresTotal.Inc()
				uc.logger.Error("snapshot refresh failed",
					zap.Int64("tenant_id", t.ID),
					zap.Error(err),
				)
				return nil
			}
			report.Refreshed++
			return nil
		})
	}
	_ = g.Wait()
	slices.Sort(report.FailedTenantIDs)

	report.Duration = time.Since(start)
	uc.metrics.SnapshotRunDuration.Observe(report.Duration.Seconds())
	uc.metrics.SnapshotRunsTotal.WithLabelValues("completed").Inc()

	uc.logger.Info("snapshot refresh completed",
		zap.Int("tenants", report.Tenants),
		zap.Int("refreshed", report.Refreshed),
		zap.Int("failed", report.Failed),
		zap.Duration("elapsed", report.Duration),
	)

	return report, nil
}

func (uc *RefreshSnapshotsUseCase) replaceTenant(ctx context.Context, tenantID int64, bundle *analyticsdomain.FacetBundle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := uc.store.Replace(ctx, tenantID, bundle); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
