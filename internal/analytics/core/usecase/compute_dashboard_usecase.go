package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"royalty-analytics-service/internal/analytics/core/domain"
	"royalty-analytics-service/internal/analytics/core/ports"
	"royalty-analytics-service/internal/platform/clock"
	"royalty-analytics-service/internal/platform/metrics"
	tenantdomain "royalty-analytics-service/internal/tenants/core/domain"
	tenantusecase "royalty-analytics-service/internal/tenants/core/usecase"
)

const (
	modeSnapshot = "snapshot"
	modeLive     = "live"
	modeQuery    = "query"
)

type ComputeDashboardInput struct {
	Actor   tenantdomain.Actor
	Filters *domain.Filters // nil or empty means "no filters"
}

type ComputeDashboardUseCase struct {
	scopes    ports.ScopeResolverPort
	tenants   ports.TenantLookupPort
	snapshots ports.SnapshotReaderPort
	engine    *Engine
	clock     clock.Clock
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewComputeDashboardUseCase(
	scopes ports.ScopeResolverPort,
	tenants ports.TenantLookupPort,
	snapshots ports.SnapshotReaderPort,
	engine *Engine,
	clk clock.Clock,
	m *metrics.Metrics,
	logger *zap.Logger,
) *ComputeDashboardUseCase {
	return &ComputeDashboardUseCase{
		scopes:    scopes,
		tenants:   tenants,
		snapshots: snapshots,
		engine:    engine,
		clock:     clk,
		metrics:   m,
		logger:    logger,
	}
}

// Execute returns the dashboard bundle for the actor.
//
// Without filters a global actor reads its precomputed snapshot and any other
// actor gets a live computation over its scope. With filters the bundle is
// always computed live; an explicit tenant id replaces the actor's scope.
func (uc *ComputeDashboardUseCase) Execute(ctx context.Context, in ComputeDashboardInput) (*domain.FacetBundle, error) {
	if in.Actor.TenantID <= 0 {
		return nil, fmt.Errorf("%w: tenant id is required", domain.ErrValidation)
	}
	if tenantdomain.NormalizeRole(string(in.Actor.Role)) == "" {
		return nil, fmt.Errorf("%w: role is required", domain.ErrValidation)
	}
	if err := in.Filters.Validate(); err != nil {
		return nil, err
	}

	mode := modeQuery
	if in.Filters.IsEmpty() {
		mode = modeLive
		if uc.scopes.IsGlobal(in.Actor.Role) {
			mode = modeSnapshot
		}
	}

	start := time.Now()
	bundle, err := uc.execute(ctx, mode, in)
	uc.metrics.AggregationDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())

	result := "ok"
	if err != nil {
		result = "error"
		uc.logger.Warn("dashboard request failed",
			zap.String("mode", mode),
			zap.Int64("tenant_id", in.Actor.TenantID),
			zap.Error(err),
		)
	}
	uc.metrics.DashboardRequestsTotal.WithLabelValues(mode, result).Inc()

	return bundle, err
}

func (uc *ComputeDashboardUseCase) execute(ctx context.Context, mode string, in ComputeDashboardInput) (*domain.FacetBundle, error) {
	switch mode {
	case modeSnapshot:
		return uc.fromSnapshot(ctx, in.Actor.TenantID)
	case modeLive:
		scope, err := uc.resolveScope(ctx, in.Actor)
		if err != nil {
			return nil, err
		}
		return uc.engine.Compute(ctx, domain.NewEventQuery(scope, nil))
	}

	var scope tenantdomain.Scope
	if id := in.Filters.ExplicitTenantID; id != nil {
		// The explicit tenant is not checked against the actor's own scope.
		if err := uc.ensureTenant(ctx, *id); err != nil {
			return nil, err
		}
		scope = tenantdomain.OwnersScope(*id)
	} else {
		var err error
		if scope, err = uc.resolveScope(ctx, in.Actor); err != nil {
			return nil, err
		}
	}

	return uc.engine.Compute(ctx, domain.NewEventQuery(scope, in.Filters))
}

func (uc *ComputeDashboardUseCase) fromSnapshot(ctx context.Context, tenantID int64) (*domain.FacetBundle, error) {
	bundle, found, err := uc.snapshots.GetSnapshot(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("%w: read snapshot: %w", domain.ErrComputation, err)
	}
	if !found {
		return EmptyBundle(uc.clock.Now()), nil
	}
	return bundle, nil
}

func (uc *ComputeDashboardUseCase) resolveScope(ctx context.Context, actor tenantdomain.Actor) (tenantdomain.Scope, error) {
	scope, err := uc.scopes.Execute(ctx, actor)
	if err != nil {
		if errors.Is(err, tenantusecase.ErrInvalidActor) {
			return tenantdomain.Scope{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		return tenantdomain.Scope{}, fmt.Errorf("%w: resolve scope: %w", domain.ErrComputation, err)
	}
	return scope, nil
}

func (uc *ComputeDashboardUseCase) ensureTenant(ctx context.Context, id int64) error {
	_, found, err := uc.tenants.GetTenant(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: lookup tenant %d: %w", domain.ErrComputation, id, err)
	}
	if !found {
		return fmt.Errorf("%w: tenant %d", domain.ErrNotFound, id)
	}
	return nil
}
