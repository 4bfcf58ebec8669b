package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"royalty-analytics-service/internal/analytics/core/domain"
	"royalty-analytics-service/internal/analytics/core/ports"
	"royalty-analytics-service/internal/platform/clock"
)

// Engine reads scoped events once and derives every dashboard facet from
// that single read.
type Engine struct {
	reader  ports.EventReaderPort
	clock   clock.Clock
	timeout time.Duration
	logger  *zap.Logger
}

func NewEngine(reader ports.EventReaderPort, clk clock.Clock, timeout time.Duration, logger *zap.Logger) *Engine {
	return &Engine{reader: reader, clock: clk, timeout: timeout, logger: logger}
}

// Compute builds the bundle for q using the engine clock.
func (e *Engine) Compute(ctx context.Context, q domain.EventQuery) (*domain.FacetBundle, error) {
	return e.ComputeAt(ctx, q, e.clock.Now())
}

// ComputeAt builds the bundle for q with an explicit "now", so that a batch
// of computations shares one reference instant.
func (e *Engine) ComputeAt(ctx context.Context, q domain.EventQuery, now time.Time) (*domain.FacetBundle, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()

	events, err := e.reader.ScanEvents(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: read events: %w", domain.ErrComputation, err)
	}
	events = narrow(events, q)

	bundle, err := buildBundle(ctx, events, now)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("facet bundle computed",
		zap.Int("events", len(events)),
		zap.Bool("unrestricted", q.Scope.Unrestricted),
		zap.Int("owners", len(q.Scope.OwnerIDs)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return bundle, nil
}

// EmptyBundle is the bundle of a tenant with no data: dense series filled
// with zeros and empty lists.
func EmptyBundle(now time.Time) *domain.FacetBundle {
	b, _ := buildBundle(context.Background(), nil, now)
	return b
}

func buildBundle(ctx context.Context, events []domain.RevenueEvent, now time.Time) (*domain.FacetBundle, error) {
	rows, err := prepare(ctx, events)
	if err != nil {
		return nil, computationError(err)
	}
	b := &domain.FacetBundle{}

	// Each goroutine owns exactly one field of b.
	g, gctx := errgroup.WithContext(ctx)
	facet := func(fn func()) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn()
			return nil
		})
	}

	facet(func() { b.Overview = computeOverview(rows) })
	facet(func() { b.MonthlyRevenue = computeMonthlyRevenue(rows, now) })
	facet(func() { b.PlatformShare = computePlatformShare(rows) })
	facet(func() { b.RevenueByMonthPlatform = computeRevenueByMonthPlatform(rows, now) })
	facet(func() { b.TerritoryRevenue = computeTerritoryRevenue(rows) })
	facet(func() { b.YearlyStreams = computeYearlyStreams(rows) })
	facet(func() { b.WeeklyStreams = computeWeeklyStreams(rows, now) })
	facet(func() { b.MusicStreamComparison = computeStreamComparison(rows, now) })
	facet(func() { b.StreamingTrends = computeStreamingTrends(rows, now) })

	if err := awaitFacets(ctx, g.Wait); err != nil {
		return nil, computationError(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, computationError(err)
	}
	return b, nil
}

// awaitFacets returns as soon as either wait finishes or ctx is done. Facet
// goroutines still running after a deadline finish on their own and their
// partial bundle is discarded.
func awaitFacets(ctx context.Context, wait func() error) error {
	done := make(chan error, 1)
	go func() { done <- wait() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func computationError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: aggregation timed out: %w", domain.ErrComputation, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrComputation, err)
}
