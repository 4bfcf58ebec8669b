package scheduler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"royalty-analytics-service/internal/snapshots/core/domain"
	"royalty-analytics-service/internal/snapshots/core/usecase"
)

type Refresher interface {
	Execute(ctx context.Context) (domain.RefreshReport, error)
}

type Config struct {
	Interval   time.Duration
	RunOnStart bool
}

// Scheduler triggers a snapshot refresh on a fixed interval.
type Scheduler struct {
	refresher Refresher
	cfg       Config
	logger    *zap.Logger
}

func New(refresher Refresher, cfg Config, logger *zap.Logger) *Scheduler {
	return &Scheduler{refresher: refresher, cfg: cfg, logger: logger}
}

// Run blocks until ctx is cancelled. Failed runs are logged and the loop
// keeps going.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("snapshot scheduler started",
		zap.Duration("interval", s.cfg.Interval),
		zap.Bool("run_on_start", s.cfg.RunOnStart),
	)

	if s.cfg.RunOnStart {
		s.tick(ctx)
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("snapshot scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	_, err := s.refresher.Execute(ctx)
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrRefreshInProgress):
		s.logger.Info("snapshot refresh skipped, previous run still active")
	case ctx.Err() != nil:
	default:
		s.logger.Error("scheduled snapshot refresh failed", zap.Error(err))
	}
}
