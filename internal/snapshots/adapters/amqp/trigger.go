package amqp

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"royalty-analytics-service/internal/amqp"
	"royalty-analytics-service/internal/snapshots/core/domain"
	"royalty-analytics-service/internal/snapshots/core/usecase"
)

type Refresher interface {
	Execute(ctx context.Context) (domain.RefreshReport, error)
}

// UploadTrigger refreshes snapshots when an upload has stored new rows.
type UploadTrigger struct {
	refresher Refresher
	logger    *zap.Logger
}

func NewUploadTrigger(refresher Refresher, logger *zap.Logger) *UploadTrigger {
	return &UploadTrigger{refresher: refresher, logger: logger}
}

func (t *UploadTrigger) HandleUploadProcessed(ctx context.Context, msg *amqp.UploadProcessedMessage) error {
	if msg.StoredRows == 0 {
		t.logger.Debug("upload stored no rows, refresh not needed", zap.String("batch_id", msg.BatchID))
		return nil
	}

	report, err := t.refresher.Execute(ctx)
	if errors.Is(err, usecase.ErrRefreshInProgress) {
		// The next scheduled run picks the rows up.
		t.logger.Info("refresh already running, upload trigger dropped", zap.String("batch_id", msg.BatchID))
		return nil
	}
	if err != nil {
		return err
	}

	t.logger.Info("snapshots refreshed after upload",
		zap.String("batch_id", msg.BatchID),
		zap.Int("refreshed", report.Refreshed),
		zap.Int("failed", report.Failed),
	)
	return nil
}
