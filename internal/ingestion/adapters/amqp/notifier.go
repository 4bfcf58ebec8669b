package amqp

import (
	"context"

	"royalty-analytics-service/internal/amqp"
	"royalty-analytics-service/internal/ingestion/core/domain"
	"royalty-analytics-service/internal/ingestion/core/ports"
)

type Publisher interface {
	PublishUploadProcessed(ctx context.Context, msg *amqp.UploadProcessedMessage) error
}

type UploadNotifier struct {
	publisher Publisher
}

func NewUploadNotifier(publisher Publisher) *UploadNotifier {
	return &UploadNotifier{publisher: publisher}
}

var _ ports.UploadNotifierPort = (*UploadNotifier)(nil)

func (n *UploadNotifier) UploadProcessed(ctx context.Context, u domain.Upload) error {
	msg := amqp.NewUploadProcessedMessage(
		u.BatchID.String(),
		u.TenantID,
		u.Platform,
		u.Store,
		u.StoredRows,
		string(u.Status),
	)
	return n.publisher.PublishUploadProcessed(ctx, msg)
}
