package ports

import (
	"context"

	"github.com/google/uuid"

	"royalty-analytics-service/internal/ingestion/core/domain"
)

type UploadRepositoryPort interface {
	CreateUpload(ctx context.Context, u *domain.Upload) error
	FinalizeUpload(ctx context.Context, u *domain.Upload) error
}

// EventWriterPort appends normalized events. It returns how many rows were
// written; there is no dedupe.
type EventWriterPort interface {
	InsertEvents(ctx context.Context, events []domain.NormalizedEvent) (int, error)
}

type RawRowWriterPort interface {
	InsertRawRows(ctx context.Context, batchID uuid.UUID, platform string, rows []domain.RawRow) (int, error)
}

// UploadNotifierPort announces finished uploads to other processes.
type UploadNotifierPort interface {
	UploadProcessed(ctx context.Context, u domain.Upload) error
}
