package postgres

import (
	"context"
	"fmt"

	"royalty-analytics-service/internal/ingestion/core/domain"
	"royalty-analytics-service/internal/ingestion/core/ports"
	"royalty-analytics-service/internal/platform/database"
)

type UploadRepository struct {
	db database.DB
}

func NewUploadRepository(db database.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

var _ ports.UploadRepositoryPort = (*UploadRepository)(nil)

const insertUploadSQL = `
INSERT INTO uploads (
    batch_id,
    tenant_id,
    platform,
    source_store,
    file_name,
    total_rows,
    status,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const finalizeUploadSQL = `
UPDATE uploads SET
    stored_rows   = $2,
    failed_chunks = $3,
    status        = $4,
    completed_at  = $5
WHERE batch_id = $1`

func (r *UploadRepository) CreateUpload(ctx context.Context, u *domain.Upload) error {
	_, err := r.db.ExecContext(ctx, insertUploadSQL,
		u.BatchID,
		u.TenantID,
		u.Platform,
		u.Store,
		u.FileName,
		u.TotalRows,
		string(u.Status),
		u.CreatedAt,
	)
	return err
}

func (r *UploadRepository) FinalizeUpload(ctx context.Context, u *domain.Upload) error {
	res, err := r.db.ExecContext(ctx, finalizeUploadSQL,
		u.BatchID,
		u.StoredRows,
		u.FailedChunks,
		string(u.Status),
		u.CompletedAt,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("upload %s not found", u.BatchID)
	}
	return nil
}
