package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"royalty-analytics-service/internal/ingestion/core/domain"
	"royalty-analytics-service/internal/ingestion/core/ports"
	"royalty-analytics-service/internal/platform/clock"
	"royalty-analytics-service/internal/platform/metrics"
)

var (
	ErrInvalidUpload   = errors.New("invalid upload")
	ErrUnknownPlatform = errors.New("unknown platform")
)

const DefaultChunkSize = 500

type IngestUploadInput struct {
	TenantID int64
	Platform string
	FileName string
	Rows     []domain.RawRow
}

type IngestConfig struct {
	ChunkSize     int
	UnknownPolicy domain.UnknownPlatformPolicy
}

type IngestUploadUseCase struct {
	registry *PlatformRegistry
	uploads  ports.UploadRepositoryPort
	events   ports.EventWriterPort
	raw      ports.RawRowWriterPort
	notifier ports.UploadNotifierPort // optional
	cfg      IngestConfig
	clock    clock.Clock
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewIngestUploadUseCase(
	registry *PlatformRegistry,
	uploads ports.UploadRepositoryPort,
	events ports.EventWriterPort,
	raw ports.RawRowWriterPort,
	notifier ports.UploadNotifierPort,
	cfg IngestConfig,
	clk clock.Clock,
	m *metrics.Metrics,
	logger *zap.Logger,
) *IngestUploadUseCase {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if !cfg.UnknownPolicy.Valid() {
		cfg.UnknownPolicy = domain.PolicyDrop
	}
	return &IngestUploadUseCase{
		registry: registry,
		uploads:  uploads,
		events:   events,
		raw:      raw,
		notifier: notifier,
		cfg:      cfg,
		clock:    clk,
		metrics:  m,
		logger:   logger,
	}
}

// Execute stores the rows of one uploaded file. Rows are written in chunks;
// a failed chunk is logged and skipped so later chunks still land. The
// returned upload record reflects what was actually stored.
func (uc *IngestUploadUseCase) Execute(ctx context.Context, in IngestUploadInput) (*domain.Upload, error) {
	if in.TenantID <= 0 {
		return nil, fmt.Errorf("%w: tenant id is required", ErrInvalidUpload)
	}
	platform := strings.TrimSpace(in.Platform)
	if platform == "" {
		return nil, fmt.Errorf("%w: platform is required", ErrInvalidUpload)
	}

	strategy, mapped := uc.registry.Lookup(platform)
	if !mapped && uc.cfg.UnknownPolicy == domain.PolicyReject {
		uc.metrics.UnmappedUploadsTotal.WithLabelValues(string(domain.PolicyReject)).Inc()
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
	}

	upload := &domain.Upload{
		BatchID:   uuid.New(),
		TenantID:  in.TenantID,
		Platform:  platform,
		FileName:  in.FileName,
		TotalRows: len(in.Rows),
		Status:    domain.StatusProcessing,
		CreatedAt: uc.clock.Now(),
	}
	if mapped {
		upload.Platform = strategy.Name
		upload.Store = strategy.Store
	}

	if err := uc.uploads.CreateUpload(ctx, upload); err != nil {
		return nil, fmt.Errorf("create upload record: %w", err)
	}

	log := uc.logger.With(
		zap.String("batch_id", upload.BatchID.String()),
		zap.Int64("tenant_id", upload.TenantID),
		zap.String("platform", upload.Platform),
	)

	if mapped {
		uc.storeEvents(ctx, upload, strategy, in.Rows, log)
	} else {
		uc.handleUnmapped(ctx, upload, in.Rows, log)
	}

	upload.CompletedAt = uc.clock.Now()
	if err := uc.uploads.FinalizeUpload(ctx, upload); err != nil {
		return upload, fmt.Errorf("finalize upload record: %w", err)
	}

	log.Info("upload processed",
		zap.String("status", string(upload.Status)),
		zap.Int("total_rows", upload.TotalRows),
		zap.Int("stored_rows", upload.StoredRows),
		zap.Int("failed_chunks", upload.FailedChunks),
	)

	if uc.notifier != nil {
		if err := uc.notifier.UploadProcessed(ctx, *upload); err != nil {
			log.Warn("publish upload processed", zap.Error(err))
		}
	}

	return upload, nil
}

func (uc *IngestUploadUseCase) storeEvents(ctx context.Context, upload *domain.Upload, strategy domain.PlatformStrategy, rows []domain.RawRow, log *zap.Logger) {
	n := rowNormalizer{strategy: strategy, batchID: upload.BatchID, tenantID: upload.TenantID}
	events := make([]domain.NormalizedEvent, len(rows))
	for i, row := range rows {
		events[i] = n.normalize(row)
	}

	for i, chunk := range chunks(events, uc.cfg.ChunkSize) {
		stored, err := uc.events.InsertEvents(ctx, chunk)
		if err != nil {
			upload.FailedChunks++
			uc.metrics.IngestChunkFailuresTotal.Inc()
			log.Error("insert chunk failed",
				zap.Int("chunk", i),
				zap.Int("rows", len(chunk)),
				zap.Error(err),
			)
			continue
		}
		upload.StoredRows += stored
		uc.metrics.IngestedRowsTotal.WithLabelValues(strategy.Store).Add(float64(stored))
	}

	switch {
	case upload.FailedChunks == 0:
		upload.Status = domain.StatusCompleted
	case upload.StoredRows == 0:
		upload.Status = domain.StatusFailed
	default:
		upload.Status = domain.StatusPartial
	}
}

// handleUnmapped never writes normalized rows. Under the raw policy the
// rows are kept verbatim for later replay.
func (uc *IngestUploadUseCase) handleUnmapped(ctx context.Context, upload *domain.Upload, rows []domain.RawRow, log *zap.Logger) {
	upload.Status = domain.StatusUnmapped
	uc.metrics.UnmappedUploadsTotal.WithLabelValues(string(uc.cfg.UnknownPolicy)).Inc()
	log.Warn("no store registered for platform, rows not normalized",
		zap.String("policy", string(uc.cfg.UnknownPolicy)),
		zap.Strings("known_platforms", uc.registry.Platforms()),
	)

	if uc.cfg.UnknownPolicy != domain.PolicyRaw || uc.raw == nil {
		return
	}

	kept := 0
	for i, chunk := range chunks(rows, uc.cfg.ChunkSize) {
		n, err := uc.raw.InsertRawRows(ctx, upload.BatchID, upload.Platform, chunk)
		if err != nil {
			upload.FailedChunks++
			uc.metrics.IngestChunkFailuresTotal.Inc()
			log.Error("insert raw chunk failed", zap.Int("chunk", i), zap.Error(err))
			continue
		}
		kept += n
	}
	log.Info("raw rows captured", zap.Int("rows", kept))
}
