package ports

import (
	"context"

	"royalty-analytics-service/internal/analytics/core/domain"
)

type SnapshotReaderPort interface {
	GetSnapshot(ctx context.Context, tenantID int64) (bundle *domain.FacetBundle, found bool, err error)
}
