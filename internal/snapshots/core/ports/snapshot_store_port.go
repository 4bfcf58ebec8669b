package ports

import (
	"context"

	analyticsdomain "royalty-analytics-service/internal/analytics/core/domain"
)

// SnapshotStorePort persists one bundle per tenant. Replace overwrites the
// previous bundle atomically; there is no history.
type SnapshotStorePort interface {
	Replace(ctx context.Context, tenantID int64, bundle *analyticsdomain.FacetBundle) error
	GetSnapshot(ctx context.Context, tenantID int64) (*analyticsdomain.FacetBundle, bool, error)
}
