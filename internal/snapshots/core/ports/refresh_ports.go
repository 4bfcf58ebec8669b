package ports

import (
	"context"
	"time"

	analyticsdomain "royalty-analytics-service/internal/analytics/core/domain"
	tenantdomain "royalty-analytics-service/internal/tenants/core/domain"
)

type PrivilegedTenantLister interface {
	ListByRoles(ctx context.Context, roles []tenantdomain.Role) ([]tenantdomain.Tenant, error)
}

type BundleComputer interface {
	ComputeAt(ctx context.Context, q analyticsdomain.EventQuery, now time.Time) (*analyticsdomain.FacetBundle, error)
}

// RunLockPort guards a refresh run across processes. Acquire reports
// acquired=false when another holder owns the lock.
type RunLockPort interface {
	Acquire(ctx context.Context) (release func(context.Context) error, acquired bool, err error)
}
