package ports

import (
	"context"

	tenantdomain "royalty-analytics-service/internal/tenants/core/domain"
)

// ScopeResolverPort turns an actor into the set of owners it may read.
type ScopeResolverPort interface {
	Execute(ctx context.Context, actor tenantdomain.Actor) (tenantdomain.Scope, error)
	IsGlobal(role tenantdomain.Role) bool
}

type TenantLookupPort interface {
	GetTenant(ctx context.Context, id int64) (*tenantdomain.Tenant, bool, error)
}
