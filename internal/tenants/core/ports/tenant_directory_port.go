package ports

import (
	"context"

	"royalty-analytics-service/internal/tenants/core/domain"
)

type TenantDirectoryPort interface {
	// GetTenant:
	//   found = true,  err = nil  -> tenant exists
	//   found = false, err = nil  -> no such tenant
	//   found = false, err != nil -> DB error
	GetTenant(ctx context.Context, id int64) (tenant *domain.Tenant, found bool, err error)

	// ListChildIDs returns direct children only. Grandchildren are not resolved.
	ListChildIDs(ctx context.Context, parentID int64) ([]int64, error)

	ListByRoles(ctx context.Context, roles []domain.Role) ([]domain.Tenant, error)
}
