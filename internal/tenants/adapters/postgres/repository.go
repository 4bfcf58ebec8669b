package postgres

import (
	"context"
	"database/sql"

	"royalty-analytics-service/internal/platform/database"
	"royalty-analytics-service/internal/tenants/core/domain"
	"royalty-analytics-service/internal/tenants/core/ports"

	"github.com/lib/pq"
)

type TenantRepository struct {
	db database.DB
}

func NewTenantRepository(db database.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

var _ ports.TenantDirectoryPort = (*TenantRepository)(nil)

const selectTenantSQL = `
SELECT id, parent_id, role, name
FROM tenants
WHERE id = $1`

const selectChildIDsSQL = `
SELECT id
FROM tenants
WHERE parent_id = $1
ORDER BY id`

const selectTenantsByRolesSQL = `
SELECT id, parent_id, role, name
FROM tenants
WHERE role = ANY($1)
ORDER BY id`

func (r *TenantRepository) GetTenant(ctx context.Context, id int64) (*domain.Tenant, bool, error) {
	rows, err := r.db.QueryContext(ctx, selectTenantSQL, id)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, false, rows.Err()
	}

	t, err := scanTenant(rows)
	if err != nil {
		return nil, false, err
	}

	return t, true, rows.Err()
}

func (r *TenantRepository) ListChildIDs(ctx context.Context, parentID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, selectChildIDsSQL, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *TenantRepository) ListByRoles(ctx context.Context, roles []domain.Role) ([]domain.Tenant, error) {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}

	rows, err := r.db.QueryContext(ctx, selectTenantsByRolesSQL, pq.Array(names))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []domain.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tenants, nil
}

func scanTenant(rows database.RowScanner) (*domain.Tenant, error) {
	var (
		t      domain.Tenant
		parent sql.NullInt64
		role   string
	)
	if err := rows.Scan(&t.ID, &parent, &role, &t.Name); err != nil {
		return nil, err
	}
	if parent.Valid {
		p := parent.Int64
		t.ParentID = &p
	}
	t.Role = domain.NormalizeRole(role)
	return &t, nil
}
