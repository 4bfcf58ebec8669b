package domain

import (
	"slices"
	"strings"
)

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleLabel      Role = "label"
	RoleSubLabel   Role = "sub_label"
)

// NormalizeRole lowercases and trims a role so lookups are not sensitive to
// how the upstream gateway spells it.
func NormalizeRole(r string) Role {
	return Role(strings.ToLower(strings.TrimSpace(r)))
}

type Tenant struct {
	ID       int64
	ParentID *int64 // nil for top-level labels
	Role     Role
	Name     string
}

// Actor is the already-authenticated caller of a dashboard request.
type Actor struct {
	Role     Role
	TenantID int64
}

// Scope restricts which owner tenants' events are visible.
// Unrestricted wins over OwnerIDs.
type Scope struct {
	Unrestricted bool
	OwnerIDs     []int64
}

func UnrestrictedScope() Scope {
	return Scope{Unrestricted: true}
}

func OwnersScope(ids ...int64) Scope {
	owners := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(owners, id) {
			owners = append(owners, id)
		}
	}
	return Scope{OwnerIDs: owners}
}

func (s Scope) Allows(owner int64) bool {
	if s.Unrestricted {
		return true
	}
	return slices.Contains(s.OwnerIDs, owner)
}
