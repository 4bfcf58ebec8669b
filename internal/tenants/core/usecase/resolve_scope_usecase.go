package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"royalty-analytics-service/internal/tenants/core/domain"
	"royalty-analytics-service/internal/tenants/core/ports"
)

var ErrInvalidActor = errors.New("invalid actor")

type ResolveScopeUseCase struct {
	directory   ports.TenantDirectoryPort
	globalRoles map[domain.Role]struct{}
}

func NewResolveScopeUseCase(directory ports.TenantDirectoryPort, globalRoles []domain.Role) *ResolveScopeUseCase {
	set := make(map[domain.Role]struct{}, len(globalRoles))
	for _, r := range globalRoles {
		set[domain.NormalizeRole(string(r))] = struct{}{}
	}
	return &ResolveScopeUseCase{directory: directory, globalRoles: set}
}

func (uc *ResolveScopeUseCase) IsGlobal(role domain.Role) bool {
	_, ok := uc.globalRoles[domain.NormalizeRole(string(role))]
	return ok
}

func (uc *ResolveScopeUseCase) GlobalRoles() []domain.Role {
	roles := make([]domain.Role, 0, len(uc.globalRoles))
	for r := range uc.globalRoles {
		roles = append(roles, r)
	}
	slices.Sort(roles)
	return roles
}

// Execute turns an actor into a scope. It is recomputed for every call
// because the hierarchy may change between requests.
func (uc *ResolveScopeUseCase) Execute(ctx context.Context, actor domain.Actor) (domain.Scope, error) {
	if actor.TenantID <= 0 || domain.NormalizeRole(string(actor.Role)) == "" {
		return domain.Scope{}, ErrInvalidActor
	}

	if uc.IsGlobal(actor.Role) {
		return domain.UnrestrictedScope(), nil
	}

	children, err := uc.directory.ListChildIDs(ctx, actor.TenantID)
	if err != nil {
		return domain.Scope{}, fmt.Errorf("list child tenants of %d: %w", actor.TenantID, err)
	}

	return domain.OwnersScope(append([]int64{actor.TenantID}, children...)...), nil
}
