package usecase_test

import (
	"context"
	"errors"
	"testing"

	"royalty-analytics-service/internal/tenants/core/domain"
	"royalty-analytics-service/internal/tenants/core/usecase"
)

type fakeDirectory struct {
	children   map[int64][]int64
	err        error
	childCalls int
}

func (f *fakeDirectory) GetTenant(ctx context.Context, id int64) (*domain.Tenant, bool, error) {
	return nil, false, nil
}

func (f *fakeDirectory) ListChildIDs(ctx context.Context, parentID int64) ([]int64, error) {
	f.childCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.children[parentID], nil
}

func (f *fakeDirectory) ListByRoles(ctx context.Context, roles []domain.Role) ([]domain.Tenant, error) {
	return nil, nil
}

var globalRoles = []domain.Role{domain.RoleSuperAdmin, domain.RoleAdmin}

func TestResolveScope_GlobalRoleIsUnrestricted(t *testing.T) {
	dir := &fakeDirectory{}
	uc := usecase.NewResolveScopeUseCase(dir, globalRoles)

	scope, err := uc.Execute(context.Background(), domain.Actor{Role: "Super_Admin", TenantID: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !scope.Unrestricted {
		t.Fatalf("expected unrestricted scope, got %+v", scope)
	}
	if dir.childCalls != 0 {
		t.Fatalf("directory should not be queried for global roles")
	}
}

func TestResolveScope_ScopedRoleIncludesDirectChildren(t *testing.T) {
	dir := &fakeDirectory{children: map[int64][]int64{
		10: {11, 12},
		11: {111}, // grandchild, must not be resolved
	}}
	uc := usecase.NewResolveScopeUseCase(dir, globalRoles)

	scope, err := uc.Execute(context.Background(), domain.Actor{Role: domain.RoleLabel, TenantID: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scope.Unrestricted {
		t.Fatalf("expected restricted scope")
	}
	want := []int64{10, 11, 12}
	if len(scope.OwnerIDs) != len(want) {
		t.Fatalf("expected owners %v, got %v", want, scope.OwnerIDs)
	}
	for i := range want {
		if scope.OwnerIDs[i] != want[i] {
			t.Fatalf("expected owners %v, got %v", want, scope.OwnerIDs)
		}
	}
	if scope.Allows(111) {
		t.Fatalf("grandchild must not be in scope")
	}
	if dir.childCalls != 1 {
		t.Fatalf("expected exactly one directory lookup, got %d", dir.childCalls)
	}
}

func TestResolveScope_RecomputedPerRequest(t *testing.T) {
	dir := &fakeDirectory{children: map[int64][]int64{10: {11}}}
	uc := usecase.NewResolveScopeUseCase(dir, globalRoles)
	actor := domain.Actor{Role: domain.RoleLabel, TenantID: 10}

	if _, err := uc.Execute(context.Background(), actor); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dir.children[10] = []int64{11, 13}

	scope, err := uc.Execute(context.Background(), actor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !scope.Allows(13) {
		t.Fatalf("expected newly added child to be visible, got %v", scope.OwnerIDs)
	}
}

func TestResolveScope_InvalidActor(t *testing.T) {
	uc := usecase.NewResolveScopeUseCase(&fakeDirectory{}, globalRoles)

	cases := []domain.Actor{
		{Role: domain.RoleLabel, TenantID: 0},
		{Role: "  ", TenantID: 5},
	}
	for _, actor := range cases {
		_, err := uc.Execute(context.Background(), actor)
		if !errors.Is(err, usecase.ErrInvalidActor) {
			t.Fatalf("expected ErrInvalidActor for %+v, got %v", actor, err)
		}
	}
}

func TestResolveScope_DirectoryError(t *testing.T) {
	uc := usecase.NewResolveScopeUseCase(&fakeDirectory{err: errors.New("db failure")}, globalRoles)

	_, err := uc.Execute(context.Background(), domain.Actor{Role: domain.RoleLabel, TenantID: 10})
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
}
