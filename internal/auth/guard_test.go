package auth

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/clinicpos/record-api/internal/model"
	"github.com/clinicpos/record-api/pkg/apperror"
)

func identityFor(tenantID uuid.UUID, role model.Role, branches ...uuid.UUID) *Identity {
	return &Identity{
		StaffID:   uuid.New(),
		TenantID:  tenantID,
		Email:     "staff@demo.local",
		Role:      role,
		BranchIDs: branches,
	}
}

func TestValidateTenantAllAgree(t *testing.T) {
	guard := NewGuard()
	tenant := uuid.New()

	err := guard.ValidateTenant(tenant, identityFor(tenant, model.RoleUser), tenant)
	assert.NoError(t, err)
}

func TestValidateTenantMissingSignals(t *testing.T) {
	guard := NewGuard()
	tenant := uuid.New()
	identity := identityFor(tenant, model.RoleUser)

	tests := []struct {
		name     string
		header   uuid.UUID
		identity *Identity
		target   uuid.UUID
	}{
		{"no header", uuid.Nil, identity, tenant},
		{"no identity", tenant, nil, tenant},
		{"identity without tenant", tenant, identityFor(uuid.Nil, model.RoleUser), tenant},
		{"no target", tenant, identity, uuid.Nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := guard.ValidateTenant(tt.header, tt.identity, tt.target)
			assert.True(t, errors.Is(err, apperror.TenantMissing()))
		})
	}
}

func TestValidateTenantMismatch(t *testing.T) {
	guard := NewGuard()
	tenantA := uuid.New()
	tenantB := uuid.New()

	tests := []struct {
		name     string
		header   uuid.UUID
		identity *Identity
		target   uuid.UUID
	}{
		{"header differs from identity", tenantB, identityFor(tenantA, model.RoleAdmin), tenantA},
		{"target differs from header", tenantA, identityFor(tenantA, model.RoleAdmin), tenantB},
		{"all three differ", tenantA, identityFor(tenantB, model.RoleAdmin), uuid.New()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := guard.ValidateTenant(tt.header, tt.identity, tt.target)
			assert.True(t, errors.Is(err, apperror.TenantMismatch()))
			assert.False(t, errors.Is(err, apperror.TenantMissing()))
		})
	}
}

func TestValidateTenantAdminHasNoBypass(t *testing.T) {
	guard := NewGuard()
	tenantA := uuid.New()
	tenantB := uuid.New()

	err := guard.ValidateTenant(tenantA, identityFor(tenantB, model.RoleAdmin), tenantA)
	assert.Error(t, err)
}

func TestCanAccessBranchNilBranch(t *testing.T) {
	guard := NewGuard()
	assert.True(t, guard.CanAccessBranch(identityFor(uuid.New(), model.RoleViewer), nil))
	assert.True(t, guard.CanAccessBranch(nil, nil))
}

func TestCanAccessBranchNilIdentity(t *testing.T) {
	guard := NewGuard()
	branch := uuid.New()
	assert.False(t, guard.CanAccessBranch(nil, &branch))
}

func TestCanAccessBranchAdminBypass(t *testing.T) {
	guard := NewGuard()
	branch := uuid.New()
	admin := identityFor(uuid.New(), model.RoleAdmin)

	assert.True(t, guard.CanAccessBranch(admin, &branch))
}

func TestCanAccessBranchMembership(t *testing.T) {
	guard := NewGuard()
	member := uuid.New()
	other := uuid.New()
	user := identityFor(uuid.New(), model.RoleUser, member)

	assert.True(t, guard.CanAccessBranch(user, &member))
	assert.False(t, guard.CanAccessBranch(user, &other))
}

func TestCanAccessBranchEmptyMemberships(t *testing.T) {
	guard := NewGuard()
	branch := uuid.New()
	viewer := identityFor(uuid.New(), model.RoleViewer)

	assert.False(t, guard.CanAccessBranch(viewer, &branch))
}
