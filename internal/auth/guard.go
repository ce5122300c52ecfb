package auth

import (
	"github.com/google/uuid"

	"github.com/clinicpos/record-api/internal/model"
	"github.com/clinicpos/record-api/pkg/apperror"
)

// Guard reconciles the three tenant signals of a request: the tenant asserted
// by the client header, the tenant bound to the verified identity, and the
// tenant targeted by the operation. Header and identity are controlled by
// different trust boundaries, so agreement among all three is required before
// any data operation proceeds.
type Guard struct{}

func NewGuard() *Guard {
	return &Guard{}
}

// ValidateTenant fails with TenantMissing when any of the three signals is
// absent, and with TenantMismatch when all are present but not pairwise
// equal. The two cases stay distinct so callers can produce different
// diagnostics.
func (g *Guard) ValidateTenant(headerTenant uuid.UUID, identity *Identity, target uuid.UUID) error {
	if headerTenant == uuid.Nil || identity == nil || identity.TenantID == uuid.Nil || target == uuid.Nil {
		return apperror.TenantMissing()
	}

	if headerTenant != identity.TenantID || target != headerTenant {
		return apperror.TenantMismatch()
	}

	return nil
}

// CanAccessBranch is a pure predicate: true when no branch is targeted or the
// caller is an Admin, otherwise true iff the target branch is in the caller's
// membership set.
func (g *Guard) CanAccessBranch(identity *Identity, branchID *uuid.UUID) bool {
	if branchID == nil {
		return true
	}
	if identity == nil {
		return false
	}
	if identity.Role == model.RoleAdmin {
		return true
	}
	return identity.MemberOf(*branchID)
}
