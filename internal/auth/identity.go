package auth

import (
	"github.com/google/uuid"

	"github.com/clinicpos/record-api/internal/model"
)

// Identity is the caller identity produced once per request by the
// authentication layer. The tenant id it carries is server-issued and is an
// independent trust signal from the client-supplied tenant header.
type Identity struct {
	StaffID   uuid.UUID
	TenantID  uuid.UUID
	Email     string
	Role      model.Role
	BranchIDs []uuid.UUID
}

// MemberOf reports whether the identity holds a membership for the branch.
func (i *Identity) MemberOf(branchID uuid.UUID) bool {
	for _, id := range i.BranchIDs {
		if id == branchID {
			return true
		}
	}
	return false
}
