package model

import (
	"time"

	"github.com/google/uuid"
)

// StaffMember belongs to one tenant and holds a role plus a set of branch
// memberships. Email is unique per tenant, the API token globally.
type StaffMember struct {
	ID           uuid.UUID   `db:"id" json:"id"`
	TenantID     uuid.UUID   `db:"tenant_id" json:"tenant_id"`
	Email        string      `db:"email" json:"email"`
	Role         Role        `db:"role" json:"role"`
	APIToken     string      `db:"api_token" json:"api_token,omitempty"`
	PasswordHash string      `db:"password_hash" json:"-"`
	BranchIDs    []uuid.UUID `db:"-" json:"branch_ids"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
}

type CreateStaffRequest struct {
	TenantID  uuid.UUID   `json:"tenant_id" binding:"required"`
	Email     string      `json:"email" binding:"required,email,max=200"`
	Password  string      `json:"password" binding:"required,min=8"`
	Role      Role        `json:"role" binding:"required"`
	BranchIDs []uuid.UUID `json:"branch_ids" binding:"required,min=1"`
}

type AssignRoleRequest struct {
	Role Role `json:"role" binding:"required"`
}

type AssignBranchesRequest struct {
	BranchIDs []uuid.UUID `json:"branch_ids" binding:"required,min=1"`
}

type LoginRequest struct {
	TenantID uuid.UUID `json:"tenant_id" binding:"required"`
	Email    string    `json:"email" binding:"required,email"`
	Password string    `json:"password" binding:"required"`
}
