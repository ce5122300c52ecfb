package model

import (
	"time"

	"github.com/google/uuid"
)

// Patient belongs to one tenant and optionally to one primary branch.
// (tenant, phone) is unique at the store level; the same phone number is
// legal in a different tenant.
type Patient struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	TenantID  uuid.UUID  `db:"tenant_id" json:"tenant_id"`
	BranchID  *uuid.UUID `db:"branch_id" json:"branch_id,omitempty"`
	FirstName string     `db:"first_name" json:"first_name"`
	LastName  string     `db:"last_name" json:"last_name"`
	Phone     string     `db:"phone" json:"phone"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

type CreatePatientRequest struct {
	TenantID  uuid.UUID  `json:"tenant_id" binding:"required"`
	BranchID  *uuid.UUID `json:"branch_id"`
	FirstName string     `json:"first_name" binding:"required,max=100"`
	LastName  string     `json:"last_name" binding:"required,max=100"`
	Phone     string     `json:"phone" binding:"required,max=50"`
}
