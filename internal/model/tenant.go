package model

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is the isolation root. Every other entity carries a tenant id that
// must match on every operation.
type Tenant struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Branch is a clinic location scoped to one tenant. Unique by (tenant, name).
type Branch struct {
	ID        uuid.UUID `db:"id" json:"id"`
	TenantID  uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateBranchRequest struct {
	TenantID uuid.UUID `json:"tenant_id" binding:"required"`
	Name     string    `json:"name" binding:"required,max=200"`
}
