package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/clinicpos/record-api/internal/model"
)

// ErrNotFound marks a lookup or update that matched no row. Callers test for
// it with errors.Is to tell a missing record apart from a storage failure.
var ErrNotFound = errors.New("not found")

// TenantRepository reads tenants. Tenants are provisioned out of band
// (see scripts/seed.sql), so there is no create path here.
type TenantRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Tenant, error)
}

type BranchRepository interface {
	Create(ctx context.Context, branch *model.Branch) error
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]model.Branch, error)
}

type StaffRepository interface {
	Create(ctx context.Context, staff *model.StaffMember) error
	Get(ctx context.Context, id uuid.UUID) (*model.StaffMember, error)
	GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*model.StaffMember, error)
	GetByToken(ctx context.Context, token string) (*model.StaffMember, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error
	ReplaceBranches(ctx context.Context, id uuid.UUID, branchIDs []uuid.UUID) error
}

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	ListByTenant(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID) ([]model.Patient, error)
	ExistsInTenant(ctx context.Context, id, tenantID uuid.UUID) (bool, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	ListByBranch(ctx context.Context, tenantID, branchID uuid.UUID, from, to time.Time) ([]model.Appointment, error)
}
