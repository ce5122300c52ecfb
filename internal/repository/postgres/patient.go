package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinicpos/record-api/internal/model"
	"github.com/clinicpos/record-api/internal/repository"
	"github.com/clinicpos/record-api/pkg/metrics"
)

type patientRepository struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

func NewPatientRepository(db *sqlx.DB, m *metrics.Metrics) repository.PatientRepository {
	return &patientRepository{db: db, metrics: m}
}

// Create inserts the patient. The (tenant_id, phone) unique index is the
// concurrency control point; callers translate the violation.
func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (id, tenant_id, branch_id, first_name, last_name, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.TenantID,
		patient.BranchID,
		patient.FirstName,
		patient.LastName,
		patient.Phone,
		patient.CreatedAt,
	)
	trackOp(r.metrics, "patients.create", err)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID) ([]model.Patient, error) {
	var patients []model.Patient
	var err error

	if branchID != nil {
		query := `
			SELECT * FROM patients
			WHERE tenant_id = $1 AND branch_id = $2
			ORDER BY created_at DESC
		`
		err = r.db.SelectContext(ctx, &patients, query, tenantID, *branchID)
	} else {
		query := `
			SELECT * FROM patients
			WHERE tenant_id = $1
			ORDER BY created_at DESC
		`
		err = r.db.SelectContext(ctx, &patients, query, tenantID)
	}

	trackOp(r.metrics, "patients.list", err)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) ExistsInTenant(ctx context.Context, id, tenantID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM patients WHERE id = $1 AND tenant_id = $2)`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, id, tenantID)
	trackOp(r.metrics, "patients.exists", err)
	if err != nil {
		return false, fmt.Errorf("failed to check patient existence: %w", err)
	}
	return exists, nil
}
