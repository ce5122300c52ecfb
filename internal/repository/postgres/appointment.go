package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinicpos/record-api/internal/model"
	"github.com/clinicpos/record-api/internal/repository"
	"github.com/clinicpos/record-api/pkg/metrics"
)

type appointmentRepository struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

func NewAppointmentRepository(db *sqlx.DB, m *metrics.Metrics) repository.AppointmentRepository {
	return &appointmentRepository{db: db, metrics: m}
}

// Create inserts the appointment. The (tenant_id, patient_id, branch_id,
// start_at) unique index guards the slot; callers translate the violation.
func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (id, tenant_id, branch_id, patient_id, start_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.TenantID,
		appointment.BranchID,
		appointment.PatientID,
		appointment.StartAt,
		appointment.CreatedAt,
	)
	trackOp(r.metrics, "appointments.create", err)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) ListByBranch(ctx context.Context, tenantID, branchID uuid.UUID, from, to time.Time) ([]model.Appointment, error) {
	query := `
		SELECT * FROM appointments
		WHERE tenant_id = $1 AND branch_id = $2 AND start_at >= $3 AND start_at < $4
		ORDER BY start_at
	`
	var appointments []model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, tenantID, branchID, from, to)
	trackOp(r.metrics, "appointments.list", err)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}
