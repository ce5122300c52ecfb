package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinicpos/record-api/internal/model"
	"github.com/clinicpos/record-api/internal/repository"
	"github.com/clinicpos/record-api/pkg/metrics"
)

type staffRepository struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

func NewStaffRepository(db *sqlx.DB, m *metrics.Metrics) repository.StaffRepository {
	return &staffRepository{db: db, metrics: m}
}

func (r *staffRepository) Create(ctx context.Context, staff *model.StaffMember) error {
	if staff.CreatedAt.IsZero() {
		staff.CreatedAt = time.Now().UTC()
	}

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO staff (id, tenant_id, email, role, api_token, password_hash, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		_, err := tx.ExecContext(ctx, query,
			staff.ID,
			staff.TenantID,
			staff.Email,
			staff.Role,
			staff.APIToken,
			staff.PasswordHash,
			staff.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create staff member: %w", err)
		}

		return insertMemberships(ctx, tx, staff.ID, staff.BranchIDs)
	})
	trackOp(r.metrics, "staff.create", err)
	return err
}

func (r *staffRepository) Get(ctx context.Context, id uuid.UUID) (*model.StaffMember, error) {
	query := `SELECT * FROM staff WHERE id = $1`
	var staff model.StaffMember
	err := r.db.GetContext(ctx, &staff, query, id)
	trackOp(r.metrics, "staff.get", err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("staff member %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}

	if err := r.loadBranches(ctx, &staff); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*model.StaffMember, error) {
	query := `SELECT * FROM staff WHERE tenant_id = $1 AND email = $2`
	var staff model.StaffMember
	err := r.db.GetContext(ctx, &staff, query, tenantID, email)
	trackOp(r.metrics, "staff.get_by_email", err)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff member by email: %w", err)
	}

	if err := r.loadBranches(ctx, &staff); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) GetByToken(ctx context.Context, token string) (*model.StaffMember, error) {
	query := `SELECT * FROM staff WHERE api_token = $1`
	var staff model.StaffMember
	err := r.db.GetContext(ctx, &staff, query, token)
	trackOp(r.metrics, "staff.get_by_token", err)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff member by token: %w", err)
	}

	if err := r.loadBranches(ctx, &staff); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	query := `UPDATE staff SET role = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, role, id)
	trackOp(r.metrics, "staff.update_role", err)
	if err != nil {
		return fmt.Errorf("failed to update staff role: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("staff member %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *staffRepository) ReplaceBranches(ctx context.Context, id uuid.UUID, branchIDs []uuid.UUID) error {
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM staff_branches WHERE staff_id = $1`, id); err != nil {
			return fmt.Errorf("failed to clear staff branches: %w", err)
		}
		return insertMemberships(ctx, tx, id, branchIDs)
	})
	trackOp(r.metrics, "staff.replace_branches", err)
	return err
}

func (r *staffRepository) loadBranches(ctx context.Context, staff *model.StaffMember) error {
	query := `SELECT branch_id FROM staff_branches WHERE staff_id = $1`
	if err := r.db.SelectContext(ctx, &staff.BranchIDs, query, staff.ID); err != nil {
		return fmt.Errorf("failed to load staff branches: %w", err)
	}
	return nil
}

func insertMemberships(ctx context.Context, tx *sqlx.Tx, staffID uuid.UUID, branchIDs []uuid.UUID) error {
	query := `INSERT INTO staff_branches (staff_id, branch_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	for _, branchID := range branchIDs {
		if _, err := tx.ExecContext(ctx, query, staffID, branchID); err != nil {
			return fmt.Errorf("failed to add staff branch: %w", err)
		}
	}
	return nil
}
