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

type branchRepository struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

func NewBranchRepository(db *sqlx.DB, m *metrics.Metrics) repository.BranchRepository {
	return &branchRepository{db: db, metrics: m}
}

func (r *branchRepository) Create(ctx context.Context, branch *model.Branch) error {
	query := `
		INSERT INTO branches (id, tenant_id, name, created_at)
		VALUES ($1, $2, $3, $4)
	`
	if branch.CreatedAt.IsZero() {
		branch.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, query, branch.ID, branch.TenantID, branch.Name, branch.CreatedAt)
	trackOp(r.metrics, "branches.create", err)
	if err != nil {
		return fmt.Errorf("failed to create branch: %w", err)
	}
	return nil
}

func (r *branchRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]model.Branch, error) {
	query := `SELECT * FROM branches WHERE tenant_id = $1 ORDER BY name`
	var branches []model.Branch
	err := r.db.SelectContext(ctx, &branches, query, tenantID)
	trackOp(r.metrics, "branches.list", err)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	return branches, nil
}
