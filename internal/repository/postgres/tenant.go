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

type tenantRepository struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

func NewTenantRepository(db *sqlx.DB, m *metrics.Metrics) repository.TenantRepository {
	return &tenantRepository{db: db, metrics: m}
}

func (r *tenantRepository) Get(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	query := `SELECT * FROM tenants WHERE id = $1`
	var tenant model.Tenant
	err := r.db.GetContext(ctx, &tenant, query, id)
	trackOp(r.metrics, "tenants.get", err)
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return &tenant, nil
}
