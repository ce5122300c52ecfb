package branch

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicpos/record-api/internal/model"
	"github.com/clinicpos/record-api/internal/repository"
	"github.com/clinicpos/record-api/pkg/apperror"
	"github.com/clinicpos/record-api/pkg/dberr"
)

type Service struct {
	repo    repository.BranchRepository
	tenants repository.TenantRepository
}

func NewService(repo repository.BranchRepository, tenants repository.TenantRepository) *Service {
	return &Service{repo: repo, tenants: tenants}
}

func (s *Service) Create(ctx context.Context, req *model.CreateBranchRequest) (*model.Branch, error) {
	if _, err := s.tenants.Get(ctx, req.TenantID); err != nil {
		return nil, apperror.NotFound("tenant")
	}

	branch := &model.Branch{
		ID:        uuid.New(),
		TenantID:  req.TenantID,
		Name:      strings.TrimSpace(req.Name),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, branch); err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, apperror.DuplicateBranch()
		}
		return nil, apperror.Storage(err)
	}

	return branch, nil
}

// List returns the tenant's branches ordered by name.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID) ([]model.Branch, error) {
	branches, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	if branches == nil {
		branches = []model.Branch{}
	}
	return branches, nil
}
