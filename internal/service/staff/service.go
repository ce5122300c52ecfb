package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicpos/record-api/internal/model"
	"github.com/clinicpos/record-api/internal/repository"
	"github.com/clinicpos/record-api/pkg/apperror"
	"github.com/clinicpos/record-api/pkg/dberr"
	"github.com/clinicpos/record-api/pkg/security"
)

type Service struct {
	repo   repository.StaffRepository
	hasher security.PasswordHasher
}

func NewService(repo repository.StaffRepository, hasher security.PasswordHasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

// Create registers a staff member with an opaque API token and hashed
// password. (tenant, email) uniqueness is enforced by the store.
func (s *Service) Create(ctx context.Context, req *model.CreateStaffRequest) (*model.StaffMember, error) {
	if !req.Role.Valid() {
		return nil, apperror.Validation(fmt.Sprintf("unknown role %q", req.Role))
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.Validation("invalid password")
	}

	staff := &model.StaffMember{
		ID:           uuid.New(),
		TenantID:     req.TenantID,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Role:         req.Role,
		APIToken:     newAPIToken(),
		PasswordHash: hash,
		BranchIDs:    dedupe(req.BranchIDs),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, staff); err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, apperror.DuplicateEmail()
		}
		return nil, apperror.Storage(err)
	}

	return staff, nil
}

func (s *Service) AssignRole(ctx context.Context, id uuid.UUID, role model.Role) (*model.StaffMember, error) {
	if !role.Valid() {
		return nil, apperror.Validation(fmt.Sprintf("unknown role %q", role))
	}

	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("staff member")
		}
		return nil, apperror.Storage(err)
	}

	staff, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return staff, nil
}

func (s *Service) AssignBranches(ctx context.Context, id uuid.UUID, branchIDs []uuid.UUID) (*model.StaffMember, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("staff member")
		}
		return nil, apperror.Storage(err)
	}

	if err := s.repo.ReplaceBranches(ctx, id, dedupe(branchIDs)); err != nil {
		return nil, apperror.Storage(err)
	}

	staff, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return staff, nil
}

func newAPIToken() string {
	return "tok_" + strings.ReplaceAll(uuid.New().String(), "-", "")
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
