package patient

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicpos/record-api/internal/cache"
	"github.com/clinicpos/record-api/internal/model"
	"github.com/clinicpos/record-api/internal/repository"
	"github.com/clinicpos/record-api/pkg/apperror"
	"github.com/clinicpos/record-api/pkg/dberr"
	"github.com/clinicpos/record-api/pkg/logger"
)

// Service orchestrates validated patient writes and cached list reads.
type Service struct {
	repo     repository.PatientRepository
	versions *cache.VersionStore
	lists    *cache.PatientListCache
	logger   *logger.Logger
}

func NewService(repo repository.PatientRepository, versions *cache.VersionStore, lists *cache.PatientListCache, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		versions: versions,
		lists:    lists,
		logger:   log,
	}
}

// Create persists a new patient. A store-level (tenant, phone) uniqueness
// violation becomes DuplicatePhone; the same phone is legal in another
// tenant. On success the tenant's cache version is bumped so the next list
// read repopulates; no cache write happens here.
func (s *Service) Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	patient := &model.Patient{
		ID:        uuid.New(),
		TenantID:  req.TenantID,
		BranchID:  req.BranchID,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     strings.TrimSpace(req.Phone),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, apperror.DuplicatePhone()
		}
		return nil, apperror.Storage(err)
	}

	if err := s.versions.Bump(ctx, patient.TenantID); err != nil {
		// The write committed; stale list variants expire on their own.
		s.logger.Warn("failed to bump cache version after patient create",
			"tenant_id", patient.TenantID.String(), "error", err.Error())
	}

	return patient, nil
}

// List returns the tenant's patients, newest first, through the versioned
// list cache.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID) ([]model.Patient, error) {
	patients, err := s.lists.List(ctx, tenantID, branchID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return patients, nil
}
