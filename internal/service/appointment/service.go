package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicpos/record-api/internal/cache"
	"github.com/clinicpos/record-api/internal/model"
	"github.com/clinicpos/record-api/internal/repository"
	"github.com/clinicpos/record-api/pkg/apperror"
	"github.com/clinicpos/record-api/pkg/dberr"
	"github.com/clinicpos/record-api/pkg/logger"
	"github.com/clinicpos/record-api/pkg/messaging"
	"github.com/clinicpos/record-api/pkg/metrics"
)

// Service orchestrates appointment creation: referential check, persist,
// conflict translation, event publication, cache invalidation.
type Service struct {
	repo        repository.AppointmentRepository
	patientRepo repository.PatientRepository
	broker      messaging.Broker
	versions    *cache.VersionStore
	metrics     *metrics.Metrics
	logger      *logger.Logger
}

func NewService(
	repo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	broker messaging.Broker,
	versions *cache.VersionStore,
	m *metrics.Metrics,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:        repo,
		patientRepo: patientRepo,
		broker:      broker,
		versions:    versions,
		metrics:     m,
		logger:      log,
	}
}

// Create books an appointment. The patient-existence check is an early
// rejection only; two concurrent creations for the same slot can both pass
// it, and the store's (tenant, patient, branch, start) unique index is what
// guarantees a single winner. Publication is best-effort and is never rolled
// back against the committed write. The event is published before the
// version bump, so a reader can observe the event while still seeing a stale
// cached list; callers must not assume strict read-after-write.
func (s *Service) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	exists, err := s.patientRepo.ExistsInTenant(ctx, req.PatientID, req.TenantID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	if !exists {
		return nil, apperror.MissingPatient()
	}

	appointment := &model.Appointment{
		ID:        uuid.New(),
		TenantID:  req.TenantID,
		BranchID:  req.BranchID,
		PatientID: req.PatientID,
		StartAt:   req.StartAt,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, apperror.DuplicateAppointment()
		}
		return nil, apperror.Storage(err)
	}

	s.publishCreated(ctx, appointment)

	if err := s.versions.Bump(ctx, appointment.TenantID); err != nil {
		s.logger.Warn("failed to bump cache version after appointment create",
			"tenant_id", appointment.TenantID.String(), "error", err.Error())
	}

	return appointment, nil
}

func (s *Service) publishCreated(ctx context.Context, appointment *model.Appointment) {
	event := model.NewAppointmentCreatedEvent(appointment)
	if err := s.broker.Publish(ctx, model.AppointmentsCreatedChannel, event); err != nil {
		s.metrics.EventsFailed.Inc()
		s.logger.Error(err, "failed to publish appointment created event",
			"appointment_id", appointment.ID.String())
		return
	}
	s.metrics.EventsPublished.Inc()
}

// ListByBranch returns a branch's appointments inside [from, to), ordered by
// start time.
func (s *Service) ListByBranch(ctx context.Context, tenantID, branchID uuid.UUID, from, to time.Time) ([]model.Appointment, error) {
	appointments, err := s.repo.ListByBranch(ctx, tenantID, branchID, from, to)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return appointments, nil
}
