package patient

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicpos/record-api/internal/cache"
	"github.com/clinicpos/record-api/internal/model"
	"github.com/clinicpos/record-api/pkg/apperror"
	"github.com/clinicpos/record-api/pkg/logger"
	"github.com/clinicpos/record-api/pkg/metrics"
)

// memPatientRepo backs the service with in-memory storage and enforces the
// same (tenant, phone) uniqueness the real store does.
type memPatientRepo struct {
	mu       sync.Mutex
	patients []model.Patient
	failWith error
}

func (r *memPatientRepo) Create(_ context.Context, patient *model.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	for _, existing := range r.patients {
		if existing.TenantID == patient.TenantID && existing.Phone == patient.Phone {
			return &pq.Error{Code: "23505", Message: `duplicate key value violates unique constraint "patients_tenant_phone_key"`}
		}
	}
	r.patients = append(r.patients, *patient)
	return nil
}

func (r *memPatientRepo) ListByTenant(_ context.Context, tenantID uuid.UUID, branchID *uuid.UUID) ([]model.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Patient
	for _, p := range r.patients {
		if p.TenantID != tenantID {
			continue
		}
		if branchID != nil && (p.BranchID == nil || *p.BranchID != *branchID) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memPatientRepo) ExistsInTenant(_ context.Context, id, tenantID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.patients {
		if p.ID == id && p.TenantID == tenantID {
			return true, nil
		}
	}
	return false, nil
}

type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (s *memStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	val, ok := s.data[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return val, nil
}

func (s *memStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memStore) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := int64(0)
	if raw, ok := s.data[key]; ok {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, err
		}
		current = parsed
	}
	current++
	s.data[key] = strconv.FormatInt(current, 10)
	return current, nil
}

func newService(repo *memPatientRepo) *Service {
	store := newMemStore()
	versions := cache.NewVersionStore(store)
	log := logger.New(&logger.Config{Level: logger.ErrorLevel})
	lists := cache.NewPatientListCache(store, versions, repo, time.Minute, metrics.New("test", prometheus.NewRegistry()), log)
	return NewService(repo, versions, lists, log)
}

func TestCreateTrimsFields(t *testing.T) {
	svc := newService(&memPatientRepo{})

	patient, err := svc.Create(context.Background(), &model.CreatePatientRequest{
		TenantID:  uuid.New(),
		FirstName: "  Ada ",
		LastName:  " Lovelace ",
		Phone:     " 555-0100 ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", patient.FirstName)
	assert.Equal(t, "Lovelace", patient.LastName)
	assert.Equal(t, "555-0100", patient.Phone)
	assert.NotEqual(t, uuid.Nil, patient.ID)
	assert.False(t, patient.CreatedAt.IsZero())
}

func TestCreateDuplicatePhoneSameTenant(t *testing.T) {
	svc := newService(&memPatientRepo{})
	tenant := uuid.New()
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.CreatePatientRequest{
		TenantID: tenant, FirstName: "Ada", LastName: "Lovelace", Phone: "555-0100",
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &model.CreatePatientRequest{
		TenantID: tenant, FirstName: "Grace", LastName: "Hopper", Phone: "555-0100",
	})
	assert.True(t, errors.Is(err, apperror.DuplicatePhone()))
}

func TestCreateSamePhoneDifferentTenant(t *testing.T) {
	svc := newService(&memPatientRepo{})
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.CreatePatientRequest{
		TenantID: uuid.New(), FirstName: "Ada", LastName: "Lovelace", Phone: "555-0100",
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &model.CreatePatientRequest{
		TenantID: uuid.New(), FirstName: "Grace", LastName: "Hopper", Phone: "555-0100",
	})
	assert.NoError(t, err)
}

func TestCreateStorageFailure(t *testing.T) {
	repo := &memPatientRepo{failWith: errors.New("connection refused")}
	svc := newService(repo)

	_, err := svc.Create(context.Background(), &model.CreatePatientRequest{
		TenantID: uuid.New(), FirstName: "Ada", LastName: "Lovelace", Phone: "555-0100",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeStorage, apperror.CodeOf(err))
}

func TestListAfterCreateSeesNewPatient(t *testing.T) {
	repo := &memPatientRepo{}
	svc := newService(repo)
	tenant := uuid.New()
	ctx := context.Background()

	// Warm the cache with an empty list.
	patients, err := svc.List(ctx, tenant, nil)
	require.NoError(t, err)
	assert.Empty(t, patients)

	_, err = svc.Create(ctx, &model.CreatePatientRequest{
		TenantID: tenant, FirstName: "Ada", LastName: "Lovelace", Phone: "555-0100",
	})
	require.NoError(t, err)

	// The version bump must invalidate the cached empty list.
	patients, err = svc.List(ctx, tenant, nil)
	require.NoError(t, err)
	assert.Len(t, patients, 1)
}

func TestListIsTenantScoped(t *testing.T) {
	repo := &memPatientRepo{}
	svc := newService(repo)
	ctx := context.Background()
	tenantA := uuid.New()
	tenantB := uuid.New()

	_, err := svc.Create(ctx, &model.CreatePatientRequest{
		TenantID: tenantA, FirstName: "Ada", LastName: "Lovelace", Phone: "555-0100",
	})
	require.NoError(t, err)

	patients, err := svc.List(ctx, tenantB, nil)
	require.NoError(t, err)
	assert.Empty(t, patients)
}

func TestListNewestFirst(t *testing.T) {
	repo := &memPatientRepo{}
	svc := newService(repo)
	tenant := uuid.New()
	ctx := context.Background()

	now := time.Now().UTC()
	repo.patients = append(repo.patients,
		model.Patient{ID: uuid.New(), TenantID: tenant, FirstName: "Alice", Phone: "555-0100", CreatedAt: now.Add(-time.Hour)},
		model.Patient{ID: uuid.New(), TenantID: tenant, FirstName: "Bob", Phone: "555-0101", CreatedAt: now},
	)

	patients, err := svc.List(ctx, tenant, nil)
	require.NoError(t, err)
	require.Len(t, patients, 2)
	assert.Equal(t, "Bob", patients[0].FirstName)
	assert.Equal(t, "Alice", patients[1].FirstName)

	// The cached copy must come back in the same order.
	cached, err := svc.List(ctx, tenant, nil)
	require.NoError(t, err)
	require.Len(t, cached, 2)
	assert.Equal(t, "Bob", cached[0].FirstName)
	assert.Equal(t, "Alice", cached[1].FirstName)
}

func TestListBranchFilter(t *testing.T) {
	repo := &memPatientRepo{}
	svc := newService(repo)
	tenant := uuid.New()
	branch := uuid.New()
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.CreatePatientRequest{
		TenantID: tenant, BranchID: &branch, FirstName: "Ada", LastName: "Lovelace", Phone: "555-0100",
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &model.CreatePatientRequest{
		TenantID: tenant, FirstName: "Grace", LastName: "Hopper", Phone: "555-0101",
	})
	require.NoError(t, err)

	patients, err := svc.List(ctx, tenant, &branch)
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, "Ada", patients[0].FirstName)

	all, err := svc.List(ctx, tenant, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateSucceedsWhenVersionBumpFails(t *testing.T) {
	repo := &memPatientRepo{}
	store := newMemStore()
	// Poison the version counter so Incr fails to parse it.
	versions := cache.NewVersionStore(store)
	log := logger.New(&logger.Config{Level: logger.ErrorLevel})
	lists := cache.NewPatientListCache(store, versions, repo, time.Minute, metrics.New("test", prometheus.NewRegistry()), log)
	svc := NewService(repo, versions, lists, log)

	tenant := uuid.New()
	store.data[cache.PatientListVersionKey(tenant)] = "not-a-number"

	patient, err := svc.Create(context.Background(), &model.CreatePatientRequest{
		TenantID: tenant, FirstName: "Ada", LastName: "Lovelace", Phone: "555-0100",
	})
	require.NoError(t, err)
	assert.NotNil(t, patient)
}
