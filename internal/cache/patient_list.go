package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicpos/record-api/internal/model"
	"github.com/clinicpos/record-api/pkg/logger"
	"github.com/clinicpos/record-api/pkg/metrics"
)

// DefaultListTTL is how long a computed list variant stays readable. Entries
// are never deleted: a version bump orphans them and the TTL reclaims them.
const DefaultListTTL = 5 * time.Minute

// PatientLister is the durable-store query the cache reads through to.
// Results must be ordered by creation time descending.
type PatientLister interface {
	ListByTenant(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID) ([]model.Patient, error)
}

// PatientListCache is a read-through cache keyed by tenant, branch filter and
// the tenant's current version token.
type PatientListCache struct {
	store    Store
	versions *VersionStore
	lister   PatientLister
	ttl      time.Duration
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

func NewPatientListCache(store Store, versions *VersionStore, lister PatientLister, ttl time.Duration, m *metrics.Metrics, log *logger.Logger) *PatientListCache {
	if ttl <= 0 {
		ttl = DefaultListTTL
	}
	return &PatientListCache{
		store:    store,
		versions: versions,
		lister:   lister,
		ttl:      ttl,
		metrics:  m,
		logger:   log,
	}
}

// List returns the tenant's patients, newest first, optionally filtered by
// primary branch. A hit is served verbatim with no re-validation against the
// store.
func (c *PatientListCache) List(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID) ([]model.Patient, error) {
	version, err := c.versions.Current(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	key := PatientListKey(tenantID, branchID, version)

	cached, err := c.store.Get(ctx, key)
	if err != nil && !errors.Is(err, ErrMiss) {
		return nil, fmt.Errorf("failed to read cached patient list: %w", err)
	}
	// A present-but-blank value is a miss, not an empty list. "[]" decodes
	// to a zero-length list and is a hit.
	if err == nil && strings.TrimSpace(cached) != "" {
		var patients []model.Patient
		if jsonErr := json.Unmarshal([]byte(cached), &patients); jsonErr == nil {
			c.metrics.CacheHits.Inc()
			if patients == nil {
				patients = []model.Patient{}
			}
			return patients, nil
		}
		c.logger.Warn("discarding undecodable cached patient list", "key", key)
	}

	c.metrics.CacheMisses.Inc()

	patients, err := c.lister.ListByTenant(ctx, tenantID, branchID)
	if err != nil {
		return nil, err
	}
	if patients == nil {
		patients = []model.Patient{}
	}

	payload, err := json.Marshal(patients)
	if err != nil {
		return nil, fmt.Errorf("failed to encode patient list: %w", err)
	}

	if err := c.store.Set(ctx, key, string(payload), c.ttl); err != nil {
		// Best effort: the computed list is still valid without the cache.
		c.logger.Warn("failed to cache patient list", "key", key, "error", err.Error())
	}

	return patients, nil
}
