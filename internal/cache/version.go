package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// defaultVersion is the implicit counter value for a tenant that has never
// been bumped.
const defaultVersion = "1"

// VersionStore holds one monotonically increasing counter per tenant. It is
// not authoritative data, purely a cache generation tag.
type VersionStore struct {
	store Store
}

func NewVersionStore(store Store) *VersionStore {
	return &VersionStore{store: store}
}

// Current returns the tenant's version token, defaulting to "1" when unset.
// A missing tenant is never an error.
func (v *VersionStore) Current(ctx context.Context, tenantID uuid.UUID) (string, error) {
	val, err := v.store.Get(ctx, PatientListVersionKey(tenantID))
	if errors.Is(err, ErrMiss) {
		return defaultVersion, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read cache version: %w", err)
	}
	return val, nil
}

// Bump atomically increments the tenant's counter. The increment happens at
// the storage layer, never as a read-modify-write here, so concurrent bumps
// from independent writers are safe. A read that already captured an older
// token may still serve an entry computed just before the bump; that bounded
// staleness is accepted.
func (v *VersionStore) Bump(ctx context.Context, tenantID uuid.UUID) error {
	if _, err := v.store.Incr(ctx, PatientListVersionKey(tenantID)); err != nil {
		return fmt.Errorf("failed to bump cache version: %w", err)
	}
	return nil
}
