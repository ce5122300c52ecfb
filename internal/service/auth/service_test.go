package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicpos/record-api/internal/model"
	"github.com/clinicpos/record-api/pkg/apperror"
	"github.com/clinicpos/record-api/pkg/security"
)

type stubStaffRepo struct {
	byEmail map[string]*model.StaffMember
	byToken map[string]*model.StaffMember

	tokenLookups int
}

func (r *stubStaffRepo) Create(context.Context, *model.StaffMember) error { return nil }

func (r *stubStaffRepo) Get(context.Context, uuid.UUID) (*model.StaffMember, error) {
	return nil, errors.New("not implemented")
}

func (r *stubStaffRepo) GetByEmail(_ context.Context, tenantID uuid.UUID, email string) (*model.StaffMember, error) {
	staff, ok := r.byEmail[email]
	if !ok || staff.TenantID != tenantID {
		return nil, errors.New("not found")
	}
	return staff, nil
}

func (r *stubStaffRepo) GetByToken(_ context.Context, token string) (*model.StaffMember, error) {
	r.tokenLookups++
	staff, ok := r.byToken[token]
	if !ok {
		return nil, errors.New("not found")
	}
	return staff, nil
}

func (r *stubStaffRepo) UpdateRole(context.Context, uuid.UUID, model.Role) error { return nil }

func (r *stubStaffRepo) ReplaceBranches(context.Context, uuid.UUID, []uuid.UUID) error { return nil }

func newTestService(t *testing.T) (*Service, *stubStaffRepo, *model.StaffMember, string) {
	t.Helper()

	hasher := security.NewBcryptHasher(4)
	hash, err := hasher.Hash("s3cret-password")
	require.NoError(t, err)

	staff := &model.StaffMember{
		ID:           uuid.New(),
		TenantID:     uuid.New(),
		Email:        "admin@demo.local",
		Role:         model.RoleAdmin,
		APIToken:     "admin-token",
		PasswordHash: hash,
		BranchIDs:    []uuid.UUID{uuid.New(), uuid.New()},
	}

	repo := &stubStaffRepo{
		byEmail: map[string]*model.StaffMember{staff.Email: staff},
		byToken: map[string]*model.StaffMember{staff.APIToken: staff},
	}

	svc := NewService(repo, hasher, Config{
		Secret:     "test-secret",
		SessionTTL: time.Hour,
	})

	return svc, repo, staff, "s3cret-password"
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, _, staff, password := newTestService(t)
	ctx := context.Background()

	token, identity, err := svc.Login(ctx, staff.TenantID, staff.Email, password)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, staff.ID, identity.StaffID)

	resolved, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, staff.ID, resolved.StaffID)
	assert.Equal(t, staff.TenantID, resolved.TenantID)
	assert.Equal(t, staff.Email, resolved.Email)
	assert.Equal(t, model.RoleAdmin, resolved.Role)
	assert.ElementsMatch(t, staff.BranchIDs, resolved.BranchIDs)
}

func TestLoginNormalizesEmail(t *testing.T) {
	svc, _, staff, password := newTestService(t)

	_, identity, err := svc.Login(context.Background(), staff.TenantID, "  ADMIN@demo.local ", password)
	require.NoError(t, err)
	assert.Equal(t, staff.ID, identity.StaffID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, staff, _ := newTestService(t)

	_, _, err := svc.Login(context.Background(), staff.TenantID, staff.Email, "wrong")
	assert.True(t, errors.Is(err, apperror.Unauthorized("")))
}

func TestLoginWrongTenant(t *testing.T) {
	svc, _, staff, password := newTestService(t)

	_, _, err := svc.Login(context.Background(), uuid.New(), staff.Email, password)
	assert.Error(t, err)
}

func TestAuthenticateAPIToken(t *testing.T) {
	svc, _, staff, _ := newTestService(t)

	identity, err := svc.Authenticate(context.Background(), staff.APIToken)
	require.NoError(t, err)
	assert.Equal(t, staff.ID, identity.StaffID)
	assert.Equal(t, staff.TenantID, identity.TenantID)
}

func TestAuthenticateAPITokenIsMemoized(t *testing.T) {
	svc, repo, staff, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, staff.APIToken)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, staff.APIToken)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.tokenLookups)
}

func TestAuthenticateUnknownToken(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Authenticate(context.Background(), "bogus-token")
	assert.True(t, errors.Is(err, apperror.Unauthorized("")))
}

func TestAuthenticateEmptyBearer(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Authenticate(context.Background(), "   ")
	assert.Error(t, err)
}

func TestAuthenticateTamperedJWT(t *testing.T) {
	svc, _, staff, password := newTestService(t)
	ctx := context.Background()

	token, _, err := svc.Login(ctx, staff.TenantID, staff.Email, password)
	require.NoError(t, err)

	other := NewService(&stubStaffRepo{}, security.NewBcryptHasher(4), Config{
		Secret:     "different-secret",
		SessionTTL: time.Hour,
	})

	_, err = other.Authenticate(ctx, token)
	assert.Error(t, err)
}

func TestAuthenticateExpiredSession(t *testing.T) {
	hasher := security.NewBcryptHasher(4)
	hash, err := hasher.Hash("pw-12345678")
	require.NoError(t, err)

	staff := &model.StaffMember{
		ID:           uuid.New(),
		TenantID:     uuid.New(),
		Email:        "user@demo.local",
		Role:         model.RoleUser,
		PasswordHash: hash,
	}
	repo := &stubStaffRepo{byEmail: map[string]*model.StaffMember{staff.Email: staff}, byToken: map[string]*model.StaffMember{}}
	svc := NewService(repo, hasher, Config{Secret: "test-secret", SessionTTL: time.Nanosecond})

	token, _, err := svc.Login(context.Background(), staff.TenantID, staff.Email, "pw-12345678")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = svc.Authenticate(context.Background(), token)
	assert.Error(t, err)
}
