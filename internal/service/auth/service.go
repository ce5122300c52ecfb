package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/clinicpos/record-api/internal/auth"
	"github.com/clinicpos/record-api/internal/model"
	"github.com/clinicpos/record-api/internal/repository"
	"github.com/clinicpos/record-api/pkg/apperror"
	"github.com/clinicpos/record-api/pkg/security"
)

// Claims is the session token payload. It carries the same identity fields
// an API-token lookup would resolve, so both paths produce one Identity.
type Claims struct {
	jwt.RegisteredClaims
	TenantID  string   `json:"tenant_id"`
	Email     string   `json:"email"`
	Role      string   `json:"role"`
	BranchIDs []string `json:"branch_ids"`
}

type Config struct {
	Secret         string
	SessionTTL     time.Duration
	TokenLookupTTL time.Duration
}

// Service resolves bearer credentials into a caller identity. Opaque API
// tokens hit the store (memoized briefly); session JWTs are verified locally.
type Service struct {
	staffRepo repository.StaffRepository
	hasher    security.PasswordHasher
	secret    []byte
	ttl       time.Duration
	tokens    *gocache.Cache
}

func NewService(staffRepo repository.StaffRepository, hasher security.PasswordHasher, cfg Config) *Service {
	lookupTTL := cfg.TokenLookupTTL
	if lookupTTL <= 0 {
		lookupTTL = time.Minute
	}
	sessionTTL := cfg.SessionTTL
	if sessionTTL <= 0 {
		sessionTTL = 12 * time.Hour
	}

	return &Service{
		staffRepo: staffRepo,
		hasher:    hasher,
		secret:    []byte(cfg.Secret),
		ttl:       sessionTTL,
		tokens:    gocache.New(lookupTTL, 2*lookupTTL),
	}
}

// Login verifies the password and issues a session token.
func (s *Service) Login(ctx context.Context, tenantID uuid.UUID, email, password string) (string, *auth.Identity, error) {
	staff, err := s.staffRepo.GetByEmail(ctx, tenantID, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, apperror.Unauthorized("invalid credentials")
	}

	if err := s.hasher.Compare(staff.PasswordHash, password); err != nil {
		return "", nil, apperror.Unauthorized("invalid credentials")
	}

	identity := identityFromStaff(staff)
	token, err := s.issueSessionToken(identity)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue session token: %w", err)
	}
	return token, identity, nil
}

// Authenticate resolves a bearer credential. JWTs are tried first; anything
// else is treated as an opaque staff API token.
func (s *Service) Authenticate(ctx context.Context, bearer string) (*auth.Identity, error) {
	bearer = strings.TrimSpace(bearer)
	if bearer == "" {
		return nil, apperror.Unauthorized("missing token")
	}

	if identity, err := s.verifySessionToken(bearer); err == nil {
		return identity, nil
	}

	return s.resolveAPIToken(ctx, bearer)
}

func (s *Service) resolveAPIToken(ctx context.Context, token string) (*auth.Identity, error) {
	if cached, ok := s.tokens.Get(token); ok {
		return cached.(*auth.Identity), nil
	}

	staff, err := s.staffRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, apperror.Unauthorized("invalid token")
	}

	identity := identityFromStaff(staff)
	s.tokens.SetDefault(token, identity)
	return identity, nil
}

func (s *Service) issueSessionToken(identity *auth.Identity) (string, error) {
	branchIDs := make([]string, 0, len(identity.BranchIDs))
	for _, id := range identity.BranchIDs {
		branchIDs = append(branchIDs, id.String())
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.StaffID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		TenantID:  identity.TenantID.String(),
		Email:     identity.Email,
		Role:      string(identity.Role),
		BranchIDs: branchIDs,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Service) verifySessionToken(token string) (*auth.Identity, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apperror.Unauthorized("invalid token")
	}

	staffID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperror.Unauthorized("invalid token subject")
	}
	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return nil, apperror.Unauthorized("invalid tenant claim")
	}
	role, err := model.ParseRole(claims.Role)
	if err != nil {
		return nil, apperror.Unauthorized("invalid role claim")
	}

	branchIDs := make([]uuid.UUID, 0, len(claims.BranchIDs))
	for _, raw := range claims.BranchIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		branchIDs = append(branchIDs, id)
	}

	return &auth.Identity{
		StaffID:   staffID,
		TenantID:  tenantID,
		Email:     claims.Email,
		Role:      role,
		BranchIDs: branchIDs,
	}, nil
}

func identityFromStaff(staff *model.StaffMember) *auth.Identity {
	return &auth.Identity{
		StaffID:   staff.ID,
		TenantID:  staff.TenantID,
		Email:     staff.Email,
		Role:      staff.Role,
		BranchIDs: staff.BranchIDs,
	}
}
