package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicpos/record-api/internal/auth"
	"github.com/clinicpos/record-api/internal/handler"
)

const (
	contextIdentity = "identity"

	// HeaderTenantID carries the client-asserted tenant, an independent
	// trust signal from the identity-bound claim.
	HeaderTenantID = "X-Tenant-ID"
)

// Authenticator resolves a bearer credential into a caller identity.
type Authenticator interface {
	Authenticate(ctx context.Context, bearer string) (*auth.Identity, error)
}

type AuthMiddleware struct {
	authenticator Authenticator
}

func NewAuthMiddleware(authenticator Authenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator}
}

// Authenticate verifies the bearer token and sets the caller identity in the
// request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		identity, err := m.authenticator.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		c.Set(contextIdentity, identity)
		c.Next()
	}
}

// RequirePermission rejects callers whose role does not grant the permission.
func (m *AuthMiddleware) RequirePermission(permission auth.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := IdentityFrom(c)
		if identity == nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not authenticated"))
			c.Abort()
			return
		}

		if !auth.HasPermission(identity.Role, permission) {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("permission denied"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// IdentityFrom returns the authenticated caller identity, or nil.
func IdentityFrom(c *gin.Context) *auth.Identity {
	if v, ok := c.Get(contextIdentity); ok {
		if identity, ok := v.(*auth.Identity); ok {
			return identity
		}
	}
	return nil
}

// TenantHeader parses the client-asserted tenant header, returning uuid.Nil
// when absent or malformed so the guard reports it as missing.
func TenantHeader(c *gin.Context) uuid.UUID {
	raw := c.GetHeader(HeaderTenantID)
	if raw == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}
