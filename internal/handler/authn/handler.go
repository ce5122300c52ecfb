package authn

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicpos/record-api/internal/handler"
	"github.com/clinicpos/record-api/internal/middleware"
	"github.com/clinicpos/record-api/internal/model"
	authservice "github.com/clinicpos/record-api/internal/service/auth"
)

type Handler struct {
	service *authservice.Service
}

func NewHandler(service *authservice.Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes registers the login endpoint, which runs without the
// auth middleware.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/auth/login", h.Login)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/auth/me", h.Me)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	token, identity, err := h.service.Login(c.Request.Context(), req.TenantID, req.Email, req.Password)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"token":      token,
		"staff_id":   identity.StaffID,
		"tenant_id":  identity.TenantID,
		"email":      identity.Email,
		"role":       identity.Role,
		"branch_ids": identity.BranchIDs,
	}))
}

func (h *Handler) Me(c *gin.Context) {
	identity := middleware.IdentityFrom(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not authenticated"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"staff_id":   identity.StaffID,
		"tenant_id":  identity.TenantID,
		"email":      identity.Email,
		"role":       identity.Role,
		"branch_ids": identity.BranchIDs,
	}))
}
