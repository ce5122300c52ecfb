package branch

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicpos/record-api/internal/auth"
	"github.com/clinicpos/record-api/internal/handler"
	"github.com/clinicpos/record-api/internal/middleware"
	"github.com/clinicpos/record-api/internal/model"
	"github.com/clinicpos/record-api/internal/service/branch"
)

type Handler struct {
	service *branch.Service
	guard   *auth.Guard
}

func NewHandler(service *branch.Service, guard *auth.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	branches := r.Group("/branches")
	{
		branches.GET("", authMW.RequirePermission(auth.PermViewPatients), h.ListBranches)
		branches.POST("", authMW.RequirePermission(auth.PermManageStaff), h.CreateBranch)
	}
}

func (h *Handler) ListBranches(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Query("tenant_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid tenant ID"))
		return
	}

	identity := middleware.IdentityFrom(c)
	if err := h.guard.ValidateTenant(middleware.TenantHeader(c), identity, tenantID); err != nil {
		handler.RespondError(c, err)
		return
	}

	branches, err := h.service.List(c.Request.Context(), tenantID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(branches))
}

func (h *Handler) CreateBranch(c *gin.Context) {
	var req model.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	identity := middleware.IdentityFrom(c)
	if err := h.guard.ValidateTenant(middleware.TenantHeader(c), identity, req.TenantID); err != nil {
		handler.RespondError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}
