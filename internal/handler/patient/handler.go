package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicpos/record-api/internal/auth"
	"github.com/clinicpos/record-api/internal/handler"
	"github.com/clinicpos/record-api/internal/middleware"
	"github.com/clinicpos/record-api/internal/model"
	"github.com/clinicpos/record-api/internal/service/patient"
	"github.com/clinicpos/record-api/pkg/apperror"
)

type Handler struct {
	service *patient.Service
	guard   *auth.Guard
}

func NewHandler(service *patient.Service, guard *auth.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	patients := r.Group("/patients")
	{
		patients.POST("", authMW.RequirePermission(auth.PermCreatePatients), h.CreatePatient)
		patients.GET("", authMW.RequirePermission(auth.PermViewPatients), h.ListPatients)
	}
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	identity := middleware.IdentityFrom(c)
	if err := h.guard.ValidateTenant(middleware.TenantHeader(c), identity, req.TenantID); err != nil {
		handler.RespondError(c, err)
		return
	}

	if !h.guard.CanAccessBranch(identity, req.BranchID) {
		handler.RespondError(c, apperror.BranchAccessDenied())
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) ListPatients(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Query("tenant_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid tenant ID"))
		return
	}

	var branchID *uuid.UUID
	if raw := c.Query("branch_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid branch ID"))
			return
		}
		branchID = &id
	}

	identity := middleware.IdentityFrom(c)
	if err := h.guard.ValidateTenant(middleware.TenantHeader(c), identity, tenantID); err != nil {
		handler.RespondError(c, err)
		return
	}

	if !h.guard.CanAccessBranch(identity, branchID) {
		handler.RespondError(c, apperror.BranchAccessDenied())
		return
	}

	patients, err := h.service.List(c.Request.Context(), tenantID, branchID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}
