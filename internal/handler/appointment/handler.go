package appointment

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicpos/record-api/internal/auth"
	"github.com/clinicpos/record-api/internal/handler"
	"github.com/clinicpos/record-api/internal/middleware"
	"github.com/clinicpos/record-api/internal/model"
	"github.com/clinicpos/record-api/internal/service/appointment"
	"github.com/clinicpos/record-api/pkg/apperror"
)

type Handler struct {
	service *appointment.Service
	guard   *auth.Guard
}

func NewHandler(service *appointment.Service, guard *auth.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", authMW.RequirePermission(auth.PermCreateAppointments), h.CreateAppointment)
		appointments.GET("", authMW.RequirePermission(auth.PermViewPatients), h.ListAppointments)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	identity := middleware.IdentityFrom(c)
	if err := h.guard.ValidateTenant(middleware.TenantHeader(c), identity, req.TenantID); err != nil {
		handler.RespondError(c, err)
		return
	}

	branchID := req.BranchID
	if !h.guard.CanAccessBranch(identity, &branchID) {
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

func (h *Handler) ListAppointments(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Query("tenant_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid tenant ID"))
		return
	}

	branchID, err := uuid.Parse(c.Query("branch_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid branch ID"))
		return
	}

	from, to, err := parseWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	identity := middleware.IdentityFrom(c)
	if err := h.guard.ValidateTenant(middleware.TenantHeader(c), identity, tenantID); err != nil {
		handler.RespondError(c, err)
		return
	}

	if !h.guard.CanAccessBranch(identity, &branchID) {
		handler.RespondError(c, apperror.BranchAccessDenied())
		return
	}

	appointments, err := h.service.ListByBranch(c.Request.Context(), tenantID, branchID, from, to)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func parseWindow(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := now.Truncate(24 * time.Hour)
	to := from.Add(24 * time.Hour)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
		to = from.Add(24 * time.Hour)
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed
	}

	return from, to, nil
}
