package handler

import (
	"net/http"

	orgdomain "anchor_crm_backend/internal/org/domain"
	"anchor_crm_backend/internal/reports/service"
	"anchor_crm_backend/internal/reports/transport"
	"anchor_crm_backend/platform/httpkit"
	"anchor_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterReportRoutes mounts the report routes.
func (h *Handler) RegisterReportRoutes(rg *gin.RouterGroup) {
	rg.GET("/stale-leads", h.StaleLeads)
	rg.GET("/achievement", h.Achievement)
}

// RegisterConfigRoutes mounts the dashboard configuration routes.
func (h *Handler) RegisterConfigRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.GetConfig)
	rg.PUT("", httpkit.RequireRole(string(orgdomain.RoleAdmin)), h.PutConfig)
}

func (h *Handler) StaleLeads(c *gin.Context) {
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	stale, err := h.svc.StaleLeads(c.Request.Context(), identity.UserID())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.ToStaleLeadRows(stale))
}

func (h *Handler) Achievement(c *gin.Context) {
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	rows, err := h.svc.Achievement(c.Request.Context(), identity.UserID(), c.Query("month"))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, rows)
}

func (h *Handler) GetConfig(c *gin.Context) {
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	// Admins may read any user's config via ?userId=, everyone else reads
	// their own.
	userID := identity.UserID()
	if raw := c.Query("userId"); raw != "" && identity.Role() == string(orgdomain.RoleAdmin) {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		userID = parsed
	}

	cfg, err := h.svc.GetConfig(c.Request.Context(), userID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.ToConfigResponse(cfg))
}

func (h *Handler) PutConfig(c *gin.Context) {
	var req transport.DashboardConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	cfg, err := h.svc.PutConfig(c.Request.Context(), transport.ToConfigDomain(req))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.ToConfigResponse(cfg))
}
