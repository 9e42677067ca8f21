package handler

import (
	"net/http"

	"anchor_crm_backend/internal/activity/service"
	"anchor_crm_backend/internal/activity/transport"
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

// RegisterRoutes mounts the activity log routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Record)
	rg.GET("/lead/:leadId", h.ListByLead)
}

func (h *Handler) List(c *gin.Context) {
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	entries, err := h.svc.List(c.Request.Context(), identity.UserID())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.ToEntryResponses(entries))
}

func (h *Handler) Record(c *gin.Context) {
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	var req transport.RecordEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	entry, err := h.svc.Record(c.Request.Context(), identity.UserID(), req.LeadID, req.Action, req.Note)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ToEntryResponse(entry))
}

func (h *Handler) ListByLead(c *gin.Context) {
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	leadID, err := uuid.Parse(c.Param("leadId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	entries, err := h.svc.ListByLead(c.Request.Context(), identity.UserID(), leadID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.ToEntryResponses(entries))
}
