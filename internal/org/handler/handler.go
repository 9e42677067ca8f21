package handler

import (
	"net/http"

	orgdomain "anchor_crm_backend/internal/org/domain"
	"anchor_crm_backend/internal/org/service"
	"anchor_crm_backend/internal/org/transport"
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

// RegisterUserRoutes mounts the user directory routes.
func (h *Handler) RegisterUserRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", httpkit.RequireRole(string(orgdomain.RoleAdmin)), h.Create)
	rg.PUT("/:id", httpkit.RequireRole(string(orgdomain.RoleAdmin)), h.Update)
	rg.GET("/:id/subordinates", h.Subordinates)
}

// RegisterOrgRoutes mounts hierarchy-level routes.
func (h *Handler) RegisterOrgRoutes(rg *gin.RouterGroup) {
	rg.GET("/integrity", httpkit.RequireRole(string(orgdomain.RoleAdmin)), h.Integrity)
}

func (h *Handler) List(c *gin.Context) {
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	users, err := h.svc.ListVisible(c.Request.Context(), identity.UserID())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, users)
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	user, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.JSON(c, http.StatusCreated, user)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	user, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, user)
}

func (h *Handler) Subordinates(c *gin.Context) {
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	resp, err := h.svc.Subordinates(c.Request.Context(), identity.UserID(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, resp)
}

func (h *Handler) Integrity(c *gin.Context) {
	resp, err := h.svc.Integrity(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, resp)
}
