package handler

import (
	"net/http"

	"anchor_crm_backend/internal/auth/service"
	"anchor_crm_backend/internal/auth/transport"
	"anchor_crm_backend/platform/httpkit"
	"anchor_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
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

// RegisterRoutes mounts the authentication routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.Login)
	rg.POST("/refresh", h.Refresh)
	rg.POST("/logout", h.Logout)
}

func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, resp)
}

func (h *Handler) Refresh(c *gin.Context) {
	var req transport.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	resp, err := h.svc.Refresh(c.Request.Context(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, resp)
}

func (h *Handler) Logout(c *gin.Context) {
	var req transport.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if err := h.svc.Logout(c.Request.Context(), req); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
