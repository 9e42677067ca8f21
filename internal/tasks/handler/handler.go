package handler

import (
	"net/http"

	"anchor_crm_backend/internal/tasks/service"
	"anchor_crm_backend/internal/tasks/transport"
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

// RegisterRoutes mounts the task routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.PATCH("/:id/status", h.UpdateStatus)
	rg.DELETE("/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	tasks, err := h.svc.List(c.Request.Context(), identity.UserID())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, tasks)
}

func (h *Handler) Create(c *gin.Context) {
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	var req transport.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	task, err := h.svc.Create(c.Request.Context(), identity.UserID(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.JSON(c, http.StatusCreated, task)
}

func (h *Handler) Update(c *gin.Context) {
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	task, err := h.svc.Update(c.Request.Context(), identity.UserID(), taskID, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, task)
}

// UpdateStatus is the narrow status-only edit used by board views.
func (h *Handler) UpdateStatus(c *gin.Context) {
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	task, err := h.svc.Update(c.Request.Context(), identity.UserID(), taskID, transport.UpdateTaskRequest{
		Status: &req.Status,
	})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, task)
}

func (h *Handler) Delete(c *gin.Context) {
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), identity.UserID(), taskID); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
