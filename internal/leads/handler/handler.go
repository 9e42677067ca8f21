package handler

import (
	"net/http"

	"anchor_crm_backend/internal/leads/service"
	"anchor_crm_backend/internal/leads/transport"
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

// RegisterRoutes mounts the lead lifecycle routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.GET("/:id/transitions", h.AllowedTransitions)
	rg.POST("/:id/transition", h.Transition)
	rg.GET("/:id/documents", h.ListDocuments)
	rg.POST("/:id/documents", h.UploadDocument)
	rg.GET("/:id/documents/:docId/download", h.DownloadDocument)
}

func (h *Handler) List(c *gin.Context) {
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	leads, err := h.svc.List(c.Request.Context(), identity.UserID(), c.Query("kind"))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, leads)
}

func (h *Handler) Create(c *gin.Context) {
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.svc.Create(c.Request.Context(), identity.UserID(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.JSON(c, http.StatusCreated, lead)
}

func (h *Handler) Get(c *gin.Context) {
	identity, leadID, ok := h.identityAndLeadID(c)
	if !ok {
		return
	}

	lead, err := h.svc.Get(c.Request.Context(), identity.UserID(), leadID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, lead)
}

func (h *Handler) Update(c *gin.Context) {
	identity, leadID, ok := h.identityAndLeadID(c)
	if !ok {
		return
	}

	var req transport.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	lead, err := h.svc.Update(c.Request.Context(), identity.UserID(), leadID, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, lead)
}

func (h *Handler) AllowedTransitions(c *gin.Context) {
	identity, leadID, ok := h.identityAndLeadID(c)
	if !ok {
		return
	}

	resp, err := h.svc.AllowedTransitions(c.Request.Context(), identity.UserID(), leadID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, resp)
}

func (h *Handler) Transition(c *gin.Context) {
	identity, leadID, ok := h.identityAndLeadID(c)
	if !ok {
		return
	}

	var req transport.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	resp, err := h.svc.Transition(c.Request.Context(), identity.UserID(), leadID, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, resp)
}

func (h *Handler) ListDocuments(c *gin.Context) {
	identity, leadID, ok := h.identityAndLeadID(c)
	if !ok {
		return
	}

	docs, err := h.svc.Documents(c.Request.Context(), identity.UserID(), leadID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, docs)
}

func (h *Handler) UploadDocument(c *gin.Context) {
	identity, leadID, ok := h.identityAndLeadID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "could not read file", nil)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	doc, err := h.svc.UploadDocument(c.Request.Context(), identity.UserID(), leadID, fileHeader.Filename, contentType, file, fileHeader.Size)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.JSON(c, http.StatusCreated, doc)
}

func (h *Handler) DownloadDocument(c *gin.Context) {
	identity, leadID, ok := h.identityAndLeadID(c)
	if !ok {
		return
	}

	docID, err := uuid.Parse(c.Param("docId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	resp, err := h.svc.DocumentDownload(c.Request.Context(), identity.UserID(), leadID, docID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, resp)
}

func (h *Handler) identityAndLeadID(c *gin.Context) (httpkit.Identity, uuid.UUID, bool) {
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return nil, uuid.Nil, false
	}

	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return nil, uuid.Nil, false
	}

	return identity, leadID, true
}
