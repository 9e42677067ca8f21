package transport

import (
	"time"

	"anchor_crm_backend/internal/leads/domain"
	"anchor_crm_backend/internal/storage"

	"github.com/google/uuid"
)

type LeadResponse struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Kind       string     `json:"kind"`
	Status     string     `json:"status"`
	AssignedTo *uuid.UUID `json:"assignedTo,omitempty"`
	CreatedBy  *uuid.UUID `json:"createdBy,omitempty"`
	AnchorID   *uuid.UUID `json:"anchorId,omitempty"`
	DealValue  float64    `json:"dealValue"`
	Product    string     `json:"product,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type CreateLeadRequest struct {
	Name      string     `json:"name" validate:"required"`
	Kind      string     `json:"kind" validate:"required"`
	AssignTo  *uuid.UUID `json:"assignTo"`
	Status    *string    `json:"status"`
	AnchorID  *uuid.UUID `json:"anchorId"`
	DealValue float64    `json:"dealValue" validate:"gte=0"`
	Product   string     `json:"product"`
	Phone     string     `json:"phone"`
}

type UpdateLeadRequest struct {
	Name      *string    `json:"name"`
	DealValue *float64   `json:"dealValue"`
	Product   *string    `json:"product"`
	Phone     *string    `json:"phone"`
	AnchorID  *uuid.UUID `json:"anchorId"`
	// AnchorIDSet marks an explicit anchor change, including clearing.
	AnchorIDSet bool `json:"anchorIdSet"`
}

type TransitionRequest struct {
	Target   string     `json:"target" validate:"required"`
	AssignTo *uuid.UUID `json:"assignTo"`
}

type TransitionResponse struct {
	Lead LeadResponse `json:"lead"`
	// RequiresApproval is true when the request landed on the intermediate
	// docs status instead of the requested target.
	RequiresApproval bool `json:"requiresApproval"`
}

type AllowedTransitionsResponse struct {
	LeadID  uuid.UUID `json:"leadId"`
	Current string    `json:"current"`
	Targets []string  `json:"targets"`
}

type DocumentResponse struct {
	ID          uuid.UUID `json:"id"`
	LeadID      uuid.UUID `json:"leadId"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	UploadedBy  uuid.UUID `json:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

type DocumentDownloadResponse struct {
	Document DocumentResponse      `json:"document"`
	Download *storage.PresignedURL `json:"download"`
}

func ToLeadResponse(l domain.Lead) LeadResponse {
	return LeadResponse{
		ID:         l.ID,
		Name:       l.Name,
		Kind:       string(l.Kind),
		Status:     string(l.Status),
		AssignedTo: l.AssignedTo,
		CreatedBy:  l.CreatedBy,
		AnchorID:   l.AnchorID,
		DealValue:  l.DealValue,
		Product:    l.Product,
		Phone:      l.Phone,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}

func ToLeadResponses(leads []domain.Lead) []LeadResponse {
	out := make([]LeadResponse, 0, len(leads))
	for _, l := range leads {
		out = append(out, ToLeadResponse(l))
	}
	return out
}

func ToDocumentResponse(d domain.Document) DocumentResponse {
	return DocumentResponse{
		ID:          d.ID,
		LeadID:      d.LeadID,
		FileName:    d.FileName,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		UploadedBy:  d.UploadedBy,
		CreatedAt:   d.CreatedAt,
	}
}

func ToDocumentResponses(docs []domain.Document) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, ToDocumentResponse(d))
	}
	return out
}
