package transport

import (
	"time"

	activitydomain "anchor_crm_backend/internal/activity/domain"

	"github.com/google/uuid"
)

type EntryResponse struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"userId"`
	LeadID    *uuid.UUID `json:"leadId,omitempty"`
	Action    string     `json:"action"`
	Note      string     `json:"note,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type RecordEntryRequest struct {
	LeadID *uuid.UUID `json:"leadId"`
	Action string     `json:"action" validate:"required"`
	Note   string     `json:"note"`
}

func ToEntryResponse(e activitydomain.Entry) EntryResponse {
	return EntryResponse{
		ID:        e.ID,
		UserID:    e.UserID,
		LeadID:    e.LeadID,
		Action:    e.Action,
		Note:      e.Note,
		CreatedAt: e.CreatedAt,
	}
}

func ToEntryResponses(entries []activitydomain.Entry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ToEntryResponse(e))
	}
	return out
}
