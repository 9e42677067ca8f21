package transport

import (
	leaddomain "anchor_crm_backend/internal/leads/domain"
	"anchor_crm_backend/internal/reports/domain"

	"github.com/google/uuid"
)

type StaleLeadRow struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Kind        string     `json:"kind"`
	Status      string     `json:"status"`
	AssignedTo  *uuid.UUID `json:"assignedTo,omitempty"`
	LastTouched string     `json:"lastTouched"`
}

type DashboardConfigRequest struct {
	UserID            uuid.UUID                                 `json:"userId" validate:"required"`
	SelectedAnchorIDs []uuid.UUID                               `json:"selectedAnchorIds"`
	StatusToTrack     []string                                  `json:"statusToTrack"`
	Targets           map[uuid.UUID]map[string]domain.TargetSet `json:"targets"`
}

type DashboardConfigResponse struct {
	UserID            uuid.UUID                                 `json:"userId"`
	SelectedAnchorIDs []uuid.UUID                               `json:"selectedAnchorIds"`
	StatusToTrack     []string                                  `json:"statusToTrack"`
	Targets           map[uuid.UUID]map[string]domain.TargetSet `json:"targets"`
}

func ToStaleLeadRows(leads []leaddomain.Lead) []StaleLeadRow {
	out := make([]StaleLeadRow, 0, len(leads))
	for _, l := range leads {
		out = append(out, StaleLeadRow{
			ID:          l.ID,
			Name:        l.Name,
			Kind:        string(l.Kind),
			Status:      string(l.Status),
			AssignedTo:  l.AssignedTo,
			LastTouched: l.LastTouched().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return out
}

func ToConfigDomain(req DashboardConfigRequest) domain.DashboardConfig {
	cfg := domain.DashboardConfig{
		UserID:            req.UserID,
		SelectedAnchorIDs: req.SelectedAnchorIDs,
		Targets:           req.Targets,
	}
	for _, s := range req.StatusToTrack {
		cfg.StatusToTrack = append(cfg.StatusToTrack, leaddomain.Status(s))
	}
	return cfg
}

func ToConfigResponse(cfg domain.DashboardConfig) DashboardConfigResponse {
	resp := DashboardConfigResponse{
		UserID:            cfg.UserID,
		SelectedAnchorIDs: cfg.SelectedAnchorIDs,
		Targets:           cfg.Targets,
	}
	for _, s := range cfg.StatusToTrack {
		resp.StatusToTrack = append(resp.StatusToTrack, string(s))
	}
	return resp
}
