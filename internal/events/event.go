// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"anchor_crm_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead enters the pipeline.
type LeadCreated struct {
	BaseEvent
	LeadID     uuid.UUID  `json:"leadId"`
	Kind       string     `json:"kind"`
	Status     string     `json:"status"`
	AssignedTo *uuid.UUID `json:"assignedTo,omitempty"`
	CreatedBy  *uuid.UUID `json:"createdBy,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadTransitionApplied is published after every successful status change.
// The activity log records these entries so staleness detection sees them.
type LeadTransitionApplied struct {
	BaseEvent
	LeadID     uuid.UUID  `json:"leadId"`
	Kind       string     `json:"kind"`
	From       string     `json:"from"`
	To         string     `json:"to"`
	ActorID    uuid.UUID  `json:"actorId"`
	ActorRole  string     `json:"actorRole"`
	AssignedTo *uuid.UUID `json:"assignedTo,omitempty"`
}

func (e LeadTransitionApplied) EventName() string { return "leads.lead.transition_applied" }

// LeadAwaitingDocsApproval is published when a submission lands on the
// intermediate docs status and an approver must resolve it.
type LeadAwaitingDocsApproval struct {
	BaseEvent
	LeadID      uuid.UUID `json:"leadId"`
	LeadName    string    `json:"leadName"`
	RequestedBy uuid.UUID `json:"requestedBy"`
	ActorRole   string    `json:"actorRole"`
}

func (e LeadAwaitingDocsApproval) EventName() string { return "leads.lead.awaiting_docs_approval" }

// LeadDocumentUploaded is published when a document is attached to a lead.
type LeadDocumentUploaded struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	ObjectKey  string    `json:"objectKey"`
	FileName   string    `json:"fileName"`
	UploadedBy uuid.UUID `json:"uploadedBy"`
}

func (e LeadDocumentUploaded) EventName() string { return "leads.lead.document_uploaded" }
