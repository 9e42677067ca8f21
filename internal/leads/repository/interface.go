package repository

import (
	"context"

	"anchor_crm_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// LeadReader is the read-side interface consumers depend on.
type LeadReader interface {
	ListLeads(ctx context.Context) ([]domain.Lead, error)
	ListLeadsByKind(ctx context.Context, kind domain.Kind) ([]domain.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
}

// LeadWriter is the write-side interface consumers depend on.
type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (domain.Lead, error)
	UpdateDetails(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (domain.Lead, error)
	// ApplyTransition persists a status change conditioned on the status and
	// assignee the caller read. It returns ErrConflict when another writer
	// got there first.
	ApplyTransition(ctx context.Context, params TransitionParams) (domain.Lead, error)
}

// DocumentStore persists document metadata for leads.
type DocumentStore interface {
	AddDocument(ctx context.Context, doc domain.Document) (domain.Document, error)
	ListDocuments(ctx context.Context, leadID uuid.UUID) ([]domain.Document, error)
}
