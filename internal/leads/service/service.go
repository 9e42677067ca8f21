// Package service implements lead lifecycle operations: visibility-scoped
// listing, creation, the status state machine, and document handling.
package service

import (
	"context"
	"errors"
	"io"

	"anchor_crm_backend/internal/events"
	"anchor_crm_backend/internal/leads/domain"
	"anchor_crm_backend/internal/leads/repository"
	"anchor_crm_backend/internal/leads/transport"
	orgdomain "anchor_crm_backend/internal/org/domain"
	"anchor_crm_backend/internal/storage"
	"anchor_crm_backend/internal/visibility"
	"anchor_crm_backend/platform/apperr"
	"anchor_crm_backend/platform/logger"
	"anchor_crm_backend/platform/phone"

	"github.com/google/uuid"
)

// Repository is the lead data access interface the service needs.
type Repository interface {
	repository.LeadReader
	repository.LeadWriter
	repository.DocumentStore
}

// UserDirectory reads the org directory for scope computation.
type UserDirectory interface {
	ListUsers(ctx context.Context) ([]orgdomain.User, error)
}

type Service struct {
	repo  Repository
	users UserDirectory
	docs  storage.DocumentStore
	bus   events.Bus
	log   *logger.Logger
}

func New(repo Repository, users UserDirectory, docs storage.DocumentStore, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, users: users, docs: docs, bus: bus, log: log}
}

// List returns the leads the actor may see, optionally filtered by kind.
func (s *Service) List(ctx context.Context, actorID uuid.UUID, kind string) ([]transport.LeadResponse, error) {
	scope, err := s.loadScope(ctx, actorID)
	if err != nil {
		return nil, err
	}

	var leads []domain.Lead
	if kind != "" {
		k := domain.Kind(kind)
		if !domain.IsKnownKind(k) {
			return nil, apperr.Validation("unknown lead kind")
		}
		leads, err = s.repo.ListLeadsByKind(ctx, k)
	} else {
		leads, err = s.repo.ListLeads(ctx)
	}
	if err != nil {
		return nil, err
	}

	return transport.ToLeadResponses(visibility.FilterLeads(scope, leads)), nil
}

// Get returns a single lead if the actor's scope admits it.
func (s *Service) Get(ctx context.Context, actorID, leadID uuid.UUID) (transport.LeadResponse, error) {
	_, lead, err := s.loadVisibleLead(ctx, actorID, leadID)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return transport.ToLeadResponse(lead), nil
}

// Create adds a lead to the pipeline. The status/assignee coupling is
// enforced at creation too: either both are set or neither is.
func (s *Service) Create(ctx context.Context, actorID uuid.UUID, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	kind := domain.Kind(req.Kind)
	if !domain.IsKnownKind(kind) {
		return transport.LeadResponse{}, apperr.Validation("unknown lead kind")
	}

	status := domain.StatusUnassigned
	if req.Status != nil {
		status = domain.Status(*req.Status)
	}
	if !domain.IsKnownStatus(kind, status) {
		return transport.LeadResponse{}, apperr.Validation("unknown status for lead kind")
	}
	if domain.IsTerminal(kind, status) {
		return transport.LeadResponse{}, apperr.Validation("cannot create lead in terminal status")
	}
	if (req.AssignTo == nil) != (status == domain.StatusUnassigned) {
		return transport.LeadResponse{}, apperr.Validation("assignee and status must be set together")
	}

	if kind.IsSpoke() && req.AnchorID != nil {
		anchor, err := s.repo.GetByID(ctx, *req.AnchorID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return transport.LeadResponse{}, apperr.NotFound("anchor not found")
			}
			return transport.LeadResponse{}, err
		}
		if anchor.Kind != domain.KindAnchor {
			return transport.LeadResponse{}, apperr.Validation("anchorId must reference an anchor lead")
		}
	}

	lead, err := s.repo.Create(ctx, repository.CreateLeadParams{
		Name:       req.Name,
		Kind:       kind,
		Status:     status,
		AssignedTo: req.AssignTo,
		CreatedBy:  &actorID,
		AnchorID:   req.AnchorID,
		DealValue:  req.DealValue,
		Product:    req.Product,
		Phone:      phone.NormalizeE164(req.Phone),
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     lead.ID,
		Kind:       string(lead.Kind),
		Status:     string(lead.Status),
		AssignedTo: lead.AssignedTo,
		CreatedBy:  lead.CreatedBy,
	})

	return transport.ToLeadResponse(lead), nil
}

// Update edits lead details. Status changes go through Transition only.
func (s *Service) Update(ctx context.Context, actorID, leadID uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	_, current, err := s.loadVisibleLead(ctx, actorID, leadID)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if req.AnchorIDSet && req.AnchorID != nil {
		if !current.Kind.IsSpoke() {
			return transport.LeadResponse{}, apperr.Validation("only dealer and vendor leads reference an anchor")
		}
		anchor, err := s.repo.GetByID(ctx, *req.AnchorID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return transport.LeadResponse{}, apperr.NotFound("anchor not found")
			}
			return transport.LeadResponse{}, err
		}
		if anchor.Kind != domain.KindAnchor {
			return transport.LeadResponse{}, apperr.Validation("anchorId must reference an anchor lead")
		}
	}

	params := repository.UpdateLeadParams{
		Name:        req.Name,
		DealValue:   req.DealValue,
		Product:     req.Product,
		AnchorID:    req.AnchorID,
		AnchorIDSet: req.AnchorIDSet,
	}
	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		params.Phone = &normalized
	}

	lead, err := s.repo.UpdateDetails(ctx, leadID, params)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}
	return transport.ToLeadResponse(lead), nil
}

// AllowedTransitions lists the targets the actor may request for a lead.
func (s *Service) AllowedTransitions(ctx context.Context, actorID, leadID uuid.UUID) (transport.AllowedTransitionsResponse, error) {
	scope, lead, err := s.loadVisibleLead(ctx, actorID, leadID)
	if err != nil {
		return transport.AllowedTransitionsResponse{}, err
	}

	targets := domain.AllowedTransitions(lead, scope.Role())
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		out = append(out, string(t))
	}

	return transport.AllowedTransitionsResponse{
		LeadID:  lead.ID,
		Current: string(lead.Status),
		Targets: out,
	}, nil
}

// Transition applies one status change. The write is conditioned on the
// state read here; a concurrent writer winning the race surfaces as a
// conflict, never as a double transition.
func (s *Service) Transition(ctx context.Context, actorID, leadID uuid.UUID, req transport.TransitionRequest) (transport.TransitionResponse, error) {
	scope, lead, err := s.loadVisibleLead(ctx, actorID, leadID)
	if err != nil {
		return transport.TransitionResponse{}, err
	}

	result, err := domain.Apply(lead, domain.TransitionInput{
		Target:    domain.Status(req.Target),
		ActorRole: scope.Role(),
		AssignTo:  req.AssignTo,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			return transport.TransitionResponse{}, apperr.Forbidden("role not permitted for this transition")
		case errors.Is(err, domain.ErrInvalidTransition):
			return transport.TransitionResponse{}, apperr.InvalidTransition("transition not allowed from current status")
		default:
			return transport.TransitionResponse{}, err
		}
	}

	updated, err := s.repo.ApplyTransition(ctx, repository.TransitionParams{
		ID:                 lead.ID,
		ExpectedStatus:     lead.Status,
		ExpectedAssignedTo: lead.AssignedTo,
		NewStatus:          result.NewStatus,
		NewAssignedTo:      result.NewAssignedTo,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return transport.TransitionResponse{}, apperr.Conflict("lead was modified by another user, reload and retry")
		case errors.Is(err, repository.ErrNotFound):
			return transport.TransitionResponse{}, apperr.NotFound("lead not found")
		default:
			return transport.TransitionResponse{}, err
		}
	}

	s.log.LeadTransition(updated.ID.String(), string(lead.Status), string(updated.Status), string(scope.Role()), result.RequiresApproval)

	s.bus.Publish(ctx, events.LeadTransitionApplied{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     updated.ID,
		Kind:       string(updated.Kind),
		From:       string(lead.Status),
		To:         string(updated.Status),
		ActorID:    actorID,
		ActorRole:  string(scope.Role()),
		AssignedTo: updated.AssignedTo,
	})

	if result.RequiresApproval {
		s.bus.Publish(ctx, events.LeadAwaitingDocsApproval{
			BaseEvent:   events.NewBaseEvent(),
			LeadID:      updated.ID,
			LeadName:    updated.Name,
			RequestedBy: actorID,
			ActorRole:   string(scope.Role()),
		})
	}

	return transport.TransitionResponse{
		Lead:             transport.ToLeadResponse(updated),
		RequiresApproval: result.RequiresApproval,
	}, nil
}

// UploadDocument stores a file in object storage and records its metadata.
func (s *Service) UploadDocument(ctx context.Context, actorID, leadID uuid.UUID, fileName, contentType string, reader io.Reader, size int64) (transport.DocumentResponse, error) {
	if _, _, err := s.loadVisibleLead(ctx, actorID, leadID); err != nil {
		return transport.DocumentResponse{}, err
	}

	if err := s.docs.ValidateUpload(contentType, size); err != nil {
		return transport.DocumentResponse{}, apperr.Validation(err.Error())
	}

	objectKey, err := s.docs.Upload(ctx, leadID.String(), fileName, contentType, reader, size)
	if err != nil {
		return transport.DocumentResponse{}, err
	}

	doc, err := s.repo.AddDocument(ctx, domain.Document{
		LeadID:      leadID,
		ObjectKey:   objectKey,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   size,
		UploadedBy:  actorID,
	})
	if err != nil {
		return transport.DocumentResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadDocumentUploaded{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     leadID,
		ObjectKey:  objectKey,
		FileName:   fileName,
		UploadedBy: actorID,
	})

	return transport.ToDocumentResponse(doc), nil
}

// Documents lists the document metadata attached to a lead.
func (s *Service) Documents(ctx context.Context, actorID, leadID uuid.UUID) ([]transport.DocumentResponse, error) {
	if _, _, err := s.loadVisibleLead(ctx, actorID, leadID); err != nil {
		return nil, err
	}

	docs, err := s.repo.ListDocuments(ctx, leadID)
	if err != nil {
		return nil, err
	}
	return transport.ToDocumentResponses(docs), nil
}

// DocumentDownload returns a short-lived presigned link for one document.
func (s *Service) DocumentDownload(ctx context.Context, actorID, leadID, docID uuid.UUID) (transport.DocumentDownloadResponse, error) {
	if _, _, err := s.loadVisibleLead(ctx, actorID, leadID); err != nil {
		return transport.DocumentDownloadResponse{}, err
	}

	docs, err := s.repo.ListDocuments(ctx, leadID)
	if err != nil {
		return transport.DocumentDownloadResponse{}, err
	}

	for _, doc := range docs {
		if doc.ID != docID {
			continue
		}
		url, err := s.docs.DownloadURL(ctx, doc.ObjectKey)
		if err != nil {
			return transport.DocumentDownloadResponse{}, err
		}
		return transport.DocumentDownloadResponse{
			Document: transport.ToDocumentResponse(doc),
			Download: url,
		}, nil
	}

	return transport.DocumentDownloadResponse{}, apperr.NotFound("document not found")
}

// loadVisibleLead fetches a lead and verifies the actor's scope admits it.
// An invisible lead reads as not found so the response does not leak its
// existence.
func (s *Service) loadVisibleLead(ctx context.Context, actorID, leadID uuid.UUID) (visibility.Scope, domain.Lead, error) {
	scope, err := s.loadScope(ctx, actorID)
	if err != nil {
		return visibility.Scope{}, domain.Lead{}, err
	}

	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return visibility.Scope{}, domain.Lead{}, apperr.NotFound("lead not found")
		}
		return visibility.Scope{}, domain.Lead{}, err
	}

	if len(visibility.FilterLeads(scope, []domain.Lead{lead})) == 0 {
		return visibility.Scope{}, domain.Lead{}, apperr.NotFound("lead not found")
	}

	return scope, lead, nil
}

func (s *Service) loadScope(ctx context.Context, actorID uuid.UUID) (visibility.Scope, error) {
	all, err := s.users.ListUsers(ctx)
	if err != nil {
		return visibility.Scope{}, err
	}

	for _, u := range all {
		if u.ID == actorID {
			return visibility.Compute(u, all), nil
		}
	}
	return visibility.Scope{}, apperr.NotFound("actor not found")
}
