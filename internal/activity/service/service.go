// Package service implements activity log operations: manual entry
// recording, scoped reads, and the subscriber that turns lead transitions
// into log evidence.
package service

import (
	"context"

	activitydomain "anchor_crm_backend/internal/activity/domain"
	"anchor_crm_backend/internal/activity/repository"
	"anchor_crm_backend/internal/events"
	orgdomain "anchor_crm_backend/internal/org/domain"
	"anchor_crm_backend/internal/visibility"
	"anchor_crm_backend/platform/apperr"
	"anchor_crm_backend/platform/logger"

	"github.com/google/uuid"
)

// UserDirectory reads the org directory for scope computation.
type UserDirectory interface {
	ListUsers(ctx context.Context) ([]orgdomain.User, error)
}

type Service struct {
	repo  repository.EntryStore
	users UserDirectory
	log   *logger.Logger
}

func New(repo repository.EntryStore, users UserDirectory, log *logger.Logger) *Service {
	return &Service{repo: repo, users: users, log: log}
}

// List returns the activity entries whose authors fall inside the actor's
// scope.
func (s *Service) List(ctx context.Context, actorID uuid.UUID) ([]activitydomain.Entry, error) {
	scope, err := s.loadScope(ctx, actorID)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return nil, err
	}

	return visibility.FilterOwned(scope, entries, func(e activitydomain.Entry) uuid.UUID { return e.UserID }), nil
}

// ListByLead returns a lead's activity trail, scope-filtered.
func (s *Service) ListByLead(ctx context.Context, actorID, leadID uuid.UUID) ([]activitydomain.Entry, error) {
	scope, err := s.loadScope(ctx, actorID)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.ListByLead(ctx, leadID)
	if err != nil {
		return nil, err
	}

	return visibility.FilterOwned(scope, entries, func(e activitydomain.Entry) uuid.UUID { return e.UserID }), nil
}

// Record appends one manual entry for the actor. Entries are immutable once
// written.
func (s *Service) Record(ctx context.Context, actorID uuid.UUID, leadID *uuid.UUID, action, note string) (activitydomain.Entry, error) {
	if action == "" {
		return activitydomain.Entry{}, apperr.Validation("action is required")
	}

	return s.repo.Append(ctx, activitydomain.Entry{
		UserID: actorID,
		LeadID: leadID,
		Action: action,
		Note:   note,
	})
}

// SubscribeToLeadEvents wires the subscriber that records every applied
// transition as an activity entry, so status changes count as touches for
// staleness detection.
func (s *Service) SubscribeToLeadEvents(bus events.Bus) {
	bus.Subscribe(events.LeadTransitionApplied{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadTransitionApplied)
		if !ok {
			return nil
		}

		_, err := s.repo.Append(ctx, activitydomain.Entry{
			UserID: e.ActorID,
			LeadID: &e.LeadID,
			Action: "status_change",
			Note:   e.From + " -> " + e.To,
		})
		if err != nil {
			s.log.Error("failed to record transition activity", "error", err, "leadId", e.LeadID)
		}
		return err
	}))

	bus.Subscribe(events.LeadDocumentUploaded{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadDocumentUploaded)
		if !ok {
			return nil
		}

		_, err := s.repo.Append(ctx, activitydomain.Entry{
			UserID: e.UploadedBy,
			LeadID: &e.LeadID,
			Action: "document_upload",
			Note:   e.FileName,
		})
		if err != nil {
			s.log.Error("failed to record document activity", "error", err, "leadId", e.LeadID)
		}
		return err
	}))
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
