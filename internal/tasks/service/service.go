// Package service implements task operations scoped by the actor's
// visibility: a task is visible when its assignee is.
package service

import (
	"context"
	"errors"
	"time"

	orgdomain "anchor_crm_backend/internal/org/domain"
	"anchor_crm_backend/internal/tasks/domain"
	"anchor_crm_backend/internal/tasks/repository"
	"anchor_crm_backend/internal/tasks/transport"
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
	repo  repository.TaskStore
	users UserDirectory
	log   *logger.Logger
	now   func() time.Time
}

func New(repo repository.TaskStore, users UserDirectory, log *logger.Logger) *Service {
	return &Service{repo: repo, users: users, log: log, now: time.Now}
}

// List returns the tasks whose assignees fall inside the actor's scope.
func (s *Service) List(ctx context.Context, actorID uuid.UUID) ([]transport.TaskResponse, error) {
	scope, err := s.loadScope(ctx, actorID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	visible := visibility.FilterOwned(scope, tasks, func(t domain.Task) uuid.UUID { return t.AssignedTo })
	return transport.ToTaskResponses(visible, s.now()), nil
}

// Create adds a task. The assignee must be inside the actor's scope: you
// cannot queue work for someone you cannot see.
func (s *Service) Create(ctx context.Context, actorID uuid.UUID, req transport.CreateTaskRequest) (transport.TaskResponse, error) {
	scope, err := s.loadScope(ctx, actorID)
	if err != nil {
		return transport.TaskResponse{}, err
	}

	if !scope.Allows(req.AssignedTo) {
		return transport.TaskResponse{}, apperr.Forbidden("assignee outside your visibility scope")
	}

	priority := domain.PriorityMedium
	if req.Priority != "" {
		priority = domain.Priority(req.Priority)
		if !domain.IsKnownPriority(priority) {
			return transport.TaskResponse{}, apperr.Validation("unknown priority")
		}
	}

	task, err := s.repo.Create(ctx, repository.CreateTaskParams{
		Title:              req.Title,
		Description:        req.Description,
		AssignedTo:         req.AssignedTo,
		AssociatedAnchorID: req.AssociatedAnchorID,
		Priority:           priority,
		DueDate:            req.DueDate,
		CreatedBy:          actorID,
	})
	if err != nil {
		return transport.TaskResponse{}, err
	}

	return transport.ToTaskResponse(task, s.now()), nil
}

// Update edits a task the actor can see.
func (s *Service) Update(ctx context.Context, actorID, taskID uuid.UUID, req transport.UpdateTaskRequest) (transport.TaskResponse, error) {
	scope, err := s.loadScope(ctx, actorID)
	if err != nil {
		return transport.TaskResponse{}, err
	}

	current, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.TaskResponse{}, apperr.NotFound("task not found")
		}
		return transport.TaskResponse{}, err
	}
	if !scope.Allows(current.AssignedTo) {
		return transport.TaskResponse{}, apperr.NotFound("task not found")
	}

	params := repository.UpdateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
		DueDateSet:  req.DueDateSet,
	}
	if req.AssignedTo != nil && !scope.Allows(*req.AssignedTo) {
		return transport.TaskResponse{}, apperr.Forbidden("assignee outside your visibility scope")
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		if !domain.IsKnownStatus(status) {
			return transport.TaskResponse{}, apperr.Validation("unknown task status")
		}
		params.Status = &status
	}
	if req.Priority != nil {
		priority := domain.Priority(*req.Priority)
		if !domain.IsKnownPriority(priority) {
			return transport.TaskResponse{}, apperr.Validation("unknown priority")
		}
		params.Priority = &priority
	}

	task, err := s.repo.Update(ctx, taskID, params)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.TaskResponse{}, apperr.NotFound("task not found")
		}
		return transport.TaskResponse{}, err
	}

	return transport.ToTaskResponse(task, s.now()), nil
}

// Delete removes a task the actor can see.
func (s *Service) Delete(ctx context.Context, actorID, taskID uuid.UUID) error {
	scope, err := s.loadScope(ctx, actorID)
	if err != nil {
		return err
	}

	current, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("task not found")
		}
		return err
	}
	if !scope.Allows(current.AssignedTo) {
		return apperr.NotFound("task not found")
	}

	if err := s.repo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("task not found")
		}
		return err
	}
	return nil
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
