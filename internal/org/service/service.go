// Package service implements org directory operations: visibility-scoped
// user listing, subordinate resolution, and hierarchy integrity checks.
package service

import (
	"context"
	"errors"
	"sort"

	"anchor_crm_backend/internal/auth/password"
	"anchor_crm_backend/internal/org/domain"
	"anchor_crm_backend/internal/org/hierarchy"
	"anchor_crm_backend/internal/org/repository"
	"anchor_crm_backend/internal/org/transport"
	"anchor_crm_backend/internal/visibility"
	"anchor_crm_backend/platform/apperr"
	"anchor_crm_backend/platform/logger"
	"anchor_crm_backend/platform/phone"

	"github.com/google/uuid"
)

// Repository is the data access interface the org service needs.
type Repository interface {
	repository.UserReader
	repository.UserWriter
}

type Service struct {
	repo Repository
	log  *logger.Logger
}

func New(repo Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// ListVisible returns the users the actor may see, scope recomputed from
// the live directory on every call.
func (s *Service) ListVisible(ctx context.Context, actorID uuid.UUID) ([]transport.UserResponse, error) {
	actor, all, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	scope := visibility.Compute(actor, all)
	out := make([]domain.User, 0, len(all))
	for _, u := range all {
		if scope.Allows(u.ID) {
			out = append(out, u)
		}
	}

	return transport.ToUserResponses(out), nil
}

// Subordinates returns the transitive reports of a user, sorted for stable
// output. Managers may only inspect chains inside their own scope.
func (s *Service) Subordinates(ctx context.Context, actorID, userID uuid.UUID) (transport.SubordinatesResponse, error) {
	actor, all, err := s.loadActor(ctx, actorID)
	if err != nil {
		return transport.SubordinatesResponse{}, err
	}

	scope := visibility.Compute(actor, all)
	if !scope.Allows(userID) {
		return transport.SubordinatesResponse{}, apperr.Forbidden("user outside your visibility scope")
	}

	set := hierarchy.SubordinatesOf(userID, all)
	ids := make([]uuid.UUID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	return transport.SubordinatesResponse{UserID: userID, Subordinates: ids}, nil
}

// Integrity reports users trapped in manager cycles. A cycle is a
// data-integrity warning, not a crash: the resolver already refuses to loop.
func (s *Service) Integrity(ctx context.Context) (transport.IntegrityResponse, error) {
	all, err := s.repo.ListUsers(ctx)
	if err != nil {
		return transport.IntegrityResponse{}, err
	}

	cyclic := hierarchy.CyclicUsers(all)
	for _, id := range cyclic {
		s.log.HierarchyCycle(id.String())
	}

	sort.Slice(cyclic, func(i, j int) bool { return cyclic[i].String() < cyclic[j].String() })
	return transport.IntegrityResponse{CyclicUsers: cyclic, Healthy: len(cyclic) == 0}, nil
}

// Create adds a user to the directory. Admin only; the handler enforces the
// role, the service validates the shape.
func (s *Service) Create(ctx context.Context, req transport.CreateUserRequest) (transport.UserResponse, error) {
	role := domain.Role(req.Role)
	if !domain.IsKnownRole(role) {
		return transport.UserResponse{}, apperr.Validation("unknown role")
	}

	if req.ManagerID != nil {
		if _, err := s.repo.GetByID(ctx, *req.ManagerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return transport.UserResponse{}, apperr.NotFound("manager not found")
			}
			return transport.UserResponse{}, err
		}
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return transport.UserResponse{}, err
	}

	user, err := s.repo.Create(ctx, repository.CreateUserParams{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        phone.NormalizeE164(req.Phone),
		Role:         role,
		ManagerID:    req.ManagerID,
		Region:       req.Region,
		PasswordHash: hash,
	})
	if err != nil {
		return transport.UserResponse{}, err
	}

	return transport.ToUserResponse(user), nil
}

// Update edits a user. Changing role or manager changes visibility scopes
// immediately: scopes are recomputed per request, nothing to invalidate.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateUserRequest) (transport.UserResponse, error) {
	params := repository.UpdateUserParams{
		Name:         req.Name,
		Region:       req.Region,
		ManagerID:    req.ManagerID,
		ManagerIDSet: req.ManagerIDSet,
	}

	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		params.Phone = &normalized
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		if !domain.IsKnownRole(role) {
			return transport.UserResponse{}, apperr.Validation("unknown role")
		}
		params.Role = &role
	}
	if req.Status != nil {
		status := domain.UserStatus(*req.Status)
		if status != domain.UserActive && status != domain.UserEx {
			return transport.UserResponse{}, apperr.Validation("unknown user status")
		}
		params.Status = &status
	}

	user, err := s.repo.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.UserResponse{}, apperr.NotFound("user not found")
		}
		return transport.UserResponse{}, err
	}

	return transport.ToUserResponse(user), nil
}

func (s *Service) loadActor(ctx context.Context, actorID uuid.UUID) (domain.User, []domain.User, error) {
	all, err := s.repo.ListUsers(ctx)
	if err != nil {
		return domain.User{}, nil, err
	}

	for _, u := range all {
		if u.ID == actorID {
			return u, all, nil
		}
	}
	return domain.User{}, nil, apperr.NotFound("actor not found")
}
