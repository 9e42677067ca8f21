// Package service assembles report inputs and delegates the computation to
// the pure report functions. Data sources are fetched concurrently; the
// computations themselves never touch the database.
package service

import (
	"context"
	"errors"
	"time"

	activitydomain "anchor_crm_backend/internal/activity/domain"
	leaddomain "anchor_crm_backend/internal/leads/domain"
	orgdomain "anchor_crm_backend/internal/org/domain"
	"anchor_crm_backend/internal/reports/domain"
	"anchor_crm_backend/internal/reports/repository"
	"anchor_crm_backend/internal/visibility"
	"anchor_crm_backend/platform/apperr"
	"anchor_crm_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// UserDirectory reads the org directory for scope computation.
type UserDirectory interface {
	ListUsers(ctx context.Context) ([]orgdomain.User, error)
}

// LeadSource reads leads for report assembly.
type LeadSource interface {
	ListLeads(ctx context.Context) ([]leaddomain.Lead, error)
	ListLeadsByKind(ctx context.Context, kind leaddomain.Kind) ([]leaddomain.Lead, error)
}

// ActivitySource reads the activity log for staleness evidence.
type ActivitySource interface {
	ListSince(ctx context.Context, since time.Time) ([]activitydomain.Entry, error)
}

type Service struct {
	configs  repository.ConfigStore
	users    UserDirectory
	leads    LeadSource
	activity ActivitySource
	log      *logger.Logger
	now      func() time.Time
}

func New(configs repository.ConfigStore, users UserDirectory, leads LeadSource, activity ActivitySource, log *logger.Logger) *Service {
	return &Service{configs: configs, users: users, leads: leads, activity: activity, log: log, now: time.Now}
}

// StaleLeads builds the neglected-lead report for the actor's scope. Inputs
// are fetched in parallel; the computation is pure.
func (s *Service) StaleLeads(ctx context.Context, actorID uuid.UUID) ([]leaddomain.Lead, error) {
	now := s.now()
	boundary := domain.LastBusinessDayBoundary(now)

	var (
		allUsers []orgdomain.User
		allLeads []leaddomain.Lead
		entries  []activitydomain.Entry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		allUsers, err = s.users.ListUsers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		allLeads, err = s.leads.ListLeads(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.activity.ListSince(gctx, boundary)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scope, err := scopeFor(actorID, allUsers)
	if err != nil {
		return nil, err
	}

	return domain.StaleLeads(scope, allUsers, allLeads, entries, now), nil
}

// Achievement builds the target-vs-achievement report from the actor's saved
// dashboard config. An actor without a config gets an empty report, not an
// error.
func (s *Service) Achievement(ctx context.Context, actorID uuid.UUID, monthFilter string) ([]domain.AchievementRow, error) {
	var (
		cfg      domain.DashboardConfig
		noConfig bool
		allUsers []orgdomain.User
		anchors  []leaddomain.Lead
		spokes   []leaddomain.Lead
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cfg, err = s.configs.GetConfig(gctx, actorID)
		if errors.Is(err, repository.ErrNotFound) {
			noConfig = true
			return nil
		}
		return err
	})
	g.Go(func() error {
		var err error
		allUsers, err = s.users.ListUsers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		anchors, err = s.leads.ListLeadsByKind(gctx, leaddomain.KindAnchor)
		return err
	})
	g.Go(func() error {
		dealers, err := s.leads.ListLeadsByKind(gctx, leaddomain.KindDealer)
		if err != nil {
			return err
		}
		vendors, err := s.leads.ListLeadsByKind(gctx, leaddomain.KindVendor)
		if err != nil {
			return err
		}
		spokes = append(dealers, vendors...)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if noConfig {
		return []domain.AchievementRow{}, nil
	}

	scope, err := scopeFor(actorID, allUsers)
	if err != nil {
		return nil, err
	}

	return domain.BuildAchievementReport(cfg, anchors, scope.VisibleUserIDs(allUsers), spokes, monthFilter), nil
}

// GetConfig returns a user's saved dashboard configuration.
func (s *Service) GetConfig(ctx context.Context, userID uuid.UUID) (domain.DashboardConfig, error) {
	cfg, err := s.configs.GetConfig(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.DashboardConfig{}, apperr.NotFound("dashboard config not found")
	}
	return cfg, err
}

// PutConfig saves a user's dashboard configuration. The handler restricts
// this to admins; the service validates the tracked statuses.
func (s *Service) PutConfig(ctx context.Context, cfg domain.DashboardConfig) (domain.DashboardConfig, error) {
	for _, status := range cfg.StatusToTrack {
		if !leaddomain.IsKnownStatus(leaddomain.KindDealer, status) &&
			!leaddomain.IsKnownStatus(leaddomain.KindAnchor, status) {
			return domain.DashboardConfig{}, apperr.Validation("unknown status in statusToTrack")
		}
	}

	return s.configs.UpsertConfig(ctx, cfg)
}

func scopeFor(actorID uuid.UUID, allUsers []orgdomain.User) (visibility.Scope, error) {
	for _, u := range allUsers {
		if u.ID == actorID {
			return visibility.Compute(u, allUsers), nil
		}
	}
	return visibility.Scope{}, apperr.NotFound("actor not found")
}
