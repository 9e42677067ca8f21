// Package activity provides the field activity log bounded context. The log
// is append-only evidence of user work; staleness detection reads it.
package activity

import (
	"anchor_crm_backend/internal/activity/handler"
	"anchor_crm_backend/internal/activity/repository"
	"anchor_crm_backend/internal/activity/service"
	"anchor_crm_backend/internal/events"
	apphttp "anchor_crm_backend/internal/http"
	"anchor_crm_backend/platform/logger"
	"anchor_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the activity bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates the activity module and subscribes it to lead events so
// transitions and document uploads land in the log automatically.
func NewModule(pool *pgxpool.Pool, users service.UserDirectory, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, users, log)
	svc.SubscribeToLeadEvents(bus)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc, repo: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "activity"
}

// Repository returns the entry store for modules that read the log.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts activity routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/activity"))
}
