// Package leads provides the lead lifecycle bounded context: anchors and
// their dealer/vendor spokes, the status state machine, and KYC documents.
package leads

import (
	"anchor_crm_backend/internal/events"
	apphttp "anchor_crm_backend/internal/http"
	"anchor_crm_backend/internal/leads/handler"
	"anchor_crm_backend/internal/leads/repository"
	"anchor_crm_backend/internal/leads/service"
	"anchor_crm_backend/internal/storage"
	"anchor_crm_backend/platform/logger"
	"anchor_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, users service.UserDirectory, docs storage.DocumentStore, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, users, docs, bus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc, repo: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the lead service for use by other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the lead repository for modules that read leads.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts lead routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/leads"))
}
