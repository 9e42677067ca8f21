// Package reports provides the read-only reporting bounded context:
// stale-lead detection, achievement aggregation, and dashboard configs.
package reports

import (
	apphttp "anchor_crm_backend/internal/http"
	"anchor_crm_backend/internal/reports/handler"
	"anchor_crm_backend/internal/reports/repository"
	"anchor_crm_backend/internal/reports/service"
	"anchor_crm_backend/platform/logger"
	"anchor_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the reports bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the reports module with all its dependencies.
func NewModule(pool *pgxpool.Pool, users service.UserDirectory, leads service.LeadSource, activity service.ActivitySource, val *validator.Validator, log *logger.Logger) *Module {
	configs := repository.New(pool)
	svc := service.New(configs, users, leads, activity, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "reports"
}

// Service returns the report service for use by the scheduler.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts report routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterReportRoutes(ctx.Protected.Group("/reports"))
	m.handler.RegisterConfigRoutes(ctx.Protected.Group("/dashboard-config"))
}
