// Package tasks provides the follow-up task bounded context.
package tasks

import (
	apphttp "anchor_crm_backend/internal/http"
	"anchor_crm_backend/internal/tasks/handler"
	"anchor_crm_backend/internal/tasks/repository"
	"anchor_crm_backend/internal/tasks/service"
	"anchor_crm_backend/platform/logger"
	"anchor_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the tasks bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the tasks module with all its dependencies.
func NewModule(pool *pgxpool.Pool, users service.UserDirectory, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, users, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "tasks"
}

// RegisterRoutes mounts task routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/tasks"))
}
