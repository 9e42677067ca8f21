// Package org provides the organisation directory bounded context:
// users, the manager hierarchy, and integrity checks over it.
package org

import (
	apphttp "anchor_crm_backend/internal/http"
	"anchor_crm_backend/internal/org/handler"
	"anchor_crm_backend/internal/org/repository"
	"anchor_crm_backend/internal/org/service"
	"anchor_crm_backend/platform/logger"
	"anchor_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the org bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the org module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc, repo: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "org"
}

// Service returns the directory service for use by other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the user repository for modules that read the directory.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts org routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterUserRoutes(ctx.Protected.Group("/users"))
	m.handler.RegisterOrgRoutes(ctx.Protected.Group("/org"))
}
