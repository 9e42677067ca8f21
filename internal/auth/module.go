// Package auth provides the authentication bounded context: login, token
// refresh, and logout against the user directory.
package auth

import (
	"anchor_crm_backend/internal/auth/handler"
	"anchor_crm_backend/internal/auth/service"
	"anchor_crm_backend/internal/auth/session"
	"anchor_crm_backend/internal/auth/token"
	apphttp "anchor_crm_backend/internal/http"
	"anchor_crm_backend/platform/config"
	"anchor_crm_backend/platform/logger"
	"anchor_crm_backend/platform/validator"

	"github.com/redis/go-redis/v9"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the auth module with all its dependencies.
func NewModule(users service.CredentialReader, redisClient *redis.Client, cfg config.AuthServiceConfig, val *validator.Validator, log *logger.Logger) *Module {
	issuer := token.NewIssuer(cfg)
	sessions := session.NewStore(redisClient, cfg.GetRefreshTokenTTL())
	svc := service.New(users, issuer, sessions, log)
	h := handler.New(svc, val)

	return &Module{handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// RegisterRoutes mounts auth routes on the public v1 group with the
// stricter auth rate limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/auth")
	group.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(group)
}
