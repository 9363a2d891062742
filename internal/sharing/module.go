// Package sharing provides the sharing bounded context module: share
// confirmations from the recording page and LinkedIn caption generation.
package sharing

import (
	"testimonials_backend/internal/events"
	apphttp "testimonials_backend/internal/http"
	"testimonials_backend/internal/sharing/handler"
	"testimonials_backend/internal/sharing/repository"
	"testimonials_backend/internal/sharing/service"
	"testimonials_backend/platform/httpkit"
	"testimonials_backend/platform/logger"
	"testimonials_backend/platform/ratelimit"
	"testimonials_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the sharing bounded context module implementing http.Module.
type Module struct {
	handler     *handler.Handler
	service     *service.Service
	publicLimit *ratelimit.Limiter
	log         *logger.Logger
}

// NewModule creates and initializes the sharing module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, publicLimit *ratelimit.Limiter, log *logger.Logger) (*Module, error) {
	if err := handler.RegisterValidations(val); err != nil {
		return nil, err
	}
	svc := service.New(repository.New(pool), eventBus, log)

	return &Module{
		handler:     handler.New(svc, val),
		service:     svc,
		publicLimit: publicLimit,
		log:         log,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "sharing"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts sharing routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Public.Group("/record/:token")
	if m.publicLimit != nil {
		group.Use(httpkit.RateLimit(m.publicLimit, "share", m.log))
	}
	group.POST("/share", m.handler.Share)
	group.GET("/caption", m.handler.PreviewCaption)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
