// Package contacts provides the contacts bounded context module: inviting
// customers, resolving their recording links and tracking funnel status.
package contacts

import (
	"testimonials_backend/internal/contacts/handler"
	"testimonials_backend/internal/contacts/repository"
	"testimonials_backend/internal/contacts/service"
	"testimonials_backend/internal/events"
	apphttp "testimonials_backend/internal/http"
	"testimonials_backend/platform/httpkit"
	"testimonials_backend/platform/logger"
	"testimonials_backend/platform/ratelimit"
	"testimonials_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the contacts bounded context module implementing http.Module.
type Module struct {
	handler       *handler.Handler
	service       *service.Service
	repo          repository.Repository
	registerLimit *ratelimit.Limiter
	log           *logger.Logger
}

// NewModule creates and initializes the contacts module with all its dependencies.
func NewModule(
	pool *pgxpool.Pool,
	orgs service.OrganizationReader,
	eventBus events.Bus,
	cfg service.Config,
	val *validator.Validator,
	registerLimit *ratelimit.Limiter,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, orgs, eventBus, cfg, log)

	return &Module{
		handler:       handler.New(svc, val),
		service:       svc,
		repo:          repo,
		registerLimit: registerLimit,
		log:           log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "contacts"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for adapters.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts contact routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/contacts")
	group.GET("", m.handler.List)
	group.POST("", m.handler.Invite)
	group.GET("/statuses", m.handler.Statuses)
	group.GET("/:id", m.handler.Get)
	group.GET("/:id/qr", m.handler.QRCode)

	ctx.Public.GET("/record/:token", m.handler.ResolveRecordingLink)

	register := ctx.Public.Group("/organizations/:orgId")
	if m.registerLimit != nil {
		register.Use(httpkit.RateLimit(m.registerLimit, "self_register", m.log))
	}
	register.POST("/register", m.handler.SelfRegister)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
