// Package testimonials provides the testimonials bounded context module:
// the public recording flow, transcription and the operator library.
package testimonials

import (
	"testimonials_backend/internal/adapters/storage"
	"testimonials_backend/internal/events"
	apphttp "testimonials_backend/internal/http"
	"testimonials_backend/internal/testimonials/handler"
	"testimonials_backend/internal/testimonials/repository"
	"testimonials_backend/internal/testimonials/service"
	"testimonials_backend/internal/testimonials/transcriber"
	"testimonials_backend/platform/httpkit"
	"testimonials_backend/platform/logger"
	"testimonials_backend/platform/ratelimit"
	"testimonials_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the testimonials bounded context module implementing http.Module.
type Module struct {
	handler     *handler.Handler
	service     *service.Service
	repo        repository.Repository
	publicLimit *ratelimit.Limiter
	log         *logger.Logger
}

// Deps are the cross-module collaborators of the testimonials module.
type Deps struct {
	Contacts    service.ContactGateway
	Widgets     service.WidgetSettings
	Storage     storage.StorageService
	Transcriber transcriber.Transcriber
	EventBus    events.Bus
	Config      service.Config
	Validator   *validator.Validator
	PublicLimit *ratelimit.Limiter
	Logger      *logger.Logger
}

// NewModule creates and initializes the testimonials module with all its dependencies.
func NewModule(pool *pgxpool.Pool, deps Deps) *Module {
	repo := repository.New(pool)
	svc := service.New(service.Deps{
		Repo:        repo,
		Contacts:    deps.Contacts,
		Widgets:     deps.Widgets,
		Storage:     deps.Storage,
		Transcriber: deps.Transcriber,
		EventBus:    deps.EventBus,
		Config:      deps.Config,
		Logger:      deps.Logger,
	})

	return &Module{
		handler:     handler.New(svc, deps.Validator),
		service:     svc,
		repo:        repo,
		publicLimit: deps.PublicLimit,
		log:         deps.Logger,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "testimonials"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for adapters.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts testimonial routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/testimonials")
	group.GET("", m.handler.List)
	group.GET("/:id", m.handler.Get)
	group.PUT("/:id/quote", m.handler.UpdateQuote)

	record := ctx.Public.Group("/record/:token")
	if m.publicLimit != nil {
		record.Use(httpkit.RateLimit(m.publicLimit, "recording", m.log))
	}
	record.POST("/start", m.handler.StartRecording)
	record.POST("/upload-url", m.handler.CreateUploadURL)
	record.POST("/complete", m.handler.CompleteUpload)

	ctx.Public.GET("/widget/:orgId/testimonials", m.handler.Widget)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
