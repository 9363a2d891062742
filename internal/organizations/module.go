// Package organizations provides the organization settings module.
package organizations

import (
	"testimonials_backend/internal/adapters/storage"
	apphttp "testimonials_backend/internal/http"
	"testimonials_backend/internal/organizations/handler"
	"testimonials_backend/internal/organizations/repository"
	"testimonials_backend/internal/organizations/service"
	"testimonials_backend/platform/logger"
	"testimonials_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the organizations module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the organizations module. storageSvc may be nil.
func NewModule(pool *pgxpool.Pool, storageSvc storage.StorageService, logoBucket string, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, storageSvc, logoBucket, log)
	return &Module{handler: handler.New(svc, val), service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "organizations"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts organization routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/organization")
	group.GET("/settings", m.handler.GetSettings)
	group.PATCH("/settings", m.handler.UpdateSettings)
	group.POST("/logo/upload-url", m.handler.PresignLogoUpload)
	group.PUT("/logo", m.handler.SetLogo)
	group.DELETE("/logo", m.handler.DeleteLogo)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
