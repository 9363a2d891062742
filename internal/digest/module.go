// Package digest provides the weekly digest module.
package digest

import (
	"testimonials_backend/internal/digest/handler"
	"testimonials_backend/internal/digest/service"
	"testimonials_backend/internal/email"
	apphttp "testimonials_backend/internal/http"
	"testimonials_backend/platform/logger"
)

// Module is the digest module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the digest module.
func NewModule(orgs service.OrganizationReader, stats service.StatsLoader, usage service.UsageCounter, sender email.Sender, baseURL string, log *logger.Logger) *Module {
	svc := service.New(orgs, stats, usage, sender, baseURL, log)
	return &Module{handler: handler.New(svc), service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "digest"
}

// Service returns the service used by the scheduler.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts digest routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/dashboard/digest", m.handler.Preview)
}

var _ apphttp.Module = (*Module)(nil)
