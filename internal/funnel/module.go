// Package funnel provides the funnel dashboard module.
package funnel

import (
	"testimonials_backend/internal/funnel/handler"
	"testimonials_backend/internal/funnel/service"
	apphttp "testimonials_backend/internal/http"
)

// Module is the funnel module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the funnel module over the contacts and testimonials stores.
func NewModule(contacts service.ContactLister, testimonials service.TestimonialLister) *Module {
	svc := service.New(contacts, testimonials)
	return &Module{handler: handler.New(svc), service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "funnel"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts funnel routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/dashboard/funnel", m.handler.Dashboard)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
