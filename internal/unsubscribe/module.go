package unsubscribe

import (
	apphttp "testimonials_backend/internal/http"
)

// Module is the unsubscribe module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates the module. secret signs the tokens; baseURL is the
// frontend origin of the unsubscribe page.
func NewModule(secret, baseURL string, contacts ContactUnsubscriber) *Module {
	svc := NewService(NewSigner(secret), contacts, baseURL)
	return &Module{handler: NewHandler(svc), service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "unsubscribe"
}

// Service returns the service used to build links.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes mounts the public unsubscribe route.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.GET("/unsubscribe", m.handler.Unsubscribe)
}

var _ apphttp.Module = (*Module)(nil)
