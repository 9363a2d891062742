package billing

import (
	"time"

	apphttp "testimonials_backend/internal/http"
	"testimonials_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the billing module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
	secret  string
	log     *logger.Logger
}

// NewModule creates the billing module.
func NewModule(pool *pgxpool.Pool, orgs OrganizationReader, usage UsageCounter, webhookSecret string, log *logger.Logger) *Module {
	svc := NewService(NewRepository(pool), orgs, usage, log)
	return &Module{handler: NewHandler(svc), service: svc, secret: webhookSecret, log: log}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "billing"
}

// Service returns the service used by the cleanup job.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes mounts the usage endpoint and the payment webhook.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/billing/usage", m.handler.Usage)
	ctx.V1.POST("/webhooks/payments", SignatureMiddleware(m.secret, time.Now, m.log), m.handler.PaymentWebhook)
}

var _ apphttp.Module = (*Module)(nil)
