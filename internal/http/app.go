// Package http holds the pieces the router is assembled from: the module
// contract and the application dependencies built by the composition root.
package http

import (
	"context"

	"testimonials_backend/internal/events"
	"testimonials_backend/platform/config"
	"testimonials_backend/platform/logger"
	"testimonials_backend/platform/ratelimit"
)

// RouterConfig is the slice of configuration the router itself reads.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker backs the /api/ready check.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App is everything router.New needs. AuthLimiter may be nil.
type App struct {
	Config      RouterConfig
	Logger      *logger.Logger
	Health      HealthChecker
	EventBus    events.Bus
	AuthLimiter *ratelimit.Limiter
	Modules     []Module
}
