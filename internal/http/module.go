package http

import (
	"testimonials_backend/platform/config"

	"github.com/gin-gonic/gin"
)

// Module is a bounded context that mounts its own routes. The router only
// knows this interface, never the endpoints behind it.
type Module interface {
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext is handed to every module during route registration.
//
// Route groups:
//   - V1: /api/v1, no middleware beyond the global stack (webhooks, auth).
//   - Public: /api/v1/public, reached from recording links, the embed widget
//     and unsubscribe links. Modules add their own rate limits here.
//   - Protected: /api/v1 behind AuthMiddleware; handlers read the tenant with
//     httpkit.MustGetTenantID.
type RouterContext struct {
	Engine    *gin.Engine
	V1        *gin.RouterGroup
	Public    *gin.RouterGroup
	Protected *gin.RouterGroup

	Config         config.JWTConfig
	AuthMiddleware gin.HandlerFunc
	// AuthRateLimit is nil when Redis is not configured.
	AuthRateLimit gin.HandlerFunc
}
