// Package httpkit holds the gin middleware, identity helpers and response
// helpers shared by every module.
package httpkit

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"testimonials_backend/platform/config"
	"testimonials_backend/platform/logger"
	"testimonials_backend/platform/metrics"
	"testimonials_backend/platform/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ContextUserIDKey is the gin context key for the authenticated user ID.
	ContextUserIDKey = "userID"
	// ContextRolesKey is the gin context key for the user's roles.
	ContextRolesKey = "roles"
	// ContextTenantIDKey is the gin context key for the tenant (organization) ID.
	ContextTenantIDKey = "tenantID"

	errMissingToken = "missing token"
	errInvalidToken = "invalid token"
)

// RequestLogger logs HTTP requests with timing.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		clientIP := c.ClientIP()

		log.HTTPRequest(c.Request.Method, path, status, float64(latency.Milliseconds()), clientIP)
	}
}

// SecurityHeaders adds security headers to responses.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		// Only add HSTS in production
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// RateLimit returns a middleware that limits requests per client IP through
// a shared Redis counter. Redis failures let the request through.
func RateLimit(limiter *ratelimit.Limiter, scope string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		decision, err := limiter.Allow(c.Request.Context(), scope+":"+ip)
		if err != nil {
			if log != nil {
				log.Warn("rate limiter unavailable", "scope", scope, "error", err)
			}
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(limiter.Limit(), 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))

		if !decision.Allowed {
			if log != nil {
				log.RateLimitExceeded(ip, c.Request.URL.Path)
			}
			metrics.RateLimitedTotal.WithLabelValues(scope).Inc()
			c.Header("Retry-After", strconv.Itoa(int(decision.ResetIn.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}

// RequestContext copies identity values into the request context so loggers
// created from it carry them.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if requestID := c.GetHeader("X-Request-ID"); requestID != "" {
			ctx = context.WithValue(ctx, logger.RequestIDKey, requestID)
		}
		if userID, ok := c.Get(ContextUserIDKey); ok {
			if uid, ok := userID.(uuid.UUID); ok {
				ctx = context.WithValue(ctx, logger.UserIDKey, uid.String())
			}
		}
		if tenantID, ok := c.Get(ContextTenantIDKey); ok {
			if tid, ok := tenantID.(uuid.UUID); ok {
				ctx = context.WithValue(ctx, logger.TenantIDKey, tid.String())
			}
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// AuthRequired validates the bearer access token and stores the user, roles
// and tenant on the gin context.
func AuthRequired(cfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawToken, ok := extractBearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, errMissingToken)
			return
		}

		claims, err := ParseAccessToken(cfg.GetJWTAccessSecret(), rawToken)
		if err != nil {
			abortUnauthorized(c, errInvalidToken)
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			abortUnauthorized(c, errInvalidToken)
			return
		}
		tenantID, err := claims.Tenant()
		if err != nil {
			abortUnauthorized(c, errInvalidToken)
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Set(ContextRolesKey, append([]string(nil), claims.Roles...))
		if tenantID != nil {
			c.Set(ContextTenantIDKey, *tenantID)
		}
		c.Next()
	}
}

func extractBearerToken(header string) (string, bool) {
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}
