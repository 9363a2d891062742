package billing

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"testimonials_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

const (
	payloadKey     = "paymentPayload"
	maxPayloadSize = 1 << 20
)

// SignatureMiddleware verifies X-Payment-Signature and stores the raw body
// on the gin context for the handler.
func SignatureMiddleware(secret string, now func() time.Time, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "payment webhook not configured"})
			return
		}

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPayloadSize+1))
		if err != nil || len(body) > maxPayloadSize {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unreadable payload"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if err := VerifySignature(secret, c.GetHeader(SignatureHeader), body, now()); err != nil {
			log.WithContext(c.Request.Context()).Warn("payment webhook rejected", "error", err, "clientIp", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}

		c.Set(payloadKey, body)
		c.Next()
	}
}
