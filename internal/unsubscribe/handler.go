package unsubscribe

import (
	"net/http"

	"testimonials_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler serves the public unsubscribe endpoint.
type Handler struct {
	svc *Service
}

// NewHandler creates the handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Unsubscribe redeems a token from a reminder email.
// GET /api/v1/public/unsubscribe?token=
func (h *Handler) Unsubscribe(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		httpkit.Error(c, http.StatusBadRequest, "missing token", nil)
		return
	}

	if httpkit.HandleError(c, h.svc.Redeem(c.Request.Context(), token)) {
		return
	}
	httpkit.OK(c, gin.H{"unsubscribed": true})
}
