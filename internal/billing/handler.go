package billing

import (
	"net/http"

	"testimonials_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler handles billing HTTP requests.
type Handler struct {
	svc *Service
}

// NewHandler creates a new billing handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Usage returns the plan consumption of the current month.
// GET /api/v1/billing/usage
func (h *Handler) Usage(c *gin.Context) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	resp, err := h.svc.Usage(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// PaymentWebhook processes a signed delivery from the payment provider.
// POST /api/v1/webhooks/payments
func (h *Handler) PaymentWebhook(c *gin.Context) {
	payload := c.MustGet(payloadKey).([]byte)

	outcome, err := h.svc.HandleEvent(c.Request.Context(), payload)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusOK, gin.H{"received": true, "outcome": outcome})
}
