// Package handler provides HTTP handlers for the weekly digest.
package handler

import (
	"testimonials_backend/internal/digest/service"
	"testimonials_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler handles digest HTTP requests.
type Handler struct {
	svc *service.Service
}

// New creates a new digest handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Preview returns what this week's digest would contain.
// GET /api/v1/dashboard/digest
func (h *Handler) Preview(c *gin.Context) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	resp, err := h.svc.Preview(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}
