package handler

import (
	"testimonials_backend/internal/funnel/service"
	"testimonials_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the funnel dashboard.
type Handler struct {
	svc *service.Service
}

// New creates a new funnel handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Dashboard returns funnel counts, recent activity and weekly stats.
// GET /api/v1/dashboard/funnel
func (h *Handler) Dashboard(c *gin.Context) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.svc.Dashboard(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
