package handler

import (
	"net/http"

	"testimonials_backend/internal/testimonials/service"
	"testimonials_backend/internal/testimonials/transport"
	"testimonials_backend/platform/httpkit"
	"testimonials_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for testimonials.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid testimonial ID"
)

// New creates a new testimonials handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// StartRecording marks that the contact started recording.
// POST /api/v1/public/record/:token/start
func (h *Handler) StartRecording(c *gin.Context) {
	result, err := h.svc.StartRecording(c.Request.Context(), c.Param("token"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CreateUploadURL returns a presigned upload URL for the recording.
// POST /api/v1/public/record/:token/upload-url
func (h *Handler) CreateUploadURL(c *gin.Context) {
	var req transport.UploadURLRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.CreateUploadURL(c.Request.Context(), c.Param("token"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CompleteUpload confirms the upload and schedules transcription.
// POST /api/v1/public/record/:token/complete
func (h *Handler) CompleteUpload(c *gin.Context) {
	var req transport.CompleteUploadRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.CompleteUpload(c.Request.Context(), c.Param("token"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// List returns the organization's testimonials.
// GET /api/v1/testimonials
func (h *Handler) List(c *gin.Context) {
	var req transport.ListTestimonialsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.svc.List(c.Request.Context(), tenantID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Get returns a testimonial with a playback URL.
// GET /api/v1/testimonials/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.svc.Get(c.Request.Context(), tenantID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdateQuote edits the review quote.
// PUT /api/v1/testimonials/:id/quote
func (h *Handler) UpdateQuote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req transport.UpdateQuoteRequest
	if !h.bind(c, &req) {
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.svc.UpdateQuote(c.Request.Context(), tenantID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Widget lists published testimonials for embedding.
// GET /api/v1/public/widget/:orgId/testimonials
func (h *Handler) Widget(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("orgId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid organization ID", nil)
		return
	}

	result, err := h.svc.Widget(c.Request.Context(), orgID)
	if httpkit.HandleError(c, err) {
		return
	}
	c.Header("Cache-Control", "public, max-age=300")
	httpkit.OK(c, result)
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return false
	}
	return true
}
