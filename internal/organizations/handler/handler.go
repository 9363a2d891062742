package handler

import (
	"net/http"

	"testimonials_backend/internal/organizations/service"
	"testimonials_backend/internal/organizations/transport"
	"testimonials_backend/platform/httpkit"
	"testimonials_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for organization settings.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new organizations handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// GetSettings returns the caller's organization settings.
// GET /api/v1/organization/settings
func (h *Handler) GetSettings(c *gin.Context) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetSettings(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdateSettings patches the organization settings.
// PATCH /api/v1/organization/settings
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req transport.UpdateSettingsRequest
	if !h.bind(c, &req) {
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.svc.UpdateSettings(c.Request.Context(), tenantID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// PresignLogoUpload returns a presigned logo upload URL.
// POST /api/v1/organization/logo/upload-url
func (h *Handler) PresignLogoUpload(c *gin.Context) {
	var req transport.LogoUploadRequest
	if !h.bind(c, &req) {
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.svc.PresignLogoUpload(c.Request.Context(), tenantID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SetLogo confirms an uploaded logo.
// PUT /api/v1/organization/logo
func (h *Handler) SetLogo(c *gin.Context) {
	var req transport.SetLogoRequest
	if !h.bind(c, &req) {
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.svc.SetLogo(c.Request.Context(), tenantID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeleteLogo removes the logo.
// DELETE /api/v1/organization/logo
func (h *Handler) DeleteLogo(c *gin.Context) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.svc.DeleteLogo(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}
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
