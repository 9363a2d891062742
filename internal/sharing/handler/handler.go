package handler

import (
	"errors"
	"net/http"

	"testimonials_backend/internal/contacts/domain"
	"testimonials_backend/internal/sharing/service"
	"testimonials_backend/internal/sharing/transport"
	"testimonials_backend/platform/apperr"
	"testimonials_backend/platform/httpkit"
	"testimonials_backend/platform/validator"

	"github.com/gin-gonic/gin"
	playground "github.com/go-playground/validator/v10"
)

// Handler handles HTTP requests for share confirmations.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgShareRetry       = "we could not record your share, please try again"
)

// New creates a new sharing handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterValidations adds the share_platform tag used by ShareRequest.
func RegisterValidations(val *validator.Validator) error {
	return val.RegisterValidation("share_platform", func(fl playground.FieldLevel) bool {
		_, err := domain.ParsePlatform(fl.Field().String())
		return err == nil
	})
}

// Share records that the contact shared their testimonial on a platform.
// POST /api/v1/public/record/:token/share
func (h *Handler) Share(c *gin.Context) {
	var req transport.ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.RecordShareByToken(c.Request.Context(), c.Param("token"), req.Platform, service.ShareContext{
		Locale:      req.Locale,
		DisplayName: req.DisplayName,
	})
	resp := transport.ShareResponse{
		Success:        result.Success,
		PreviousStatus: viewOf(result.PreviousStatus),
		Status:         viewOf(result.Status),
		Caption:        result.Caption,
	}
	if err != nil {
		_ = c.Error(err)
		resp.Error = msgShareRetry
		c.JSON(statusOf(err), resp)
		return
	}
	httpkit.OK(c, resp)
}

// PreviewCaption returns the caption a LinkedIn share would publish.
// GET /api/v1/public/record/:token/caption
func (h *Handler) PreviewCaption(c *gin.Context) {
	var req transport.CaptionPreviewRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	text, err := h.svc.PreviewCaption(c.Request.Context(), c.Param("token"), req.Locale)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.CaptionPreviewResponse{Caption: text, Locale: req.Locale})
}

func viewOf(s domain.Status) *domain.StatusView {
	if !s.Valid() {
		return nil
	}
	view := domain.ViewOf(s)
	return &view
}

func statusOf(err error) int {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}
