package handler

import (
	"net/http"

	"testimonials_backend/internal/auth/service"
	"testimonials_backend/internal/auth/transport"
	"testimonials_backend/platform/config"
	"testimonials_backend/platform/httpkit"
	"testimonials_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for authentication.
type Handler struct {
	svc *service.Service
	val *validator.Validator
	cfg config.CookieConfig
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgMissingRefresh   = "missing refresh token"
)

// New creates a new auth handler.
func New(svc *service.Service, val *validator.Validator, cfg config.CookieConfig) *Handler {
	return &Handler{svc: svc, val: val, cfg: cfg}
}

// RegisterRoutes mounts the public auth endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
	rg.POST("/refresh", h.Refresh)
	rg.POST("/logout", h.Logout)
}

// Register creates an organization and its owner.
// POST /api/v1/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req transport.RegisterRequest
	if !h.bind(c, &req) {
		return
	}

	tokens, err := h.svc.Register(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	httpkit.JSON(c, http.StatusCreated, toAuthResponse(tokens))
}

// Login authenticates an operator.
// POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if !h.bind(c, &req) {
		return
	}

	tokens, err := h.svc.Login(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	httpkit.OK(c, toAuthResponse(tokens))
}

// Refresh rotates the refresh cookie and returns a new access token.
// POST /api/v1/auth/refresh
func (h *Handler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(h.cfg.GetRefreshCookieName())
	if err != nil || refreshToken == "" {
		httpkit.Error(c, http.StatusUnauthorized, msgMissingRefresh, nil)
		return
	}

	tokens, err := h.svc.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		h.clearRefreshCookie(c)
		httpkit.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	httpkit.OK(c, toAuthResponse(tokens))
}

// Logout revokes the refresh token and clears the cookie.
// POST /api/v1/auth/logout
func (h *Handler) Logout(c *gin.Context) {
	if refreshToken, err := c.Cookie(h.cfg.GetRefreshCookieName()); err == nil && refreshToken != "" {
		if httpkit.HandleError(c, h.svc.Logout(c.Request.Context(), refreshToken)) {
			return
		}
	}

	h.clearRefreshCookie(c)
	httpkit.OK(c, gin.H{"message": "signed out"})
}

// GetMe returns the signed-in operator.
// GET /api/v1/users/me
func (h *Handler) GetMe(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	profile, err := h.svc.GetMe(c.Request.Context(), id.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, profile)
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

func toAuthResponse(tokens service.Tokens) transport.AuthResponse {
	return transport.AuthResponse{AccessToken: tokens.AccessToken, ExpiresAt: tokens.AccessExpiresAt}
}

func (h *Handler) setRefreshCookie(c *gin.Context, value string) {
	c.SetSameSite(h.cfg.GetRefreshCookieSameSite())
	c.SetCookie(
		h.cfg.GetRefreshCookieName(),
		value,
		int(h.cfg.GetRefreshTokenTTL().Seconds()),
		h.cfg.GetRefreshCookiePath(),
		h.cfg.GetRefreshCookieDomain(),
		h.cfg.GetRefreshCookieSecure(),
		true,
	)
}

func (h *Handler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(h.cfg.GetRefreshCookieSameSite())
	c.SetCookie(
		h.cfg.GetRefreshCookieName(),
		"",
		-1,
		h.cfg.GetRefreshCookiePath(),
		h.cfg.GetRefreshCookieDomain(),
		h.cfg.GetRefreshCookieSecure(),
		true,
	)
}
