// Package service implements organization sign-up, login and token rotation.
package service

import (
	"context"
	"time"

	"testimonials_backend/internal/auth/password"
	"testimonials_backend/internal/auth/repository"
	"testimonials_backend/internal/auth/transport"
	"testimonials_backend/internal/events"
	"testimonials_backend/platform/apperr"
	"testimonials_backend/platform/config"
	"testimonials_backend/platform/httpkit"
	"testimonials_backend/platform/logger"
	"testimonials_backend/platform/sanitize"
	"testimonials_backend/platform/token"

	"github.com/google/uuid"
)

const (
	refreshTokenBytes = 48

	msgInvalidCredentials = "invalid credentials"
	msgTokenInvalid       = "token invalid"
	msgTokenExpired       = "token expired"
)

// Tokens is an issued access/refresh token pair.
type Tokens struct {
	AccessToken     string
	AccessExpiresAt time.Time
	RefreshToken    string
}

// Service implements registration and token issuance.
type Service struct {
	repo     repository.AuthRepository
	cfg      config.AuthServiceConfig
	eventBus events.Bus
	log      *logger.Logger
	now      func() time.Time
}

// New creates a new auth service.
func New(repo repository.AuthRepository, cfg config.AuthServiceConfig, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, eventBus: eventBus, log: log, now: time.Now}
}

// Register creates an organization with its owner and signs the owner in.
func (s *Service) Register(ctx context.Context, req transport.RegisterRequest) (Tokens, error) {
	orgName := sanitize.Truncate(sanitize.Text(req.OrganizationName), 120)
	fullName := sanitize.Truncate(sanitize.Text(req.FullName), 120)
	if orgName == "" || fullName == "" {
		return Tokens{}, apperr.Validation("organization name and full name are required")
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return Tokens{}, err
	}

	reg, err := s.repo.RegisterOwner(ctx, repository.RegisterParams{
		OrganizationName: orgName,
		Email:            req.Email,
		PasswordHash:     hash,
		FullName:         fullName,
	})
	if err != nil {
		return Tokens{}, err
	}

	s.eventBus.Publish(ctx, events.OrganizationRegistered{
		BaseEvent:        events.NewBaseEvent(),
		OrganizationID:   reg.User.OrganizationID,
		OrganizationName: reg.OrganizationName,
		UserID:           reg.User.ID,
		Email:            reg.User.Email,
		FullName:         reg.User.FullName,
	})
	s.log.WithTenant(reg.User.OrganizationID.String()).Info("organization registered", "userId", reg.User.ID)

	return s.issueTokens(ctx, reg.User)
}

// Login verifies credentials and issues tokens.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (Tokens, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return Tokens{}, apperr.Unauthorized(msgInvalidCredentials)
		}
		return Tokens{}, err
	}

	if err := password.Compare(user.PasswordHash, req.Password); err != nil {
		return Tokens{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	return s.issueTokens(ctx, user)
}

// Refresh rotates a refresh token. Presenting a revoked token revokes every
// token of the user.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	hash := token.Hash(refreshToken)
	stored, err := s.repo.GetRefreshToken(ctx, hash)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return Tokens{}, apperr.Unauthorized(msgTokenInvalid)
		}
		return Tokens{}, err
	}

	if stored.RevokedAt != nil {
		if err := s.repo.RevokeAllRefreshTokens(ctx, stored.UserID); err != nil {
			s.log.Error("failed to revoke tokens after reuse", "userId", stored.UserID, "error", err)
		}
		s.log.Warn("refresh token reuse detected", "userId", stored.UserID)
		return Tokens{}, apperr.Unauthorized(msgTokenInvalid)
	}
	if s.now().After(stored.ExpiresAt) {
		_ = s.repo.RevokeRefreshToken(ctx, hash)
		return Tokens{}, apperr.Unauthorized(msgTokenExpired)
	}

	if err := s.repo.RevokeRefreshToken(ctx, hash); err != nil {
		return Tokens{}, err
	}

	user, err := s.repo.GetUserByID(ctx, stored.UserID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return Tokens{}, apperr.Unauthorized(msgTokenInvalid)
		}
		return Tokens{}, err
	}
	return s.issueTokens(ctx, user)
}

// Logout revokes the refresh token.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.repo.RevokeRefreshToken(ctx, token.Hash(refreshToken))
}

// GetMe returns the signed-in user's profile.
func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (transport.ProfileResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return transport.ProfileResponse{}, err
	}
	return transport.ProfileResponse{
		ID:             user.ID,
		OrganizationID: user.OrganizationID,
		Email:          user.Email,
		FullName:       user.FullName,
		Role:           user.Role,
		CreatedAt:      user.CreatedAt,
	}, nil
}

func (s *Service) issueTokens(ctx context.Context, user repository.User) (Tokens, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.GetAccessTokenTTL())

	accessToken, err := s.signAccessToken(user, now, expiresAt)
	if err != nil {
		return Tokens{}, err
	}

	refreshToken, err := token.New(refreshTokenBytes)
	if err != nil {
		return Tokens{}, err
	}
	if err := s.repo.CreateRefreshToken(ctx, user.ID, token.Hash(refreshToken), now.Add(s.cfg.GetRefreshTokenTTL())); err != nil {
		return Tokens{}, err
	}

	return Tokens{AccessToken: accessToken, AccessExpiresAt: expiresAt, RefreshToken: refreshToken}, nil
}

func (s *Service) signAccessToken(user repository.User, now, expiresAt time.Time) (string, error) {
	return httpkit.SignAccessToken(s.cfg.GetJWTAccessSecret(), user.ID, user.OrganizationID, []string{user.Role}, now, expiresAt)
}
