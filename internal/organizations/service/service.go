// Package service implements organization settings, branding and the
// lookups other modules make about a tenant.
package service

import (
	"context"
	"strings"

	"testimonials_backend/internal/adapters/storage"
	"testimonials_backend/internal/organizations/repository"
	"testimonials_backend/internal/organizations/transport"
	"testimonials_backend/platform/apperr"
	"testimonials_backend/platform/logger"
	"testimonials_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	msgStorageDisabled = "file storage is not configured"
	maxNameLength      = 120
)

// Profile is the public branding of an organization.
type Profile struct {
	ID      uuid.UUID
	Name    string
	LogoURL *string
}

// Service provides business logic for organizations.
type Service struct {
	repo       repository.Repository
	storage    storage.StorageService
	logoBucket string
	log        *logger.Logger
}

// New creates a new organizations service. storageSvc may be nil when object
// storage is disabled.
func New(repo repository.Repository, storageSvc storage.StorageService, logoBucket string, log *logger.Logger) *Service {
	return &Service{repo: repo, storage: storageSvc, logoBucket: logoBucket, log: log}
}

// GetSettings returns the organization's settings.
func (s *Service) GetSettings(ctx context.Context, tenantID uuid.UUID) (transport.SettingsResponse, error) {
	org, err := s.repo.GetByID(ctx, tenantID)
	if err != nil {
		return transport.SettingsResponse{}, err
	}
	return s.toSettingsResponse(ctx, org), nil
}

// UpdateSettings applies a settings patch.
func (s *Service) UpdateSettings(ctx context.Context, tenantID uuid.UUID, req transport.UpdateSettingsRequest) (transport.SettingsResponse, error) {
	params := repository.UpdateSettingsParams{
		WidgetEnabled:       req.WidgetEnabled,
		WeeklyDigestEnabled: req.WeeklyDigestEnabled,
	}
	if req.Name != nil {
		name := sanitize.Truncate(sanitize.Text(*req.Name), maxNameLength)
		if name == "" {
			return transport.SettingsResponse{}, apperr.Validation("name must not be empty")
		}
		params.Name = &name
	}

	org, err := s.repo.UpdateSettings(ctx, tenantID, params)
	if err != nil {
		return transport.SettingsResponse{}, err
	}
	return s.toSettingsResponse(ctx, org), nil
}

// PresignLogoUpload returns a presigned URL for uploading a new logo.
func (s *Service) PresignLogoUpload(ctx context.Context, tenantID uuid.UUID, req transport.LogoUploadRequest) (transport.LogoUploadResponse, error) {
	if s.storage == nil {
		return transport.LogoUploadResponse{}, apperr.Internal(msgStorageDisabled)
	}

	presigned, err := s.storage.GenerateUploadURL(ctx, storage.KindLogo, s.logoBucket, logoFolder(tenantID), req.ContentType, req.SizeBytes)
	if err != nil {
		return transport.LogoUploadResponse{}, err
	}

	return transport.LogoUploadResponse{
		UploadURL: presigned.URL,
		FileKey:   presigned.FileKey,
		ExpiresAt: presigned.ExpiresAt.Unix(),
	}, nil
}

// SetLogo stores the logo after the client uploaded it. The previous logo
// object is removed.
func (s *Service) SetLogo(ctx context.Context, tenantID uuid.UUID, req transport.SetLogoRequest) (transport.SettingsResponse, error) {
	if s.storage == nil {
		return transport.SettingsResponse{}, apperr.Internal(msgStorageDisabled)
	}
	if !strings.HasPrefix(req.FileKey, logoFolder(tenantID)+"/") {
		return transport.SettingsResponse{}, apperr.Forbidden("logo does not belong to this organization")
	}

	info, err := s.storage.StatObject(ctx, s.logoBucket, req.FileKey)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return transport.SettingsResponse{}, apperr.Validation("logo has not been uploaded")
		}
		return transport.SettingsResponse{}, err
	}
	if err := storage.ValidateUpload(storage.KindLogo, info.ContentType, info.Size, 0); err != nil {
		_ = s.storage.DeleteObject(ctx, s.logoBucket, req.FileKey)
		return transport.SettingsResponse{}, err
	}

	current, err := s.repo.GetByID(ctx, tenantID)
	if err != nil {
		return transport.SettingsResponse{}, err
	}

	key := req.FileKey
	org, err := s.repo.SetLogoKey(ctx, tenantID, &key)
	if err != nil {
		return transport.SettingsResponse{}, err
	}

	if current.LogoKey != nil && *current.LogoKey != key {
		s.deleteLogoObject(ctx, tenantID, *current.LogoKey)
	}
	return s.toSettingsResponse(ctx, org), nil
}

// DeleteLogo removes the logo.
func (s *Service) DeleteLogo(ctx context.Context, tenantID uuid.UUID) (transport.SettingsResponse, error) {
	current, err := s.repo.GetByID(ctx, tenantID)
	if err != nil {
		return transport.SettingsResponse{}, err
	}

	org, err := s.repo.SetLogoKey(ctx, tenantID, nil)
	if err != nil {
		return transport.SettingsResponse{}, err
	}
	if current.LogoKey != nil {
		s.deleteLogoObject(ctx, tenantID, *current.LogoKey)
	}
	return s.toSettingsResponse(ctx, org), nil
}

// PublicProfile returns the branding shown on recording pages.
func (s *Service) PublicProfile(ctx context.Context, organizationID uuid.UUID) (Profile, error) {
	org, err := s.repo.GetByID(ctx, organizationID)
	if err != nil {
		return Profile{}, err
	}
	return Profile{ID: org.ID, Name: org.Name, LogoURL: s.logoURL(ctx, org)}, nil
}

// WidgetEnabled reports whether the organization publishes its widget.
func (s *Service) WidgetEnabled(ctx context.Context, organizationID uuid.UUID) (bool, error) {
	org, err := s.repo.GetByID(ctx, organizationID)
	if err != nil {
		return false, err
	}
	return org.WidgetEnabled, nil
}

// Get returns the organization record.
func (s *Service) Get(ctx context.Context, organizationID uuid.UUID) (repository.Organization, error) {
	return s.repo.GetByID(ctx, organizationID)
}

// Owner returns the organization's owner.
func (s *Service) Owner(ctx context.Context, organizationID uuid.UUID) (repository.Owner, error) {
	return s.repo.GetOwner(ctx, organizationID)
}

// DigestRecipients lists organizations that receive the weekly digest.
func (s *Service) DigestRecipients(ctx context.Context) ([]repository.DigestRecipient, error) {
	return s.repo.ListDigestRecipients(ctx)
}

func (s *Service) deleteLogoObject(ctx context.Context, tenantID uuid.UUID, key string) {
	if s.storage == nil {
		return
	}
	if err := s.storage.DeleteObject(ctx, s.logoBucket, key); err != nil {
		s.log.WithTenant(tenantID.String()).Warn("failed to delete previous logo", "key", key, "error", err)
	}
}

func (s *Service) logoURL(ctx context.Context, org repository.Organization) *string {
	if s.storage == nil || org.LogoKey == nil || *org.LogoKey == "" {
		return nil
	}
	presigned, err := s.storage.GenerateDownloadURL(ctx, s.logoBucket, *org.LogoKey)
	if err != nil {
		s.log.WithTenant(org.ID.String()).Warn("failed to presign logo", "error", err)
		return nil
	}
	return &presigned.URL
}

func (s *Service) toSettingsResponse(ctx context.Context, org repository.Organization) transport.SettingsResponse {
	return transport.SettingsResponse{
		ID:                  org.ID,
		Name:                org.Name,
		LogoURL:             s.logoURL(ctx, org),
		WidgetEnabled:       org.WidgetEnabled,
		WeeklyDigestEnabled: org.WeeklyDigestEnabled,
		Plan:                org.Plan,
		VideosLimit:         org.VideosLimit,
		UpdatedAt:           org.UpdatedAt,
	}
}

func logoFolder(organizationID uuid.UUID) string {
	return "logos/" + organizationID.String()
}
