package transport

import (
	"time"

	"github.com/google/uuid"
)

// SettingsResponse is an organization's settings.
type SettingsResponse struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	LogoURL             *string   `json:"logoUrl,omitempty"`
	WidgetEnabled       bool      `json:"widgetEnabled"`
	WeeklyDigestEnabled bool      `json:"weeklyDigestEnabled"`
	Plan                string    `json:"plan"`
	VideosLimit         int       `json:"videosLimit"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// UpdateSettingsRequest patches the settings. Omitted fields are kept.
type UpdateSettingsRequest struct {
	Name                *string `json:"name" validate:"omitempty,min=1,max=120"`
	WidgetEnabled       *bool   `json:"widgetEnabled"`
	WeeklyDigestEnabled *bool   `json:"weeklyDigestEnabled"`
}

// LogoUploadRequest asks for a presigned logo upload.
type LogoUploadRequest struct {
	ContentType string `json:"contentType" validate:"required,max=100"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,gt=0"`
}

// LogoUploadResponse carries the presigned upload URL.
type LogoUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileKey   string `json:"fileKey"`
	ExpiresAt int64  `json:"expiresAt"`
}

// SetLogoRequest confirms an uploaded logo.
type SetLogoRequest struct {
	FileKey string `json:"fileKey" validate:"required,max=500"`
}
