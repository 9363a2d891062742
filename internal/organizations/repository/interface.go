package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Organization is a tenant of the platform.
type Organization struct {
	ID                  uuid.UUID
	Name                string
	LogoKey             *string
	WidgetEnabled       bool
	WeeklyDigestEnabled bool
	Plan                string
	VideosLimit         int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Owner is the user who registered an organization.
type Owner struct {
	UserID   uuid.UUID
	Email    string
	FullName string
}

// DigestRecipient is an organization that opted into the weekly digest,
// together with the owner receiving it.
type DigestRecipient struct {
	OrganizationID   uuid.UUID
	OrganizationName string
	VideosLimit      int
	Owner            Owner
}

// UpdateSettingsParams holds the settings to change. Nil fields are kept.
type UpdateSettingsParams struct {
	Name                *string
	WidgetEnabled       *bool
	WeeklyDigestEnabled *bool
}

// Repository provides organization persistence.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Organization, error)
	UpdateSettings(ctx context.Context, id uuid.UUID, params UpdateSettingsParams) (Organization, error)
	SetLogoKey(ctx context.Context, id uuid.UUID, logoKey *string) (Organization, error)
	GetOwner(ctx context.Context, id uuid.UUID) (Owner, error)
	ListDigestRecipients(ctx context.Context) ([]DigestRecipient, error)
}
