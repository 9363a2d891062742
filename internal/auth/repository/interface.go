package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is an operator account.
type User struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Email          string
	PasswordHash   string
	FullName       string
	Role           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RefreshToken is a stored refresh token.
type RefreshToken struct {
	UserID    uuid.UUID
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// RegisterParams creates an organization together with its owner.
type RegisterParams struct {
	OrganizationName string
	Email            string
	PasswordHash     string
	FullName         string
}

// Registration is the result of RegisterOwner.
type Registration struct {
	OrganizationName string
	User             User
}

// UserReader provides read operations for users.
type UserReader interface {
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (User, error)
}

// AuthRepository defines the persistence the auth service depends on.
type AuthRepository interface {
	UserReader

	RegisterOwner(ctx context.Context, params RegisterParams) (Registration, error)

	CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error
}

// Ensure Repository implements AuthRepository
var _ AuthRepository = (*Repository)(nil)
