package transport

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest signs up a new organization and its owner.
type RegisterRequest struct {
	OrganizationName string `json:"organizationName" validate:"required,min=1,max=120"`
	FullName         string `json:"fullName" validate:"required,min=1,max=120"`
	Email            string `json:"email" validate:"required,email,max=254"`
	Password         string `json:"password" validate:"required,strongpassword,max=72"`
}

// LoginRequest authenticates an operator.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries a fresh access token. The refresh token travels in
// an HTTP-only cookie.
type AuthResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// ProfileResponse is the signed-in operator.
type ProfileResponse struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organizationId"`
	Email          string    `json:"email"`
	FullName       string    `json:"fullName"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"createdAt"`
}
