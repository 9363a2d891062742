package httpkit

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenType marks access tokens apart from any other token signed with
// the same secret.
const AccessTokenType = "access"

var errWrongTokenType = errors.New("not an access token")

// AccessClaims is the payload of the short-lived bearer token the dashboard
// sends on every protected request.
type AccessClaims struct {
	Type     string   `json:"type"`
	TenantID string   `json:"tenant_id,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// SignAccessToken issues an HS256 access token for userID acting on tenantID.
func SignAccessToken(secret string, userID, tenantID uuid.UUID, roles []string, now, expiresAt time.Time) (string, error) {
	claims := AccessClaims{
		Type:     AccessTokenType,
		TenantID: tenantID.String(),
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseAccessToken verifies raw and returns its claims. Tokens without an
// expiry or of another type are rejected.
func ParseAccessToken(secret, raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims.Type != AccessTokenType {
		return nil, errWrongTokenType
	}
	return claims, nil
}

// UserID parses the subject.
func (c *AccessClaims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("subject: %w", err)
	}
	return id, nil
}

// Tenant returns the organization the token acts on, nil when absent.
func (c *AccessClaims) Tenant() (*uuid.UUID, error) {
	if c.TenantID == "" {
		return nil, nil
	}
	id, err := uuid.Parse(c.TenantID)
	if err != nil {
		return nil, fmt.Errorf("tenant_id: %w", err)
	}
	return &id, nil
}
