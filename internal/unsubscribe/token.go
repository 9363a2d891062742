// Package unsubscribe issues and redeems signed opt-out links for reminder
// emails.
package unsubscribe

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// Purpose is the purpose claim of unsubscribe tokens.
	Purpose = "unsubscribe"
	// TokenTTL is how long an unsubscribe link stays valid.
	TokenTTL = 90 * 24 * time.Hour
)

var (
	// ErrInvalidToken covers bad signatures, malformed claims and wrong purposes.
	ErrInvalidToken = errors.New("invalid unsubscribe token")
	// ErrExpiredToken is returned for tokens past their expiry.
	ErrExpiredToken = errors.New("unsubscribe token expired")
)

type claims struct {
	Purpose  string `json:"purpose"`
	TenantID string `json:"tenant_id"`
	jwt.RegisteredClaims
}

// Target identifies the contact an unsubscribe token belongs to.
type Target struct {
	TenantID  uuid.UUID
	ContactID uuid.UUID
}

// Signer signs and verifies unsubscribe tokens with HS256.
type Signer struct {
	secret []byte
	now    func() time.Time
}

// NewSigner creates a signer with the given secret.
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret), now: time.Now}
}

// Sign returns a token for the contact.
func (s *Signer) Sign(target Target) (string, error) {
	now := s.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Purpose:  Purpose,
		TenantID: target.TenantID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   target.ContactID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign unsubscribe token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, purpose and expiry and returns the target.
func (s *Signer) Verify(raw string) (Target, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Target{}, ErrExpiredToken
		}
		return Target{}, ErrInvalidToken
	}
	if c.Purpose != Purpose {
		return Target{}, ErrInvalidToken
	}

	tenantID, err := uuid.Parse(c.TenantID)
	if err != nil {
		return Target{}, ErrInvalidToken
	}
	contactID, err := uuid.Parse(c.Subject)
	if err != nil {
		return Target{}, ErrInvalidToken
	}
	return Target{TenantID: tenantID, ContactID: contactID}, nil
}
