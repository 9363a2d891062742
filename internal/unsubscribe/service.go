package unsubscribe

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"testimonials_backend/platform/apperr"

	"github.com/google/uuid"
)

// ContactUnsubscriber opts a contact out of emails.
type ContactUnsubscriber interface {
	Unsubscribe(ctx context.Context, tenantID, contactID uuid.UUID) error
}

// Service redeems unsubscribe tokens and builds unsubscribe links.
type Service struct {
	signer   *Signer
	contacts ContactUnsubscriber
	baseURL  string
}

// NewService creates the unsubscribe service.
func NewService(signer *Signer, contacts ContactUnsubscriber, baseURL string) *Service {
	return &Service{signer: signer, contacts: contacts, baseURL: strings.TrimRight(baseURL, "/")}
}

// Link returns the unsubscribe URL embedded in emails to the contact.
func (s *Service) Link(tenantID, contactID uuid.UUID) (string, error) {
	tok, err := s.signer.Sign(Target{TenantID: tenantID, ContactID: contactID})
	if err != nil {
		return "", err
	}
	return s.baseURL + "/unsubscribe?token=" + url.QueryEscape(tok), nil
}

// Redeem verifies the token and unsubscribes the contact. Redeeming the same
// token again succeeds without changes.
func (s *Service) Redeem(ctx context.Context, rawToken string) error {
	target, err := s.signer.Verify(rawToken)
	if err != nil {
		if errors.Is(err, ErrExpiredToken) {
			return apperr.Gone("this unsubscribe link has expired")
		}
		return apperr.BadRequest("invalid unsubscribe link")
	}
	return s.contacts.Unsubscribe(ctx, target.TenantID, target.ContactID)
}
