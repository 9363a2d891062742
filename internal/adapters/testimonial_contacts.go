package adapters

import (
	"context"

	contactsdomain "testimonials_backend/internal/contacts/domain"
	contactsrepo "testimonials_backend/internal/contacts/repository"
	testimonialsvc "testimonials_backend/internal/testimonials/service"
	"testimonials_backend/platform/metrics"

	"github.com/google/uuid"
)

// TestimonialContactGateway lets the recording flow resolve tokens and move
// contacts forward without importing the contacts service.
// It implements testimonials/service.ContactGateway.
type TestimonialContactGateway struct {
	contacts ContactStatusStore
}

// ContactStatusStore is the narrow slice of the contacts repository the
// recording flow needs.
type ContactStatusStore interface {
	GetByRecordingToken(ctx context.Context, token string) (contactsdomain.Contact, error)
	AdvanceStatus(ctx context.Context, organizationID, id uuid.UUID, target contactsdomain.Status) (contactsdomain.Contact, bool, error)
}

var _ testimonialsvc.ContactGateway = (*TestimonialContactGateway)(nil)

// NewTestimonialContactGateway creates the gateway.
func NewTestimonialContactGateway(contacts ContactStatusStore) *TestimonialContactGateway {
	return &TestimonialContactGateway{contacts: contacts}
}

func (g *TestimonialContactGateway) ResolveRecording(ctx context.Context, recordingToken string) (testimonialsvc.RecordingContact, error) {
	contact, err := g.contacts.GetByRecordingToken(ctx, recordingToken)
	if err != nil {
		return testimonialsvc.RecordingContact{}, err
	}
	return testimonialsvc.RecordingContact{
		ID:             contact.ID,
		OrganizationID: contact.OrganizationID,
		FirstName:      contact.FirstName,
		CompanyName:    contact.CompanyName,
		Status:         string(contact.Status),
	}, nil
}

func (g *TestimonialContactGateway) MarkVideoStarted(ctx context.Context, organizationID, contactID uuid.UUID) (string, error) {
	return g.advance(ctx, organizationID, contactID, contactsdomain.StatusVideoStarted)
}

func (g *TestimonialContactGateway) MarkVideoCompleted(ctx context.Context, organizationID, contactID uuid.UUID) (string, error) {
	return g.advance(ctx, organizationID, contactID, contactsdomain.StatusVideoCompleted)
}

func (g *TestimonialContactGateway) advance(ctx context.Context, organizationID, contactID uuid.UUID, target contactsdomain.Status) (string, error) {
	contact, changed, err := g.contacts.AdvanceStatus(ctx, organizationID, contactID, target)
	if err != nil {
		return "", err
	}
	if changed {
		metrics.StatusTransitionsTotal.WithLabelValues(string(target)).Inc()
	}
	return string(contact.Status), nil
}

// Compile-time guard that the contacts repository satisfies the store.
var _ ContactStatusStore = (contactsrepo.Repository)(nil)
