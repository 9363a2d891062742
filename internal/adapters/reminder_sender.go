package adapters

import (
	"context"
	"fmt"

	contactsdomain "testimonials_backend/internal/contacts/domain"
	contactsvc "testimonials_backend/internal/contacts/service"
	"testimonials_backend/internal/email"
	"testimonials_backend/platform/metrics"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// UnsubscribeLinker builds signed opt-out links.
type UnsubscribeLinker interface {
	Link(tenantID, contactID uuid.UUID) (string, error)
}

// ReminderEmailSender delivers reminder emails for the contacts module.
// It implements contacts/service.ReminderSender.
type ReminderEmailSender struct {
	sender       email.Sender
	orgs         contactsvc.OrganizationReader
	links        UnsubscribeLinker
	recordingURL func(token string) string
	limiter      *rate.Limiter
}

var _ contactsvc.ReminderSender = (*ReminderEmailSender)(nil)

// NewReminderEmailSender creates the sender. perSecond caps the send rate.
func NewReminderEmailSender(sender email.Sender, orgs contactsvc.OrganizationReader, links UnsubscribeLinker, recordingURL func(string) string, perSecond float64) *ReminderEmailSender {
	return &ReminderEmailSender{
		sender:       sender,
		orgs:         orgs,
		links:        links,
		recordingURL: recordingURL,
		limiter:      rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

func (s *ReminderEmailSender) SendReminder(ctx context.Context, contact contactsdomain.Contact) error {
	org, err := s.orgs.GetPublicProfile(ctx, contact.OrganizationID)
	if err != nil {
		return fmt.Errorf("load organization: %w", err)
	}
	unsubscribeURL, err := s.links.Link(contact.OrganizationID, contact.ID)
	if err != nil {
		return err
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	err = s.sender.SendReminderEmail(ctx, contact.Email, contact.FirstName, org.Name, s.recordingURL(contact.RecordingToken), unsubscribeURL)
	metrics.EmailsSentTotal.WithLabelValues("reminder", metrics.Outcome(err)).Inc()
	return err
}
