package adapters

import (
	"context"
	"errors"
	"testing"

	contactsdomain "testimonials_backend/internal/contacts/domain"
	contactsvc "testimonials_backend/internal/contacts/service"
	"testimonials_backend/internal/email"
	orgsvc "testimonials_backend/internal/organizations/service"

	"github.com/google/uuid"
)

type fakeProfiles map[uuid.UUID]orgsvc.Profile

func (f fakeProfiles) PublicProfile(_ context.Context, id uuid.UUID) (orgsvc.Profile, error) {
	p, ok := f[id]
	if !ok {
		return orgsvc.Profile{}, errors.New("not found")
	}
	return p, nil
}

type fakeLinker struct{}

func (fakeLinker) Link(tenantID, contactID uuid.UUID) (string, error) {
	return "https://app.example.com/unsubscribe?token=" + contactID.String(), nil
}

type reminderCall struct {
	to, firstName, orgName, recordingURL, unsubscribeURL string
}

type capturingSender struct {
	email.NoopSender
	calls []reminderCall
}

func (c *capturingSender) SendReminderEmail(_ context.Context, toEmail, firstName, organizationName, recordingURL, unsubscribeURL string) error {
	c.calls = append(c.calls, reminderCall{toEmail, firstName, organizationName, recordingURL, unsubscribeURL})
	return nil
}

func TestOrganizationProfileAdapter(t *testing.T) {
	orgID := uuid.New()
	logo := "https://cdn.example.com/logo.png"
	a := NewOrganizationProfileAdapter(fakeProfiles{orgID: {ID: orgID, Name: "Acme", LogoURL: &logo}})

	got, err := a.GetPublicProfile(context.Background(), orgID)
	if err != nil {
		t.Fatalf("GetPublicProfile: %v", err)
	}
	if got != (contactsvc.OrganizationProfile{ID: orgID, Name: "Acme", LogoURL: &logo}) {
		t.Fatalf("unexpected profile %+v", got)
	}
	if _, err := a.GetPublicProfile(context.Background(), uuid.New()); err == nil {
		t.Fatalf("expected error for unknown organization")
	}
}

func TestReminderEmailSender(t *testing.T) {
	orgID := uuid.New()
	profiles := NewOrganizationProfileAdapter(fakeProfiles{orgID: {ID: orgID, Name: "Acme"}})
	sender := &capturingSender{}
	reminders := NewReminderEmailSender(sender, profiles, fakeLinker{}, func(token string) string {
		return "https://app.example.com/record/" + token
	}, 1000)

	contact := contactsdomain.Contact{ID: uuid.New(), OrganizationID: orgID, FirstName: "Ann", Email: "ann@example.com", RecordingToken: "tok"}
	if err := reminders.SendReminder(context.Background(), contact); err != nil {
		t.Fatalf("SendReminder: %v", err)
	}

	want := reminderCall{
		to:             "ann@example.com",
		firstName:      "Ann",
		orgName:        "Acme",
		recordingURL:   "https://app.example.com/record/tok",
		unsubscribeURL: "https://app.example.com/unsubscribe?token=" + contact.ID.String(),
	}
	if len(sender.calls) != 1 || sender.calls[0] != want {
		t.Fatalf("unexpected calls %+v", sender.calls)
	}

	contact.OrganizationID = uuid.New()
	if err := reminders.SendReminder(context.Background(), contact); err == nil {
		t.Fatalf("expected error for unknown organization")
	}
}
