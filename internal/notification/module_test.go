package notification

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	contactsdomain "testimonials_backend/internal/contacts/domain"
	"testimonials_backend/internal/email"
	"testimonials_backend/internal/events"
	orgrepo "testimonials_backend/internal/organizations/repository"
	"testimonials_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	testOrgName    = "Acme Bakery"
	testOwnerEmail = "owner@acme.example"
)

type testNotificationConfig struct{}

func (testNotificationConfig) GetAppBaseURL() string { return "https://app.example.com/" }

type sentEmail struct {
	kind string
	to   string
	args []string
}

type testSender struct {
	email.NoopSender
	sent []sentEmail
	err  error
}

func (s *testSender) SendInvitationEmail(_ context.Context, to, firstName, orgName, recordingURL string) error {
	s.sent = append(s.sent, sentEmail{"invitation", to, []string{firstName, orgName, recordingURL}})
	return s.err
}

func (s *testSender) SendWelcomeEmail(_ context.Context, to, fullName, orgName, dashboardURL string) error {
	s.sent = append(s.sent, sentEmail{"welcome", to, []string{fullName, orgName, dashboardURL}})
	return s.err
}

func (s *testSender) SendNewTestimonialEmail(_ context.Context, to, firstName, companyName, reviewURL string) error {
	s.sent = append(s.sent, sentEmail{"new_testimonial", to, []string{firstName, companyName, reviewURL}})
	return s.err
}

func (s *testSender) SendAmbassadorEmail(_ context.Context, to, firstName, contactURL string) error {
	s.sent = append(s.sent, sentEmail{"ambassador", to, []string{firstName, contactURL}})
	return s.err
}

type testDirectory struct {
	orgID   uuid.UUID
	getCall int
}

func (d *testDirectory) Get(_ context.Context, id uuid.UUID) (orgrepo.Organization, error) {
	d.getCall++
	if id != d.orgID {
		return orgrepo.Organization{}, errors.New("not found")
	}
	return orgrepo.Organization{ID: id, Name: testOrgName}, nil
}

func (d *testDirectory) Owner(_ context.Context, id uuid.UUID) (orgrepo.Owner, error) {
	if id != d.orgID {
		return orgrepo.Owner{}, errors.New("not found")
	}
	return orgrepo.Owner{UserID: uuid.New(), Email: testOwnerEmail, FullName: "Olga Owner"}, nil
}

type testContacts map[uuid.UUID]contactsdomain.Contact

func (c testContacts) GetByID(_ context.Context, _ uuid.UUID, id uuid.UUID) (contactsdomain.Contact, error) {
	contact, ok := c[id]
	if !ok {
		return contactsdomain.Contact{}, errors.New("not found")
	}
	return contact, nil
}

func newTestModule(sender email.Sender, dir *testDirectory, contacts testContacts) *Module {
	return New(sender, dir, contacts, testNotificationConfig{}, logger.NewWithWriter("test", io.Discard))
}

func TestHandleSendsEmails(t *testing.T) {
	orgID := uuid.New()
	contactID := uuid.New()
	testimonialID := uuid.New()
	contacts := testContacts{contactID: {ID: contactID, OrganizationID: orgID, FirstName: "Ann"}}

	tests := []struct {
		name  string
		event events.Event
		want  *sentEmail
	}{
		{
			name:  "welcome",
			event: events.OrganizationRegistered{OrganizationID: orgID, OrganizationName: testOrgName, Email: "new@acme.example", FullName: "New Owner"},
			want:  &sentEmail{"welcome", "new@acme.example", []string{"New Owner", testOrgName, "https://app.example.com/dashboard"}},
		},
		{
			name:  "invitation",
			event: events.ContactInvited{OrganizationID: orgID, ContactID: contactID, Email: "ann@example.com", FirstName: "Ann", RecordingToken: "tok123"},
			want:  &sentEmail{"invitation", "ann@example.com", []string{"Ann", testOrgName, "https://app.example.com/record/tok123"}},
		},
		{
			name:  "new testimonial",
			event: events.TestimonialUploaded{OrganizationID: orgID, ContactID: contactID, TestimonialID: testimonialID, FirstName: "Ann", CompanyName: "Ann Co"},
			want:  &sentEmail{"new_testimonial", testOwnerEmail, []string{"Ann", "Ann Co", "https://app.example.com/testimonials/" + testimonialID.String()}},
		},
		{
			name:  "ambassador",
			event: events.ShareRecorded{OrganizationID: orgID, ContactID: contactID, PreviousStatus: "shared_2", Status: "shared_3"},
			want:  &sentEmail{"ambassador", testOwnerEmail, []string{"Ann", "https://app.example.com/contacts/" + contactID.String()}},
		},
		{
			name:  "share below ambassador",
			event: events.ShareRecorded{OrganizationID: orgID, ContactID: contactID, PreviousStatus: "shared_1", Status: "shared_2"},
		},
		{
			name:  "repeat share at ambassador",
			event: events.ShareRecorded{OrganizationID: orgID, ContactID: contactID, PreviousStatus: "shared_3", Status: "shared_3"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &testSender{}
			m := newTestModule(sender, &testDirectory{orgID: orgID}, contacts)

			if err := m.Handle(context.Background(), tt.event); err != nil {
				t.Fatalf("Handle: %v", err)
			}
			if tt.want == nil {
				if len(sender.sent) != 0 {
					t.Fatalf("expected no email, got %+v", sender.sent)
				}
				return
			}
			if len(sender.sent) != 1 {
				t.Fatalf("expected one email, got %+v", sender.sent)
			}
			got := sender.sent[0]
			if got.kind != tt.want.kind || got.to != tt.want.to {
				t.Fatalf("expected %s to %s, got %s to %s", tt.want.kind, tt.want.to, got.kind, got.to)
			}
			for i := range tt.want.args {
				if got.args[i] != tt.want.args[i] {
					t.Errorf("arg %d: expected %q, got %q", i, tt.want.args[i], got.args[i])
				}
			}
		})
	}
}

func TestInvitationWithUnknownOrganizationStillSends(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender, &testDirectory{orgID: uuid.New()}, testContacts{})

	err := m.Handle(context.Background(), events.ContactInvited{OrganizationID: uuid.New(), Email: "ann@example.com", FirstName: "Ann", RecordingToken: "t"})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0].args[1] != "" {
		t.Fatalf("expected invitation without organization name, got %+v", sender.sent)
	}
}

func TestOrganizationNameIsCached(t *testing.T) {
	orgID := uuid.New()
	dir := &testDirectory{orgID: orgID}
	m := newTestModule(&testSender{}, dir, testContacts{})

	for range 3 {
		if name := m.resolveOrganizationName(context.Background(), orgID); name != testOrgName {
			t.Fatalf("expected %q, got %q", testOrgName, name)
		}
	}
	if dir.getCall != 1 {
		t.Fatalf("expected one lookup, got %d", dir.getCall)
	}

	m.orgNameCache.Store(orgID, cachedOrgName{name: "stale", expiresAt: time.Now().Add(-time.Second)})
	if name := m.resolveOrganizationName(context.Background(), orgID); name != testOrgName {
		t.Fatalf("expected expired entry to be refreshed, got %q", name)
	}
	if dir.getCall != 2 {
		t.Fatalf("expected lookup after expiry, got %d", dir.getCall)
	}
}

func TestHandleReturnsSendErrors(t *testing.T) {
	orgID := uuid.New()
	sender := &testSender{err: errors.New("provider down")}
	m := newTestModule(sender, &testDirectory{orgID: orgID}, testContacts{})

	err := m.Handle(context.Background(), events.OrganizationRegistered{OrganizationID: orgID, Email: "x@example.com"})
	if err == nil {
		t.Fatalf("expected send error")
	}
}

func TestRegisterHandlers(t *testing.T) {
	bus := events.NewInMemoryBus(logger.NewWithWriter("test", io.Discard))
	orgID := uuid.New()
	sender := &testSender{}
	m := newTestModule(sender, &testDirectory{orgID: orgID}, testContacts{})
	m.RegisterHandlers(bus)

	if err := bus.PublishSync(context.Background(), events.OrganizationRegistered{OrganizationID: orgID, Email: "x@example.com"}); err != nil {
		t.Fatalf("PublishSync: %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0].kind != "welcome" {
		t.Fatalf("expected welcome email through the bus, got %+v", sender.sent)
	}
}
