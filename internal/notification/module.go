// Package notification sends emails in response to domain events.
// Domain modules publish events and never talk to the email provider directly.
package notification

import (
	"context"
	"strings"
	"sync"
	"time"

	contactsdomain "testimonials_backend/internal/contacts/domain"
	"testimonials_backend/internal/email"
	"testimonials_backend/internal/events"
	orgrepo "testimonials_backend/internal/organizations/repository"
	"testimonials_backend/platform/logger"
	"testimonials_backend/platform/metrics"

	"github.com/google/uuid"
)

const orgNameTTL = 10 * time.Minute

// OrganizationDirectory resolves organizations and their owners.
type OrganizationDirectory interface {
	Get(ctx context.Context, organizationID uuid.UUID) (orgrepo.Organization, error)
	Owner(ctx context.Context, organizationID uuid.UUID) (orgrepo.Owner, error)
}

// ContactReader loads a contact for ambassador notifications.
type ContactReader interface {
	GetByID(ctx context.Context, organizationID, id uuid.UUID) (contactsdomain.Contact, error)
}

// Config provides the frontend base URL used in links.
type Config interface {
	GetAppBaseURL() string
}

type cachedOrgName struct {
	name      string
	expiresAt time.Time
}

// Module handles all notification-related event subscriptions.
type Module struct {
	sender       email.Sender
	orgs         OrganizationDirectory
	contacts     ContactReader
	cfg          Config
	log          *logger.Logger
	orgNameCache sync.Map // map[uuid.UUID]cachedOrgName
}

// New creates a new notification module.
func New(sender email.Sender, orgs OrganizationDirectory, contacts ContactReader, cfg Config, log *logger.Logger) *Module {
	return &Module{sender: sender, orgs: orgs, contacts: contacts, cfg: cfg, log: log}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// RegisterHandlers subscribes to the events that trigger emails.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.OrganizationRegistered{}.EventName(), m)
	bus.Subscribe(events.ContactInvited{}.EventName(), m)
	bus.Subscribe(events.TestimonialUploaded{}.EventName(), m)
	bus.Subscribe(events.ShareRecorded{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.OrganizationRegistered:
		return m.handleOrganizationRegistered(ctx, e)
	case events.ContactInvited:
		return m.handleContactInvited(ctx, e)
	case events.TestimonialUploaded:
		return m.handleTestimonialUploaded(ctx, e)
	case events.ShareRecorded:
		return m.handleShareRecorded(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleOrganizationRegistered(ctx context.Context, e events.OrganizationRegistered) error {
	err := m.sender.SendWelcomeEmail(ctx, e.Email, e.FullName, e.OrganizationName, m.link("/dashboard"))
	return m.record(ctx, "welcome", e.OrganizationID, err)
}

func (m *Module) handleContactInvited(ctx context.Context, e events.ContactInvited) error {
	orgName := m.resolveOrganizationName(ctx, e.OrganizationID)
	err := m.sender.SendInvitationEmail(ctx, e.Email, e.FirstName, orgName, m.link("/record/"+e.RecordingToken))
	return m.record(ctx, "invitation", e.OrganizationID, err)
}

func (m *Module) handleTestimonialUploaded(ctx context.Context, e events.TestimonialUploaded) error {
	owner, err := m.orgs.Owner(ctx, e.OrganizationID)
	if err != nil {
		return m.record(ctx, "new_testimonial", e.OrganizationID, err)
	}
	err = m.sender.SendNewTestimonialEmail(ctx, owner.Email, e.FirstName, e.CompanyName, m.link("/testimonials/"+e.TestimonialID.String()))
	return m.record(ctx, "new_testimonial", e.OrganizationID, err)
}

func (m *Module) handleShareRecorded(ctx context.Context, e events.ShareRecorded) error {
	if !e.BecameAmbassador() {
		return nil
	}

	contact, err := m.contacts.GetByID(ctx, e.OrganizationID, e.ContactID)
	if err != nil {
		return m.record(ctx, "ambassador", e.OrganizationID, err)
	}
	owner, err := m.orgs.Owner(ctx, e.OrganizationID)
	if err != nil {
		return m.record(ctx, "ambassador", e.OrganizationID, err)
	}
	err = m.sender.SendAmbassadorEmail(ctx, owner.Email, contact.FirstName, m.link("/contacts/"+contact.ID.String()))
	return m.record(ctx, "ambassador", e.OrganizationID, err)
}

// resolveOrganizationName returns the cached organization name, or "" when
// the lookup fails so the email still goes out.
func (m *Module) resolveOrganizationName(ctx context.Context, orgID uuid.UUID) string {
	if orgID == uuid.Nil {
		return ""
	}
	if cached, ok := m.orgNameCache.Load(orgID); ok {
		entry := cached.(cachedOrgName)
		if time.Now().Before(entry.expiresAt) {
			return entry.name
		}
		m.orgNameCache.Delete(orgID)
	}

	org, err := m.orgs.Get(ctx, orgID)
	if err != nil {
		m.log.WithTenant(orgID.String()).Warn("failed to resolve organization name", "error", err)
		return ""
	}
	name := strings.TrimSpace(org.Name)
	if name != "" {
		m.orgNameCache.Store(orgID, cachedOrgName{name: name, expiresAt: time.Now().Add(orgNameTTL)})
	}
	return name
}

func (m *Module) link(path string) string {
	return strings.TrimRight(m.cfg.GetAppBaseURL(), "/") + path
}

func (m *Module) record(ctx context.Context, kind string, orgID uuid.UUID, err error) error {
	metrics.EmailsSentTotal.WithLabelValues(kind, metrics.Outcome(err)).Inc()
	if err != nil {
		m.log.WithContext(ctx).WithTenant(orgID.String()).Error("failed to send email", "kind", kind, "error", err)
		return err
	}
	m.log.WithTenant(orgID.String()).Info("email sent", "kind", kind)
	return nil
}
