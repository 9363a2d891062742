// Package events defines the domain events exchanged between modules. The bus
// itself lives in platform/events; its types are aliased here so modules only
// import one events package.
package events

import (
	"testimonials_backend/platform/events"
	"testimonials_backend/platform/logger"

	"github.com/google/uuid"
)

type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates the in-process bus used by the API and the scheduler.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Auth / Organization Events
// =============================================================================

// OrganizationRegistered is published when a new organization and its owner sign up.
type OrganizationRegistered struct {
	BaseEvent
	OrganizationID   uuid.UUID `json:"organizationId"`
	OrganizationName string    `json:"organizationName"`
	UserID           uuid.UUID `json:"userId"`
	Email            string    `json:"email"`
	FullName         string    `json:"fullName"`
}

func (e OrganizationRegistered) EventName() string { return "auth.organization.registered" }

// =============================================================================
// Contact Events
// =============================================================================

// ContactInvited is published when an operator invites a contact to record.
type ContactInvited struct {
	BaseEvent
	OrganizationID uuid.UUID `json:"organizationId"`
	ContactID      uuid.UUID `json:"contactId"`
	Email          string    `json:"email"`
	FirstName      string    `json:"firstName"`
	RecordingToken string    `json:"recordingToken"`
}

func (e ContactInvited) EventName() string { return "contacts.invited" }

// ContactSelfRegistered is published when a visitor registers through the
// organization's public page.
type ContactSelfRegistered struct {
	BaseEvent
	OrganizationID uuid.UUID `json:"organizationId"`
	ContactID      uuid.UUID `json:"contactId"`
	Created        bool      `json:"created"`
}

func (e ContactSelfRegistered) EventName() string { return "contacts.self_registered" }

// =============================================================================
// Testimonial Events
// =============================================================================

// TestimonialUploaded is published when a contact finishes uploading a video.
type TestimonialUploaded struct {
	BaseEvent
	OrganizationID uuid.UUID `json:"organizationId"`
	ContactID      uuid.UUID `json:"contactId"`
	TestimonialID  uuid.UUID `json:"testimonialId"`
	FirstName      string    `json:"firstName"`
	CompanyName    string    `json:"companyName"`
}

func (e TestimonialUploaded) EventName() string { return "testimonials.uploaded" }

// =============================================================================
// Sharing Events
// =============================================================================

// ShareRecorded is published after a share confirmation is persisted.
type ShareRecorded struct {
	BaseEvent
	OrganizationID uuid.UUID `json:"organizationId"`
	ContactID      uuid.UUID `json:"contactId"`
	TestimonialID  uuid.UUID `json:"testimonialId"`
	Platform       string    `json:"platform"`
	PreviousStatus string    `json:"previousStatus"`
	Status         string    `json:"status"`
}

func (e ShareRecorded) EventName() string { return "sharing.recorded" }

// BecameAmbassador reports whether this share moved the contact into the
// terminal status.
func (e ShareRecorded) BecameAmbassador() bool {
	return e.Status == "shared_3" && e.PreviousStatus != "shared_3"
}
