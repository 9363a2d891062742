package domain

import (
	"time"

	"github.com/google/uuid"
)

// Contact is a person invited (or self-registered) to record a testimonial.
type Contact struct {
	ID               uuid.UUID
	OrganizationID   uuid.UUID
	FirstName        string
	CompanyName      string
	Email            string
	Phone            *string
	RecordingToken   string
	Status           Status
	Source           Source
	LinkedInConsent  bool
	DisplayName      *string
	LinkedInSharedAt *time.Time
	LinkOpenedAt     *time.Time
	UnsubscribedAt   *time.Time
	ReminderCount    int
	LastReminderAt   *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsUnsubscribed reports whether the contact opted out of emails.
func (c Contact) IsUnsubscribed() bool {
	return c.UnsubscribedAt != nil
}

// CaptionName is the display-name override when set, else the first name.
func CaptionName(firstName string, displayName *string) string {
	if displayName != nil && *displayName != "" {
		return *displayName
	}
	return firstName
}

// DueForReminder reports whether a reminder email should go out at now.
// Only contacts that have not started recording qualify.
func (c Contact) DueForReminder(now time.Time, after time.Duration, maxCount int) bool {
	if c.IsUnsubscribed() || c.ReminderCount >= maxCount {
		return false
	}
	if c.Status != StatusInvited && c.Status != StatusLinkOpened {
		return false
	}
	last := c.CreatedAt
	if c.LastReminderAt != nil {
		last = *c.LastReminderAt
	}
	return !last.After(now.Add(-after))
}
