package transport

import (
	"time"

	"testimonials_backend/internal/contacts/domain"

	"github.com/google/uuid"
)

// InviteContactRequest contains data for inviting a contact to record.
type InviteContactRequest struct {
	FirstName   string  `json:"firstName" validate:"required,min=1,max=100"`
	CompanyName string  `json:"companyName" validate:"omitempty,max=200"`
	Email       string  `json:"email" validate:"required,email,max=254"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	SendEmail   *bool   `json:"sendEmail,omitempty"`
}

// ListContactsRequest filters the contact list.
type ListContactsRequest struct {
	Status   string `form:"status" validate:"omitempty"`
	Search   string `form:"search" validate:"omitempty,max=100"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// SelfRegisterRequest is submitted from an organization's public page.
type SelfRegisterRequest struct {
	FirstName   string  `json:"firstName" validate:"required,min=1,max=100"`
	CompanyName string  `json:"companyName" validate:"omitempty,max=200"`
	Email       string  `json:"email" validate:"required,email,max=254"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=32"`
}

// ContactResponse represents a contact in operator API responses.
type ContactResponse struct {
	ID               uuid.UUID         `json:"id"`
	FirstName        string            `json:"firstName"`
	CompanyName      string            `json:"companyName"`
	Email            string            `json:"email"`
	Phone            *string           `json:"phone,omitempty"`
	Status           domain.StatusView `json:"status"`
	Source           domain.Source     `json:"source"`
	RecordingURL     string            `json:"recordingUrl"`
	LinkedInConsent  bool              `json:"linkedinConsent"`
	DisplayName      *string           `json:"displayName,omitempty"`
	LinkOpenedAt     *time.Time        `json:"linkOpenedAt,omitempty"`
	LinkedInSharedAt *time.Time        `json:"linkedinSharedAt,omitempty"`
	UnsubscribedAt   *time.Time        `json:"unsubscribedAt,omitempty"`
	ReminderCount    int               `json:"reminderCount"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// ContactListResponse wraps a page of contacts.
type ContactListResponse struct {
	Items    []ContactResponse `json:"items"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

// StatusListResponse lists the funnel statuses with display metadata.
type StatusListResponse struct {
	Items []domain.StatusView `json:"items"`
}

// OrganizationBranding is the public view of the inviting organization.
type OrganizationBranding struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	LogoURL *string   `json:"logoUrl,omitempty"`
}

// RecordingLinkResponse is returned when a contact opens the recording link.
type RecordingLinkResponse struct {
	ContactID    uuid.UUID            `json:"contactId"`
	FirstName    string               `json:"firstName"`
	CompanyName  string               `json:"companyName"`
	Status       domain.StatusView    `json:"status"`
	Organization OrganizationBranding `json:"organization"`
}

// SelfRegisterResponse tells the public page where to continue.
type SelfRegisterResponse struct {
	RecordingToken string            `json:"recordingToken"`
	RecordingURL   string            `json:"recordingUrl"`
	Status         domain.StatusView `json:"status"`
	Created        bool              `json:"created"`
}
