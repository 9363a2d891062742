package repository

import (
	"context"
	"time"

	"testimonials_backend/internal/contacts/domain"

	"github.com/google/uuid"
)

// CreateParams contains parameters for creating a contact.
type CreateParams struct {
	OrganizationID uuid.UUID
	FirstName      string
	CompanyName    string
	Email          string
	Phone          *string
	RecordingToken string
	Status         domain.Status
	Source         domain.Source
}

// ListParams filters an organization's contacts.
type ListParams struct {
	OrganizationID uuid.UUID
	Status         *domain.Status
	Search         string
	Offset         int
	Limit          int
}

// ContactReader provides read operations for contacts.
type ContactReader interface {
	GetByID(ctx context.Context, organizationID, id uuid.UUID) (domain.Contact, error)
	GetByRecordingToken(ctx context.Context, token string) (domain.Contact, error)
	GetByEmail(ctx context.Context, organizationID uuid.UUID, email string) (domain.Contact, error)
	List(ctx context.Context, params ListParams) ([]domain.Contact, int, error)
	ListAll(ctx context.Context, organizationID uuid.UUID) ([]domain.Contact, error)
	ListReminderCandidates(ctx context.Context, createdBefore time.Time, maxCount int, limit int) ([]domain.Contact, error)
}

// ContactWriter provides write operations for contacts.
type ContactWriter interface {
	Create(ctx context.Context, params CreateParams) (domain.Contact, error)
	AdvanceStatus(ctx context.Context, organizationID, id uuid.UUID, target domain.Status) (domain.Contact, bool, error)
	MarkUnsubscribed(ctx context.Context, organizationID, id uuid.UUID) (domain.Contact, error)
	RecordReminder(ctx context.Context, organizationID, id uuid.UUID) error
}

// Repository combines all contact persistence operations.
type Repository interface {
	ContactReader
	ContactWriter
}
