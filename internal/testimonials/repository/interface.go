package repository

import (
	"context"
	"time"

	"testimonials_backend/internal/testimonials/domain"

	"github.com/google/uuid"
)

// UpsertUploadParams describes a finished upload.
type UpsertUploadParams struct {
	OrganizationID  uuid.UUID
	ContactID       uuid.UUID
	VideoKey        string
	ContentType     string
	DurationSeconds *int
}

// ListParams filters an organization's testimonials.
type ListParams struct {
	OrganizationID   uuid.UUID
	ProcessingStatus *domain.ProcessingStatus
	Offset           int
	Limit            int
}

// TestimonialReader provides read operations for testimonials.
type TestimonialReader interface {
	GetByID(ctx context.Context, organizationID, id uuid.UUID) (domain.Testimonial, error)
	GetByContact(ctx context.Context, organizationID, contactID uuid.UUID) (domain.Testimonial, error)
	List(ctx context.Context, params ListParams) ([]domain.Testimonial, int, error)
	ListAll(ctx context.Context, organizationID uuid.UUID) ([]domain.Testimonial, error)
	ListPublished(ctx context.Context, organizationID uuid.UUID, limit int) ([]domain.Testimonial, error)
	ListFailedBefore(ctx context.Context, cutoff time.Time, limit int) ([]domain.Testimonial, error)
	ListMissingTranscription(ctx context.Context, organizationID *uuid.UUID, limit int) ([]domain.Testimonial, error)
	CountUsageSince(ctx context.Context, organizationID uuid.UUID, since time.Time) (int, error)
}

// TestimonialWriter provides write operations for testimonials.
type TestimonialWriter interface {
	UpsertUpload(ctx context.Context, params UpsertUploadParams) (domain.Testimonial, error)
	UpdateReviewQuote(ctx context.Context, organizationID, id uuid.UUID, quote *string) (domain.Testimonial, error)
	// MarkProcessing claims a pending or failed testimonial for transcription.
	// claimed is false when another worker already holds it or it is done.
	MarkProcessing(ctx context.Context, organizationID, id uuid.UUID) (testimonial domain.Testimonial, claimed bool, err error)
	SaveTranscription(ctx context.Context, organizationID, id uuid.UUID, transcription string, quote *string, durationSeconds *int) error
	MarkFailed(ctx context.Context, organizationID, id uuid.UUID) error
	ClearVideoKey(ctx context.Context, organizationID, id uuid.UUID) error
}

// Repository combines all testimonial persistence operations.
type Repository interface {
	TestimonialReader
	TestimonialWriter
}
