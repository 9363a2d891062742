package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"testimonials_backend/internal/testimonials/domain"
	"testimonials_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const testimonialNotFoundMessage = "testimonial not found"

const testimonialColumns = `
	id, organization_id, contact_id, video_key, content_type, transcription, review_quote,
	duration_seconds, linkedin_shared, google_shared, trustpilot_shared, linkedin_post,
	processing_status, created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new testimonials repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// UpsertUpload stores the uploaded video of a contact. A re-recording replaces
// the video and restarts processing; share flags are kept.
func (r *Repo) UpsertUpload(ctx context.Context, params UpsertUploadParams) (domain.Testimonial, error) {
	query := `
		INSERT INTO testimonials (
			id, organization_id, contact_id, video_key, content_type, duration_seconds, processing_status
		)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		ON CONFLICT (contact_id) DO UPDATE SET
			video_key = EXCLUDED.video_key,
			content_type = EXCLUDED.content_type,
			duration_seconds = EXCLUDED.duration_seconds,
			transcription = NULL,
			processing_status = 'pending',
			updated_at = now()
		WHERE testimonials.organization_id = EXCLUDED.organization_id
		RETURNING` + testimonialColumns

	row := r.pool.QueryRow(ctx, query,
		uuid.New(), params.OrganizationID, params.ContactID, params.VideoKey,
		params.ContentType, params.DurationSeconds,
	)
	testimonial, err := scanTestimonial(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Testimonial{}, apperr.NotFound(testimonialNotFoundMessage)
	}
	if err != nil {
		return domain.Testimonial{}, fmt.Errorf("upsert testimonial: %w", err)
	}
	return testimonial, nil
}

// GetByID retrieves a testimonial scoped to the organization.
func (r *Repo) GetByID(ctx context.Context, organizationID, id uuid.UUID) (domain.Testimonial, error) {
	query := `SELECT` + testimonialColumns + ` FROM testimonials WHERE id = $1 AND organization_id = $2`
	return r.getOne(ctx, "get testimonial", query, id, organizationID)
}

// GetByContact retrieves the testimonial of a contact.
func (r *Repo) GetByContact(ctx context.Context, organizationID, contactID uuid.UUID) (domain.Testimonial, error) {
	query := `SELECT` + testimonialColumns + ` FROM testimonials WHERE contact_id = $1 AND organization_id = $2`
	return r.getOne(ctx, "get testimonial by contact", query, contactID, organizationID)
}

// List returns a page of testimonials, newest first, with the total count.
func (r *Repo) List(ctx context.Context, params ListParams) ([]domain.Testimonial, int, error) {
	var status *string
	if params.ProcessingStatus != nil {
		s := string(*params.ProcessingStatus)
		status = &s
	}

	var total int
	countQuery := `
		SELECT COUNT(*) FROM testimonials
		WHERE organization_id = $1 AND ($2::text IS NULL OR processing_status = $2)`
	if err := r.pool.QueryRow(ctx, countQuery, params.OrganizationID, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count testimonials: %w", err)
	}

	query := `SELECT` + testimonialColumns + `
		FROM testimonials
		WHERE organization_id = $1 AND ($2::text IS NULL OR processing_status = $2)
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4`
	rows, err := r.pool.Query(ctx, query, params.OrganizationID, status, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list testimonials: %w", err)
	}
	items, err := scanTestimonials(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("list testimonials: %w", err)
	}
	return items, total, nil
}

// ListAll returns every testimonial of the organization.
func (r *Repo) ListAll(ctx context.Context, organizationID uuid.UUID) ([]domain.Testimonial, error) {
	query := `SELECT` + testimonialColumns + ` FROM testimonials WHERE organization_id = $1 ORDER BY created_at DESC, id`
	return r.query(ctx, "list all testimonials", query, organizationID)
}

// ListPublished returns processed testimonials that still have a video.
func (r *Repo) ListPublished(ctx context.Context, organizationID uuid.UUID, limit int) ([]domain.Testimonial, error) {
	query := `SELECT` + testimonialColumns + `
		FROM testimonials
		WHERE organization_id = $1 AND processing_status = 'completed' AND video_key IS NOT NULL
		ORDER BY created_at DESC, id
		LIMIT $2`
	return r.query(ctx, "list published testimonials", query, organizationID, limit)
}

// ListFailedBefore returns failed testimonials with a stored video last touched before cutoff.
func (r *Repo) ListFailedBefore(ctx context.Context, cutoff time.Time, limit int) ([]domain.Testimonial, error) {
	query := `SELECT` + testimonialColumns + `
		FROM testimonials
		WHERE processing_status = 'failed' AND video_key IS NOT NULL AND updated_at < $1
		ORDER BY updated_at
		LIMIT $2`
	return r.query(ctx, "list failed testimonials", query, cutoff, limit)
}

// ListMissingTranscription returns uploads that never got a transcription,
// optionally restricted to one organization.
func (r *Repo) ListMissingTranscription(ctx context.Context, organizationID *uuid.UUID, limit int) ([]domain.Testimonial, error) {
	query := `SELECT` + testimonialColumns + `
		FROM testimonials
		WHERE transcription IS NULL
			AND video_key IS NOT NULL
			AND processing_status <> 'processing'
			AND ($1::uuid IS NULL OR organization_id = $1)
		ORDER BY created_at
		LIMIT $2`
	return r.query(ctx, "list testimonials missing transcription", query, organizationID, limit)
}

// CountUsageSince counts uploads created at or after since that did not fail.
func (r *Repo) CountUsageSince(ctx context.Context, organizationID uuid.UUID, since time.Time) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM testimonials
		WHERE organization_id = $1 AND created_at >= $2 AND processing_status <> 'failed'`
	if err := r.pool.QueryRow(ctx, query, organizationID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count testimonials: %w", err)
	}
	return count, nil
}

// UpdateReviewQuote replaces the display quote.
func (r *Repo) UpdateReviewQuote(ctx context.Context, organizationID, id uuid.UUID, quote *string) (domain.Testimonial, error) {
	query := `
		UPDATE testimonials SET review_quote = $3, updated_at = now()
		WHERE id = $1 AND organization_id = $2
		RETURNING` + testimonialColumns
	return r.getOne(ctx, "update review quote", query, id, organizationID, quote)
}

// MarkProcessing moves a pending or failed testimonial to processing.
func (r *Repo) MarkProcessing(ctx context.Context, organizationID, id uuid.UUID) (domain.Testimonial, bool, error) {
	query := `
		UPDATE testimonials SET processing_status = 'processing', updated_at = now()
		WHERE id = $1 AND organization_id = $2 AND processing_status IN ('pending', 'failed')
		RETURNING` + testimonialColumns

	testimonial, err := scanTestimonial(r.pool.QueryRow(ctx, query, id, organizationID))
	if err == nil {
		return testimonial, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Testimonial{}, false, fmt.Errorf("mark testimonial processing: %w", err)
	}

	current, err := r.GetByID(ctx, organizationID, id)
	if err != nil {
		return domain.Testimonial{}, false, err
	}
	return current, false, nil
}

// SaveTranscription stores the transcript and marks processing completed.
// An existing review quote edited by an operator is kept.
func (r *Repo) SaveTranscription(ctx context.Context, organizationID, id uuid.UUID, transcription string, quote *string, durationSeconds *int) error {
	query := `
		UPDATE testimonials SET
			transcription = $3,
			review_quote = COALESCE(review_quote, $4),
			duration_seconds = COALESCE(duration_seconds, $5),
			processing_status = 'completed',
			updated_at = now()
		WHERE id = $1 AND organization_id = $2`
	return r.exec(ctx, "save transcription", query, id, organizationID, transcription, quote, durationSeconds)
}

// MarkFailed records a failed transcription.
func (r *Repo) MarkFailed(ctx context.Context, organizationID, id uuid.UUID) error {
	query := `
		UPDATE testimonials SET processing_status = 'failed', updated_at = now()
		WHERE id = $1 AND organization_id = $2`
	return r.exec(ctx, "mark testimonial failed", query, id, organizationID)
}

// ClearVideoKey forgets the stored object after it was deleted.
func (r *Repo) ClearVideoKey(ctx context.Context, organizationID, id uuid.UUID) error {
	query := `
		UPDATE testimonials SET video_key = NULL, updated_at = now()
		WHERE id = $1 AND organization_id = $2`
	return r.exec(ctx, "clear video key", query, id, organizationID)
}

func (r *Repo) getOne(ctx context.Context, op, query string, args ...any) (domain.Testimonial, error) {
	testimonial, err := scanTestimonial(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Testimonial{}, apperr.NotFound(testimonialNotFoundMessage)
	}
	if err != nil {
		return domain.Testimonial{}, fmt.Errorf("%s: %w", op, err)
	}
	return testimonial, nil
}

func (r *Repo) query(ctx context.Context, op, query string, args ...any) ([]domain.Testimonial, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	items, err := scanTestimonials(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

func (r *Repo) exec(ctx context.Context, op, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(testimonialNotFoundMessage)
	}
	return nil
}

func scanTestimonial(row pgx.Row) (domain.Testimonial, error) {
	var (
		t                domain.Testimonial
		processingStatus string
	)
	err := row.Scan(
		&t.ID, &t.OrganizationID, &t.ContactID, &t.VideoKey, &t.ContentType, &t.Transcription,
		&t.ReviewQuote, &t.DurationSeconds, &t.LinkedInShared, &t.GoogleShared, &t.TrustpilotShared,
		&t.LinkedInPost, &processingStatus, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return domain.Testimonial{}, err
	}
	t.ProcessingStatus, err = domain.ParseProcessingStatus(processingStatus)
	if err != nil {
		return domain.Testimonial{}, fmt.Errorf("testimonial %s: %w", t.ID, err)
	}
	return t, nil
}

func scanTestimonials(rows pgx.Rows) ([]domain.Testimonial, error) {
	defer rows.Close()

	items := make([]domain.Testimonial, 0)
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}
