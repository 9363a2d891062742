package repository

import (
	"context"
	"errors"
	"fmt"

	"testimonials_backend/internal/contacts/domain"
	"testimonials_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	contactNotFoundMessage     = "contact not found"
	testimonialNotFoundMessage = "testimonial not found"
)

// Repo implements Store with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new sharing repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Store.
var _ Store = (*Repo)(nil)

// WithinTx runs fn in a read-committed transaction.
func (r *Repo) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	return pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return fn(&pgTx{tx: tx})
	})
}

// FindRecording resolves a recording token to its contact and testimonial.
func (r *Repo) FindRecording(ctx context.Context, recordingToken string) (RecordingTarget, error) {
	query := `
		SELECT c.organization_id, o.name, c.id, c.first_name, c.display_name, c.status,
			t.id, t.duration_seconds
		FROM contacts c
		JOIN organizations o ON o.id = c.organization_id
		LEFT JOIN testimonials t ON t.contact_id = c.id
		WHERE c.recording_token = $1`

	var (
		target RecordingTarget
		status string
	)
	err := r.pool.QueryRow(ctx, query, recordingToken).Scan(
		&target.OrganizationID, &target.OrganizationName, &target.ContactID, &target.FirstName,
		&target.DisplayName, &status, &target.TestimonialID, &target.DurationSeconds,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return RecordingTarget{}, apperr.NotFound(contactNotFoundMessage)
	}
	if err != nil {
		return RecordingTarget{}, fmt.Errorf("find recording: %w", err)
	}
	if target.Status, err = domain.ParseStatus(status); err != nil {
		return RecordingTarget{}, fmt.Errorf("find recording: %w", err)
	}
	return target, nil
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) LockContact(ctx context.Context, organizationID, contactID uuid.UUID) (LockedContact, error) {
	query := `
		SELECT c.id, c.organization_id, o.name, c.first_name, c.display_name, c.status
		FROM contacts c
		JOIN organizations o ON o.id = c.organization_id
		WHERE c.id = $1 AND c.organization_id = $2
		FOR UPDATE OF c`

	var (
		contact LockedContact
		status  string
	)
	err := t.tx.QueryRow(ctx, query, contactID, organizationID).Scan(
		&contact.ID, &contact.OrganizationID, &contact.OrganizationName,
		&contact.FirstName, &contact.DisplayName, &status,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return LockedContact{}, apperr.NotFound(contactNotFoundMessage)
	}
	if err != nil {
		return LockedContact{}, fmt.Errorf("lock contact: %w", err)
	}
	if contact.Status, err = domain.ParseStatus(status); err != nil {
		return LockedContact{}, fmt.Errorf("lock contact: %w", err)
	}
	return contact, nil
}

func (t *pgTx) GetTestimonial(ctx context.Context, organizationID, testimonialID uuid.UUID) (ShareTestimonial, error) {
	query := `
		SELECT id, contact_id, duration_seconds
		FROM testimonials
		WHERE id = $1 AND organization_id = $2`

	var testimonial ShareTestimonial
	err := t.tx.QueryRow(ctx, query, testimonialID, organizationID).Scan(
		&testimonial.ID, &testimonial.ContactID, &testimonial.DurationSeconds,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return ShareTestimonial{}, apperr.NotFound(testimonialNotFoundMessage)
	}
	if err != nil {
		return ShareTestimonial{}, fmt.Errorf("get testimonial: %w", err)
	}
	return testimonial, nil
}

func (t *pgTx) MarkTestimonialShared(ctx context.Context, organizationID, testimonialID uuid.UUID, platform domain.Platform, caption *string) error {
	query := `
		UPDATE testimonials SET
			linkedin_shared = linkedin_shared OR $3::text = 'linkedin',
			google_shared = google_shared OR $3::text = 'google',
			trustpilot_shared = trustpilot_shared OR $3::text = 'trustpilot',
			linkedin_post = COALESCE($4, linkedin_post),
			updated_at = now()
		WHERE id = $1 AND organization_id = $2`

	tag, err := t.tx.Exec(ctx, query, testimonialID, organizationID, string(platform), caption)
	if err != nil {
		return fmt.Errorf("mark testimonial shared: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(testimonialNotFoundMessage)
	}
	return nil
}

func (t *pgTx) UpdateContactAfterShare(ctx context.Context, update ContactShareUpdate) error {
	query := `
		UPDATE contacts SET
			status = $3,
			linkedin_consent = linkedin_consent OR $4,
			display_name = CASE WHEN $4 THEN COALESCE($5, display_name) ELSE display_name END,
			linkedin_shared_at = CASE WHEN $4 THEN COALESCE(linkedin_shared_at, now()) ELSE linkedin_shared_at END,
			updated_at = now()
		WHERE id = $1 AND organization_id = $2`

	tag, err := t.tx.Exec(ctx, query,
		update.ContactID, update.OrganizationID, string(update.Status), update.LinkedIn, update.DisplayName,
	)
	if err != nil {
		return fmt.Errorf("update contact after share: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(contactNotFoundMessage)
	}
	return nil
}
