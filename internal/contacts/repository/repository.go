package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"testimonials_backend/internal/contacts/domain"
	"testimonials_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	contactNotFoundMessage = "contact not found"
	uniqueViolationCode    = "23505"
)

const contactColumns = `
	id, organization_id, first_name, company_name, email, phone, recording_token,
	status, source, linkedin_consent, display_name, linkedin_shared_at, link_opened_at,
	unsubscribed_at, reminder_count, last_reminder_at, created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new contacts repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create inserts a contact. A duplicate email in the organization is a conflict.
func (r *Repo) Create(ctx context.Context, params CreateParams) (domain.Contact, error) {
	query := `
		INSERT INTO contacts (
			id, organization_id, first_name, company_name, email, phone, recording_token,
			status, source, link_opened_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9,
			CASE WHEN $8 = 'link_opened' THEN now() END)
		RETURNING` + contactColumns

	row := r.pool.QueryRow(ctx, query,
		uuid.New(), params.OrganizationID, params.FirstName, params.CompanyName,
		strings.ToLower(strings.TrimSpace(params.Email)), params.Phone, params.RecordingToken,
		string(params.Status), string(params.Source),
	)
	contact, err := scanContact(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return domain.Contact{}, apperr.Conflict("a contact with this email already exists")
		}
		return domain.Contact{}, fmt.Errorf("create contact: %w", err)
	}
	return contact, nil
}

// GetByID retrieves a contact scoped to its organization.
func (r *Repo) GetByID(ctx context.Context, organizationID, id uuid.UUID) (domain.Contact, error) {
	query := `SELECT` + contactColumns + `
		FROM contacts
		WHERE id = $1 AND organization_id = $2`

	contact, err := scanContact(r.pool.QueryRow(ctx, query, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Contact{}, apperr.NotFound(contactNotFoundMessage)
		}
		return domain.Contact{}, fmt.Errorf("get contact by id: %w", err)
	}
	return contact, nil
}

// GetByRecordingToken resolves the public recording link.
func (r *Repo) GetByRecordingToken(ctx context.Context, token string) (domain.Contact, error) {
	query := `SELECT` + contactColumns + `
		FROM contacts
		WHERE recording_token = $1`

	contact, err := scanContact(r.pool.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Contact{}, apperr.NotFound(contactNotFoundMessage)
		}
		return domain.Contact{}, fmt.Errorf("get contact by token: %w", err)
	}
	return contact, nil
}

// GetByEmail looks up a contact by case-insensitive email within an organization.
func (r *Repo) GetByEmail(ctx context.Context, organizationID uuid.UUID, email string) (domain.Contact, error) {
	query := `SELECT` + contactColumns + `
		FROM contacts
		WHERE organization_id = $1 AND lower(email) = lower($2)`

	contact, err := scanContact(r.pool.QueryRow(ctx, query, organizationID, strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Contact{}, apperr.NotFound(contactNotFoundMessage)
		}
		return domain.Contact{}, fmt.Errorf("get contact by email: %w", err)
	}
	return contact, nil
}

// List returns a page of contacts, most recently updated first, and the total match count.
func (r *Repo) List(ctx context.Context, params ListParams) ([]domain.Contact, int, error) {
	var statusParam any
	if params.Status != nil {
		statusParam = string(*params.Status)
	}
	var searchParam any
	if s := strings.TrimSpace(params.Search); s != "" {
		searchParam = "%" + s + "%"
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	countQuery := `
		SELECT COUNT(*)
		FROM contacts
		WHERE organization_id = $1
			AND ($2::text IS NULL OR status = $2)
			AND ($3::text IS NULL OR first_name ILIKE $3 OR company_name ILIKE $3 OR email ILIKE $3)`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, params.OrganizationID, statusParam, searchParam).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contacts: %w", err)
	}

	query := `SELECT` + contactColumns + `
		FROM contacts
		WHERE organization_id = $1
			AND ($2::text IS NULL OR status = $2)
			AND ($3::text IS NULL OR first_name ILIKE $3 OR company_name ILIKE $3 OR email ILIKE $3)
		ORDER BY updated_at DESC, id
		LIMIT $4 OFFSET $5`

	rows, err := r.pool.Query(ctx, query, params.OrganizationID, statusParam, searchParam, limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts, err := scanContacts(rows)
	if err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

// ListAll returns every contact of an organization.
func (r *Repo) ListAll(ctx context.Context, organizationID uuid.UUID) ([]domain.Contact, error) {
	query := `SELECT` + contactColumns + `
		FROM contacts
		WHERE organization_id = $1`

	rows, err := r.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list all contacts: %w", err)
	}
	defer rows.Close()

	return scanContacts(rows)
}

// ListReminderCandidates returns contacts across organizations that have not
// started recording and were last contacted before the cutoff.
func (r *Repo) ListReminderCandidates(ctx context.Context, createdBefore time.Time, maxCount int, limit int) ([]domain.Contact, error) {
	query := `SELECT` + contactColumns + `
		FROM contacts
		WHERE status IN ('invited', 'link_opened')
			AND unsubscribed_at IS NULL
			AND reminder_count < $1
			AND COALESCE(last_reminder_at, created_at) <= $2
		ORDER BY COALESCE(last_reminder_at, created_at), id
		LIMIT $3`

	rows, err := r.pool.Query(ctx, query, maxCount, createdBefore, limit)
	if err != nil {
		return nil, fmt.Errorf("list reminder candidates: %w", err)
	}
	defer rows.Close()

	return scanContacts(rows)
}

// AdvanceStatus moves the contact to target only when target lies ahead of
// the stored status. It returns the current row and whether it changed.
func (r *Repo) AdvanceStatus(ctx context.Context, organizationID, id uuid.UUID, target domain.Status) (domain.Contact, bool, error) {
	before := domain.StatusesBefore(target)
	if len(before) == 0 {
		contact, err := r.GetByID(ctx, organizationID, id)
		return contact, false, err
	}

	allowed := make([]string, 0, len(before))
	for _, s := range before {
		allowed = append(allowed, string(s))
	}

	query := `
		UPDATE contacts
		SET status = $3,
			link_opened_at = CASE WHEN $3 = 'link_opened' THEN COALESCE(link_opened_at, now()) ELSE link_opened_at END,
			updated_at = now()
		WHERE id = $1 AND organization_id = $2 AND status = ANY($4)
		RETURNING` + contactColumns

	contact, err := scanContact(r.pool.QueryRow(ctx, query, id, organizationID, string(target), allowed))
	if err == nil {
		return contact, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Contact{}, false, fmt.Errorf("advance contact status: %w", err)
	}

	contact, err = r.GetByID(ctx, organizationID, id)
	return contact, false, err
}

// MarkUnsubscribed records the opt-out; repeated calls keep the first timestamp.
// updated_at is left alone so the funnel activity is not affected.
func (r *Repo) MarkUnsubscribed(ctx context.Context, organizationID, id uuid.UUID) (domain.Contact, error) {
	query := `
		UPDATE contacts
		SET unsubscribed_at = COALESCE(unsubscribed_at, now())
		WHERE id = $1 AND organization_id = $2
		RETURNING` + contactColumns

	contact, err := scanContact(r.pool.QueryRow(ctx, query, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Contact{}, apperr.NotFound(contactNotFoundMessage)
		}
		return domain.Contact{}, fmt.Errorf("mark contact unsubscribed: %w", err)
	}
	return contact, nil
}

// RecordReminder bumps the reminder counter.
func (r *Repo) RecordReminder(ctx context.Context, organizationID, id uuid.UUID) error {
	query := `
		UPDATE contacts
		SET reminder_count = reminder_count + 1, last_reminder_at = now()
		WHERE id = $1 AND organization_id = $2`

	tag, err := r.pool.Exec(ctx, query, id, organizationID)
	if err != nil {
		return fmt.Errorf("record reminder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(contactNotFoundMessage)
	}
	return nil
}

func scanContact(row pgx.Row) (domain.Contact, error) {
	var c domain.Contact
	var status, source string
	err := row.Scan(
		&c.ID, &c.OrganizationID, &c.FirstName, &c.CompanyName, &c.Email, &c.Phone, &c.RecordingToken,
		&status, &source, &c.LinkedInConsent, &c.DisplayName, &c.LinkedInSharedAt, &c.LinkOpenedAt,
		&c.UnsubscribedAt, &c.ReminderCount, &c.LastReminderAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return domain.Contact{}, err
	}

	parsed, err := domain.ParseStatus(status)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("scan contact %s: %w", c.ID, err)
	}
	c.Status = parsed
	c.Source = domain.Source(source)
	return c, nil
}

func scanContacts(rows pgx.Rows) ([]domain.Contact, error) {
	contacts := make([]domain.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}
