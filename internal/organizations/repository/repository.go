package repository

import (
	"context"
	"errors"
	"fmt"

	"testimonials_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const organizationNotFoundMessage = "organization not found"

const organizationColumns = `
	id, name, logo_key, widget_enabled, weekly_digest_enabled, plan, videos_limit, created_at, updated_at`

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new organizations repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Organization, error) {
	return r.getOne(ctx, "get organization", `SELECT`+organizationColumns+` FROM organizations WHERE id = $1`, id)
}

func (r *Repo) UpdateSettings(ctx context.Context, id uuid.UUID, params UpdateSettingsParams) (Organization, error) {
	query := `
		UPDATE organizations SET
			name = COALESCE($2, name),
			widget_enabled = COALESCE($3, widget_enabled),
			weekly_digest_enabled = COALESCE($4, weekly_digest_enabled),
			updated_at = now()
		WHERE id = $1
		RETURNING` + organizationColumns
	return r.getOne(ctx, "update organization settings", query, id, params.Name, params.WidgetEnabled, params.WeeklyDigestEnabled)
}

func (r *Repo) SetLogoKey(ctx context.Context, id uuid.UUID, logoKey *string) (Organization, error) {
	query := `
		UPDATE organizations SET logo_key = $2, updated_at = now()
		WHERE id = $1
		RETURNING` + organizationColumns
	return r.getOne(ctx, "set organization logo", query, id, logoKey)
}

func (r *Repo) GetOwner(ctx context.Context, id uuid.UUID) (Owner, error) {
	var owner Owner
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, full_name
		FROM users
		WHERE organization_id = $1 AND role = 'owner'
		ORDER BY created_at
		LIMIT 1
	`, id).Scan(&owner.UserID, &owner.Email, &owner.FullName)
	if errors.Is(err, pgx.ErrNoRows) {
		return Owner{}, apperr.NotFound("organization owner not found")
	}
	if err != nil {
		return Owner{}, fmt.Errorf("get organization owner: %w", err)
	}
	return owner, nil
}

func (r *Repo) ListDigestRecipients(ctx context.Context) ([]DigestRecipient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT ON (o.id) o.id, o.name, o.videos_limit, u.id, u.email, u.full_name
		FROM organizations o
		JOIN users u ON u.organization_id = o.id AND u.role = 'owner'
		WHERE o.weekly_digest_enabled
		ORDER BY o.id, u.created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list digest recipients: %w", err)
	}
	defer rows.Close()

	var recipients []DigestRecipient
	for rows.Next() {
		var rcpt DigestRecipient
		if err := rows.Scan(
			&rcpt.OrganizationID, &rcpt.OrganizationName, &rcpt.VideosLimit,
			&rcpt.Owner.UserID, &rcpt.Owner.Email, &rcpt.Owner.FullName,
		); err != nil {
			return nil, fmt.Errorf("scan digest recipient: %w", err)
		}
		recipients = append(recipients, rcpt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate digest recipients: %w", err)
	}
	return recipients, nil
}

func (r *Repo) getOne(ctx context.Context, op, query string, args ...any) (Organization, error) {
	var org Organization
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&org.ID, &org.Name, &org.LogoKey, &org.WidgetEnabled, &org.WeeklyDigestEnabled,
		&org.Plan, &org.VideosLimit, &org.CreatedAt, &org.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Organization{}, apperr.NotFound(organizationNotFoundMessage)
	}
	if err != nil {
		return Organization{}, fmt.Errorf("%s: %w", op, err)
	}
	return org, nil
}
