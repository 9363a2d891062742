package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"testimonials_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	userNotFoundMessage = "user not found"
	uniqueViolation     = "23505"
)

const userColumns = `id, organization_id, email, password_hash, full_name, role, created_at, updated_at`

const insertOrganizationQuery = `
	INSERT INTO organizations (id, name)
	VALUES ($1, $2)
	RETURNING name`

const insertOwnerQuery = `
	INSERT INTO users (id, organization_id, email, password_hash, full_name, role)
	VALUES ($1, $2, $3, $4, $5, 'owner')
	RETURNING ` + userColumns

const getRefreshTokenQuery = `
	SELECT user_id, expires_at, revoked_at
	FROM refresh_tokens
	WHERE token_hash = $1`

const revokeRefreshTokenQuery = `
	UPDATE refresh_tokens
	SET revoked_at = now()
	WHERE token_hash = $1 AND revoked_at IS NULL`

// Repository implements AuthRepository with PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new auth repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// RegisterOwner creates the organization and its owner in one transaction.
func (r *Repository) RegisterOwner(ctx context.Context, params RegisterParams) (Registration, error) {
	var reg Registration
	err := pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		orgID := uuid.New()
		if err := tx.QueryRow(ctx, insertOrganizationQuery, orgID, params.OrganizationName).Scan(&reg.OrganizationName); err != nil {
			return fmt.Errorf("insert organization: %w", err)
		}

		user, err := scanUser(tx.QueryRow(ctx, insertOwnerQuery,
			uuid.New(), orgID, strings.ToLower(strings.TrimSpace(params.Email)), params.PasswordHash, params.FullName,
		))
		if err != nil {
			return fmt.Errorf("insert owner: %w", err)
		}
		reg.User = user
		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Registration{}, apperr.Conflict("an account with this email already exists")
		}
		return Registration{}, err
	}
	return reg, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, strings.TrimSpace(email)))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFound(userNotFoundMessage)
	}
	if err != nil {
		return User{}, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

func (r *Repository) GetUserByID(ctx context.Context, userID uuid.UUID) (User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFound(userNotFoundMessage)
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (r *Repository) CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)
	`, uuid.New(), userID, tokenHash, expiresAt)
	if err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

func (r *Repository) GetRefreshToken(ctx context.Context, tokenHash string) (RefreshToken, error) {
	var rt RefreshToken
	err := r.pool.QueryRow(ctx, getRefreshTokenQuery, tokenHash).Scan(&rt.UserID, &rt.ExpiresAt, &rt.RevokedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return RefreshToken{}, apperr.NotFound("refresh token not found")
	}
	if err != nil {
		return RefreshToken{}, fmt.Errorf("get refresh token: %w", err)
	}
	return rt, nil
}

func (r *Repository) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	if _, err := r.pool.Exec(ctx, revokeRefreshTokenQuery, tokenHash); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (r *Repository) RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = now()
		WHERE user_id = $1 AND revoked_at IS NULL
	`, userID)
	if err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.OrganizationID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
