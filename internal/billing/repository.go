package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// organization_id resolves to NULL for unknown organizations so the delivery
// is still recorded.
const insertEventQuery = `
	INSERT INTO processed_payment_events (event_id, event_type, organization_id)
	VALUES ($1, $2, (SELECT id FROM organizations WHERE id = $3))
	ON CONFLICT (event_id) DO NOTHING`

const updatePlanQuery = `
	UPDATE organizations
	SET plan = $2, videos_limit = $3, updated_at = now()
	WHERE id = $1`

const pruneEventsQuery = `
	DELETE FROM processed_payment_events
	WHERE processed_at < $1`

// PlanChange is the plan an event assigns to an organization.
type PlanChange struct {
	OrganizationID uuid.UUID
	Plan           string
	VideosLimit    int
}

// Store persists processed payment events and plan changes.
type Store interface {
	// RecordEvent stores the event id and applies change in the same
	// transaction. It reports Duplicate when the id was already processed.
	RecordEvent(ctx context.Context, eventID, eventType string, organizationID *uuid.UUID, change *PlanChange) (Outcome, error)
	PruneEvents(ctx context.Context, before time.Time) (int64, error)
}

// Repository implements Store with PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new billing repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// RecordEvent implements Store.
func (r *Repository) RecordEvent(ctx context.Context, eventID, eventType string, organizationID *uuid.UUID, change *PlanChange) (Outcome, error) {
	outcome := OutcomeRecorded
	err := pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, insertEventQuery, eventID, eventType, organizationID)
		if err != nil {
			return fmt.Errorf("insert payment event: %w", err)
		}
		if tag.RowsAffected() == 0 {
			outcome = OutcomeDuplicate
			return nil
		}
		if change == nil {
			return nil
		}

		tag, err = tx.Exec(ctx, updatePlanQuery, change.OrganizationID, change.Plan, change.VideosLimit)
		if err != nil {
			return fmt.Errorf("update plan: %w", err)
		}
		if tag.RowsAffected() == 0 {
			outcome = OutcomeUnknownOrganization
			return nil
		}
		outcome = OutcomeApplied
		return nil
	})
	if err != nil {
		return "", err
	}
	return outcome, nil
}

// PruneEvents deletes processed events older than before.
func (r *Repository) PruneEvents(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, pruneEventsQuery, before)
	if err != nil {
		return 0, fmt.Errorf("prune payment events: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ Store = (*Repository)(nil)
