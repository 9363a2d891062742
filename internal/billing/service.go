package billing

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"testimonials_backend/internal/organizations/repository"
	"testimonials_backend/platform/apperr"
	"testimonials_backend/platform/logger"
	"testimonials_backend/platform/metrics"

	"github.com/google/uuid"
)

// Event types handled by the webhook. Everything else is recorded and ignored.
const (
	EventSubscriptionUpdated = "subscription.updated"
	EventSubscriptionDeleted = "subscription.deleted"
)

// Outcome describes what processing a delivery did.
type Outcome string

const (
	OutcomeApplied             Outcome = "applied"
	OutcomeRecorded            Outcome = "recorded"
	OutcomeDuplicate           Outcome = "duplicate"
	OutcomeUnknownOrganization Outcome = "unknown_organization"
)

// Event is the payment provider's webhook payload.
type Event struct {
	ID   string    `json:"id"`
	Type string    `json:"type"`
	Data EventData `json:"data"`
}

// EventData carries the subscription fields we use.
type EventData struct {
	OrganizationID string `json:"organizationId"`
	Plan           string `json:"plan"`
	VideosLimit    *int   `json:"videosLimit,omitempty"`
}

// UsageResponse is the current period's plan consumption.
type UsageResponse struct {
	Plan        string    `json:"plan"`
	VideosUsed  int       `json:"videosUsed"`
	VideosLimit int       `json:"videosLimit"`
	Remaining   *int      `json:"remaining"`
	PeriodStart time.Time `json:"periodStart"`
}

// OrganizationReader loads an organization's plan.
type OrganizationReader interface {
	Get(ctx context.Context, organizationID uuid.UUID) (repository.Organization, error)
}

// UsageCounter counts non-failed uploads since a point in time.
type UsageCounter interface {
	CountUsageSince(ctx context.Context, tenantID uuid.UUID, since time.Time) (int, error)
}

// Service implements plan usage and webhook processing.
type Service struct {
	store Store
	orgs  OrganizationReader
	usage UsageCounter
	log   *logger.Logger
	now   func() time.Time
}

// NewService creates the billing service.
func NewService(store Store, orgs OrganizationReader, usage UsageCounter, log *logger.Logger) *Service {
	return &Service{store: store, orgs: orgs, usage: usage, log: log, now: time.Now}
}

// Usage returns the tenant's plan and the videos used this calendar month.
func (s *Service) Usage(ctx context.Context, tenantID uuid.UUID) (UsageResponse, error) {
	org, err := s.orgs.Get(ctx, tenantID)
	if err != nil {
		return UsageResponse{}, err
	}

	start := MonthStart(s.now())
	used, err := s.usage.CountUsageSince(ctx, tenantID, start)
	if err != nil {
		return UsageResponse{}, err
	}

	resp := UsageResponse{Plan: org.Plan, VideosUsed: used, VideosLimit: org.VideosLimit, PeriodStart: start}
	if org.VideosLimit > 0 {
		remaining := max(org.VideosLimit-used, 0)
		resp.Remaining = &remaining
	}
	return resp, nil
}

// HandleEvent processes one verified webhook delivery. Redelivered events are
// acknowledged without side effects.
func (s *Service) HandleEvent(ctx context.Context, payload []byte) (Outcome, error) {
	var evt Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		return "", apperr.BadRequest("invalid event payload")
	}
	evt.ID = strings.TrimSpace(evt.ID)
	if evt.ID == "" || evt.Type == "" {
		return "", apperr.BadRequest("event id and type are required")
	}

	orgID, change, err := planChange(evt)
	if err != nil {
		metrics.PaymentEventsTotal.WithLabelValues(evt.Type, "rejected").Inc()
		return "", err
	}

	outcome, err := s.store.RecordEvent(ctx, evt.ID, evt.Type, orgID, change)
	if err != nil {
		s.log.DatabaseError("record payment event", err)
		metrics.PaymentEventsTotal.WithLabelValues(evt.Type, "error").Inc()
		return "", err
	}
	metrics.PaymentEventsTotal.WithLabelValues(evt.Type, string(outcome)).Inc()

	log := s.log.WithContext(ctx)
	switch outcome {
	case OutcomeUnknownOrganization:
		log.Warn("payment event for unknown organization", "eventId", evt.ID, "type", evt.Type, "organizationId", orgID)
	case OutcomeApplied:
		log.Info("plan changed", "eventId", evt.ID, "organizationId", change.OrganizationID, "plan", change.Plan)
	default:
		log.Info("payment event acknowledged", "eventId", evt.ID, "type", evt.Type, "outcome", outcome)
	}
	return outcome, nil
}

// PruneProcessedEvents removes idempotency records older than retention.
func (s *Service) PruneProcessedEvents(ctx context.Context, retention time.Duration) (int, error) {
	n, err := s.store.PruneEvents(ctx, s.now().Add(-retention))
	return int(n), err
}

func planChange(evt Event) (*uuid.UUID, *PlanChange, error) {
	var orgID *uuid.UUID
	if evt.Data.OrganizationID != "" {
		id, err := uuid.Parse(evt.Data.OrganizationID)
		if err != nil {
			return nil, nil, apperr.BadRequest("invalid organizationId")
		}
		orgID = &id
	}

	switch evt.Type {
	case EventSubscriptionUpdated:
		if orgID == nil {
			return nil, nil, apperr.BadRequest("organizationId is required")
		}
		limit, ok := PlanLimit(evt.Data.Plan)
		if !ok {
			return nil, nil, apperr.BadRequest("unknown plan")
		}
		if evt.Data.VideosLimit != nil {
			limit = *evt.Data.VideosLimit
		}
		return orgID, &PlanChange{OrganizationID: *orgID, Plan: evt.Data.Plan, VideosLimit: limit}, nil
	case EventSubscriptionDeleted:
		if orgID == nil {
			return nil, nil, apperr.BadRequest("organizationId is required")
		}
		limit, _ := PlanLimit(PlanFree)
		return orgID, &PlanChange{OrganizationID: *orgID, Plan: PlanFree, VideosLimit: limit}, nil
	default:
		return orgID, nil, nil
	}
}

// MonthStart returns midnight UTC of the first day of t's month.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
