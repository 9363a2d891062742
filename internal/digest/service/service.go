// Package service sends the weekly digest email to every organization that
// opted in.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"testimonials_backend/internal/billing"
	"testimonials_backend/internal/digest/domain"
	"testimonials_backend/internal/digest/transport"
	"testimonials_backend/internal/email"
	funnel "testimonials_backend/internal/funnel/domain"
	"testimonials_backend/internal/organizations/repository"
	"testimonials_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	orgConcurrency = 4
	// emailsPerSecond keeps bulk sends under the provider's burst limits.
	emailsPerSecond = 5
)

// OrganizationReader lists digest recipients and loads single organizations.
type OrganizationReader interface {
	DigestRecipients(ctx context.Context) ([]repository.DigestRecipient, error)
	Get(ctx context.Context, organizationID uuid.UUID) (repository.Organization, error)
}

// StatsLoader computes the trailing-week funnel stats of a tenant.
type StatsLoader interface {
	Weekly(ctx context.Context, tenantID uuid.UUID, now time.Time) (funnel.WeeklyStats, error)
}

// UsageCounter counts non-failed uploads since a point in time.
type UsageCounter interface {
	CountUsageSince(ctx context.Context, tenantID uuid.UUID, since time.Time) (int, error)
}

// Service builds and sends weekly digests.
type Service struct {
	orgs    OrganizationReader
	stats   StatsLoader
	usage   UsageCounter
	sender  email.Sender
	baseURL string
	limiter *rate.Limiter
	log     *logger.Logger
	now     func() time.Time
}

// New creates the digest service.
func New(orgs OrganizationReader, stats StatsLoader, usage UsageCounter, sender email.Sender, baseURL string, log *logger.Logger) *Service {
	return &Service{
		orgs:    orgs,
		stats:   stats,
		usage:   usage,
		sender:  sender,
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Limit(emailsPerSecond), 1),
		log:     log,
		now:     time.Now,
	}
}

// SendWeekly sends the digest to every opted-in organization and returns how
// many were delivered. A failing organization does not stop the others; all
// failures are joined into the returned error.
func (s *Service) SendWeekly(ctx context.Context) (int, error) {
	recipients, err := s.orgs.DigestRecipients(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now().UTC()
	var (
		sent atomic.Int64
		errs = make([]error, len(recipients))
	)

	var g errgroup.Group
	g.SetLimit(orgConcurrency)
	for i, r := range recipients {
		g.Go(func() error {
			if err := s.sendOne(ctx, r, now); err != nil {
				s.log.WithTenant(r.OrganizationID.String()).Error("weekly digest failed", "error", err)
				errs[i] = fmt.Errorf("organization %s: %w", r.OrganizationID, err)
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	return int(sent.Load()), errors.Join(errs...)
}

// Preview returns this week's stats, usage and recommendation of a tenant
// without sending anything.
func (s *Service) Preview(ctx context.Context, tenantID uuid.UUID) (transport.PreviewResponse, error) {
	org, err := s.orgs.Get(ctx, tenantID)
	if err != nil {
		return transport.PreviewResponse{}, err
	}

	now := s.now().UTC()
	stats, usage, err := s.load(ctx, tenantID, org.VideosLimit, now)
	if err != nil {
		return transport.PreviewResponse{}, err
	}
	return transport.PreviewResponse{
		Stats:          stats,
		Usage:          usage,
		Recommendation: domain.Recommend(stats, usage, s.baseURL),
	}, nil
}

func (s *Service) sendOne(ctx context.Context, r repository.DigestRecipient, now time.Time) error {
	digest, err := s.build(ctx, r, now)
	if err != nil {
		return err
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	return s.sender.SendWeeklyDigestEmail(ctx, r.Owner.Email, digest)
}

func (s *Service) build(ctx context.Context, r repository.DigestRecipient, now time.Time) (email.WeeklyDigest, error) {
	stats, usage, err := s.load(ctx, r.OrganizationID, r.VideosLimit, now)
	if err != nil {
		return email.WeeklyDigest{}, err
	}
	rec := domain.Recommend(stats, usage, s.baseURL)

	return email.WeeklyDigest{
		OrganizationName:    r.OrganizationName,
		NewContacts:         stats.NewContacts,
		NewVideos:           stats.NewVideos,
		NewShares:           stats.NewShares,
		NewAmbassadors:      stats.NewAmbassadors,
		TotalContacts:       stats.TotalContacts,
		VideosUsed:          usage.VideosUsed,
		VideosLimit:         usage.VideosLimit,
		RecommendationTitle: rec.Title,
		RecommendationText:  rec.Description,
		CTALabel:            rec.CTA.Label,
		CTAURL:              rec.CTA.URL,
	}, nil
}

func (s *Service) load(ctx context.Context, tenantID uuid.UUID, videosLimit int, now time.Time) (funnel.WeeklyStats, domain.PlanUsage, error) {
	stats, err := s.stats.Weekly(ctx, tenantID, now)
	if err != nil {
		return funnel.WeeklyStats{}, domain.PlanUsage{}, fmt.Errorf("load weekly stats: %w", err)
	}
	used, err := s.usage.CountUsageSince(ctx, tenantID, billing.MonthStart(now))
	if err != nil {
		return funnel.WeeklyStats{}, domain.PlanUsage{}, fmt.Errorf("count usage: %w", err)
	}
	return stats, domain.PlanUsage{VideosUsed: used, VideosLimit: videosLimit}, nil
}
