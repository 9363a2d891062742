// Package service loads a tenant's contacts and testimonials and aggregates
// them into the funnel dashboard.
package service

import (
	"context"
	"time"

	contacts "testimonials_backend/internal/contacts/domain"
	"testimonials_backend/internal/funnel/domain"
	"testimonials_backend/internal/funnel/transport"
	testimonials "testimonials_backend/internal/testimonials/domain"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ContactLister loads every contact of a tenant.
type ContactLister interface {
	ListAll(ctx context.Context, organizationID uuid.UUID) ([]contacts.Contact, error)
}

// TestimonialLister loads every testimonial of a tenant.
type TestimonialLister interface {
	ListAll(ctx context.Context, organizationID uuid.UUID) ([]testimonials.Testimonial, error)
}

// Service provides funnel aggregation.
type Service struct {
	contacts     ContactLister
	testimonials TestimonialLister
	now          func() time.Time
}

// New creates a new funnel service.
func New(contactLister ContactLister, testimonialLister TestimonialLister) *Service {
	return &Service{contacts: contactLister, testimonials: testimonialLister, now: time.Now}
}

// Dashboard returns the funnel snapshot and weekly stats of a tenant.
func (s *Service) Dashboard(ctx context.Context, tenantID uuid.UUID) (transport.DashboardResponse, error) {
	cs, ts, err := s.load(ctx, tenantID)
	if err != nil {
		return transport.DashboardResponse{}, err
	}

	snap := domain.Aggregate(cs, ts)
	resp := transport.DashboardResponse{
		TotalContacts:         snap.TotalContacts,
		CompletedTestimonials: snap.CompletedTestimonials,
		Buckets:               make([]transport.BucketResponse, 0, len(domain.AllBuckets())),
		Recent:                make([]transport.RecentContactResponse, 0, len(snap.Recent)),
		Weekly:                domain.Weekly(cs, ts, s.now()),
	}
	for _, b := range domain.AllBuckets() {
		resp.Buckets = append(resp.Buckets, transport.BucketResponse{Key: b, Count: snap.Buckets.Count(b)})
	}
	for _, c := range snap.Recent {
		resp.Recent = append(resp.Recent, transport.RecentContactResponse{
			ID:          c.ID,
			FirstName:   c.FirstName,
			CompanyName: c.CompanyName,
			Status:      contacts.ViewOf(c.Status),
			UpdatedAt:   c.UpdatedAt,
		})
	}
	return resp, nil
}

// Weekly returns the trailing-week stats of a tenant at now.
func (s *Service) Weekly(ctx context.Context, tenantID uuid.UUID, now time.Time) (domain.WeeklyStats, error) {
	cs, ts, err := s.load(ctx, tenantID)
	if err != nil {
		return domain.WeeklyStats{}, err
	}
	return domain.Weekly(cs, ts, now), nil
}

func (s *Service) load(ctx context.Context, tenantID uuid.UUID) ([]contacts.Contact, []testimonials.Testimonial, error) {
	var (
		cs []contacts.Contact
		ts []testimonials.Testimonial
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cs, err = s.contacts.ListAll(gctx, tenantID)
		return err
	})
	g.Go(func() error {
		var err error
		ts, err = s.testimonials.ListAll(gctx, tenantID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return cs, ts, nil
}
