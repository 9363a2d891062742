package service

import (
	"context"
	"errors"
	"testing"
	"time"

	contacts "testimonials_backend/internal/contacts/domain"
	"testimonials_backend/internal/funnel/domain"
	testimonials "testimonials_backend/internal/testimonials/domain"

	"github.com/google/uuid"
)

type fakeContacts struct {
	items []contacts.Contact
	err   error
}

func (f fakeContacts) ListAll(context.Context, uuid.UUID) ([]contacts.Contact, error) {
	return f.items, f.err
}

type fakeTestimonials struct {
	items []testimonials.Testimonial
	err   error
}

func (f fakeTestimonials) ListAll(context.Context, uuid.UUID) ([]testimonials.Testimonial, error) {
	return f.items, f.err
}

func TestDashboard(t *testing.T) {
	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	c1 := contacts.Contact{ID: uuid.New(), FirstName: "Ana", Status: contacts.StatusShared2, CreatedAt: now, UpdatedAt: now}
	c2 := contacts.Contact{ID: uuid.New(), FirstName: "Bo", Status: contacts.StatusInvited, CreatedAt: now, UpdatedAt: now.Add(-time.Hour)}

	svc := New(
		fakeContacts{items: []contacts.Contact{c2, c1}},
		fakeTestimonials{items: []testimonials.Testimonial{{ContactID: c1.ID, ProcessingStatus: testimonials.ProcessingCompleted, CreatedAt: now}}},
	)
	svc.now = func() time.Time { return now }

	resp, err := svc.Dashboard(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if resp.TotalContacts != 2 || resp.CompletedTestimonials != 1 {
		t.Fatalf("unexpected totals %+v", resp)
	}
	if len(resp.Buckets) != 5 || resp.Buckets[1].Key != domain.BucketInvited || resp.Buckets[1].Count != 1 {
		t.Fatalf("unexpected buckets %+v", resp.Buckets)
	}
	if len(resp.Recent) != 2 || resp.Recent[0].ID != c1.ID {
		t.Fatalf("unexpected recent %+v", resp.Recent)
	}
	if resp.Recent[0].Status.Label == "" {
		t.Fatal("recent entries carry display config")
	}
	if resp.Weekly.NewShares != 1 || resp.Weekly.NewVideos != 1 {
		t.Fatalf("unexpected weekly %+v", resp.Weekly)
	}
}

func TestDashboardPropagatesLoadErrors(t *testing.T) {
	boom := errors.New("db down")
	svc := New(fakeContacts{}, fakeTestimonials{err: boom})

	if _, err := svc.Dashboard(context.Background(), uuid.New()); !errors.Is(err, boom) {
		t.Fatalf("expected load error, got %v", err)
	}
}

func TestDashboardEmptyTenant(t *testing.T) {
	svc := New(fakeContacts{}, fakeTestimonials{})

	resp, err := svc.Dashboard(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if resp.TotalContacts != 0 || len(resp.Recent) != 0 {
		t.Fatalf("unexpected response %+v", resp)
	}
	for _, b := range resp.Buckets {
		if b.Count != 0 {
			t.Fatalf("expected zero bucket %s", b.Key)
		}
	}
}
