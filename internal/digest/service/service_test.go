package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"testimonials_backend/internal/digest/domain"
	"testimonials_backend/internal/email"
	funnel "testimonials_backend/internal/funnel/domain"
	"testimonials_backend/internal/organizations/repository"
	"testimonials_backend/platform/apperr"
	"testimonials_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

type fakeOrgs struct {
	recipients []repository.DigestRecipient
	orgs       map[uuid.UUID]repository.Organization
	err        error
}

func (f *fakeOrgs) DigestRecipients(context.Context) ([]repository.DigestRecipient, error) {
	return f.recipients, f.err
}

func (f *fakeOrgs) Get(_ context.Context, id uuid.UUID) (repository.Organization, error) {
	org, ok := f.orgs[id]
	if !ok {
		return repository.Organization{}, apperr.NotFound("organization not found")
	}
	return org, nil
}

type fakeStats struct {
	stats map[uuid.UUID]funnel.WeeklyStats
	fail  map[uuid.UUID]bool
}

func (f *fakeStats) Weekly(_ context.Context, tenantID uuid.UUID, _ time.Time) (funnel.WeeklyStats, error) {
	if f.fail[tenantID] {
		return funnel.WeeklyStats{}, errors.New("db down")
	}
	return f.stats[tenantID], nil
}

type fakeUsage struct {
	used  map[uuid.UUID]int
	since time.Time
}

func (f *fakeUsage) CountUsageSince(_ context.Context, tenantID uuid.UUID, since time.Time) (int, error) {
	f.since = since
	return f.used[tenantID], nil
}

type recordingSender struct {
	email.NoopSender
	mu   sync.Mutex
	sent map[string]email.WeeklyDigest
}

func (r *recordingSender) SendWeeklyDigestEmail(_ context.Context, toEmail string, digest email.WeeklyDigest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sent == nil {
		r.sent = map[string]email.WeeklyDigest{}
	}
	r.sent[toEmail] = digest
	return nil
}

func recipient(name, ownerEmail string, limit int) repository.DigestRecipient {
	return repository.DigestRecipient{
		OrganizationID:   uuid.New(),
		OrganizationName: name,
		VideosLimit:      limit,
		Owner:            repository.Owner{UserID: uuid.New(), Email: ownerEmail, FullName: name + " owner"},
	}
}

func newTestService(orgs *fakeOrgs, stats *fakeStats, usage *fakeUsage, sender email.Sender) *Service {
	svc := New(orgs, stats, usage, sender, "https://app.example.com", logger.NewWithWriter("test", io.Discard))
	svc.limiter = rate.NewLimiter(rate.Inf, 1)
	svc.now = func() time.Time { return time.Date(2026, 3, 16, 8, 0, 0, 0, time.UTC) }
	return svc
}

func TestSendWeekly(t *testing.T) {
	empty := recipient("Empty", "empty@example.com", 5)
	full := recipient("Full", "full@example.com", 5)
	busy := recipient("Busy", "busy@example.com", 0)

	stats := &fakeStats{stats: map[uuid.UUID]funnel.WeeklyStats{
		full.OrganizationID: {NewContacts: 2, NewVideos: 1, NewShares: 1, TotalContacts: 10},
		busy.OrganizationID: {NewContacts: 3, NewVideos: 2, NewShares: 2, NewAmbassadors: 2, TotalContacts: 30},
	}}
	usage := &fakeUsage{used: map[uuid.UUID]int{full.OrganizationID: 5, busy.OrganizationID: 40}}
	sender := &recordingSender{}
	svc := newTestService(&fakeOrgs{recipients: []repository.DigestRecipient{empty, full, busy}}, stats, usage, sender)

	sent, err := svc.SendWeekly(context.Background())
	if err != nil {
		t.Fatalf("SendWeekly: %v", err)
	}
	if sent != 3 {
		t.Fatalf("expected 3 digests, got %d", sent)
	}

	tests := []struct {
		email string
		title string
	}{
		{"empty@example.com", "Add your first contacts"},
		{"full@example.com", "You reached your video limit"},
		{"busy@example.com", "2 new ambassadors this week"},
	}
	for _, tt := range tests {
		got, ok := sender.sent[tt.email]
		if !ok {
			t.Fatalf("no digest sent to %s", tt.email)
		}
		if got.RecommendationTitle != tt.title {
			t.Errorf("%s: expected title %q, got %q", tt.email, tt.title, got.RecommendationTitle)
		}
	}
	if got := sender.sent["busy@example.com"]; got.VideosUsed != 40 || got.VideosLimit != 0 || got.OrganizationName != "Busy" {
		t.Errorf("unexpected digest %+v", got)
	}
	if want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC); !usage.since.Equal(want) {
		t.Errorf("expected usage since %v, got %v", want, usage.since)
	}
}

func TestSendWeeklyContinuesPastFailures(t *testing.T) {
	ok := recipient("Ok", "ok@example.com", 5)
	broken := recipient("Broken", "broken@example.com", 5)

	stats := &fakeStats{
		stats: map[uuid.UUID]funnel.WeeklyStats{ok.OrganizationID: {TotalContacts: 1}},
		fail:  map[uuid.UUID]bool{broken.OrganizationID: true},
	}
	sender := &recordingSender{}
	svc := newTestService(&fakeOrgs{recipients: []repository.DigestRecipient{broken, ok}}, stats, &fakeUsage{}, sender)

	sent, err := svc.SendWeekly(context.Background())
	if err == nil {
		t.Fatalf("expected joined error")
	}
	if sent != 1 {
		t.Fatalf("expected 1 digest, got %d", sent)
	}
	keys := make([]string, 0, len(sender.sent))
	for k := range sender.sent {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) != 1 || keys[0] != "ok@example.com" {
		t.Fatalf("unexpected recipients %v", keys)
	}
}

func TestPreview(t *testing.T) {
	orgID := uuid.New()
	orgs := &fakeOrgs{orgs: map[uuid.UUID]repository.Organization{orgID: {ID: orgID, Name: "Acme", VideosLimit: 5}}}
	stats := &fakeStats{stats: map[uuid.UUID]funnel.WeeklyStats{orgID: {TotalContacts: 4, NewContacts: 1}}}
	svc := newTestService(orgs, stats, &fakeUsage{used: map[uuid.UUID]int{orgID: 2}}, &recordingSender{})

	resp, err := svc.Preview(context.Background(), orgID)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if resp.Recommendation.Type != domain.TypeSendReminders {
		t.Errorf("expected send_reminders, got %s", resp.Recommendation.Type)
	}
	if resp.Usage != (domain.PlanUsage{VideosUsed: 2, VideosLimit: 5}) {
		t.Errorf("unexpected usage %+v", resp.Usage)
	}

	if _, err := svc.Preview(context.Background(), uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
