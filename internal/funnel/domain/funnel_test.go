package domain

import (
	"testing"
	"time"

	contacts "testimonials_backend/internal/contacts/domain"
	testimonials "testimonials_backend/internal/testimonials/domain"

	"github.com/google/uuid"
)

var base = time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

func contact(status contacts.Status, created, updated time.Time) contacts.Contact {
	return contacts.Contact{ID: uuid.New(), Status: status, CreatedAt: created, UpdatedAt: updated}
}

func TestBucketOfCoversEveryStatus(t *testing.T) {
	want := map[contacts.Status]Bucket{
		contacts.StatusCreated:        BucketCreated,
		contacts.StatusInvited:        BucketInvited,
		contacts.StatusLinkOpened:     BucketLinkOpened,
		contacts.StatusVideoStarted:   BucketVideo,
		contacts.StatusVideoCompleted: BucketVideo,
		contacts.StatusShared1:        BucketShared,
		contacts.StatusShared2:        BucketShared,
		contacts.StatusShared3:        BucketShared,
	}
	for _, s := range contacts.AllStatuses() {
		if got := BucketOf(s); got != want[s] {
			t.Errorf("BucketOf(%s) = %s, want %s", s, got, want[s])
		}
	}
}

func TestBucketOfPanicsOnUnknownStatus(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	BucketOf(contacts.Status("archived"))
}

func TestAggregateEmpty(t *testing.T) {
	snap := Aggregate(nil, nil)
	if snap.TotalContacts != 0 || snap.CompletedTestimonials != 0 || snap.Buckets != (Buckets{}) {
		t.Fatalf("expected zero snapshot, got %+v", snap)
	}
	if snap.Recent == nil || len(snap.Recent) != 0 {
		t.Fatal("expected empty, non-nil recent slice")
	}
}

func TestAggregateConservesTotal(t *testing.T) {
	var cs []contacts.Contact
	for i, s := range contacts.AllStatuses() {
		for range i + 1 {
			cs = append(cs, contact(s, base, base.Add(time.Duration(i)*time.Minute)))
		}
	}

	snap := Aggregate(cs, nil)
	if snap.Buckets.Total() != snap.TotalContacts || snap.TotalContacts != len(cs) {
		t.Fatalf("bucket sum %d != total %d", snap.Buckets.Total(), snap.TotalContacts)
	}
	want := Buckets{Created: 1, Invited: 2, LinkOpened: 3, Video: 4 + 5, Shared: 6 + 7 + 8}
	if snap.Buckets != want {
		t.Fatalf("buckets = %+v, want %+v", snap.Buckets, want)
	}
	for _, b := range AllBuckets() {
		if snap.Buckets.Count(b) < 0 {
			t.Fatalf("negative count for %s", b)
		}
	}
}

func TestAggregateCountsCompletedTestimonialsOfKnownContacts(t *testing.T) {
	c1 := contact(contacts.StatusVideoCompleted, base, base)
	c2 := contact(contacts.StatusShared1, base, base)
	ts := []testimonials.Testimonial{
		{ContactID: c1.ID, ProcessingStatus: testimonials.ProcessingCompleted},
		{ContactID: c2.ID, ProcessingStatus: testimonials.ProcessingPending},
		{ContactID: uuid.New(), ProcessingStatus: testimonials.ProcessingCompleted},
	}

	if got := Aggregate([]contacts.Contact{c1, c2}, ts).CompletedTestimonials; got != 1 {
		t.Fatalf("expected 1 completed testimonial, got %d", got)
	}
}

func TestAggregateRecentIsStable(t *testing.T) {
	var cs []contacts.Contact
	for i := range 8 {
		// Pairs share a timestamp so ties exercise stability.
		cs = append(cs, contact(contacts.StatusInvited, base, base.Add(time.Duration(i/2)*time.Hour)))
	}

	first := Aggregate(cs, nil).Recent
	if len(first) != RecentLimit {
		t.Fatalf("expected %d recent, got %d", RecentLimit, len(first))
	}
	wantOrder := []uuid.UUID{cs[6].ID, cs[7].ID, cs[4].ID, cs[5].ID, cs[2].ID}
	for i, id := range wantOrder {
		if first[i].ID != id {
			t.Fatalf("position %d: got %s, want %s", i, first[i].ID, id)
		}
	}

	for range 10 {
		again := Aggregate(cs, nil).Recent
		for i := range again {
			if again[i].ID != first[i].ID {
				t.Fatal("recent ordering changed between calls")
			}
		}
	}
	if !cs[0].UpdatedAt.Equal(base) {
		t.Fatal("input must not be reordered")
	}
}

func TestAggregateRecentOrdersExtremeTimes(t *testing.T) {
	far := time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name    string
		updated []time.Time
		want    []int
	}{
		{name: "zero, now, far future", updated: []time.Time{{}, base, far}, want: []int{2, 1, 0}},
		{name: "far future first", updated: []time.Time{far, {}, base}, want: []int{0, 2, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cs := make([]contacts.Contact, len(tc.updated))
			for i, u := range tc.updated {
				cs[i] = contact(contacts.StatusInvited, base, u)
			}
			got := Aggregate(cs, nil).Recent
			for i, idx := range tc.want {
				if got[i].ID != cs[idx].ID {
					t.Fatalf("position %d: got updated %v, want %v", i, got[i].UpdatedAt, cs[idx].UpdatedAt)
				}
			}
		})
	}
}

func TestWeekly(t *testing.T) {
	now := base
	cutoff := now.Add(-WeeklyWindow)
	old := cutoff.Add(-time.Second)

	cs := []contacts.Contact{
		contact(contacts.StatusInvited, cutoff, cutoff), // boundary counts
		contact(contacts.StatusInvited, old, old),
		contact(contacts.StatusShared1, old, now),
		contact(contacts.StatusShared3, old, now.Add(-time.Hour)),
		contact(contacts.StatusShared3, old, old),
		contact(contacts.StatusVideoCompleted, now, now),
	}
	ts := []testimonials.Testimonial{
		{ProcessingStatus: testimonials.ProcessingCompleted, CreatedAt: now},
		{ProcessingStatus: testimonials.ProcessingCompleted, CreatedAt: old},
		{ProcessingStatus: testimonials.ProcessingFailed, CreatedAt: now},
	}

	got := Weekly(cs, ts, now)
	want := WeeklyStats{NewContacts: 2, NewVideos: 1, NewShares: 2, NewAmbassadors: 1, TotalContacts: 6}
	if got != want {
		t.Fatalf("Weekly = %+v, want %+v", got, want)
	}

	if zero := Weekly(nil, nil, now); zero != (WeeklyStats{}) {
		t.Fatalf("expected zero stats, got %+v", zero)
	}
}
