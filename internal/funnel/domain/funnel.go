// Package domain aggregates a tenant's contacts into funnel counts. All
// functions are pure and rescan the full input on every call.
package domain

import (
	"fmt"
	"slices"
	"time"

	contacts "testimonials_backend/internal/contacts/domain"
	testimonials "testimonials_backend/internal/testimonials/domain"

	"github.com/google/uuid"
)

const (
	// RecentLimit is the size of the recent activity feed.
	RecentLimit = 5
	// WeeklyWindow is the trailing window of the weekly stats.
	WeeklyWindow = 7 * 24 * time.Hour
)

// Bucket is a funnel stage grouping one or more statuses.
type Bucket string

const (
	BucketCreated    Bucket = "created"
	BucketInvited    Bucket = "invited"
	BucketLinkOpened Bucket = "link_opened"
	BucketVideo      Bucket = "video"
	BucketShared     Bucket = "shared"
)

// AllBuckets returns the buckets in funnel order.
func AllBuckets() []Bucket {
	return []Bucket{BucketCreated, BucketInvited, BucketLinkOpened, BucketVideo, BucketShared}
}

// BucketOf maps a status to its funnel stage. Panics on an unknown status.
func BucketOf(s contacts.Status) Bucket {
	switch s {
	case contacts.StatusCreated:
		return BucketCreated
	case contacts.StatusInvited:
		return BucketInvited
	case contacts.StatusLinkOpened:
		return BucketLinkOpened
	case contacts.StatusVideoStarted, contacts.StatusVideoCompleted:
		return BucketVideo
	case contacts.StatusShared1, contacts.StatusShared2, contacts.StatusShared3:
		return BucketShared
	}
	panic(fmt.Sprintf("funnel: unknown contact status %q", s))
}

// Buckets holds the count per funnel stage.
type Buckets struct {
	Created    int `json:"created"`
	Invited    int `json:"invited"`
	LinkOpened int `json:"linkOpened"`
	Video      int `json:"video"`
	Shared     int `json:"shared"`
}

// Count returns the count of b.
func (bs Buckets) Count(b Bucket) int {
	switch b {
	case BucketCreated:
		return bs.Created
	case BucketInvited:
		return bs.Invited
	case BucketLinkOpened:
		return bs.LinkOpened
	case BucketVideo:
		return bs.Video
	case BucketShared:
		return bs.Shared
	}
	panic(fmt.Sprintf("funnel: unknown bucket %q", b))
}

// Total is the sum of all buckets.
func (bs Buckets) Total() int {
	return bs.Created + bs.Invited + bs.LinkOpened + bs.Video + bs.Shared
}

func (bs *Buckets) add(b Bucket) {
	switch b {
	case BucketCreated:
		bs.Created++
	case BucketInvited:
		bs.Invited++
	case BucketLinkOpened:
		bs.LinkOpened++
	case BucketVideo:
		bs.Video++
	case BucketShared:
		bs.Shared++
	}
}

// Snapshot is the dashboard view of a tenant's funnel.
type Snapshot struct {
	TotalContacts         int
	CompletedTestimonials int
	Buckets               Buckets
	Recent                []contacts.Contact
}

// WeeklyStats counts funnel activity in the trailing week.
type WeeklyStats struct {
	NewContacts    int `json:"newContacts"`
	NewVideos      int `json:"newVideos"`
	NewShares      int `json:"newShares"`
	NewAmbassadors int `json:"newAmbassadors"`
	TotalContacts  int `json:"totalContacts"`
}

// Aggregate builds the funnel snapshot. Only testimonials of the given
// contacts are counted. Recent holds the most recently updated contacts,
// newest first; equal timestamps keep their input order.
func Aggregate(cs []contacts.Contact, ts []testimonials.Testimonial) Snapshot {
	snap := Snapshot{TotalContacts: len(cs), Recent: []contacts.Contact{}}

	known := make(map[uuid.UUID]struct{}, len(cs))
	for _, c := range cs {
		known[c.ID] = struct{}{}
		snap.Buckets.add(BucketOf(c.Status))
	}
	for _, t := range ts {
		if _, ok := known[t.ContactID]; ok && t.IsCompleted() {
			snap.CompletedTestimonials++
		}
	}

	recent := slices.Clone(cs)
	slices.SortStableFunc(recent, func(a, b contacts.Contact) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}
	snap.Recent = append(snap.Recent, recent...)
	return snap
}

// Weekly counts activity between now minus one week (inclusive) and now.
// New contacts and videos use creation time; shares and ambassadors use the
// contact's last update.
func Weekly(cs []contacts.Contact, ts []testimonials.Testimonial, now time.Time) WeeklyStats {
	cutoff := now.Add(-WeeklyWindow)
	inWindow := func(t time.Time) bool { return !t.Before(cutoff) }

	stats := WeeklyStats{TotalContacts: len(cs)}
	for _, c := range cs {
		if inWindow(c.CreatedAt) {
			stats.NewContacts++
		}
		if BucketOf(c.Status) == BucketShared && inWindow(c.UpdatedAt) {
			stats.NewShares++
			if c.Status.IsAmbassador() {
				stats.NewAmbassadors++
			}
		}
	}
	for _, t := range ts {
		if t.IsCompleted() && inWindow(t.CreatedAt) {
			stats.NewVideos++
		}
	}
	return stats
}
