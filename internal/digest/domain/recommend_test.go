package domain

import (
	"strings"
	"testing"

	funnel "testimonials_backend/internal/funnel/domain"
)

const baseURL = "https://app.example.com/"

func TestRecommendPriority(t *testing.T) {
	tests := []struct {
		name  string
		stats funnel.WeeklyStats
		usage PlanUsage
		want  Type
	}{
		{
			name:  "no contacts wins over everything",
			stats: funnel.WeeklyStats{TotalContacts: 0, NewVideos: 0},
			usage: PlanUsage{VideosUsed: 10, VideosLimit: 10},
			want:  TypeAddContacts,
		},
		{
			name:  "no new videos",
			stats: funnel.WeeklyStats{TotalContacts: 4},
			usage: PlanUsage{VideosUsed: 10, VideosLimit: 10},
			want:  TypeSendReminders,
		},
		{
			name:  "videos but no shares",
			stats: funnel.WeeklyStats{TotalContacts: 4, NewVideos: 2, NewAmbassadors: 1},
			usage: PlanUsage{VideosUsed: 10, VideosLimit: 10},
			want:  TypeUseVideos,
		},
		{
			name:  "at plan limit",
			stats: funnel.WeeklyStats{TotalContacts: 4, NewVideos: 2, NewShares: 1, NewAmbassadors: 1},
			usage: PlanUsage{VideosUsed: 11, VideosLimit: 10},
			want:  TypeUpgrade,
		},
		{
			name:  "unlimited plan never upgrades",
			stats: funnel.WeeklyStats{TotalContacts: 4, NewVideos: 2, NewShares: 1, NewAmbassadors: 2},
			usage: PlanUsage{VideosUsed: 500, VideosLimit: 0},
			want:  TypeCelebrate,
		},
		{
			name:  "new ambassador",
			stats: funnel.WeeklyStats{TotalContacts: 4, NewVideos: 2, NewShares: 1, NewAmbassadors: 1},
			usage: PlanUsage{VideosUsed: 3, VideosLimit: 10},
			want:  TypeCelebrate,
		},
		{
			name:  "otherwise keep going",
			stats: funnel.WeeklyStats{TotalContacts: 4, NewVideos: 2, NewShares: 1},
			usage: PlanUsage{VideosUsed: 3, VideosLimit: 10},
			want:  TypeKeepGoing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recommend(tt.stats, tt.usage, baseURL)
			if got.Type != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got.Type)
			}
			if got.Title == "" || got.Description == "" || got.CTA.Label == "" {
				t.Fatalf("incomplete recommendation %+v", got)
			}
			if !strings.HasPrefix(got.CTA.URL, "https://app.example.com/") || strings.Contains(got.CTA.URL, ".com//") {
				t.Fatalf("unexpected CTA url %q", got.CTA.URL)
			}
		})
	}
}

func TestRecommendCelebratePluralization(t *testing.T) {
	stats := funnel.WeeklyStats{TotalContacts: 5, NewVideos: 1, NewShares: 3}

	stats.NewAmbassadors = 1
	if got := Recommend(stats, PlanUsage{}, baseURL).Title; got != "1 new ambassador this week" {
		t.Fatalf("unexpected singular title %q", got)
	}

	stats.NewAmbassadors = 3
	if got := Recommend(stats, PlanUsage{}, baseURL).Title; got != "3 new ambassadors this week" {
		t.Fatalf("unexpected plural title %q", got)
	}
}

func TestPlanUsageAtLimit(t *testing.T) {
	tests := []struct {
		usage PlanUsage
		want  bool
	}{
		{PlanUsage{VideosUsed: 0, VideosLimit: 0}, false},
		{PlanUsage{VideosUsed: 9, VideosLimit: -1}, false},
		{PlanUsage{VideosUsed: 4, VideosLimit: 5}, false},
		{PlanUsage{VideosUsed: 5, VideosLimit: 5}, true},
	}
	for _, tt := range tests {
		if got := tt.usage.AtLimit(); got != tt.want {
			t.Fatalf("%+v: expected %v, got %v", tt.usage, tt.want, got)
		}
	}
}
