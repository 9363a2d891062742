// Package domain picks the next action suggested in the weekly digest.
package domain

import (
	"fmt"
	"strings"

	funnel "testimonials_backend/internal/funnel/domain"
)

// Type tags a recommendation.
type Type string

const (
	TypeAddContacts   Type = "add_contacts"
	TypeSendReminders Type = "send_reminders"
	TypeUseVideos     Type = "use_videos"
	TypeUpgrade       Type = "upgrade"
	TypeCelebrate     Type = "celebrate"
	TypeKeepGoing     Type = "keep_going"
)

// PlanUsage is the organization's video consumption for the current period.
// A VideosLimit of zero or less means the plan is unlimited.
type PlanUsage struct {
	VideosUsed  int `json:"videosUsed"`
	VideosLimit int `json:"videosLimit"`
}

// AtLimit reports whether a limited plan has no videos left.
func (u PlanUsage) AtLimit() bool {
	return u.VideosLimit > 0 && u.VideosUsed >= u.VideosLimit
}

// CTA is the call to action of a recommendation.
type CTA struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Recommendation is the single suggested next action.
type Recommendation struct {
	Type        Type   `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CTA         CTA    `json:"cta"`
}

const (
	pathContacts  = "/contacts"
	pathWidget    = "/settings/widget"
	pathBilling   = "/settings/billing"
	pathDashboard = "/dashboard"
)

// Recommend evaluates the rules in priority order and returns the first match.
func Recommend(stats funnel.WeeklyStats, usage PlanUsage, baseURL string) Recommendation {
	base := strings.TrimRight(baseURL, "/")

	switch {
	case stats.TotalContacts == 0:
		return Recommendation{
			Type:        TypeAddContacts,
			Title:       "Add your first contacts",
			Description: "Invite happy customers to record a short video testimonial.",
			CTA:         CTA{Label: "Add contacts", URL: base + pathContacts},
		}
	case stats.NewVideos == 0:
		return Recommendation{
			Type:        TypeSendReminders,
			Title:       "Nudge your contacts",
			Description: "No new videos came in this week. A friendly reminder often does the trick.",
			CTA:         CTA{Label: "Send reminders", URL: base + pathContacts + "?status=invited"},
		}
	case stats.NewShares == 0:
		return Recommendation{
			Type:        TypeUseVideos,
			Title:       "Put your videos to work",
			Description: "Install the testimonial widget on your website so visitors see what your customers say.",
			CTA:         CTA{Label: "Set up the widget", URL: base + pathWidget},
		}
	case usage.AtLimit():
		return Recommendation{
			Type:  TypeUpgrade,
			Title: "You reached your video limit",
			Description: fmt.Sprintf("You used %d of %d videos this month. Upgrade to keep collecting testimonials.",
				usage.VideosUsed, usage.VideosLimit),
			CTA: CTA{Label: "Upgrade plan", URL: base + pathBilling},
		}
	case stats.NewAmbassadors > 0:
		return Recommendation{
			Type:        TypeCelebrate,
			Title:       celebrateTitle(stats.NewAmbassadors),
			Description: "Customers who shared on every platform are your best advocates. Say thank you!",
			CTA:         CTA{Label: "View ambassadors", URL: base + pathContacts + "?status=shared_3"},
		}
	default:
		return Recommendation{
			Type:        TypeKeepGoing,
			Title:       "Keep going",
			Description: "Your testimonial funnel is moving. Keep inviting customers to grow it further.",
			CTA:         CTA{Label: "Open dashboard", URL: base + pathDashboard},
		}
	}
}

func celebrateTitle(n int) string {
	if n == 1 {
		return "1 new ambassador this week"
	}
	return fmt.Sprintf("%d new ambassadors this week", n)
}
