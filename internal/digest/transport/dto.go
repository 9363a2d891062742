package transport

import (
	"testimonials_backend/internal/digest/domain"
	funnel "testimonials_backend/internal/funnel/domain"
)

// PreviewResponse is the digest content for the current week.
type PreviewResponse struct {
	Stats          funnel.WeeklyStats    `json:"stats"`
	Usage          domain.PlanUsage      `json:"usage"`
	Recommendation domain.Recommendation `json:"recommendation"`
}
