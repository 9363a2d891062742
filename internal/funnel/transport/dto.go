package transport

import (
	"time"

	contacts "testimonials_backend/internal/contacts/domain"
	"testimonials_backend/internal/funnel/domain"

	"github.com/google/uuid"
)

// BucketResponse is one funnel stage.
type BucketResponse struct {
	Key   domain.Bucket `json:"key"`
	Count int           `json:"count"`
}

// RecentContactResponse is an entry of the activity feed.
type RecentContactResponse struct {
	ID          uuid.UUID           `json:"id"`
	FirstName   string              `json:"firstName"`
	CompanyName string              `json:"companyName"`
	Status      contacts.StatusView `json:"status"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// DashboardResponse is the funnel dashboard.
type DashboardResponse struct {
	TotalContacts         int                     `json:"totalContacts"`
	CompletedTestimonials int                     `json:"completedTestimonials"`
	Buckets               []BucketResponse        `json:"buckets"`
	Recent                []RecentContactResponse `json:"recent"`
	Weekly                domain.WeeklyStats      `json:"weekly"`
}
