package domain

import "fmt"

// Category is the visual family a status is rendered in.
type Category string

const (
	CategoryNeutral       Category = "neutral"
	CategoryInformational Category = "informational"
	CategoryInProgress    Category = "in-progress"
	CategorySuccess       Category = "success"
)

// StatusDisplay is the presentation metadata of a status.
type StatusDisplay struct {
	Label    string   `json:"label"`
	Category Category `json:"category"`
	Order    int      `json:"order"`
}

// DisplayConfig returns the label, category and funnel rank of s.
// Calling it with a value outside the enum is a programming error and panics.
func DisplayConfig(s Status) StatusDisplay {
	switch s {
	case StatusCreated:
		return StatusDisplay{Label: "Created", Category: CategoryNeutral, Order: 0}
	case StatusInvited:
		return StatusDisplay{Label: "Invited", Category: CategoryInformational, Order: 1}
	case StatusLinkOpened:
		return StatusDisplay{Label: "Link opened", Category: CategoryInformational, Order: 2}
	case StatusVideoStarted:
		return StatusDisplay{Label: "Recording", Category: CategoryInProgress, Order: 3}
	case StatusVideoCompleted:
		return StatusDisplay{Label: "Video received", Category: CategorySuccess, Order: 4}
	case StatusShared1:
		return StatusDisplay{Label: "Shared once", Category: CategorySuccess, Order: 5}
	case StatusShared2:
		return StatusDisplay{Label: "Shared twice", Category: CategorySuccess, Order: 6}
	case StatusShared3:
		return StatusDisplay{Label: "Ambassador", Category: CategorySuccess, Order: 7}
	}
	panic(fmt.Sprintf("contacts/domain: display config for unknown status %q", string(s)))
}

// ProgressPercent is the completion percentage shown on progress bars.
// Panics on an unknown status.
func ProgressPercent(s Status) int {
	switch s {
	case StatusCreated:
		return 0
	case StatusInvited:
		return 10
	case StatusLinkOpened:
		return 25
	case StatusVideoStarted:
		return 40
	case StatusVideoCompleted:
		return 60
	case StatusShared1:
		return 75
	case StatusShared2:
		return 90
	case StatusShared3:
		return 100
	}
	panic(fmt.Sprintf("contacts/domain: progress for unknown status %q", string(s)))
}

// StatusView bundles a status with its display metadata for API responses.
type StatusView struct {
	Status   Status   `json:"status"`
	Label    string   `json:"label"`
	Category Category `json:"category"`
	Order    int      `json:"order"`
	Progress int      `json:"progress"`
}

// ViewOf builds the API view of s.
func ViewOf(s Status) StatusView {
	cfg := DisplayConfig(s)
	return StatusView{
		Status:   s,
		Label:    cfg.Label,
		Category: cfg.Category,
		Order:    cfg.Order,
		Progress: ProgressPercent(s),
	}
}

// AllStatusViews lists every status in funnel order.
func AllStatusViews() []StatusView {
	statuses := AllStatuses()
	views := make([]StatusView, 0, len(statuses))
	for _, s := range statuses {
		views = append(views, ViewOf(s))
	}
	return views
}
