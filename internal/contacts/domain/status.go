// Package domain provides the contact lifecycle rules for the contacts
// bounded context. Everything here is pure and safe for concurrent use.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Status is a contact's position in the testimonial funnel.
type Status string

const (
	StatusCreated        Status = "created"
	StatusInvited        Status = "invited"
	StatusLinkOpened     Status = "link_opened"
	StatusVideoStarted   Status = "video_started"
	StatusVideoCompleted Status = "video_completed"
	StatusShared1        Status = "shared_1"
	StatusShared2        Status = "shared_2"
	StatusShared3        Status = "shared_3"
)

// ErrUnknownStatus is returned by ParseStatus for values outside the funnel.
var ErrUnknownStatus = errors.New("unknown contact status")

// AllStatuses returns every status in funnel order.
func AllStatuses() []Status {
	return []Status{
		StatusCreated,
		StatusInvited,
		StatusLinkOpened,
		StatusVideoStarted,
		StatusVideoCompleted,
		StatusShared1,
		StatusShared2,
		StatusShared3,
	}
}

// ParseStatus reads a stored or user-supplied status.
func ParseStatus(value string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(value)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, value)
	}
	return s, nil
}

// Valid reports whether s is one of the eight funnel statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusCreated, StatusInvited, StatusLinkOpened, StatusVideoStarted,
		StatusVideoCompleted, StatusShared1, StatusShared2, StatusShared3:
		return true
	}
	return false
}

// Rank is the zero-based funnel position. Panics on an unknown status.
func (s Status) Rank() int {
	return DisplayConfig(s).Order
}

// AtLeast reports whether s is at or beyond other in the funnel.
func (s Status) AtLeast(other Status) bool {
	return s.Rank() >= other.Rank()
}

// IsAmbassador reports whether s is the terminal status.
func (s Status) IsAmbassador() bool {
	return s == StatusShared3
}

func (s Status) String() string {
	return string(s)
}
