// Package domain holds the testimonial entity and its processing lifecycle.
package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ProcessingStatus tracks transcription of an uploaded video.
type ProcessingStatus string

const (
	ProcessingPending    ProcessingStatus = "pending"
	ProcessingProcessing ProcessingStatus = "processing"
	ProcessingCompleted  ProcessingStatus = "completed"
	ProcessingFailed     ProcessingStatus = "failed"
)

var ErrUnknownProcessingStatus = errors.New("unknown processing status")

// ParseProcessingStatus validates a stored processing status.
func ParseProcessingStatus(value string) (ProcessingStatus, error) {
	switch ProcessingStatus(value) {
	case ProcessingPending, ProcessingProcessing, ProcessingCompleted, ProcessingFailed:
		return ProcessingStatus(value), nil
	}
	return "", ErrUnknownProcessingStatus
}

// Testimonial is the recorded video of one contact.
type Testimonial struct {
	ID               uuid.UUID
	OrganizationID   uuid.UUID
	ContactID        uuid.UUID
	VideoKey         *string
	ContentType      string
	Transcription    *string
	ReviewQuote      *string
	DurationSeconds  *int
	LinkedInShared   bool
	GoogleShared     bool
	TrustpilotShared bool
	LinkedInPost     *string
	ProcessingStatus ProcessingStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsCompleted reports whether the video has been fully processed.
func (t Testimonial) IsCompleted() bool {
	return t.ProcessingStatus == ProcessingCompleted
}

// HasVideo reports whether the stored object still exists.
func (t Testimonial) HasVideo() bool {
	return t.VideoKey != nil && *t.VideoKey != ""
}

// SharedCount is the number of platforms the testimonial was shared on.
func (t Testimonial) SharedCount() int {
	n := 0
	for _, shared := range []bool{t.LinkedInShared, t.GoogleShared, t.TrustpilotShared} {
		if shared {
			n++
		}
	}
	return n
}
