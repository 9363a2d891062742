package transport

import (
	"time"

	"github.com/google/uuid"
)

// UploadURLRequest asks for a presigned PUT URL for the recording.
type UploadURLRequest struct {
	ContentType string `json:"contentType" validate:"required,max=100"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,gt=0"`
}

// UploadURLResponse carries the presigned upload target.
type UploadURLResponse struct {
	UploadURL string    `json:"uploadUrl"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CompleteUploadRequest confirms a finished upload.
type CompleteUploadRequest struct {
	FileKey         string `json:"fileKey" validate:"required,max=500"`
	ContentType     string `json:"contentType" validate:"required,max=100"`
	DurationSeconds *int   `json:"durationSeconds,omitempty" validate:"omitempty,min=1,max=3600"`
}

// RecordingStateResponse is returned by the public recording endpoints.
type RecordingStateResponse struct {
	ContactID     uuid.UUID  `json:"contactId"`
	Status        string     `json:"status"`
	TestimonialID *uuid.UUID `json:"testimonialId,omitempty"`
}

// UpdateQuoteRequest edits the display quote of a testimonial.
type UpdateQuoteRequest struct {
	Quote  string `json:"quote" validate:"max=2000"`
	Locale string `json:"locale,omitempty" validate:"omitempty,bcp47"`
}

// ListTestimonialsRequest filters the operator list.
type ListTestimonialsRequest struct {
	ProcessingStatus string `form:"processingStatus" validate:"omitempty,oneof=pending processing completed failed"`
	Page             int    `form:"page" validate:"omitempty,min=1"`
	PageSize         int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// TestimonialResponse is the operator view of a testimonial.
type TestimonialResponse struct {
	ID               uuid.UUID `json:"id"`
	ContactID        uuid.UUID `json:"contactId"`
	ContentType      string    `json:"contentType"`
	Transcription    *string   `json:"transcription,omitempty"`
	ReviewQuote      *string   `json:"reviewQuote,omitempty"`
	DurationSeconds  *int      `json:"durationSeconds,omitempty"`
	LinkedInShared   bool      `json:"linkedinShared"`
	GoogleShared     bool      `json:"googleShared"`
	TrustpilotShared bool      `json:"trustpilotShared"`
	LinkedInPost     *string   `json:"linkedinPost,omitempty"`
	ProcessingStatus string    `json:"processingStatus"`
	VideoURL         *string   `json:"videoUrl,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// TestimonialListResponse is a page of testimonials.
type TestimonialListResponse struct {
	Items    []TestimonialResponse `json:"items"`
	Total    int                   `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"pageSize"`
}

// WidgetTestimonial is the public embed view of a testimonial.
type WidgetTestimonial struct {
	ID              uuid.UUID `json:"id"`
	ReviewQuote     *string   `json:"reviewQuote,omitempty"`
	DurationSeconds *int      `json:"durationSeconds,omitempty"`
	VideoURL        string    `json:"videoUrl"`
	CreatedAt       time.Time `json:"createdAt"`
}

// WidgetResponse lists an organization's published testimonials.
type WidgetResponse struct {
	Items []WidgetTestimonial `json:"items"`
}
