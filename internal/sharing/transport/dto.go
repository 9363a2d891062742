package transport

import "testimonials_backend/internal/contacts/domain"

// ShareRequest confirms that the contact shared their testimonial.
type ShareRequest struct {
	Platform    string  `json:"platform" validate:"required,share_platform"`
	Locale      string  `json:"locale,omitempty" validate:"omitempty,max=35"`
	DisplayName *string `json:"displayName,omitempty" validate:"omitempty,max=100"`
}

// ShareResponse reports the contact status after a share attempt. On failure
// Status is the status before the attempt.
type ShareResponse struct {
	Success        bool               `json:"success"`
	PreviousStatus *domain.StatusView `json:"previousStatus,omitempty"`
	Status         *domain.StatusView `json:"status,omitempty"`
	Caption        *string            `json:"caption,omitempty"`
	Error          string             `json:"error,omitempty"`
}

// CaptionPreviewRequest selects the caption language.
type CaptionPreviewRequest struct {
	Locale string `form:"locale" validate:"omitempty,max=35"`
}

// CaptionPreviewResponse carries a generated caption.
type CaptionPreviewResponse struct {
	Caption string `json:"caption"`
	Locale  string `json:"locale,omitempty"`
}
