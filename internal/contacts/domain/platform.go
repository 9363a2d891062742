package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Platform is an external destination a contact can share a testimonial on.
type Platform string

const (
	// PlatformLinkedIn is the social network; sharing there publishes a caption.
	PlatformLinkedIn Platform = "linkedin"
	// PlatformGoogle is the Google review site.
	PlatformGoogle Platform = "google"
	// PlatformTrustpilot is the Trustpilot review site.
	PlatformTrustpilot Platform = "trustpilot"
)

// ErrUnknownPlatform is returned by ParsePlatform for unsupported destinations.
var ErrUnknownPlatform = errors.New("unknown share platform")

// AllPlatforms returns the supported share destinations.
func AllPlatforms() []Platform {
	return []Platform{PlatformLinkedIn, PlatformGoogle, PlatformTrustpilot}
}

// ParsePlatform reads a platform tag.
func ParsePlatform(value string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(value)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, value)
	}
	return p, nil
}

// Valid reports whether p is a supported destination.
func (p Platform) Valid() bool {
	switch p {
	case PlatformLinkedIn, PlatformGoogle, PlatformTrustpilot:
		return true
	}
	return false
}

// GeneratesCaption reports whether sharing on p publishes a generated post
// and records consent on the contact.
func (p Platform) GeneratesCaption() bool {
	return p == PlatformLinkedIn
}

func (p Platform) String() string {
	return string(p)
}
