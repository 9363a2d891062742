package storage

import (
	"fmt"
	"strings"

	"testimonials_backend/platform/apperr"
)

// ObjectKind selects the upload rules for an object.
type ObjectKind string

const (
	KindVideo ObjectKind = "video"
	KindLogo  ObjectKind = "logo"
)

const maxLogoSize = 2 << 20

var allowedContentTypes = map[ObjectKind]map[string]string{
	KindVideo: {
		"video/mp4":       ".mp4",
		"video/webm":      ".webm",
		"video/quicktime": ".mov",
	},
	KindLogo: {
		"image/jpeg":    ".jpg",
		"image/png":     ".png",
		"image/webp":    ".webp",
		"image/svg+xml": ".svg",
	},
}

// NormalizeContentType lowercases and strips parameters such as codecs.
func NormalizeContentType(contentType string) string {
	normalized := strings.Split(contentType, ";")[0]
	return strings.TrimSpace(strings.ToLower(normalized))
}

// ExtensionFor returns the file extension for an allowed content type.
func ExtensionFor(kind ObjectKind, contentType string) (string, bool) {
	ext, ok := allowedContentTypes[kind][NormalizeContentType(contentType)]
	return ext, ok
}

// ValidateUpload checks the content type and size against the kind's rules.
// maxVideoSize bounds videos; logos have a fixed limit.
func ValidateUpload(kind ObjectKind, contentType string, sizeBytes, maxVideoSize int64) error {
	if _, ok := ExtensionFor(kind, contentType); !ok {
		return apperr.Validation(fmt.Sprintf("content type %q is not allowed for %s uploads", contentType, kind))
	}
	if sizeBytes <= 0 {
		return apperr.Validation("file size must be greater than 0")
	}

	limit := maxVideoSize
	if kind == KindLogo {
		limit = maxLogoSize
	}
	if sizeBytes > limit {
		return apperr.Validation(fmt.Sprintf("file size %d bytes exceeds maximum allowed size of %d bytes", sizeBytes, limit))
	}
	return nil
}

// AllowedContentTypes lists the accepted types for kind.
func AllowedContentTypes(kind ObjectKind) []string {
	types := make([]string, 0, len(allowedContentTypes[kind]))
	for ct := range allowedContentTypes[kind] {
		types = append(types, ct)
	}
	return types
}
