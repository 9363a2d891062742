package storage

import (
	"testing"

	"testimonials_backend/platform/apperr"
)

func TestValidateUpload(t *testing.T) {
	const maxVideo = 100 << 20

	cases := []struct {
		name        string
		kind        ObjectKind
		contentType string
		size        int64
		wantErr     bool
	}{
		{name: "webm with codecs", kind: KindVideo, contentType: "video/webm;codecs=vp9,opus", size: 10 << 20},
		{name: "mp4", kind: KindVideo, contentType: "VIDEO/MP4", size: 1},
		{name: "video too large", kind: KindVideo, contentType: "video/mp4", size: maxVideo + 1, wantErr: true},
		{name: "image as video", kind: KindVideo, contentType: "image/png", size: 10, wantErr: true},
		{name: "empty", kind: KindVideo, contentType: "video/mp4", size: 0, wantErr: true},
		{name: "logo png", kind: KindLogo, contentType: "image/png", size: 1 << 20},
		{name: "logo too large", kind: KindLogo, contentType: "image/png", size: 3 << 20, wantErr: true},
		{name: "video as logo", kind: KindLogo, contentType: "video/mp4", size: 10, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateUpload(tc.kind, tc.contentType, tc.size, maxVideo)
			if tc.wantErr {
				if !apperr.Is(err, apperr.KindValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestExtensionFor(t *testing.T) {
	ext, ok := ExtensionFor(KindVideo, "video/quicktime")
	if !ok || ext != ".mov" {
		t.Fatalf("expected .mov, got %q (%v)", ext, ok)
	}
	if _, ok := ExtensionFor(KindLogo, "application/pdf"); ok {
		t.Fatal("pdf must not be accepted as logo")
	}
}
