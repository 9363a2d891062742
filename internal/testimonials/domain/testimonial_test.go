package domain

import "testing"

func TestParseProcessingStatus(t *testing.T) {
	for _, value := range []string{"pending", "processing", "completed", "failed"} {
		if _, err := ParseProcessingStatus(value); err != nil {
			t.Fatalf("%s: unexpected error %v", value, err)
		}
	}
	if _, err := ParseProcessingStatus("done"); err != ErrUnknownProcessingStatus {
		t.Fatalf("expected ErrUnknownProcessingStatus, got %v", err)
	}
}

func TestTestimonialHelpers(t *testing.T) {
	key := "org/contact/video.webm"
	empty := ""

	tm := Testimonial{ProcessingStatus: ProcessingCompleted, VideoKey: &key, GoogleShared: true, LinkedInShared: true}
	if !tm.IsCompleted() || !tm.HasVideo() {
		t.Fatal("expected completed testimonial with video")
	}
	if tm.SharedCount() != 2 {
		t.Fatalf("expected 2 shares, got %d", tm.SharedCount())
	}

	tm = Testimonial{ProcessingStatus: ProcessingFailed, VideoKey: &empty}
	if tm.IsCompleted() || tm.HasVideo() {
		t.Fatal("failed testimonial without key must not count")
	}
}
