package domain

import (
	"errors"
	"testing"
)

func TestDisplayConfigCoversEveryStatus(t *testing.T) {
	seenOrders := make(map[int]Status)
	for i, s := range AllStatuses() {
		cfg := DisplayConfig(s)
		if cfg.Order != i {
			t.Fatalf("%s: expected order %d, got %d", s, i, cfg.Order)
		}
		if cfg.Label == "" {
			t.Fatalf("%s: empty label", s)
		}
		switch cfg.Category {
		case CategoryNeutral, CategoryInformational, CategoryInProgress, CategorySuccess:
		default:
			t.Fatalf("%s: unexpected category %q", s, cfg.Category)
		}
		if prev, ok := seenOrders[cfg.Order]; ok {
			t.Fatalf("%s and %s share order %d", prev, s, cfg.Order)
		}
		seenOrders[cfg.Order] = s

		if again := DisplayConfig(s); again != cfg {
			t.Fatalf("%s: display config not stable: %+v vs %+v", s, cfg, again)
		}
	}
	if len(seenOrders) != 8 {
		t.Fatalf("expected 8 statuses, got %d", len(seenOrders))
	}
}

func TestDisplayConfigPanicsOnUnknownStatus(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown status")
		}
	}()
	DisplayConfig(Status("archived"))
}

func TestProgressPercentIsMonotonic(t *testing.T) {
	prev := -1
	for _, s := range AllStatuses() {
		p := ProgressPercent(s)
		if p < 0 || p > 100 {
			t.Fatalf("%s: progress %d out of range", s, p)
		}
		if p <= prev {
			t.Fatalf("%s: progress %d not above previous %d", s, p, prev)
		}
		prev = p
	}
	if ProgressPercent(StatusCreated) != 0 || ProgressPercent(StatusShared3) != 100 {
		t.Fatal("progress must span 0 to 100")
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" Video_Completed ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s != StatusVideoCompleted {
		t.Fatalf("expected video_completed, got %s", s)
	}

	if _, err := ParseStatus("deleted"); !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}
}

func TestParsePlatform(t *testing.T) {
	for _, p := range AllPlatforms() {
		got, err := ParsePlatform(string(p))
		if err != nil || got != p {
			t.Fatalf("ParsePlatform(%q) = %q, %v", p, got, err)
		}
	}
	if _, err := ParsePlatform("myspace"); !errors.Is(err, ErrUnknownPlatform) {
		t.Fatalf("expected ErrUnknownPlatform, got %v", err)
	}
	if !PlatformLinkedIn.GeneratesCaption() || PlatformGoogle.GeneratesCaption() || PlatformTrustpilot.GeneratesCaption() {
		t.Fatal("only linkedin generates a caption")
	}
}

func TestAllStatusViews(t *testing.T) {
	views := AllStatusViews()
	if len(views) != len(AllStatuses()) {
		t.Fatalf("expected %d views, got %d", len(AllStatuses()), len(views))
	}
	last := views[len(views)-1]
	if last.Status != StatusShared3 || last.Label != "Ambassador" || last.Progress != 100 {
		t.Fatalf("unexpected terminal view %+v", last)
	}
}
