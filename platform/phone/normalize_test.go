package phone

import (
	"errors"
	"testing"
)

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		input  string
		region string
		want   string
	}{
		{input: "+31 6 12345678", region: "", want: "+31612345678"},
		{input: "06-12345678", region: "NL", want: "+31612345678"},
		{input: "(415) 555-2671", region: "us", want: "+14155552671"},
	}
	for _, tc := range cases {
		got, err := NormalizeE164(tc.input, tc.region)
		if err != nil {
			t.Fatalf("NormalizeE164(%q): %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("NormalizeE164(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestNormalizeE164Invalid(t *testing.T) {
	for _, input := range []string{"", "abc", "+1 123"} {
		if _, err := NormalizeE164(input, "US"); !errors.Is(err, ErrInvalidNumber) {
			t.Fatalf("expected ErrInvalidNumber for %q, got %v", input, err)
		}
	}
}

func TestNormalizeOptional(t *testing.T) {
	blank := "   "
	got, err := NormalizeOptional(&blank, "US")
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil for blank input, got %v, %v", got, err)
	}
}
