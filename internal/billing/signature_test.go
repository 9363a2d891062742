package billing

import (
	"strings"
	"testing"
	"time"
)

func TestVerifySignature(t *testing.T) {
	now := time.Unix(1_760_000_000, 0)
	body := []byte(`{"id":"evt_1","type":"subscription.updated"}`)
	valid := Sign("whsec", now, body)

	tests := []struct {
		name   string
		header string
		body   []byte
		at     time.Time
		want   error
	}{
		{"valid", valid, body, now, nil},
		{"valid within tolerance", valid, body, now.Add(4 * time.Minute), nil},
		{"rotated secret", valid + ",v1=" + strings.Repeat("ab", 32), body, now, nil},
		{"missing", "", body, now, ErrMissingSignature},
		{"no timestamp", "v1=abcd", body, now, ErrMalformedHeader},
		{"no signature", "t=1760000000", body, now, ErrMalformedHeader},
		{"bad hex", "t=1760000000,v1=zz", body, now, ErrMalformedHeader},
		{"stale", valid, body, now.Add(6 * time.Minute), ErrStaleSignature},
		{"future", valid, body, now.Add(-6 * time.Minute), ErrStaleSignature},
		{"tampered body", valid, []byte(`{"id":"evt_2"}`), now, ErrSignatureInvalid},
		{"other secret", Sign("other", now, body), body, now, ErrSignatureInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := VerifySignature("whsec", tt.header, tt.body, tt.at); err != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
