package token

import (
	"net/url"
	"testing"
)

func TestNew(t *testing.T) {
	a, err := New(32)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, _ := New(32)
	if a == b {
		t.Fatal("two tokens are equal")
	}
	if len(a) != 43 {
		t.Fatalf("len = %d, want 43", len(a))
	}
	if url.PathEscape(a) != a {
		t.Fatalf("token %q is not path safe", a)
	}
}

func TestNewRejectsBadSize(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Fatal("expected error for zero size")
	}
}

func TestHash(t *testing.T) {
	// sha256("abc")
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := Hash("abc"); got != want {
		t.Fatalf("Hash = %s", got)
	}
}
