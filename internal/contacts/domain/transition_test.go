package domain

import "testing"

func TestNextAfterShareIsTotal(t *testing.T) {
	for _, s := range AllStatuses() {
		next := NextAfterShare(s)
		if !next.Valid() {
			t.Fatalf("%s: produced invalid status %q", s, next)
		}
		diff := next.Rank() - s.Rank()
		if diff != 0 && diff != 1 {
			t.Fatalf("%s -> %s: must stay or move exactly one step", s, next)
		}
	}
}

func TestNextAfterShareSequence(t *testing.T) {
	s := StatusVideoCompleted
	want := []Status{StatusShared1, StatusShared2, StatusShared3, StatusShared3}
	for i, expected := range want {
		s = NextAfterShare(s)
		if s != expected {
			t.Fatalf("share %d: expected %s, got %s", i+1, expected, s)
		}
	}
}

func TestNextAfterShareBeforeCompletionIsNoop(t *testing.T) {
	for _, s := range []Status{StatusCreated, StatusInvited, StatusLinkOpened, StatusVideoStarted} {
		if got := NextAfterShare(s); got != s {
			t.Fatalf("%s: expected unchanged, got %s", s, got)
		}
		if CanShare(s) {
			t.Fatalf("%s: share must not be recorded", s)
		}
	}
}

func TestCanShareFromCompletedOnward(t *testing.T) {
	for _, s := range []Status{StatusVideoCompleted, StatusShared1, StatusShared2, StatusShared3} {
		if !CanShare(s) {
			t.Fatalf("%s: share must be recorded", s)
		}
	}
}

func TestNextAfterLinkOpened(t *testing.T) {
	cases := []struct {
		from Status
		want Status
	}{
		{StatusCreated, StatusLinkOpened},
		{StatusInvited, StatusLinkOpened},
		{StatusLinkOpened, StatusLinkOpened},
		{StatusVideoCompleted, StatusVideoCompleted},
		{StatusShared2, StatusShared2},
	}
	for _, tc := range cases {
		if got := NextAfterLinkOpened(tc.from); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.from, tc.want, got)
		}
	}
}

func TestStatusesBefore(t *testing.T) {
	got := StatusesBefore(StatusVideoStarted)
	want := []Status{StatusCreated, StatusInvited, StatusLinkOpened}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if len(StatusesBefore(StatusCreated)) != 0 {
		t.Fatal("nothing precedes created")
	}
}
