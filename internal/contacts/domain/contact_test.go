package domain

import (
	"testing"
	"time"
)

func TestDueForReminder(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	after := 72 * time.Hour
	old := now.Add(-4 * 24 * time.Hour)
	recent := now.Add(-24 * time.Hour)
	unsubscribed := now.Add(-time.Hour)

	cases := []struct {
		name    string
		contact Contact
		want    bool
	}{
		{name: "invited long ago", contact: Contact{Status: StatusInvited, CreatedAt: old}, want: true},
		{name: "link opened long ago", contact: Contact{Status: StatusLinkOpened, CreatedAt: old}, want: true},
		{name: "invited recently", contact: Contact{Status: StatusInvited, CreatedAt: recent}, want: false},
		{name: "exactly at boundary", contact: Contact{Status: StatusInvited, CreatedAt: now.Add(-after)}, want: true},
		{name: "recent reminder", contact: Contact{Status: StatusInvited, CreatedAt: old, ReminderCount: 1, LastReminderAt: &recent}, want: false},
		{name: "old reminder", contact: Contact{Status: StatusInvited, CreatedAt: old, ReminderCount: 1, LastReminderAt: &old}, want: true},
		{name: "max reminders", contact: Contact{Status: StatusInvited, CreatedAt: old, ReminderCount: 2, LastReminderAt: &old}, want: false},
		{name: "unsubscribed", contact: Contact{Status: StatusInvited, CreatedAt: old, UnsubscribedAt: &unsubscribed}, want: false},
		{name: "already recording", contact: Contact{Status: StatusVideoStarted, CreatedAt: old}, want: false},
		{name: "created only", contact: Contact{Status: StatusCreated, CreatedAt: old}, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.contact.DueForReminder(now, after, 2); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestCaptionName(t *testing.T) {
	empty := ""
	override := "Ana from Acme"
	cases := []struct {
		name        string
		displayName *string
		want        string
	}{
		{name: "no override", displayName: nil, want: "Ana"},
		{name: "empty override", displayName: &empty, want: "Ana"},
		{name: "override", displayName: &override, want: override},
	}
	for _, tc := range cases {
		if got := CaptionName("Ana", tc.displayName); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}
