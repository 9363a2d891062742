package bootstrap

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"testimonials_backend/platform/logger"
)

func TestWithRetry(t *testing.T) {
	log := logger.NewWithWriter("test", io.Discard)

	cases := []struct {
		name      string
		attempts  int
		failFirst int
		wantCalls int
		wantErr   bool
	}{
		{name: "first try", attempts: 3, failFirst: 0, wantCalls: 1},
		{name: "recovers", attempts: 3, failFirst: 2, wantCalls: 3},
		{name: "gives up", attempts: 2, failFirst: 5, wantCalls: 2, wantErr: true},
		{name: "invalid attempts", attempts: 0, wantCalls: 0, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			err := WithRetry(context.Background(), log, "op", tc.attempts, time.Millisecond, func() error {
				calls++
				if calls <= tc.failFirst {
					return errors.New("boom")
				}
				return nil
			})
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if calls != tc.wantCalls {
				t.Fatalf("calls = %d, want %d", calls, tc.wantCalls)
			}
		})
	}
}

func TestWithRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := WithRetry(ctx, logger.NewWithWriter("test", io.Discard), "op", 5, time.Hour, func() error {
		calls++
		cancel()
		return errors.New("boom")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}
