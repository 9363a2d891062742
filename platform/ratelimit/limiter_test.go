package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, limit int) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, "test", limit, time.Minute), mr
}

func TestAllowBlocksAfterLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		decision, err := limiter.Allow(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("allow: %v", err)
		}
		if !decision.Allowed {
			t.Fatalf("hit %d should be allowed", i+1)
		}
		if decision.Remaining != int64(2-i) {
			t.Fatalf("hit %d: expected remaining %d, got %d", i+1, 2-i, decision.Remaining)
		}
	}

	decision, err := limiter.Allow(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if decision.Allowed {
		t.Fatal("fourth hit should be blocked")
	}
	if decision.Remaining != 0 {
		t.Fatalf("expected remaining 0, got %d", decision.Remaining)
	}
}

func TestAllowKeysAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1)
	ctx := context.Background()

	if d, _ := limiter.Allow(ctx, "a"); !d.Allowed {
		t.Fatal("first hit for a should be allowed")
	}
	if d, _ := limiter.Allow(ctx, "b"); !d.Allowed {
		t.Fatal("first hit for b should be allowed")
	}
	if d, _ := limiter.Allow(ctx, "a"); d.Allowed {
		t.Fatal("second hit for a should be blocked")
	}
}

func TestAllowResetsAfterWindow(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1)
	ctx := context.Background()

	if d, _ := limiter.Allow(ctx, "ip"); !d.Allowed {
		t.Fatal("first hit should be allowed")
	}
	if d, _ := limiter.Allow(ctx, "ip"); d.Allowed {
		t.Fatal("second hit should be blocked")
	}

	mr.FastForward(61 * time.Second)

	d, err := limiter.Allow(ctx, "ip")
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if !d.Allowed {
		t.Fatal("hit after window should be allowed")
	}
}

func TestAllowReturnsErrorWhenRedisDown(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1)
	mr.Close()

	if _, err := limiter.Allow(context.Background(), "ip"); err == nil {
		t.Fatal("expected error when redis is unavailable")
	}
}
