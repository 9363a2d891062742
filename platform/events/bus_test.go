package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type testEvent struct {
	BaseEvent
	name string
}

func (e testEvent) EventName() string { return e.name }

func TestPublishSyncJoinsErrors(t *testing.T) {
	bus := NewInMemoryBus(nil)
	errFirst := errors.New("first")
	errSecond := errors.New("second")
	calls := 0

	bus.Subscribe("contact.invited", HandlerFunc(func(ctx context.Context, event Event) error {
		calls++
		return errFirst
	}))
	bus.Subscribe("contact.invited", HandlerFunc(func(ctx context.Context, event Event) error {
		calls++
		return errSecond
	}))
	bus.Subscribe("other", HandlerFunc(func(ctx context.Context, event Event) error {
		t.Fatal("handler for other event must not run")
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "contact.invited"})
	if calls != 2 {
		t.Fatalf("expected 2 handler calls, got %d", calls)
	}
	if !errors.Is(err, errFirst) || !errors.Is(err, errSecond) {
		t.Fatalf("expected joined errors, got %v", err)
	}
}

func TestPublishRunsDetachedFromCallerCancellation(t *testing.T) {
	bus := NewInMemoryBus(nil)
	var wg sync.WaitGroup
	wg.Add(1)

	var handlerErr error
	bus.Subscribe("share.recorded", HandlerFunc(func(ctx context.Context, event Event) error {
		defer wg.Done()
		handlerErr = ctx.Err()
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(ctx, testEvent{BaseEvent: NewBaseEvent(), name: "share.recorded"})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not run")
	}

	if handlerErr != nil {
		t.Fatalf("handler context should not be canceled, got %v", handlerErr)
	}
}
