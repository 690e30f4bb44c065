package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingSink) Write(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func TestDispatcher_DrainsOnClose(t *testing.T) {
	sink := &recordingSink{}
	failing := SinkFunc(func(context.Context, Event) error { return errors.New("down") })
	d := NewDispatcher(zap.NewNop(), 10, failing, sink)

	for i := 0; i < 5; i++ {
		d.Dispatch(Event{BusinessID: 1, Action: "appointment_created"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	if len(sink.events) != 5 {
		t.Fatalf("expected 5 events after a failing sink, got %d", len(sink.events))
	}
	if sink.events[0].At.IsZero() {
		t.Fatal("dispatch should stamp the event time")
	}

	// after close, dispatch is a no-op
	d.Dispatch(Event{Action: "late"})
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	release := make(chan struct{})
	blocking := SinkFunc(func(context.Context, Event) error {
		<-release
		return nil
	})
	d := NewDispatcher(zap.NewNop(), 1, blocking)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			d.Dispatch(Event{Action: "x"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatch blocked on a full queue")
	}
	close(release)
	_ = d.Close(context.Background())
}

func TestDispatcher_NilIsNoop(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(Event{Action: "x"})
}
