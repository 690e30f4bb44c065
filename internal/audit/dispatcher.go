package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Event struct {
	BusinessID uint
	StaffID    *uint
	Action     string
	Entity     string
	EntityID   string
	Metadata   any
	At         time.Time
}

// Sink receives dispatched events. Sinks run on the dispatcher worker, one
// event at a time.
type Sink interface {
	Write(ctx context.Context, ev Event) error
}

type SinkFunc func(ctx context.Context, ev Event) error

func (f SinkFunc) Write(ctx context.Context, ev Event) error { return f(ctx, ev) }

const defaultQueueSize = 100

// Dispatcher fans events out to sinks off the request path. A full queue
// drops the event; audit never fails or slows a request.
type Dispatcher struct {
	logger *zap.Logger
	sinks  []Sink
	queue  chan Event

	closeOnce sync.Once
	done      chan struct{}
	now       func() time.Time
}

func NewDispatcher(logger *zap.Logger, queueSize int, sinks ...Sink) *Dispatcher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	d := &Dispatcher{
		logger: logger,
		sinks:  sinks,
		queue:  make(chan Event, queueSize),
		done:   make(chan struct{}),
		now:    time.Now,
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		for _, s := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := s.Write(ctx, ev); err != nil {
				d.logger.Warn("audit sink failed",
					zap.String("action", ev.Action),
					zap.String("entity_id", ev.EntityID),
					zap.Error(err),
				)
			}
			cancel()
		}
	}
}

// Dispatch enqueues ev. It never blocks. Safe on a nil Dispatcher.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = d.now()
	}
	defer func() {
		// dispatch after Close
		if recover() != nil {
			d.logger.Warn("audit dispatcher closed, dropping event", zap.String("action", ev.Action))
		}
	}()

	select {
	case d.queue <- ev:
	default:
		d.logger.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close stops accepting events and waits for the queue to drain or ctx
// to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.closeOnce.Do(func() { close(d.queue) })
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
