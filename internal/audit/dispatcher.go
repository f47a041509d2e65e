package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/BruksfildServices01/bay-scheduler/internal/models"
)

const (
	ActionBookingCreated       = "booking_created"
	ActionBookingCancelled     = "booking_cancelled"
	ActionBookingStatusChanged = "booking_status_changed"
	ActionBookingBayAssigned   = "booking_bay_assigned"
	ActionBookingConflict      = "booking_conflict"
	ActionWorkingHoursUpdated  = "working_hours_updated"
	ActionBlockedDateCreated   = "blocked_date_created"
	ActionBlockedDateDeleted   = "blocked_date_deleted"
)

type Event struct {
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any

	// Booking is set for booking events, after the write committed.
	Booking *models.Booking
}

// Sink receives every dispatched event on the worker goroutine.
type Sink interface {
	Handle(ctx context.Context, ev Event) error
}

type SinkFunc func(ctx context.Context, ev Event) error

func (f SinkFunc) Handle(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

const sinkTimeout = 10 * time.Second

type Dispatcher struct {
	sinks []Sink
	queue chan Event
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sinks ...Sink) *Dispatcher {
	d := &Dispatcher{
		sinks: sinks,
		queue: make(chan Event, 100),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		for _, s := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
			if err := s.Handle(ctx, ev); err != nil {
				slog.Error("audit sink failed", "action", ev.Action, "error", err)
			}
			cancel()
		}
	}
}

// Dispatch never blocks: when the queue is full the event is dropped.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
	default:
		slog.Warn("audit queue full, dropping event", "action", ev.Action)
	}
}

// Close stops accepting events and waits until queued ones are handled.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	<-d.done
}
