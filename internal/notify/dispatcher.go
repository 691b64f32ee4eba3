package notify

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Enqueuer is what state-changing services depend on.
type Enqueuer interface {
	Enqueue(ctx context.Context, event Event)
}

type Sink interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

const (
	defaultQueueSize   = 256
	defaultMaxAttempts = 3
	defaultRetryDelay  = time.Second
)

// Dispatcher delivers events to a Sink from a single background loop. Enqueue
// never blocks; delivery failures are retried and then logged, never
// propagated to the caller.
type Dispatcher struct {
	sink        Sink
	topic       string
	log         *logrus.Entry
	maxAttempts int
	retryDelay  time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan Event
}

type DispatcherOption func(*Dispatcher)

func WithQueueSize(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queue = make(chan Event, n)
		}
	}
}

func WithMaxAttempts(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxAttempts = n
		}
	}
}

func WithRetryDelay(delay time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		d.retryDelay = delay
	}
}

func NewDispatcher(sink Sink, topic string, log *logrus.Entry, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		sink:        sink,
		topic:       topic,
		log:         log,
		maxAttempts: defaultMaxAttempts,
		retryDelay:  defaultRetryDelay,
		queue:       make(chan Event, defaultQueueSize),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) Enqueue(ctx context.Context, event Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	fields := logrus.Fields{"event_id": event.ID, "kind": event.Kind, "booking_id": event.BookingID}
	if d.closed {
		d.log.WithFields(fields).Error("notification dropped: dispatcher closed")
		return
	}

	select {
	case d.queue <- event:
	default:
		d.log.WithFields(fields).Error("notification dropped: queue full")
	}
}

// Pending reports how many events wait for delivery.
func (d *Dispatcher) Pending() int {
	return len(d.queue)
}

// Run delivers queued events until Close is called and the queue is drained.
func (d *Dispatcher) Run(ctx context.Context) error {
	for event := range d.queue {
		d.deliver(ctx, event)
	}
	return nil
}

func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, event Event) {
	log := d.log.WithFields(logrus.Fields{"event_id": event.ID, "kind": event.Kind, "booking_id": event.BookingID})

	attempt := 0
	err := Retry(ctx, d.maxAttempts, d.retryDelay, func(ctx context.Context) error {
		attempt++
		err := d.sink.Publish(ctx, d.topic, event.BookingID, event)
		if err != nil {
			log.WithError(err).WithField("attempt", attempt).Warn("notification delivery failed")
		}
		return err
	})
	if err != nil {
		log.WithError(err).Error("notification permanently failed")
		return
	}
	log.Info("notification delivered")
}

var _ Enqueuer = (*Dispatcher)(nil)
