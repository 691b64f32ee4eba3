package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

type Sender interface {
	Send(ctx context.Context, event Event) error
}

// Deduper remembers which events were already handled.
type Deduper interface {
	MarkNotificationSent(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	UnmarkNotification(ctx context.Context, eventID string) error
}

const defaultDedupTTL = 24 * time.Hour

// Handler is the consumer side of the notifications topic. Kafka delivers
// at least once, so events already marked by the Deduper are skipped.
type Handler struct {
	sender      Sender
	dedup       Deduper
	log         *logrus.Entry
	maxAttempts int
	retryDelay  time.Duration
	dedupTTL    time.Duration
}

type HandlerOption func(*Handler)

func WithDeduper(d Deduper, ttl time.Duration) HandlerOption {
	return func(h *Handler) {
		h.dedup = d
		if ttl > 0 {
			h.dedupTTL = ttl
		}
	}
}

func WithHandlerRetry(attempts int, delay time.Duration) HandlerOption {
	return func(h *Handler) {
		if attempts > 0 {
			h.maxAttempts = attempts
		}
		h.retryDelay = delay
	}
}

func NewHandler(sender Sender, log *logrus.Entry, opts ...HandlerOption) *Handler {
	h := &Handler{
		sender:      sender,
		log:         log,
		maxAttempts: defaultMaxAttempts,
		retryDelay:  defaultRetryDelay,
		dedupTTL:    defaultDedupTTL,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle decodes and delivers one message. Undecodable and permanently failed
// messages are logged and acknowledged; only context cancellation is
// returned, so the message is not committed and gets redelivered.
func (h *Handler) Handle(ctx context.Context, payload []byte) error {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		h.log.WithError(err).Error("notification decode failed")
		return nil
	}
	log := h.log.WithFields(logrus.Fields{"event_id": event.ID, "kind": event.Kind, "booking_id": event.BookingID})

	if h.dedup != nil && event.ID != "" {
		fresh, err := h.dedup.MarkNotificationSent(ctx, event.ID, h.dedupTTL)
		if err != nil {
			log.WithError(err).Warn("dedup check failed, delivering anyway")
		} else if !fresh {
			log.Debug("duplicate notification skipped")
			return nil
		}
	}

	err := Retry(ctx, h.maxAttempts, h.retryDelay, func(ctx context.Context) error {
		return h.sender.Send(ctx, event)
	})
	if err == nil {
		log.Info("notification handled")
		return nil
	}

	if h.dedup != nil && event.ID != "" {
		if uerr := h.dedup.UnmarkNotification(context.WithoutCancel(ctx), event.ID); uerr != nil {
			log.WithError(uerr).Warn("dedup marker cleanup failed")
		}
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	log.WithError(err).Error("notification permanently failed")
	return nil
}
