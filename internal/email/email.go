package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/travelbooking/internal/notify"
	"github.com/sirupsen/logrus"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender renders notification events into messages. Delivery itself is
// logged; the mail transport is configured outside this service.
type Sender struct {
	log *logrus.Entry
}

func NewSender(log *logrus.Entry) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event notify.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := Compose(event)
	if err != nil {
		return err
	}
	if msg.To == "" {
		s.log.WithFields(logrus.Fields{
			"event_id":   event.ID,
			"kind":       event.Kind,
			"booking_id": event.BookingID,
			"guest_id":   event.GuestID,
		}).Warn("email skipped: guest has no address")
		return nil
	}
	s.log.WithFields(logrus.Fields{
		"event_id":   event.ID,
		"kind":       event.Kind,
		"booking_id": event.BookingID,
		"to":         msg.To,
		"subject":    msg.Subject,
	}).Info("email sent")
	return nil
}

func Compose(event notify.Event) (Message, error) {
	msg := Message{To: event.GuestEmail}
	stay := fmt.Sprintf("%s to %s", event.StartDate, event.EndDate)

	switch event.Kind {
	case notify.KindBookingConfirmation:
		msg.Subject = "Payment received"
		msg.Body = fmt.Sprintf("We received your payment of %s for booking %s (%s). Reference: %s.",
			event.TotalPrice, event.BookingID, stay, event.TransactionRef)
	case notify.KindBookingConfirmed:
		msg.Subject = "Your booking is confirmed"
		msg.Body = fmt.Sprintf("The host confirmed booking %s for %s.", event.BookingID, stay)
	case notify.KindBookingCancelled:
		msg.Subject = "Your booking was cancelled"
		msg.Body = fmt.Sprintf("Booking %s for %s has been cancelled.", event.BookingID, stay)
	case notify.KindBookingReminder:
		msg.Subject = "Check-in tomorrow"
		msg.Body = fmt.Sprintf("Reminder: your stay for booking %s starts on %s.", event.BookingID, event.StartDate)
	default:
		return Message{}, fmt.Errorf("unknown notification kind %q", event.Kind)
	}
	return msg, nil
}
