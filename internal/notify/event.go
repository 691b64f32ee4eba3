package notify

import (
	"fmt"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/google/uuid"
)

type Kind string

const (
	// KindBookingConfirmation is emitted once a payment for the booking settles.
	KindBookingConfirmation Kind = "booking_confirmation"
	KindBookingConfirmed    Kind = "booking_confirmed"
	KindBookingCancelled    Kind = "booking_cancelled"
	KindBookingReminder     Kind = "booking_reminder"
)

// Event is the notification payload put on the wire. ID lets consumers
// deduplicate redeliveries.
type Event struct {
	ID             string    `json:"id"`
	Kind           Kind      `json:"kind"`
	BookingID      string    `json:"booking_id"`
	ListingID      string    `json:"listing_id"`
	GuestID        string    `json:"guest_id"`
	GuestEmail     string    `json:"guest_email,omitempty"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	TotalPrice     string    `json:"total_price"`
	TransactionRef string    `json:"transaction_ref,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func NewBookingEvent(kind Kind, b *domain.Booking) Event {
	return Event{
		ID:         uuid.NewString(),
		Kind:       kind,
		BookingID:  b.ID.String(),
		ListingID:  b.ListingID.String(),
		GuestID:    b.GuestID.String(),
		GuestEmail: b.GuestEmail,
		StartDate:  domain.FormatDate(b.StartDate),
		EndDate:    domain.FormatDate(b.EndDate),
		TotalPrice: domain.FormatCents(b.TotalPriceCents),
		OccurredAt: time.Now().UTC(),
	}
}

// NewReminderEvent derives the event id from the booking and its check-in day,
// so repeated sweeps over the same day collapse into one delivery.
func NewReminderEvent(b *domain.Booking) Event {
	event := NewBookingEvent(KindBookingReminder, b)
	event.ID = fmt.Sprintf("reminder:%s:%s", b.ID, domain.FormatDate(b.StartDate))
	return event
}
