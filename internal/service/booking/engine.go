package booking

import (
	"fmt"
	"math"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/google/uuid"
)

// ValidateAndPrice checks a requested stay against the listing and the
// bookings already holding its dates, and returns the total price in cents.
// excludingID is skipped during the overlap scan so a booking can be moved
// without conflicting with itself.
func ValidateAndPrice(listing *domain.Listing, start, end time.Time, guests int, existing []domain.Booking, excludingID uuid.UUID) (int64, error) {
	start, end = domain.Day(start), domain.Day(end)

	if !start.Before(end) {
		return 0, domain.ErrInvalidDateRange
	}
	nights := domain.Nights(start, end)
	if nights > domain.MaxStayNights {
		return 0, domain.ErrRangeTooLong
	}
	if guests < 1 {
		return 0, domain.ErrInvalidGuestCount
	}
	if guests > listing.MaxGuests {
		return 0, fmt.Errorf("%w: %d guests, listing allows %d", domain.ErrCapacityExceeded, guests, listing.MaxGuests)
	}
	if !listing.IsAvailable {
		return 0, domain.ErrListingUnavailable
	}
	if listing.MinimumStay > 0 && nights < listing.MinimumStay {
		return 0, fmt.Errorf("%w: %d nights, minimum is %d", domain.ErrMinimumStay, nights, listing.MinimumStay)
	}

	for i := range existing {
		b := &existing[i]
		if b.ID == excludingID && excludingID != uuid.Nil {
			continue
		}
		if b.ListingID != listing.ID || !b.Status.IsActive() {
			continue
		}
		if b.Overlaps(start, end) {
			return 0, fmt.Errorf("%w: overlaps %s to %s", domain.ErrDateConflict,
				domain.FormatDate(b.StartDate), domain.FormatDate(b.EndDate))
		}
	}

	if listing.PricePerNightCents > math.MaxInt64/int64(nights) {
		return 0, fmt.Errorf("%w: %d nights at %s", domain.ErrPriceOutOfRange, nights, domain.FormatCents(listing.PricePerNightCents))
	}
	return listing.PricePerNightCents * int64(nights), nil
}

// TransitionStatus applies a requested status change on behalf of actor and
// returns the updated copy. The input booking is not modified.
func TransitionStatus(booking *domain.Booking, listing *domain.Listing, requested domain.BookingStatus, actor domain.Actor) (*domain.Booking, error) {
	isGuest := booking.GuestID == actor.UserID
	isHost := listing.IsHost(actor.UserID)
	if !isGuest && !isHost {
		return nil, domain.ErrForbidden
	}

	if !booking.Status.CanTransitionTo(requested) {
		return nil, fmt.Errorf("%w: %s to %s", domain.ErrIllegalTransition, booking.Status, requested)
	}

	switch requested {
	case domain.BookingStatusConfirmed:
		if !isHost {
			return nil, fmt.Errorf("%w: only the host can confirm a booking", domain.ErrForbidden)
		}
	case domain.BookingStatusCancelled:
		// guest or host, both already checked
	default:
		return nil, domain.ErrIllegalTransition
	}

	updated := *booking
	updated.Status = requested
	return &updated, nil
}
