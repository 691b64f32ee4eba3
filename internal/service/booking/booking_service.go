package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/notify"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, actor domain.Actor, input CreateBookingInput) (*domain.Booking, error)
	UpdateBookingDates(ctx context.Context, actor domain.Actor, id uuid.UUID, input UpdateBookingInput) (*domain.Booking, error)
	ChangeStatus(ctx context.Context, actor domain.Actor, id uuid.UUID, requested domain.BookingStatus) (*domain.Booking, error)
	GetBooking(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Booking, error)
	ListForGuest(ctx context.Context, actor domain.Actor) ([]domain.Booking, error)
	ListForListing(ctx context.Context, actor domain.Actor, listingID uuid.UUID) ([]domain.Booking, error)
	CompleteFinishedStays(ctx context.Context, now time.Time) ([]domain.Booking, error)
	SendCheckInReminders(ctx context.Context, now time.Time) (int, error)
}

type ListingReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
}

type CreateBookingInput struct {
	ListingID       uuid.UUID
	StartDate       time.Time
	EndDate         time.Time
	NumberOfGuests  int
	SpecialRequests string
}

// UpdateBookingInput moves a pending booking. Zero NumberOfGuests keeps the
// current count, nil SpecialRequests keeps the current text.
type UpdateBookingInput struct {
	StartDate       time.Time
	EndDate         time.Time
	NumberOfGuests  int
	SpecialRequests *string
}

type BookingService struct {
	bookings repository.BookingRepository
	listings ListingReader
	notifier notify.Enqueuer
	log      *logrus.Entry
	now      func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	listings ListingReader,
	notifier notify.Enqueuer,
	log *logrus.Entry,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings: bookings,
		listings: listings,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context, actor domain.Actor, input CreateBookingInput) (*domain.Booking, error) {
	start, end := domain.Day(input.StartDate), domain.Day(input.EndDate)
	if err := s.checkNotPast(start); err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:              uuid.New(),
		ListingID:       input.ListingID,
		GuestID:         actor.UserID,
		GuestEmail:      actor.Email,
		StartDate:       start,
		EndDate:         end,
		NumberOfGuests:  input.NumberOfGuests,
		Status:          domain.BookingStatusPending,
		SpecialRequests: input.SpecialRequests,
	}

	err := s.bookings.WithListingLock(ctx, input.ListingID, func(ctx context.Context, tx repository.BookingTx, listing *domain.Listing) error {
		existing, err := tx.ActiveOverlapping(ctx, listing.ID, start, end)
		if err != nil {
			return err
		}
		total, err := ValidateAndPrice(listing, start, end, input.NumberOfGuests, existing, uuid.Nil)
		if err != nil {
			return err
		}
		booking.TotalPriceCents = total
		return tx.Create(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"listing_id": booking.ListingID,
		"guest_id":   booking.GuestID,
		"total":      domain.FormatCents(booking.TotalPriceCents),
	}).Info("booking created")
	return booking, nil
}

func (s *BookingService) UpdateBookingDates(ctx context.Context, actor domain.Actor, id uuid.UUID, input UpdateBookingInput) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.GuestID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	if current.Status != domain.BookingStatusPending {
		return nil, domain.ErrBookingNotMutable
	}

	start, end := domain.Day(input.StartDate), domain.Day(input.EndDate)
	if err := s.checkNotPast(start); err != nil {
		return nil, err
	}

	updated := *current
	updated.StartDate = start
	updated.EndDate = end
	if input.NumberOfGuests != 0 {
		updated.NumberOfGuests = input.NumberOfGuests
	}
	if input.SpecialRequests != nil {
		updated.SpecialRequests = *input.SpecialRequests
	}

	err = s.bookings.WithListingLock(ctx, current.ListingID, func(ctx context.Context, tx repository.BookingTx, listing *domain.Listing) error {
		existing, err := tx.ActiveOverlapping(ctx, listing.ID, start, end)
		if err != nil {
			return err
		}
		total, err := ValidateAndPrice(listing, start, end, updated.NumberOfGuests, existing, updated.ID)
		if err != nil {
			return err
		}
		updated.TotalPriceCents = total
		return tx.UpdateDates(ctx, &updated)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": updated.ID,
		"start_date": domain.FormatDate(updated.StartDate),
		"end_date":   domain.FormatDate(updated.EndDate),
		"total":      domain.FormatCents(updated.TotalPriceCents),
	}).Info("booking dates updated")
	return &updated, nil
}

func (s *BookingService) ChangeStatus(ctx context.Context, actor domain.Actor, id uuid.UUID, requested domain.BookingStatus) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	listing, err := s.listings.GetByID(ctx, current.ListingID)
	if err != nil {
		return nil, err
	}

	next, err := TransitionStatus(current, listing, requested, actor)
	if err != nil {
		return nil, err
	}

	updated, err := s.bookings.UpdateStatus(ctx, current.ID, current.Status, next.Status)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": updated.ID,
		"from":       current.Status,
		"to":         updated.Status,
		"actor_id":   actor.UserID,
	}).Info("booking status changed")

	switch updated.Status {
	case domain.BookingStatusConfirmed:
		s.notifier.Enqueue(ctx, notify.NewBookingEvent(notify.KindBookingConfirmed, updated))
	case domain.BookingStatusCancelled:
		s.notifier.Enqueue(ctx, notify.NewBookingEvent(notify.KindBookingCancelled, updated))
	}
	return updated, nil
}

func (s *BookingService) GetBooking(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.GuestID == actor.UserID {
		return b, nil
	}

	listing, err := s.listings.GetByID(ctx, b.ListingID)
	if err != nil {
		return nil, err
	}
	if !listing.IsHost(actor.UserID) {
		return nil, domain.ErrForbidden
	}
	return b, nil
}

func (s *BookingService) ListForGuest(ctx context.Context, actor domain.Actor) ([]domain.Booking, error) {
	return s.bookings.ListByGuest(ctx, actor.UserID)
}

func (s *BookingService) ListForListing(ctx context.Context, actor domain.Actor, listingID uuid.UUID) ([]domain.Booking, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !listing.IsHost(actor.UserID) {
		return nil, domain.ErrForbidden
	}
	return s.bookings.ListByListing(ctx, listingID)
}

// CompleteFinishedStays marks confirmed bookings whose checkout day has
// arrived as completed.
func (s *BookingService) CompleteFinishedStays(ctx context.Context, now time.Time) ([]domain.Booking, error) {
	completed, err := s.bookings.CompleteEndedBy(ctx, domain.Day(now))
	if err != nil {
		return nil, err
	}
	if len(completed) > 0 {
		s.log.WithField("count", len(completed)).Info("stays completed")
	}
	return completed, nil
}

// SendCheckInReminders enqueues a reminder for every confirmed booking that
// starts tomorrow.
func (s *BookingService) SendCheckInReminders(ctx context.Context, now time.Time) (int, error) {
	tomorrow := domain.Day(now).AddDate(0, 0, 1)
	upcoming, err := s.bookings.ListConfirmedStartingOn(ctx, tomorrow)
	if err != nil {
		return 0, err
	}
	for i := range upcoming {
		s.notifier.Enqueue(ctx, notify.NewReminderEvent(&upcoming[i]))
	}
	if len(upcoming) > 0 {
		s.log.WithFields(logrus.Fields{
			"count": len(upcoming),
			"day":   domain.FormatDate(tomorrow),
		}).Info("check-in reminders enqueued")
	}
	return len(upcoming), nil
}

func (s *BookingService) checkNotPast(start time.Time) error {
	if start.Before(domain.Day(s.now())) {
		return fmt.Errorf("%w: start date %s is in the past", domain.ErrInvalidDateRange, domain.FormatDate(start))
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
