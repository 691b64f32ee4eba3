package api

import (
	"context"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/service/booking"
	"github.com/Domenick1991/travelbooking/internal/service/listings"
	"github.com/Domenick1991/travelbooking/internal/service/payment"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, actor domain.Actor, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) UpdateBookingDates(ctx context.Context, actor domain.Actor, id uuid.UUID, input booking.UpdateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, actor, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ChangeStatus(ctx context.Context, actor domain.Actor, id uuid.UUID, requested domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, actor, id, requested)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListForGuest(ctx context.Context, actor domain.Actor) ([]domain.Booking, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListForListing(ctx context.Context, actor domain.Actor, listingID uuid.UUID) ([]domain.Booking, error) {
	args := m.Called(ctx, actor, listingID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CompleteFinishedStays(ctx context.Context, now time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) SendCheckInReminders(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

type MockPaymentUseCase struct {
	mock.Mock
}

func (m *MockPaymentUseCase) Initiate(ctx context.Context, actor domain.Actor, bookingID uuid.UUID) (*payment.InitiateResult, error) {
	args := m.Called(ctx, actor, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.InitiateResult), args.Error(1)
}

func (m *MockPaymentUseCase) Verify(ctx context.Context, txRef string) (domain.PaymentStatus, error) {
	args := m.Called(ctx, txRef)
	return args.Get(0).(domain.PaymentStatus), args.Error(1)
}

func (m *MockPaymentUseCase) GetForBooking(ctx context.Context, actor domain.Actor, bookingID uuid.UUID) (*domain.Payment, error) {
	args := m.Called(ctx, actor, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

type MockListingUseCase struct {
	mock.Mock
}

func (m *MockListingUseCase) Create(ctx context.Context, actor domain.Actor, input listings.ListingInput) (*domain.Listing, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockListingUseCase) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, input listings.ListingInput) (*domain.Listing, error) {
	args := m.Called(ctx, actor, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockListingUseCase) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockListingUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockListingUseCase) List(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Listing), args.Error(1)
}

func (m *MockListingUseCase) ListByHost(ctx context.Context, hostID uuid.UUID) ([]domain.Listing, error) {
	args := m.Called(ctx, hostID)
	return args.Get(0).([]domain.Listing), args.Error(1)
}

type MockReviewUseCase struct {
	mock.Mock
}

func (m *MockReviewUseCase) Create(ctx context.Context, actor domain.Actor, listingID uuid.UUID, rating int, comment string) (*domain.Review, error) {
	args := m.Called(ctx, actor, listingID, rating, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewUseCase) ListForListing(ctx context.Context, listingID uuid.UUID) ([]domain.Review, error) {
	args := m.Called(ctx, listingID)
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *MockReviewUseCase) Summary(ctx context.Context, listingID uuid.UUID) (*domain.RatingSummary, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RatingSummary), args.Error(1)
}
