package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/logger"
	"github.com/Domenick1991/travelbooking/internal/notify"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingRepository struct {
	mock.Mock
}

// WithListingLock runs fn against the tx and listing the test registered.
func (m *MockBookingRepository) WithListingLock(ctx context.Context, listingID uuid.UUID, fn func(ctx context.Context, tx repository.BookingTx, listing *domain.Listing) error) error {
	args := m.Called(ctx, listingID)
	if err := args.Error(2); err != nil {
		return err
	}
	return fn(ctx, args.Get(1).(repository.BookingTx), args.Get(0).(*domain.Listing))
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByGuest(ctx context.Context, guestID uuid.UUID) ([]domain.Booking, error) {
	args := m.Called(ctx, guestID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByListing(ctx context.Context, listingID uuid.UUID) ([]domain.Booking, error) {
	args := m.Called(ctx, listingID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, id, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) CompleteEndedBy(ctx context.Context, day time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, day)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListConfirmedStartingOn(ctx context.Context, day time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, day)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockListingReader struct {
	mock.Mock
}

func (m *MockListingReader) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) Enqueue(ctx context.Context, event notify.Event) {
	m.Called(ctx, event)
}

// memoryTx keeps bookings in a slice and behaves like the locked transaction.
type recordingEnqueuer struct {
	events []notify.Event
}

func (r *recordingEnqueuer) Enqueue(ctx context.Context, event notify.Event) {
	r.events = append(r.events, event)
}

type memoryTx struct {
	mu       sync.Mutex
	bookings []domain.Booking
}

func (t *memoryTx) ActiveOverlapping(_ context.Context, listingID uuid.UUID, start, end time.Time) ([]domain.Booking, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []domain.Booking
	for _, b := range t.bookings {
		if b.ListingID == listingID && b.Status.IsActive() && b.Overlaps(start, end) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (t *memoryTx) Create(_ context.Context, b *domain.Booking) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bookings = append(t.bookings, *b)
	return nil
}

func (t *memoryTx) UpdateDates(_ context.Context, b *domain.Booking) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.bookings {
		if t.bookings[i].ID == b.ID {
			t.bookings[i] = *b
			return nil
		}
	}
	return domain.ErrBookingNotFound
}

var fixedNow = time.Date(2024, 5, 1, 15, 30, 0, 0, time.UTC)

func newTestService(repo *MockBookingRepository, listings *MockListingReader, notifier *MockEnqueuer) *BookingService {
	return NewBookingService(repo, listings, notifier, logger.Discard(), WithClock(func() time.Time { return fixedNow }))
}

func TestBookingService_CreateBooking_Success(t *testing.T) {
	repo := &MockBookingRepository{}
	listings := &MockListingReader{}
	notifier := &MockEnqueuer{}
	service := newTestService(repo, listings, notifier)

	ctx := context.Background()
	listing := testListing()
	tx := &memoryTx{}
	guest := domain.Actor{UserID: uuid.New(), Email: "guest@example.com"}

	repo.On("WithListingLock", ctx, listing.ID).Return(listing, tx, nil)

	booking, err := service.CreateBooking(ctx, guest, CreateBookingInput{
		ListingID:      listing.ID,
		StartDate:      date("2024-06-01"),
		EndDate:        date("2024-06-04"),
		NumberOfGuests: 2,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusPending, booking.Status)
	assert.Equal(t, guest.UserID, booking.GuestID)
	assert.Equal(t, "guest@example.com", booking.GuestEmail)
	assert.Equal(t, 3, booking.Nights())
	assert.Equal(t, "300.00", domain.FormatCents(booking.TotalPriceCents))
	assert.Len(t, tx.bookings, 1)

	repo.AssertExpectations(t)
	notifier.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}

func TestBookingService_CreateBooking_OverlapConflict(t *testing.T) {
	repo := &MockBookingRepository{}
	service := newTestService(repo, &MockListingReader{}, &MockEnqueuer{})

	ctx := context.Background()
	listing := testListing()
	tx := &memoryTx{}
	repo.On("WithListingLock", ctx, listing.ID).Return(listing, tx, nil)

	_, err := service.CreateBooking(ctx, domain.Actor{UserID: uuid.New()}, CreateBookingInput{
		ListingID: listing.ID, StartDate: date("2024-06-01"), EndDate: date("2024-06-04"), NumberOfGuests: 2,
	})
	require.NoError(t, err)

	second, err := service.CreateBooking(ctx, domain.Actor{UserID: uuid.New()}, CreateBookingInput{
		ListingID: listing.ID, StartDate: date("2024-06-03"), EndDate: date("2024-06-05"), NumberOfGuests: 1,
	})

	assert.Nil(t, second)
	assert.ErrorIs(t, err, domain.ErrDateConflict)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.Len(t, tx.bookings, 1)
}

func TestBookingService_CreateBooking_CheckoutDayIsFree(t *testing.T) {
	repo := &MockBookingRepository{}
	service := newTestService(repo, &MockListingReader{}, &MockEnqueuer{})

	ctx := context.Background()
	listing := testListing()
	tx := &memoryTx{}
	repo.On("WithListingLock", ctx, listing.ID).Return(listing, tx, nil)

	for _, r := range [][2]string{{"2024-06-01", "2024-06-04"}, {"2024-06-04", "2024-06-06"}} {
		_, err := service.CreateBooking(ctx, domain.Actor{UserID: uuid.New()}, CreateBookingInput{
			ListingID: listing.ID, StartDate: date(r[0]), EndDate: date(r[1]), NumberOfGuests: 1,
		})
		require.NoError(t, err)
	}
	assert.Len(t, tx.bookings, 2)
}

func TestBookingService_CreateBooking_ValidationErrors(t *testing.T) {
	listing := testListing()

	testCases := []struct {
		name    string
		input   CreateBookingInput
		wantErr error
	}{
		{
			name:    "capacity exceeded",
			input:   CreateBookingInput{ListingID: listing.ID, StartDate: date("2024-06-01"), EndDate: date("2024-06-04"), NumberOfGuests: 6},
			wantErr: domain.ErrCapacityExceeded,
		},
		{
			name:    "start after end",
			input:   CreateBookingInput{ListingID: listing.ID, StartDate: date("2024-06-04"), EndDate: date("2024-06-01"), NumberOfGuests: 1},
			wantErr: domain.ErrInvalidDateRange,
		},
		{
			name:    "past start date",
			input:   CreateBookingInput{ListingID: listing.ID, StartDate: date("2024-04-30"), EndDate: date("2024-05-03"), NumberOfGuests: 1},
			wantErr: domain.ErrInvalidDateRange,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &MockBookingRepository{}
			service := newTestService(repo, &MockListingReader{}, &MockEnqueuer{})
			tx := &memoryTx{}
			repo.On("WithListingLock", mock.Anything, listing.ID).Return(listing, tx, nil).Maybe()

			booking, err := service.CreateBooking(context.Background(), domain.Actor{UserID: uuid.New()}, tc.input)

			assert.Nil(t, booking)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
			assert.Empty(t, tx.bookings)
		})
	}
}

func TestBookingService_CreateBooking_StartingTodayAllowed(t *testing.T) {
	repo := &MockBookingRepository{}
	service := newTestService(repo, &MockListingReader{}, &MockEnqueuer{})
	listing := testListing()
	repo.On("WithListingLock", mock.Anything, listing.ID).Return(listing, &memoryTx{}, nil)

	_, err := service.CreateBooking(context.Background(), domain.Actor{UserID: uuid.New()}, CreateBookingInput{
		ListingID: listing.ID, StartDate: date("2024-05-01"), EndDate: date("2024-05-02"), NumberOfGuests: 1,
	})
	assert.NoError(t, err)
}

func TestBookingService_CreateBooking_ListingNotFound(t *testing.T) {
	repo := &MockBookingRepository{}
	service := newTestService(repo, &MockListingReader{}, &MockEnqueuer{})
	listingID := uuid.New()

	repo.On("WithListingLock", mock.Anything, listingID).Return(nil, nil, domain.ErrListingNotFound)

	_, err := service.CreateBooking(context.Background(), domain.Actor{UserID: uuid.New()}, CreateBookingInput{
		ListingID: listingID, StartDate: date("2024-06-01"), EndDate: date("2024-06-02"), NumberOfGuests: 1,
	})
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
}

func TestBookingService_UpdateBookingDates_MovesOverItself(t *testing.T) {
	repo := &MockBookingRepository{}
	service := newTestService(repo, &MockListingReader{}, &MockEnqueuer{})

	ctx := context.Background()
	listing := testListing()
	guest := domain.Actor{UserID: uuid.New()}
	own := activeBooking(listing, "2024-06-01", "2024-06-04", domain.BookingStatusPending)
	own.GuestID = guest.UserID
	own.NumberOfGuests = 2
	own.TotalPriceCents = 30000
	tx := &memoryTx{bookings: []domain.Booking{own}}

	repo.On("GetByID", ctx, own.ID).Return(&own, nil)
	repo.On("WithListingLock", ctx, listing.ID).Return(listing, tx, nil)

	updated, err := service.UpdateBookingDates(ctx, guest, own.ID, UpdateBookingInput{
		StartDate: date("2024-06-02"),
		EndDate:   date("2024-06-07"),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(50000), updated.TotalPriceCents)
	assert.Equal(t, 2, updated.NumberOfGuests)
	assert.Equal(t, date("2024-06-02"), tx.bookings[0].StartDate)
	assert.Equal(t, int64(30000), own.TotalPriceCents)
}

func TestBookingService_UpdateBookingDates_ConflictWithOther(t *testing.T) {
	repo := &MockBookingRepository{}
	service := newTestService(repo, &MockListingReader{}, &MockEnqueuer{})

	ctx := context.Background()
	listing := testListing()
	guest := domain.Actor{UserID: uuid.New()}
	own := activeBooking(listing, "2024-06-01", "2024-06-04", domain.BookingStatusPending)
	own.GuestID = guest.UserID
	own.NumberOfGuests = 1
	other := activeBooking(listing, "2024-06-10", "2024-06-12", domain.BookingStatusConfirmed)
	tx := &memoryTx{bookings: []domain.Booking{own, other}}

	repo.On("GetByID", ctx, own.ID).Return(&own, nil)
	repo.On("WithListingLock", ctx, listing.ID).Return(listing, tx, nil)

	_, err := service.UpdateBookingDates(ctx, guest, own.ID, UpdateBookingInput{
		StartDate: date("2024-06-08"),
		EndDate:   date("2024-06-11"),
	})

	assert.ErrorIs(t, err, domain.ErrDateConflict)
	assert.Equal(t, date("2024-06-01"), tx.bookings[0].StartDate)
}

func TestBookingService_UpdateBookingDates_Rejections(t *testing.T) {
	listing := testListing()
	guestID := uuid.New()

	testCases := []struct {
		name    string
		status  domain.BookingStatus
		actor   domain.Actor
		wantErr error
	}{
		{"not the guest", domain.BookingStatusPending, domain.Actor{UserID: listing.HostID}, domain.ErrForbidden},
		{"confirmed", domain.BookingStatusConfirmed, domain.Actor{UserID: guestID}, domain.ErrBookingNotMutable},
		{"cancelled", domain.BookingStatusCancelled, domain.Actor{UserID: guestID}, domain.ErrBookingNotMutable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &MockBookingRepository{}
			service := newTestService(repo, &MockListingReader{}, &MockEnqueuer{})
			b := activeBooking(listing, "2024-06-01", "2024-06-04", tc.status)
			b.GuestID = guestID
			repo.On("GetByID", mock.Anything, b.ID).Return(&b, nil)

			_, err := service.UpdateBookingDates(context.Background(), tc.actor, b.ID, UpdateBookingInput{
				StartDate: date("2024-07-01"), EndDate: date("2024-07-03"),
			})

			assert.ErrorIs(t, err, tc.wantErr)
			repo.AssertNotCalled(t, "WithListingLock", mock.Anything, mock.Anything)
		})
	}
}

func TestBookingService_ChangeStatus_ConfirmByHost(t *testing.T) {
	repo := &MockBookingRepository{}
	listings := &MockListingReader{}
	notifier := &MockEnqueuer{}
	service := newTestService(repo, listings, notifier)

	ctx := context.Background()
	listing := testListing()
	b := activeBooking(listing, "2024-06-01", "2024-06-04", domain.BookingStatusPending)
	confirmed := b
	confirmed.Status = domain.BookingStatusConfirmed

	repo.On("GetByID", ctx, b.ID).Return(&b, nil)
	listings.On("GetByID", ctx, listing.ID).Return(listing, nil)
	repo.On("UpdateStatus", ctx, b.ID, domain.BookingStatusPending, domain.BookingStatusConfirmed).Return(&confirmed, nil)
	notifier.On("Enqueue", ctx, mock.MatchedBy(func(e notify.Event) bool {
		return e.Kind == notify.KindBookingConfirmed && e.BookingID == b.ID.String()
	})).Once()

	updated, err := service.ChangeStatus(ctx, domain.Actor{UserID: listing.HostID}, b.ID, domain.BookingStatusConfirmed)

	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, updated.Status)
	repo.AssertExpectations(t)
	listings.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestBookingService_ChangeStatus_CancelByGuest(t *testing.T) {
	repo := &MockBookingRepository{}
	listings := &MockListingReader{}
	notifier := &MockEnqueuer{}
	service := newTestService(repo, listings, notifier)

	ctx := context.Background()
	listing := testListing()
	b := activeBooking(listing, "2024-06-01", "2024-06-04", domain.BookingStatusConfirmed)
	cancelled := b
	cancelled.Status = domain.BookingStatusCancelled

	repo.On("GetByID", ctx, b.ID).Return(&b, nil)
	listings.On("GetByID", ctx, listing.ID).Return(listing, nil)
	repo.On("UpdateStatus", ctx, b.ID, domain.BookingStatusConfirmed, domain.BookingStatusCancelled).Return(&cancelled, nil)
	notifier.On("Enqueue", ctx, mock.MatchedBy(func(e notify.Event) bool {
		return e.Kind == notify.KindBookingCancelled
	})).Once()

	updated, err := service.ChangeStatus(ctx, domain.Actor{UserID: b.GuestID}, b.ID, domain.BookingStatusCancelled)

	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, updated.Status)
	notifier.AssertExpectations(t)
}

func TestBookingService_ChangeStatus_Rejected(t *testing.T) {
	listing := testListing()

	testCases := []struct {
		name      string
		from      domain.BookingStatus
		requested domain.BookingStatus
		asHost    bool
		wantErr   error
	}{
		{"guest confirms", domain.BookingStatusPending, domain.BookingStatusConfirmed, false, domain.ErrForbidden},
		{"confirmed to pending", domain.BookingStatusConfirmed, domain.BookingStatusPending, true, domain.ErrIllegalTransition},
		{"cancelled to confirmed", domain.BookingStatusCancelled, domain.BookingStatusConfirmed, true, domain.ErrIllegalTransition},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &MockBookingRepository{}
			listings := &MockListingReader{}
			notifier := &MockEnqueuer{}
			service := newTestService(repo, listings, notifier)

			b := activeBooking(listing, "2024-06-01", "2024-06-04", tc.from)
			actor := domain.Actor{UserID: b.GuestID}
			if tc.asHost {
				actor.UserID = listing.HostID
			}
			repo.On("GetByID", mock.Anything, b.ID).Return(&b, nil)
			listings.On("GetByID", mock.Anything, listing.ID).Return(listing, nil)

			_, err := service.ChangeStatus(context.Background(), actor, b.ID, tc.requested)

			assert.ErrorIs(t, err, tc.wantErr)
			repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			notifier.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
		})
	}
}

func TestBookingService_ChangeStatus_LostRace(t *testing.T) {
	repo := &MockBookingRepository{}
	listings := &MockListingReader{}
	notifier := &MockEnqueuer{}
	service := newTestService(repo, listings, notifier)

	listing := testListing()
	b := activeBooking(listing, "2024-06-01", "2024-06-04", domain.BookingStatusPending)

	repo.On("GetByID", mock.Anything, b.ID).Return(&b, nil)
	listings.On("GetByID", mock.Anything, listing.ID).Return(listing, nil)
	repo.On("UpdateStatus", mock.Anything, b.ID, domain.BookingStatusPending, domain.BookingStatusCancelled).
		Return(nil, domain.ErrIllegalTransition)

	_, err := service.ChangeStatus(context.Background(), domain.Actor{UserID: b.GuestID}, b.ID, domain.BookingStatusCancelled)

	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	notifier.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}

func TestBookingService_GetBooking_Access(t *testing.T) {
	listing := testListing()
	b := activeBooking(listing, "2024-06-01", "2024-06-04", domain.BookingStatusPending)

	testCases := []struct {
		name    string
		actor   uuid.UUID
		wantErr error
	}{
		{"guest", b.GuestID, nil},
		{"host", listing.HostID, nil},
		{"stranger", uuid.New(), domain.ErrForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &MockBookingRepository{}
			listings := &MockListingReader{}
			service := newTestService(repo, listings, &MockEnqueuer{})
			repo.On("GetByID", mock.Anything, b.ID).Return(&b, nil)
			listings.On("GetByID", mock.Anything, listing.ID).Return(listing, nil).Maybe()

			got, err := service.GetBooking(context.Background(), domain.Actor{UserID: tc.actor}, b.ID)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, b.ID, got.ID)
		})
	}
}

func TestBookingService_GetBooking_NotFound(t *testing.T) {
	repo := &MockBookingRepository{}
	service := newTestService(repo, &MockListingReader{}, &MockEnqueuer{})
	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrBookingNotFound)

	_, err := service.GetBooking(context.Background(), domain.Actor{UserID: uuid.New()}, id)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestBookingService_ListForListing(t *testing.T) {
	repo := &MockBookingRepository{}
	listings := &MockListingReader{}
	service := newTestService(repo, listings, &MockEnqueuer{})

	listing := testListing()
	bookings := []domain.Booking{activeBooking(listing, "2024-06-01", "2024-06-04", domain.BookingStatusPending)}
	listings.On("GetByID", mock.Anything, listing.ID).Return(listing, nil)
	repo.On("ListByListing", mock.Anything, listing.ID).Return(bookings, nil)

	got, err := service.ListForListing(context.Background(), domain.Actor{UserID: listing.HostID}, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, bookings, got)

	_, err = service.ListForListing(context.Background(), domain.Actor{UserID: uuid.New()}, listing.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	repo.AssertNumberOfCalls(t, "ListByListing", 1)
}

func TestBookingService_ListForGuest(t *testing.T) {
	repo := &MockBookingRepository{}
	service := newTestService(repo, &MockListingReader{}, &MockEnqueuer{})
	guest := domain.Actor{UserID: uuid.New()}
	repo.On("ListByGuest", mock.Anything, guest.UserID).Return([]domain.Booking{}, nil)

	got, err := service.ListForGuest(context.Background(), guest)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBookingService_CompleteFinishedStays(t *testing.T) {
	repo := &MockBookingRepository{}
	service := newTestService(repo, &MockListingReader{}, &MockEnqueuer{})

	listing := testListing()
	done := activeBooking(listing, "2024-04-25", "2024-05-01", domain.BookingStatusCompleted)
	repo.On("CompleteEndedBy", mock.Anything, date("2024-05-01")).Return([]domain.Booking{done}, nil)

	completed, err := service.CompleteFinishedStays(context.Background(), fixedNow)

	require.NoError(t, err)
	assert.Len(t, completed, 1)
	repo.AssertExpectations(t)
}

func TestBookingService_SendCheckInReminders(t *testing.T) {
	repo := &MockBookingRepository{}
	notifier := &MockEnqueuer{}
	service := newTestService(repo, &MockListingReader{}, notifier)

	listing := testListing()
	upcoming := []domain.Booking{
		activeBooking(listing, "2024-05-02", "2024-05-05", domain.BookingStatusConfirmed),
		activeBooking(listing, "2024-05-02", "2024-05-03", domain.BookingStatusConfirmed),
	}
	repo.On("ListConfirmedStartingOn", mock.Anything, date("2024-05-02")).Return(upcoming, nil)
	notifier.On("Enqueue", mock.Anything, mock.MatchedBy(func(e notify.Event) bool {
		return e.Kind == notify.KindBookingReminder
	})).Twice()

	n, err := service.SendCheckInReminders(context.Background(), fixedNow)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	notifier.AssertExpectations(t)
}

func TestBookingService_SendCheckInReminders_RepeatedSweepsShareEventID(t *testing.T) {
	repo := &MockBookingRepository{}
	recorder := &recordingEnqueuer{}
	service := NewBookingService(repo, &MockListingReader{}, recorder, logger.Discard())

	listing := testListing()
	upcoming := []domain.Booking{activeBooking(listing, "2024-05-02", "2024-05-05", domain.BookingStatusConfirmed)}
	repo.On("ListConfirmedStartingOn", mock.Anything, date("2024-05-02")).Return(upcoming, nil)

	for run := 0; run < 24; run++ {
		_, err := service.SendCheckInReminders(context.Background(), fixedNow.Add(time.Duration(run)*10*time.Minute))
		require.NoError(t, err)
	}

	require.Len(t, recorder.events, 24)
	ids := map[string]struct{}{}
	for _, e := range recorder.events {
		ids[e.ID] = struct{}{}
	}
	assert.Len(t, ids, 1)
	assert.Equal(t, "reminder:"+upcoming[0].ID.String()+":2024-05-02", recorder.events[0].ID)
}

func TestBookingService_SendCheckInReminders_RepoError(t *testing.T) {
	repo := &MockBookingRepository{}
	notifier := &MockEnqueuer{}
	service := newTestService(repo, &MockListingReader{}, notifier)

	repo.On("ListConfirmedStartingOn", mock.Anything, mock.Anything).Return([]domain.Booking(nil), errors.New("db down"))

	n, err := service.SendCheckInReminders(context.Background(), fixedNow)

	assert.Error(t, err)
	assert.Zero(t, n)
	notifier.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}
