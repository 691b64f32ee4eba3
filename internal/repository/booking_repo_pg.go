package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingTx exposes booking writes inside a transaction that holds the
// listing row lock.
type BookingTx interface {
	ActiveOverlapping(ctx context.Context, listingID uuid.UUID, start, end time.Time) ([]domain.Booking, error)
	Create(ctx context.Context, booking *domain.Booking) error
	UpdateDates(ctx context.Context, booking *domain.Booking) error
}

type BookingRepository interface {
	// WithListingLock runs fn in a transaction after locking the listing row.
	WithListingLock(ctx context.Context, listingID uuid.UUID, fn func(ctx context.Context, tx BookingTx, listing *domain.Listing) error) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	ListByGuest(ctx context.Context, guestID uuid.UUID) ([]domain.Booking, error)
	ListByListing(ctx context.Context, listingID uuid.UUID) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) (*domain.Booking, error)
	CompleteEndedBy(ctx context.Context, day time.Time) ([]domain.Booking, error)
	ListConfirmedStartingOn(ctx context.Context, day time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, listing_id, guest_id, guest_email, start_date, end_date, number_of_guests, total_price_cents,
	status, special_requests, created_at, updated_at`

func scanBooking(row interface{ Scan(dest ...any) error }) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.ListingID, &b.GuestID, &b.GuestEmail, &b.StartDate, &b.EndDate, &b.NumberOfGuests, &b.TotalPriceCents,
		&b.Status, &b.SpecialRequests, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBookings(rows pgx.Rows, err error) ([]domain.Booking, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) WithListingLock(ctx context.Context, listingID uuid.UUID, fn func(ctx context.Context, tx BookingTx, listing *domain.Listing) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	listing, err := scanListing(tx.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings WHERE id=$1 FOR UPDATE`, listingID))
	if err != nil {
		return notFound(err, domain.ErrListingNotFound)
	}

	if err := fn(ctx, &pgBookingTx{q: tx}, listing); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type pgBookingTx struct {
	q querier
}

func (t *pgBookingTx) ActiveOverlapping(ctx context.Context, listingID uuid.UUID, start, end time.Time) ([]domain.Booking, error) {
	rows, err := t.q.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE listing_id=$1 AND status IN ($2, $3) AND start_date < $5 AND end_date > $4
		ORDER BY start_date`,
		listingID, domain.BookingStatusPending, domain.BookingStatusConfirmed, start, end)
	return collectBookings(rows, err)
}

func (t *pgBookingTx) Create(ctx context.Context, b *domain.Booking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	err := t.q.QueryRow(ctx, `INSERT INTO bookings (id, listing_id, guest_id, guest_email, start_date, end_date, number_of_guests,
			total_price_cents, status, special_requests)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`,
		b.ID, b.ListingID, b.GuestID, b.GuestEmail, b.StartDate, b.EndDate, b.NumberOfGuests, b.TotalPriceCents, b.Status, b.SpecialRequests).
		Scan(&b.CreatedAt, &b.UpdatedAt)
	if isExclusionViolation(err) {
		return domain.ErrDateConflict
	}
	return err
}

// UpdateDates only touches pending bookings.
func (t *pgBookingTx) UpdateDates(ctx context.Context, b *domain.Booking) error {
	err := t.q.QueryRow(ctx, `UPDATE bookings SET start_date=$2, end_date=$3, number_of_guests=$4, total_price_cents=$5,
			special_requests=$6, updated_at=now()
		WHERE id=$1 AND status=$7
		RETURNING updated_at`,
		b.ID, b.StartDate, b.EndDate, b.NumberOfGuests, b.TotalPriceCents, b.SpecialRequests, domain.BookingStatusPending).
		Scan(&b.UpdatedAt)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return domain.ErrBookingNotMutable
	case isExclusionViolation(err):
		return domain.ErrDateConflict
	}
	return err
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id))
	if err != nil {
		return nil, notFound(err, domain.ErrBookingNotFound)
	}
	return b, nil
}

func (r *PGBookingRepository) ListByGuest(ctx context.Context, guestID uuid.UUID) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE guest_id=$1 ORDER BY created_at DESC`, guestID)
	return collectBookings(rows, err)
}

func (r *PGBookingRepository) ListByListing(ctx context.Context, listingID uuid.UUID) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE listing_id=$1 ORDER BY start_date`, listingID)
	return collectBookings(rows, err)
}

// UpdateStatus applies the change only if the booking is still in status from.
func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `UPDATE bookings SET status=$3, updated_at=now()
		WHERE id=$1 AND status=$2
		RETURNING `+bookingColumns, id, from, to))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrIllegalTransition
	}
	return b, err
}

func (r *PGBookingRepository) CompleteEndedBy(ctx context.Context, day time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `UPDATE bookings SET status=$1, updated_at=now()
		WHERE status=$2 AND end_date <= $3
		RETURNING `+bookingColumns, domain.BookingStatusCompleted, domain.BookingStatusConfirmed, day)
	return collectBookings(rows, err)
}

func (r *PGBookingRepository) ListConfirmedStartingOn(ctx context.Context, day time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE status=$1 AND start_date=$2`,
		domain.BookingStatusConfirmed, day)
	return collectBookings(rows, err)
}

var _ BookingRepository = (*PGBookingRepository)(nil)
