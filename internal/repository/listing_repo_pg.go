package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	Update(ctx context.Context, listing *domain.Listing) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
	List(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error)
}

type PGListingRepository struct {
	db *pgxpool.Pool
}

func NewListingRepository(db *pgxpool.Pool) ListingRepository {
	return &PGListingRepository{db: db}
}

const listingColumns = `id, host_id, title, description, property_type, location, price_per_night_cents,
	max_guests, bedrooms, bathrooms, amenities, is_available, minimum_stay, created_at, updated_at`

func scanListing(row interface{ Scan(dest ...any) error }) (*domain.Listing, error) {
	var l domain.Listing
	if err := row.Scan(&l.ID, &l.HostID, &l.Title, &l.Description, &l.PropertyType, &l.Location, &l.PricePerNightCents,
		&l.MaxGuests, &l.Bedrooms, &l.Bathrooms, &l.Amenities, &l.IsAvailable, &l.MinimumStay, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *PGListingRepository) Create(ctx context.Context, l *domain.Listing) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return r.db.QueryRow(ctx, `INSERT INTO listings (id, host_id, title, description, property_type, location, price_per_night_cents,
			max_guests, bedrooms, bathrooms, amenities, is_available, minimum_stay)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`,
		l.ID, l.HostID, l.Title, l.Description, l.PropertyType, l.Location, l.PricePerNightCents,
		l.MaxGuests, l.Bedrooms, l.Bathrooms, l.Amenities, l.IsAvailable, l.MinimumStay).
		Scan(&l.CreatedAt, &l.UpdatedAt)
}

func (r *PGListingRepository) Update(ctx context.Context, l *domain.Listing) error {
	err := r.db.QueryRow(ctx, `UPDATE listings SET title=$2, description=$3, property_type=$4, location=$5,
			price_per_night_cents=$6, max_guests=$7, bedrooms=$8, bathrooms=$9, amenities=$10, is_available=$11,
			minimum_stay=$12, updated_at=now()
		WHERE id=$1
		RETURNING created_at, updated_at`,
		l.ID, l.Title, l.Description, l.PropertyType, l.Location, l.PricePerNightCents,
		l.MaxGuests, l.Bedrooms, l.Bathrooms, l.Amenities, l.IsAvailable, l.MinimumStay).
		Scan(&l.CreatedAt, &l.UpdatedAt)
	return notFound(err, domain.ErrListingNotFound)
}

// Delete removes the listing; bookings, payments and reviews cascade.
func (r *PGListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM listings WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *PGListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	l, err := scanListing(r.db.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings WHERE id=$1`, id))
	if err != nil {
		return nil, notFound(err, domain.ErrListingNotFound)
	}
	return l, nil
}

func (r *PGListingRepository) List(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	query, args := buildListingQuery(filter)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := make([]domain.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *l)
	}
	return listings, rows.Err()
}

func buildListingQuery(filter domain.ListingFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.Available != nil {
		add("is_available = $%d", *filter.Available)
	}
	if filter.MinPriceCents > 0 {
		add("price_per_night_cents >= $%d", filter.MinPriceCents)
	}
	if filter.MaxPriceCents > 0 {
		add("price_per_night_cents <= $%d", filter.MaxPriceCents)
	}
	if filter.Guests > 0 {
		add("max_guests >= $%d", filter.Guests)
	}
	if filter.Location != "" {
		add("location ILIKE '%%' || $%d || '%%'", filter.Location)
	}
	if filter.HostID != uuid.Nil {
		add("host_id = $%d", filter.HostID)
	}

	query := `SELECT ` + listingColumns + ` FROM listings`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	return query + ` ORDER BY created_at DESC`, args
}

var _ ListingRepository = (*PGListingRepository)(nil)
