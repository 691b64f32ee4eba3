package repository

import (
	"context"
	"math"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	ListByListing(ctx context.Context, listingID uuid.UUID) ([]domain.Review, error)
	Summary(ctx context.Context, listingID uuid.UUID) (*domain.RatingSummary, error)
}

type PGReviewRepository struct {
	db *pgxpool.Pool
}

func NewReviewRepository(db *pgxpool.Pool) ReviewRepository {
	return &PGReviewRepository{db: db}
}

func (r *PGReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	if rv.ID == uuid.Nil {
		rv.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx, `INSERT INTO reviews (id, listing_id, reviewer_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		rv.ID, rv.ListingID, rv.ReviewerID, rv.Rating, rv.Comment).
		Scan(&rv.CreatedAt, &rv.UpdatedAt)
	switch {
	case isUniqueViolation(err):
		return domain.ErrDuplicateReview
	case isForeignKeyViolation(err):
		return domain.ErrListingNotFound
	}
	return err
}

func (r *PGReviewRepository) ListByListing(ctx context.Context, listingID uuid.UUID) ([]domain.Review, error) {
	rows, err := r.db.Query(ctx, `SELECT id, listing_id, reviewer_id, rating, comment, created_at, updated_at
		FROM reviews WHERE listing_id=$1 ORDER BY created_at DESC`, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.ListingID, &rv.ReviewerID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (r *PGReviewRepository) Summary(ctx context.Context, listingID uuid.UUID) (*domain.RatingSummary, error) {
	var (
		avg   float64
		count int
	)
	if err := r.db.QueryRow(ctx, `SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*) FROM reviews WHERE listing_id=$1`, listingID).
		Scan(&avg, &count); err != nil {
		return nil, err
	}
	return &domain.RatingSummary{
		ListingID:     listingID,
		AverageRating: math.Round(avg*100) / 100,
		ReviewCount:   count,
	}, nil
}

var _ ReviewRepository = (*PGReviewRepository)(nil)
