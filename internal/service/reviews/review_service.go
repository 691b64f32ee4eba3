package reviews

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const maxCommentLength = 2000

type ReviewUseCase interface {
	Create(ctx context.Context, actor domain.Actor, listingID uuid.UUID, rating int, comment string) (*domain.Review, error)
	ListForListing(ctx context.Context, listingID uuid.UUID) ([]domain.Review, error)
	Summary(ctx context.Context, listingID uuid.UUID) (*domain.RatingSummary, error)
}

type ListingReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
}

type ReviewService struct {
	reviews  repository.ReviewRepository
	listings ListingReader
	log      *logrus.Entry
}

func NewReviewService(reviews repository.ReviewRepository, listings ListingReader, log *logrus.Entry) *ReviewService {
	return &ReviewService{reviews: reviews, listings: listings, log: log}
}

func (s *ReviewService) Create(ctx context.Context, actor domain.Actor, listingID uuid.UUID, rating int, comment string) (*domain.Review, error) {
	if rating < domain.MinRating || rating > domain.MaxRating {
		return nil, domain.ErrInvalidRating
	}
	comment = strings.TrimSpace(comment)
	if len(comment) > maxCommentLength {
		return nil, fmt.Errorf("%w: comment longer than %d characters", domain.ErrInvalidInput, maxCommentLength)
	}
	if _, err := s.listings.GetByID(ctx, listingID); err != nil {
		return nil, err
	}

	review := &domain.Review{
		ID:         uuid.New(),
		ListingID:  listingID,
		ReviewerID: actor.UserID,
		Rating:     rating,
		Comment:    comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"review_id":  review.ID,
		"listing_id": listingID,
		"rating":     rating,
	}).Info("review created")
	return review, nil
}

func (s *ReviewService) ListForListing(ctx context.Context, listingID uuid.UUID) ([]domain.Review, error) {
	if _, err := s.listings.GetByID(ctx, listingID); err != nil {
		return nil, err
	}
	return s.reviews.ListByListing(ctx, listingID)
}

func (s *ReviewService) Summary(ctx context.Context, listingID uuid.UUID) (*domain.RatingSummary, error) {
	if _, err := s.listings.GetByID(ctx, listingID); err != nil {
		return nil, err
	}
	return s.reviews.Summary(ctx, listingID)
}

var _ ReviewUseCase = (*ReviewService)(nil)
