package listings

import (
	"context"
	"strings"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ListingUseCase interface {
	Create(ctx context.Context, actor domain.Actor, input ListingInput) (*domain.Listing, error)
	Update(ctx context.Context, actor domain.Actor, id uuid.UUID, input ListingInput) (*domain.Listing, error)
	Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
	List(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error)
	ListByHost(ctx context.Context, hostID uuid.UUID) ([]domain.Listing, error)
}

type ListingCache interface {
	GetListing(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
	SetListing(ctx context.Context, listing *domain.Listing) error
	InvalidateListing(ctx context.Context, id uuid.UUID) error
}

type ListingService struct {
	repo     repository.ListingRepository
	cache    ListingCache
	validate *validator.Validate
	log      *logrus.Entry
}

// NewListingService accepts a nil cache; reads then always hit the repository.
func NewListingService(repo repository.ListingRepository, cache ListingCache, log *logrus.Entry) *ListingService {
	return &ListingService{repo: repo, cache: cache, validate: newValidator(), log: log}
}

func (s *ListingService) Create(ctx context.Context, actor domain.Actor, input ListingInput) (*domain.Listing, error) {
	input = normalize(input)
	if err := s.validate.Struct(input); err != nil {
		return nil, describe(err)
	}

	listing := &domain.Listing{
		ID:     uuid.New(),
		HostID: actor.UserID,
	}
	apply(listing, input)
	if input.IsAvailable == nil {
		listing.IsAvailable = true
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"listing_id": listing.ID, "host_id": listing.HostID}).Info("listing created")
	return listing, nil
}

func (s *ListingService) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, input ListingInput) (*domain.Listing, error) {
	input = normalize(input)
	if err := s.validate.Struct(input); err != nil {
		return nil, describe(err)
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.IsHost(actor.UserID) {
		return nil, domain.ErrForbidden
	}

	updated := *current
	apply(&updated, input)
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	s.log.WithField("listing_id", id).Info("listing updated")
	return &updated, nil
}

func (s *ListingService) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !current.IsHost(actor.UserID) {
		return domain.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.log.WithField("listing_id", id).Info("listing deleted")
	return nil
}

func (s *ListingService) Get(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetListing(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetListing(ctx, listing); err != nil {
			s.log.WithError(err).WithField("listing_id", id).Warn("listing cache write failed")
		}
	}
	return listing, nil
}

func (s *ListingService) List(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	if filter.Guests < 0 || filter.MinPriceCents < 0 || filter.MaxPriceCents < 0 {
		return nil, domain.ErrInvalidInput
	}
	filter.Location = strings.TrimSpace(filter.Location)
	return s.repo.List(ctx, filter)
}

func (s *ListingService) ListByHost(ctx context.Context, hostID uuid.UUID) ([]domain.Listing, error) {
	return s.repo.List(ctx, domain.ListingFilter{HostID: hostID})
}

func (s *ListingService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateListing(ctx, id); err != nil {
		s.log.WithError(err).WithField("listing_id", id).Warn("listing cache invalidation failed")
	}
}

func normalize(input ListingInput) ListingInput {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Location = strings.TrimSpace(input.Location)
	input.PropertyType = domain.PropertyType(strings.ToLower(strings.TrimSpace(string(input.PropertyType))))
	input.Amenities = domain.NormalizeAmenities(input.Amenities)
	if input.MinimumStay == 0 {
		input.MinimumStay = 1
	}
	return input
}

func apply(l *domain.Listing, input ListingInput) {
	l.Title = input.Title
	l.Description = input.Description
	l.PropertyType = input.PropertyType
	l.Location = input.Location
	l.PricePerNightCents = input.PricePerNightCents
	l.MaxGuests = input.MaxGuests
	l.Bedrooms = input.Bedrooms
	l.Bathrooms = input.Bathrooms
	l.Amenities = input.Amenities
	l.MinimumStay = input.MinimumStay
	if input.IsAvailable != nil {
		l.IsAvailable = *input.IsAvailable
	}
}

var _ ListingUseCase = (*ListingService)(nil)
