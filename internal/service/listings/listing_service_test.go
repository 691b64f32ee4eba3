package listings

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockListingRepository) List(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Listing), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetListing(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockCache) SetListing(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockCache) InvalidateListing(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func validInput() ListingInput {
	return ListingInput{
		Title:              "Cozy loft downtown",
		Description:        "Bright loft five minutes from the old town square.",
		PropertyType:       domain.PropertyApartment,
		Location:           "Addis Ababa",
		PricePerNightCents: 10000,
		MaxGuests:          4,
		Bedrooms:           2,
		Bathrooms:          1,
		Amenities:          []string{"wifi", " Kitchen ", "WiFi", ""},
	}
}

func TestListingService_Create_Success(t *testing.T) {
	mockRepo := &MockListingRepository{}
	service := NewListingService(mockRepo, nil, logger.Discard())

	ctx := context.Background()
	host := domain.Actor{UserID: uuid.New()}

	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Listing")).Return(nil)

	listing, err := service.Create(ctx, host, validInput())

	require.NoError(t, err)
	assert.Equal(t, host.UserID, listing.HostID)
	assert.True(t, listing.IsAvailable)
	assert.Equal(t, 1, listing.MinimumStay)
	assert.Equal(t, []string{"Kitchen", "wifi"}, listing.Amenities)
	assert.NotEqual(t, uuid.Nil, listing.ID)
	mockRepo.AssertExpectations(t)
}

func TestListingService_Create_Validation(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*ListingInput)
		field  string
	}{
		{"short title", func(in *ListingInput) { in.Title = "Loft" }, "Title"},
		{"short description", func(in *ListingInput) { in.Description = "Too short" }, "Description"},
		{"zero price", func(in *ListingInput) { in.PricePerNightCents = 0 }, "PricePerNightCents"},
		{"negative price", func(in *ListingInput) { in.PricePerNightCents = -100 }, "PricePerNightCents"},
		{"price above cap", func(in *ListingInput) { in.PricePerNightCents = domain.MaxPricePerNightCents + 1 }, "PricePerNightCents"},
		{"no guests", func(in *ListingInput) { in.MaxGuests = 0 }, "MaxGuests"},
		{"unknown property type", func(in *ListingInput) { in.PropertyType = "castle" }, "PropertyType"},
		{"missing location", func(in *ListingInput) { in.Location = "   " }, "Location"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &MockListingRepository{}
			service := NewListingService(mockRepo, nil, logger.Discard())

			input := validInput()
			tc.modify(&input)

			listing, err := service.Create(context.Background(), domain.Actor{UserID: uuid.New()}, input)

			assert.Nil(t, listing)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), tc.field)
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestListingService_Create_PropertyTypeCaseInsensitive(t *testing.T) {
	mockRepo := &MockListingRepository{}
	service := NewListingService(mockRepo, nil, logger.Discard())
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	input := validInput()
	input.PropertyType = " Villa "

	listing, err := service.Create(context.Background(), domain.Actor{UserID: uuid.New()}, input)

	require.NoError(t, err)
	assert.Equal(t, domain.PropertyVilla, listing.PropertyType)
}

func TestListingService_Update(t *testing.T) {
	hostID := uuid.New()
	existing := &domain.Listing{ID: uuid.New(), HostID: hostID, Title: "Old title", IsAvailable: true, MinimumStay: 1}

	t.Run("host updates and cache is invalidated", func(t *testing.T) {
		mockRepo := &MockListingRepository{}
		mockCache := &MockCache{}
		service := NewListingService(mockRepo, mockCache, logger.Discard())

		unavailable := false
		input := validInput()
		input.IsAvailable = &unavailable

		mockRepo.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
		mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(l *domain.Listing) bool {
			return l.ID == existing.ID && l.Title == input.Title && !l.IsAvailable
		})).Return(nil)
		mockCache.On("InvalidateListing", mock.Anything, existing.ID).Return(nil)

		updated, err := service.Update(context.Background(), domain.Actor{UserID: hostID}, existing.ID, input)

		require.NoError(t, err)
		assert.False(t, updated.IsAvailable)
		assert.Equal(t, "Old title", existing.Title)
		mockRepo.AssertExpectations(t)
		mockCache.AssertExpectations(t)
	})

	t.Run("availability kept when omitted", func(t *testing.T) {
		mockRepo := &MockListingRepository{}
		service := NewListingService(mockRepo, nil, logger.Discard())

		mockRepo.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
		mockRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

		updated, err := service.Update(context.Background(), domain.Actor{UserID: hostID}, existing.ID, validInput())

		require.NoError(t, err)
		assert.True(t, updated.IsAvailable)
	})

	t.Run("non host forbidden", func(t *testing.T) {
		mockRepo := &MockListingRepository{}
		service := NewListingService(mockRepo, nil, logger.Discard())
		mockRepo.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)

		_, err := service.Update(context.Background(), domain.Actor{UserID: uuid.New()}, existing.ID, validInput())

		assert.ErrorIs(t, err, domain.ErrForbidden)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestListingService_Delete(t *testing.T) {
	hostID := uuid.New()
	existing := &domain.Listing{ID: uuid.New(), HostID: hostID}

	t.Run("host deletes", func(t *testing.T) {
		mockRepo := &MockListingRepository{}
		mockCache := &MockCache{}
		service := NewListingService(mockRepo, mockCache, logger.Discard())

		mockRepo.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
		mockRepo.On("Delete", mock.Anything, existing.ID).Return(nil)
		mockCache.On("InvalidateListing", mock.Anything, existing.ID).Return(errors.New("redis down"))

		err := service.Delete(context.Background(), domain.Actor{UserID: hostID}, existing.ID)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("guest forbidden", func(t *testing.T) {
		mockRepo := &MockListingRepository{}
		service := NewListingService(mockRepo, nil, logger.Discard())
		mockRepo.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)

		err := service.Delete(context.Background(), domain.Actor{UserID: uuid.New()}, existing.ID)

		assert.ErrorIs(t, err, domain.ErrForbidden)
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("missing listing", func(t *testing.T) {
		mockRepo := &MockListingRepository{}
		service := NewListingService(mockRepo, nil, logger.Discard())
		id := uuid.New()
		mockRepo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrListingNotFound)

		err := service.Delete(context.Background(), domain.Actor{UserID: hostID}, id)
		assert.ErrorIs(t, err, domain.ErrListingNotFound)
	})
}

func TestListingService_Get_CacheHit(t *testing.T) {
	mockRepo := &MockListingRepository{}
	mockCache := &MockCache{}
	service := NewListingService(mockRepo, mockCache, logger.Discard())

	cached := &domain.Listing{ID: uuid.New(), Title: "Cached"}
	mockCache.On("GetListing", mock.Anything, cached.ID).Return(cached, nil)

	got, err := service.Get(context.Background(), cached.ID)

	require.NoError(t, err)
	assert.Equal(t, cached, got)
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestListingService_Get_CacheMiss(t *testing.T) {
	mockRepo := &MockListingRepository{}
	mockCache := &MockCache{}
	service := NewListingService(mockRepo, mockCache, logger.Discard())

	stored := &domain.Listing{ID: uuid.New(), Title: "Stored"}
	mockCache.On("GetListing", mock.Anything, stored.ID).Return(nil, nil)
	mockRepo.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)
	mockCache.On("SetListing", mock.Anything, stored).Return(nil)

	got, err := service.Get(context.Background(), stored.ID)

	require.NoError(t, err)
	assert.Equal(t, stored, got)
	mockCache.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestListingService_Get_CacheError(t *testing.T) {
	mockRepo := &MockListingRepository{}
	mockCache := &MockCache{}
	service := NewListingService(mockRepo, mockCache, logger.Discard())

	stored := &domain.Listing{ID: uuid.New()}
	mockCache.On("GetListing", mock.Anything, stored.ID).Return(nil, errors.New("redis down"))
	mockRepo.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)
	mockCache.On("SetListing", mock.Anything, stored).Return(errors.New("redis down"))

	got, err := service.Get(context.Background(), stored.ID)

	require.NoError(t, err)
	assert.Equal(t, stored, got)
}

func TestListingService_List(t *testing.T) {
	mockRepo := &MockListingRepository{}
	service := NewListingService(mockRepo, nil, logger.Discard())

	available := true
	filter := domain.ListingFilter{Available: &available, Guests: 3, Location: "  Bahir Dar "}
	expected := []domain.Listing{{ID: uuid.New()}}
	mockRepo.On("List", mock.Anything, mock.MatchedBy(func(f domain.ListingFilter) bool {
		return f.Location == "Bahir Dar" && f.Guests == 3 && *f.Available
	})).Return(expected, nil)

	got, err := service.List(context.Background(), filter)

	require.NoError(t, err)
	assert.Equal(t, expected, got)

	_, err = service.List(context.Background(), domain.ListingFilter{Guests: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListingService_ListByHost(t *testing.T) {
	mockRepo := &MockListingRepository{}
	service := NewListingService(mockRepo, nil, logger.Discard())

	hostID := uuid.New()
	mockRepo.On("List", mock.Anything, domain.ListingFilter{HostID: hostID}).Return([]domain.Listing{}, nil)

	got, err := service.ListByHost(context.Background(), hostID)

	require.NoError(t, err)
	assert.Empty(t, got)
	mockRepo.AssertExpectations(t)
}
