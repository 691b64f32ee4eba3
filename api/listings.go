package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/service/booking"
	"github.com/Domenick1991/travelbooking/internal/service/listings"
	"github.com/Domenick1991/travelbooking/internal/service/reviews"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ListingHandler struct {
	listings listings.ListingUseCase
	reviews  reviews.ReviewUseCase
	bookings booking.BookingUseCase
	log      *logrus.Entry
}

type listingRequest struct {
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description" binding:"required"`
	PropertyType  string   `json:"property_type" binding:"required"`
	Location      string   `json:"location" binding:"required"`
	PricePerNight string   `json:"price_per_night" binding:"required"`
	MaxGuests     int      `json:"max_guests"`
	Bedrooms      int      `json:"bedrooms"`
	Bathrooms     int      `json:"bathrooms"`
	Amenities     []string `json:"amenities"`
	IsAvailable   *bool    `json:"is_available"`
	MinimumStay   int      `json:"minimum_stay"`
}

type listingResponse struct {
	ID            string   `json:"id"`
	HostID        string   `json:"host_id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	PropertyType  string   `json:"property_type"`
	Location      string   `json:"location"`
	PricePerNight string   `json:"price_per_night"`
	MaxGuests     int      `json:"max_guests"`
	Bedrooms      int      `json:"bedrooms"`
	Bathrooms     int      `json:"bathrooms"`
	Amenities     []string `json:"amenities"`
	IsAvailable   bool     `json:"is_available"`
	MinimumStay   int      `json:"minimum_stay"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type reviewResponse struct {
	ID         string `json:"id"`
	ListingID  string `json:"listing_id"`
	ReviewerID string `json:"reviewer_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
	CreatedAt  string `json:"created_at"`
}

type ratingResponse struct {
	ListingID     string  `json:"listing_id"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

func NewListingHandler(l listings.ListingUseCase, r reviews.ReviewUseCase, b booking.BookingUseCase, log *logrus.Entry) *ListingHandler {
	return &ListingHandler{listings: l, reviews: r, bookings: b, log: log}
}

func (h *ListingHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.GET("", h.list)
	router.GET("/mine", auth, h.mine)
	router.GET("/:id", h.get)
	router.POST("", auth, h.create)
	router.PUT("/:id", auth, h.update)
	router.DELETE("/:id", auth, h.delete)
	router.GET("/:id/bookings", auth, h.bookingsForListing)
	router.GET("/:id/reviews", h.listReviews)
	router.POST("/:id/reviews", auth, h.createReview)
	router.GET("/:id/rating", h.rating)
}

func (h *ListingHandler) list(c *gin.Context) {
	filter, err := parseListingFilter(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	found, err := h.listings.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toListingResponses(found))
}

func (h *ListingHandler) mine(c *gin.Context) {
	found, err := h.listings.ListByHost(c.Request.Context(), actorFrom(c).UserID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toListingResponses(found))
}

func (h *ListingHandler) get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	listing, err := h.listings.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toListingResponse(listing))
}

func (h *ListingHandler) create(c *gin.Context) {
	input, ok := h.bindListing(c)
	if !ok {
		return
	}
	listing, err := h.listings.Create(c.Request.Context(), actorFrom(c), input)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toListingResponse(listing))
}

func (h *ListingHandler) update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	input, ok := h.bindListing(c)
	if !ok {
		return
	}
	listing, err := h.listings.Update(c.Request.Context(), actorFrom(c), id, input)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toListingResponse(listing))
}

func (h *ListingHandler) delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.listings.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ListingHandler) bookingsForListing(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	found, err := h.bookings.ListForListing(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponses(found))
}

func (h *ListingHandler) listReviews(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	found, err := h.reviews.ListForListing(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	resp := make([]reviewResponse, 0, len(found))
	for i := range found {
		resp = append(resp, toReviewResponse(&found[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ListingHandler) createReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	review, err := h.reviews.Create(c.Request.Context(), actorFrom(c), id, req.Rating, req.Comment)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toReviewResponse(review))
}

func (h *ListingHandler) rating(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	summary, err := h.reviews.Summary(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ratingResponse{
		ListingID:     summary.ListingID.String(),
		AverageRating: summary.AverageRating,
		ReviewCount:   summary.ReviewCount,
	})
}

func (h *ListingHandler) bindListing(c *gin.Context) (listings.ListingInput, bool) {
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return listings.ListingInput{}, false
	}
	price, err := domain.ParseCents(req.PricePerNight)
	if err != nil {
		badRequest(c, err)
		return listings.ListingInput{}, false
	}
	return listings.ListingInput{
		Title:              req.Title,
		Description:        req.Description,
		PropertyType:       domain.PropertyType(req.PropertyType),
		Location:           req.Location,
		PricePerNightCents: price,
		MaxGuests:          req.MaxGuests,
		Bedrooms:           req.Bedrooms,
		Bathrooms:          req.Bathrooms,
		Amenities:          req.Amenities,
		IsAvailable:        req.IsAvailable,
		MinimumStay:        req.MinimumStay,
	}, true
}

func parseListingFilter(c *gin.Context) (domain.ListingFilter, error) {
	var filter domain.ListingFilter

	if v := c.Query("available"); v != "" {
		available, err := strconv.ParseBool(v)
		if err != nil {
			return filter, domain.ErrInvalidInput
		}
		filter.Available = &available
	}
	if v := c.Query("min_price"); v != "" {
		cents, err := domain.ParseCents(v)
		if err != nil {
			return filter, err
		}
		filter.MinPriceCents = cents
	}
	if v := c.Query("max_price"); v != "" {
		cents, err := domain.ParseCents(v)
		if err != nil {
			return filter, err
		}
		filter.MaxPriceCents = cents
	}
	if v := c.Query("guests"); v != "" {
		guests, err := strconv.Atoi(v)
		if err != nil || guests < 0 {
			return filter, domain.ErrInvalidInput
		}
		filter.Guests = guests
	}
	filter.Location = c.Query("location")
	return filter, nil
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Code: domain.ErrInvalidInput.Code, Message: "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func toListingResponse(l *domain.Listing) listingResponse {
	amenities := l.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return listingResponse{
		ID:            l.ID.String(),
		HostID:        l.HostID.String(),
		Title:         l.Title,
		Description:   l.Description,
		PropertyType:  string(l.PropertyType),
		Location:      l.Location,
		PricePerNight: domain.FormatCents(l.PricePerNightCents),
		MaxGuests:     l.MaxGuests,
		Bedrooms:      l.Bedrooms,
		Bathrooms:     l.Bathrooms,
		Amenities:     amenities,
		IsAvailable:   l.IsAvailable,
		MinimumStay:   l.MinimumStay,
		CreatedAt:     l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     l.UpdatedAt.Format(time.RFC3339),
	}
}

func toListingResponses(in []domain.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(in))
	for i := range in {
		out = append(out, toListingResponse(&in[i]))
	}
	return out
}

func toReviewResponse(r *domain.Review) reviewResponse {
	return reviewResponse{
		ID:         r.ID.String(),
		ListingID:  r.ListingID.String(),
		ReviewerID: r.ReviewerID.String(),
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
	}
}
