package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/service/booking"
	"github.com/Domenick1991/travelbooking/internal/service/payment"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type BookingHandler struct {
	service  booking.BookingUseCase
	payments payment.PaymentUseCase
	log      *logrus.Entry
}

type createBookingRequest struct {
	ListingID       string `json:"listing_id" binding:"required"`
	StartDate       string `json:"start_date" binding:"required"`
	EndDate         string `json:"end_date" binding:"required"`
	NumberOfGuests  int    `json:"number_of_guests"`
	SpecialRequests string `json:"special_requests"`
}

type updateBookingRequest struct {
	StartDate       string  `json:"start_date" binding:"required"`
	EndDate         string  `json:"end_date" binding:"required"`
	NumberOfGuests  int     `json:"number_of_guests"`
	SpecialRequests *string `json:"special_requests"`
}

type bookingResponse struct {
	ID              string `json:"id"`
	ListingID       string `json:"listing_id"`
	GuestID         string `json:"guest_id"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	Nights          int    `json:"nights"`
	NumberOfGuests  int    `json:"number_of_guests"`
	TotalPrice      string `json:"total_price"`
	Status          string `json:"status"`
	SpecialRequests string `json:"special_requests"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

func NewBookingHandler(service booking.BookingUseCase, payments payment.PaymentUseCase, log *logrus.Entry) *BookingHandler {
	return &BookingHandler{service: service, payments: payments, log: log}
}

// Register expects router to already require authentication.
func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.listMine)
	router.GET("/:id", h.get)
	router.PATCH("/:id", h.update)
	router.POST("/:id/confirm", h.confirm)
	router.POST("/:id/cancel", h.cancel)
	router.POST("/:id/payments", h.initiatePayment)
	router.GET("/:id/payment", h.getPayment)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Code: domain.ErrInvalidInput.Code, Message: "invalid listing_id"})
		return
	}
	start, end, ok := parseDates(c, req.StartDate, req.EndDate)
	if !ok {
		return
	}
	guests := req.NumberOfGuests
	if guests == 0 {
		guests = 1
	}

	created, err := h.service.CreateBooking(c.Request.Context(), actorFrom(c), booking.CreateBookingInput{
		ListingID:       listingID,
		StartDate:       start,
		EndDate:         end,
		NumberOfGuests:  guests,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) listMine(c *gin.Context) {
	found, err := h.service.ListForGuest(c.Request.Context(), actorFrom(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponses(found))
}

func (h *BookingHandler) get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	found, err := h.service.GetBooking(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(found))
}

func (h *BookingHandler) update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	start, end, ok := parseDates(c, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	updated, err := h.service.UpdateBookingDates(c.Request.Context(), actorFrom(c), id, booking.UpdateBookingInput{
		StartDate:       start,
		EndDate:         end,
		NumberOfGuests:  req.NumberOfGuests,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *BookingHandler) confirm(c *gin.Context) {
	h.changeStatus(c, domain.BookingStatusConfirmed)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	h.changeStatus(c, domain.BookingStatusCancelled)
}

func (h *BookingHandler) changeStatus(c *gin.Context, status domain.BookingStatus) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	updated, err := h.service.ChangeStatus(c.Request.Context(), actorFrom(c), id, status)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *BookingHandler) initiatePayment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := h.payments.Initiate(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, initiatePaymentResponse{
		PaymentID:      res.PaymentID.String(),
		TransactionRef: res.TransactionRef,
		CheckoutURL:    res.CheckoutURL,
		Amount:         domain.FormatCents(res.AmountCents),
		Currency:       res.Currency,
	})
}

func (h *BookingHandler) getPayment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.payments.GetForBooking(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentResponse(p))
}

func parseDates(c *gin.Context, startStr, endStr string) (time.Time, time.Time, bool) {
	start, err := domain.ParseDate(startStr)
	if err != nil {
		badRequest(c, err)
		return time.Time{}, time.Time{}, false
	}
	end, err := domain.ParseDate(endStr)
	if err != nil {
		badRequest(c, err)
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:              b.ID.String(),
		ListingID:       b.ListingID.String(),
		GuestID:         b.GuestID.String(),
		StartDate:       domain.FormatDate(b.StartDate),
		EndDate:         domain.FormatDate(b.EndDate),
		Nights:          b.Nights(),
		NumberOfGuests:  b.NumberOfGuests,
		TotalPrice:      domain.FormatCents(b.TotalPriceCents),
		Status:          string(b.Status),
		SpecialRequests: b.SpecialRequests,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       b.UpdatedAt.Format(time.RFC3339),
	}
}

func toBookingResponses(in []domain.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(in))
	for i := range in {
		out = append(out, toBookingResponse(&in[i]))
	}
	return out
}
