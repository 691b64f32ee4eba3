package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/service/payment"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type PaymentHandler struct {
	service payment.PaymentUseCase
	log     *logrus.Entry
}

type initiatePaymentResponse struct {
	PaymentID      string `json:"payment_id"`
	TransactionRef string `json:"transaction_ref"`
	CheckoutURL    string `json:"checkout_url"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
}

type paymentResponse struct {
	ID             string `json:"id"`
	BookingID      string `json:"booking_id"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	TransactionRef string `json:"transaction_ref"`
	CheckoutURL    string `json:"checkout_url"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type verifyResponse struct {
	TransactionRef string `json:"transaction_ref"`
	Status         string `json:"status"`
}

func NewPaymentHandler(service payment.PaymentUseCase, log *logrus.Entry) *PaymentHandler {
	return &PaymentHandler{service: service, log: log}
}

// Register mounts the public gateway callback.
func (h *PaymentHandler) Register(router *gin.RouterGroup) {
	router.GET("/verify/:tx_ref", h.verify)
}

func (h *PaymentHandler) verify(c *gin.Context) {
	ref := c.Param("tx_ref")
	status, err := h.service.Verify(c.Request.Context(), ref)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, verifyResponse{TransactionRef: ref, Status: string(status)})
}

func toPaymentResponse(p *domain.Payment) paymentResponse {
	return paymentResponse{
		ID:             p.ID.String(),
		BookingID:      p.BookingID.String(),
		Amount:         domain.FormatCents(p.AmountCents),
		Currency:       p.Currency,
		TransactionRef: p.TransactionRef,
		CheckoutURL:    p.CheckoutURL,
		Status:         string(p.Status),
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      p.UpdatedAt.Format(time.RFC3339),
	}
}
