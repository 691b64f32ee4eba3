package domain

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

type Payment struct {
	ID             uuid.UUID
	BookingID      uuid.UUID
	AmountCents    int64
	Currency       string
	TransactionRef string
	CheckoutURL    string
	Status         PaymentStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
