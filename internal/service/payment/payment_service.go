package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/gateway"
	"github.com/Domenick1991/travelbooking/internal/notify"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	txRefPrefix       = "travel-"
	bookingIDTemplate = "{booking_id}"
	defaultCurrency   = "ETB"
	defaultLockTTL    = 30 * time.Second
)

type PaymentUseCase interface {
	Initiate(ctx context.Context, actor domain.Actor, bookingID uuid.UUID) (*InitiateResult, error)
	Verify(ctx context.Context, txRef string) (domain.PaymentStatus, error)
	GetForBooking(ctx context.Context, actor domain.Actor, bookingID uuid.UUID) (*domain.Payment, error)
}

type BookingReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
}

type ListingReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
}

// Locker serialises initiation attempts for one booking across instances.
type Locker interface {
	AcquirePaymentLock(ctx context.Context, bookingID uuid.UUID, ttl time.Duration) (bool, error)
	ReleasePaymentLock(ctx context.Context, bookingID uuid.UUID) error
}

type InitiateResult struct {
	PaymentID      uuid.UUID
	TransactionRef string
	CheckoutURL    string
	AmountCents    int64
	Currency       string
}

type PaymentService struct {
	payments repository.PaymentRepository
	bookings BookingReader
	listings ListingReader
	gateway  gateway.Gateway
	notifier notify.Enqueuer
	locker   Locker
	log      *logrus.Entry

	currency    string
	callbackURL string
	returnURL   string
	lockTTL     time.Duration
}

type PaymentServiceOption func(*PaymentService)

func WithLocker(locker Locker, ttl time.Duration) PaymentServiceOption {
	return func(s *PaymentService) {
		s.locker = locker
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

func WithCurrency(currency string) PaymentServiceOption {
	return func(s *PaymentService) {
		if currency != "" {
			s.currency = currency
		}
	}
}

// WithURLs sets the gateway callback base and the guest return URL. The
// transaction reference is appended to callbackURL; "{booking_id}" in
// returnURL is replaced with the booking id.
func WithURLs(callbackURL, returnURL string) PaymentServiceOption {
	return func(s *PaymentService) {
		s.callbackURL = callbackURL
		s.returnURL = returnURL
	}
}

func NewPaymentService(
	payments repository.PaymentRepository,
	bookings BookingReader,
	listings ListingReader,
	gw gateway.Gateway,
	notifier notify.Enqueuer,
	log *logrus.Entry,
	opts ...PaymentServiceOption,
) *PaymentService {
	service := &PaymentService{
		payments: payments,
		bookings: bookings,
		listings: listings,
		gateway:  gw,
		notifier: notifier,
		log:      log,
		currency: defaultCurrency,
		lockTTL:  defaultLockTTL,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *PaymentService) Initiate(ctx context.Context, actor domain.Actor, bookingID uuid.UUID) (*InitiateResult, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.GuestID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	if booking.Status == domain.BookingStatusCancelled || booking.Status == domain.BookingStatusCompleted {
		return nil, fmt.Errorf("%w: booking is %s", domain.ErrBookingNotPayable, booking.Status)
	}

	if s.locker != nil {
		ok, err := s.locker.AcquirePaymentLock(ctx, bookingID, s.lockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: initiation in progress", domain.ErrPaymentAlreadyInitiated)
		}
		defer func() {
			if err := s.locker.ReleasePaymentLock(context.WithoutCancel(ctx), bookingID); err != nil {
				s.log.WithError(err).WithField("booking_id", bookingID).Warn("payment lock release failed")
			}
		}()
	}

	existing, err := s.payments.GetByBookingID(ctx, bookingID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: transaction %s", domain.ErrPaymentAlreadyInitiated, existing.TransactionRef)
	case !errors.Is(err, domain.ErrPaymentNotFound):
		return nil, err
	}

	txRef := newTransactionRef()
	firstName, lastName := splitName(actor.Name)
	session, err := s.gateway.CreateCheckout(ctx, gateway.CheckoutRequest{
		AmountCents: booking.TotalPriceCents,
		Currency:    s.currency,
		Email:       actor.Email,
		FirstName:   firstName,
		LastName:    lastName,
		TxRef:       txRef,
		CallbackURL: s.callbackFor(txRef),
		ReturnURL:   strings.ReplaceAll(s.returnURL, bookingIDTemplate, bookingID.String()),
	})
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"booking_id": bookingID, "tx_ref": txRef}).Error("checkout creation failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrGateway, err)
	}

	p := &domain.Payment{
		ID:             uuid.New(),
		BookingID:      bookingID,
		AmountCents:    booking.TotalPriceCents,
		Currency:       s.currency,
		TransactionRef: txRef,
		CheckoutURL:    session.CheckoutURL,
		Status:         domain.PaymentStatusPending,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"payment_id": p.ID,
		"tx_ref":     txRef,
		"amount":     domain.FormatCents(p.AmountCents),
	}).Info("payment initiated")

	return &InitiateResult{
		PaymentID:      p.ID,
		TransactionRef: txRef,
		CheckoutURL:    session.CheckoutURL,
		AmountCents:    p.AmountCents,
		Currency:       p.Currency,
	}, nil
}

// Verify reconciles the gateway's view of txRef onto the payment. Terminal
// payments are returned as is without asking the gateway again.
func (s *PaymentService) Verify(ctx context.Context, txRef string) (domain.PaymentStatus, error) {
	p, err := s.payments.GetByTransactionRef(ctx, txRef)
	if err != nil {
		return "", err
	}
	if p.Status.IsTerminal() {
		return p.Status, nil
	}

	result, err := s.gateway.Verify(ctx, txRef)
	if err != nil {
		s.log.WithError(err).WithField("tx_ref", txRef).Warn("payment verification failed")
		return "", fmt.Errorf("%w: %v", domain.ErrGateway, err)
	}

	target := domain.PaymentStatusFailed
	if result.Settled {
		target = domain.PaymentStatusCompleted
	}

	settled, won, err := s.payments.SettlePending(ctx, txRef, target)
	if err != nil {
		return "", err
	}
	if !won {
		return settled.Status, nil
	}

	s.log.WithFields(logrus.Fields{
		"booking_id":     settled.BookingID,
		"tx_ref":         txRef,
		"status":         settled.Status,
		"gateway_status": result.Status,
	}).Info("payment settled")

	if settled.Status == domain.PaymentStatusCompleted {
		s.notifyConfirmation(ctx, settled)
	}
	return settled.Status, nil
}

func (s *PaymentService) GetForBooking(ctx context.Context, actor domain.Actor, bookingID uuid.UUID) (*domain.Payment, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.GuestID != actor.UserID {
		listing, err := s.listings.GetByID(ctx, booking.ListingID)
		if err != nil {
			return nil, err
		}
		if !listing.IsHost(actor.UserID) {
			return nil, domain.ErrForbidden
		}
	}
	return s.payments.GetByBookingID(ctx, bookingID)
}

func (s *PaymentService) notifyConfirmation(ctx context.Context, p *domain.Payment) {
	booking, err := s.bookings.GetByID(ctx, p.BookingID)
	if err != nil {
		s.log.WithError(err).WithField("booking_id", p.BookingID).Warn("booking lookup for confirmation failed")
		booking = &domain.Booking{ID: p.BookingID, TotalPriceCents: p.AmountCents}
	}
	event := notify.NewBookingEvent(notify.KindBookingConfirmation, booking)
	event.TransactionRef = p.TransactionRef
	s.notifier.Enqueue(ctx, event)
}

func (s *PaymentService) callbackFor(txRef string) string {
	if s.callbackURL == "" {
		return ""
	}
	return strings.TrimRight(s.callbackURL, "/") + "/" + txRef
}

func newTransactionRef() string {
	return txRefPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func splitName(name string) (string, string) {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}

var _ PaymentUseCase = (*PaymentService)(nil)
