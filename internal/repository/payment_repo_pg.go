package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.Payment, error)
	GetByTransactionRef(ctx context.Context, ref string) (*domain.Payment, error)
	// SettlePending moves a pending payment to status. The bool is false when
	// the payment had already left pending; the current row is returned then.
	SettlePending(ctx context.Context, ref string, status domain.PaymentStatus) (*domain.Payment, bool, error)
}

type PGPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) PaymentRepository {
	return &PGPaymentRepository{db: db}
}

const paymentColumns = `id, booking_id, amount_cents, currency, transaction_ref, checkout_url, status, created_at, updated_at`

func scanPayment(row interface{ Scan(dest ...any) error }) (*domain.Payment, error) {
	var p domain.Payment
	if err := row.Scan(&p.ID, &p.BookingID, &p.AmountCents, &p.Currency, &p.TransactionRef, &p.CheckoutURL, &p.Status,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PGPaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx, `INSERT INTO payments (id, booking_id, amount_cents, currency, transaction_ref, checkout_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		p.ID, p.BookingID, p.AmountCents, p.Currency, p.TransactionRef, p.CheckoutURL, p.Status).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrPaymentAlreadyInitiated
	}
	if isForeignKeyViolation(err) {
		return domain.ErrBookingNotFound
	}
	return err
}

func (r *PGPaymentRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.Payment, error) {
	p, err := scanPayment(r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE booking_id=$1`, bookingID))
	if err != nil {
		return nil, notFound(err, domain.ErrPaymentNotFound)
	}
	return p, nil
}

func (r *PGPaymentRepository) GetByTransactionRef(ctx context.Context, ref string) (*domain.Payment, error) {
	p, err := scanPayment(r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE transaction_ref=$1`, ref))
	if err != nil {
		return nil, notFound(err, domain.ErrPaymentNotFound)
	}
	return p, nil
}

func (r *PGPaymentRepository) SettlePending(ctx context.Context, ref string, status domain.PaymentStatus) (*domain.Payment, bool, error) {
	p, err := scanPayment(r.db.QueryRow(ctx, `UPDATE payments SET status=$2, updated_at=now()
		WHERE transaction_ref=$1 AND status=$3
		RETURNING `+paymentColumns, ref, status, domain.PaymentStatusPending))
	if err == nil {
		return p, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	current, err := r.GetByTransactionRef(ctx, ref)
	if err != nil {
		return nil, false, err
	}
	return current, false, nil
}

var _ PaymentRepository = (*PGPaymentRepository)(nil)
