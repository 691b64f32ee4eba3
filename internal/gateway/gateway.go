package gateway

import "context"

type CheckoutRequest struct {
	AmountCents int64
	Currency    string
	Email       string
	FirstName   string
	LastName    string
	TxRef       string
	CallbackURL string
	ReturnURL   string
}

type CheckoutSession struct {
	CheckoutURL string
}

// VerifyResult is the settlement state reported by the gateway. Settled=false
// is a definitive negative answer, not a transport failure.
type VerifyResult struct {
	Settled bool
	Status  string
}

type Gateway interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	Verify(ctx context.Context, txRef string) (*VerifyResult, error)
}
