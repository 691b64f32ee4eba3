package domain

import "errors"

type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindForbidden  ErrorKind = "forbidden"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
	KindState      ErrorKind = "state"
	KindGateway    ErrorKind = "gateway"
)

// Error is a classified domain failure. Callers add detail by wrapping the
// sentinel values below with fmt.Errorf("%w: ...").
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrInvalidDateRange   = &Error{Kind: KindValidation, Code: "INVALID_DATE_RANGE", Message: "end date must be after start date"}
	ErrRangeTooLong       = &Error{Kind: KindValidation, Code: "RANGE_TOO_LONG", Message: "booking cannot exceed 365 days"}
	ErrCapacityExceeded   = &Error{Kind: KindValidation, Code: "CAPACITY_EXCEEDED", Message: "number of guests exceeds listing capacity"}
	ErrInvalidGuestCount  = &Error{Kind: KindValidation, Code: "INVALID_GUEST_COUNT", Message: "number of guests must be at least 1"}
	ErrListingUnavailable = &Error{Kind: KindValidation, Code: "LISTING_UNAVAILABLE", Message: "listing is not available for booking"}
	ErrMinimumStay        = &Error{Kind: KindValidation, Code: "MINIMUM_STAY", Message: "stay is shorter than the listing minimum"}
	ErrDateConflict       = &Error{Kind: KindConflict, Code: "DATE_CONFLICT", Message: "listing is already booked for the selected dates"}
	ErrPriceOutOfRange    = &Error{Kind: KindValidation, Code: "PRICE_OUT_OF_RANGE", Message: "total price is out of range"}
	ErrInvalidRating      = &Error{Kind: KindValidation, Code: "INVALID_RATING", Message: "rating must be between 1 and 5"}
	ErrInvalidInput       = &Error{Kind: KindValidation, Code: "INVALID_INPUT", Message: "invalid input"}

	ErrForbidden = &Error{Kind: KindForbidden, Code: "FORBIDDEN", Message: "action not permitted for this user"}

	ErrListingNotFound = &Error{Kind: KindNotFound, Code: "LISTING_NOT_FOUND", Message: "listing not found"}
	ErrBookingNotFound = &Error{Kind: KindNotFound, Code: "BOOKING_NOT_FOUND", Message: "booking not found"}
	ErrPaymentNotFound = &Error{Kind: KindNotFound, Code: "PAYMENT_NOT_FOUND", Message: "payment not found"}

	ErrIllegalTransition       = &Error{Kind: KindState, Code: "ILLEGAL_TRANSITION", Message: "booking status transition not allowed"}
	ErrBookingNotMutable       = &Error{Kind: KindState, Code: "BOOKING_NOT_MUTABLE", Message: "only pending bookings can be changed"}
	ErrBookingNotPayable       = &Error{Kind: KindState, Code: "BOOKING_NOT_PAYABLE", Message: "cancelled or completed bookings cannot be paid"}
	ErrPaymentAlreadyInitiated = &Error{Kind: KindState, Code: "PAYMENT_ALREADY_INITIATED", Message: "payment already initiated for this booking"}
	ErrDuplicateReview         = &Error{Kind: KindConflict, Code: "DUPLICATE_REVIEW", Message: "user already reviewed this listing"}

	ErrGateway = &Error{Kind: KindGateway, Code: "GATEWAY_ERROR", Message: "payment gateway request failed"}
)

// AsError returns the classified error inside err, if any.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

func KindOf(err error) ErrorKind {
	if de, ok := AsError(err); ok {
		return de.Kind
	}
	return ""
}
