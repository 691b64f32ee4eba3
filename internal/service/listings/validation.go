package listings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/go-playground/validator/v10"
)

// ListingInput carries host-supplied listing fields. A nil IsAvailable means
// "available" on create and "unchanged" on update.
type ListingInput struct {
	Title              string              `validate:"required,min=5,max=200"`
	Description        string              `validate:"required,min=20"`
	PropertyType       domain.PropertyType `validate:"required,oneof=hotel apartment house villa resort hostel guesthouse"`
	Location           string              `validate:"required,max=255"`
	PricePerNightCents int64               `validate:"gt=0,lte=100000000000"`
	MaxGuests          int                 `validate:"gte=1"`
	Bedrooms           int                 `validate:"gte=0"`
	Bathrooms          int                 `validate:"gte=0"`
	Amenities          []string            `validate:"dive,max=100"`
	IsAvailable        *bool
	MinimumStay        int `validate:"gte=1,lte=365"`
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// describe turns validator output into one readable line wrapped in
// ErrInvalidInput.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		case "min", "gte":
			parts = append(parts, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "max", "lte":
			parts = append(parts, fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
		case "gt":
			parts = append(parts, fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param()))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(parts, "; "))
}
