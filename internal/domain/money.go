package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxPricePerNightCents caps a nightly price so a year of nights still fits in int64.
const MaxPricePerNightCents int64 = 100_000_000_000

const maxWholeUnits = (math.MaxInt64 - 99) / 100

// FormatCents renders minor units as a two-decimal amount, e.g. 30000 -> "300.00".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// ParseCents parses a decimal amount with at most two fractional digits.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" || strings.HasPrefix(whole, "-") || strings.HasPrefix(whole, "+") {
		return 0, fmt.Errorf("%w: amount %q", ErrInvalidInput, s)
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > maxWholeUnits {
		return 0, fmt.Errorf("%w: amount %q", ErrInvalidInput, s)
	}
	var minor int64
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, fmt.Errorf("%w: amount %q must have at most two decimals", ErrInvalidInput, s)
		}
		if len(frac) == 1 {
			frac += "0"
		}
		minor, err = strconv.ParseInt(frac, 10, 64)
		if err != nil || strings.HasPrefix(frac, "-") || strings.HasPrefix(frac, "+") {
			return 0, fmt.Errorf("%w: amount %q", ErrInvalidInput, s)
		}
	}
	return units*100 + minor, nil
}
