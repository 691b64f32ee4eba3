package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

type PropertyType string

const (
	PropertyHotel      PropertyType = "hotel"
	PropertyApartment  PropertyType = "apartment"
	PropertyHouse      PropertyType = "house"
	PropertyVilla      PropertyType = "villa"
	PropertyResort     PropertyType = "resort"
	PropertyHostel     PropertyType = "hostel"
	PropertyGuesthouse PropertyType = "guesthouse"
)

type Listing struct {
	ID                 uuid.UUID
	HostID             uuid.UUID
	Title              string
	Description        string
	PropertyType       PropertyType
	Location           string
	PricePerNightCents int64
	MaxGuests          int
	Bedrooms           int
	Bathrooms          int
	Amenities          []string
	IsAvailable        bool
	MinimumStay        int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsHost reports whether the user owns the listing.
func (l *Listing) IsHost(userID uuid.UUID) bool {
	return l != nil && l.HostID == userID
}

// ListingFilter narrows catalog searches. Zero values mean "no constraint".
type ListingFilter struct {
	Available     *bool
	MinPriceCents int64
	MaxPriceCents int64
	Guests        int
	Location      string
	HostID        uuid.UUID
}

// NormalizeAmenities trims, drops empties and duplicates, and sorts, so the
// slice behaves as a set.
func NormalizeAmenities(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, a := range in {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		key := strings.ToLower(a)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}
