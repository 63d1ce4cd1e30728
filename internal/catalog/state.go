package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"storefront/internal/models"
)

// Reference listing settings.
const (
	DefaultPageSize = 8
	DefaultMaxPrice = 10000000
)

var (
	ErrUnknownSortKey  = errors.New("unknown sort key")
	ErrUnknownDelivery = errors.New("unknown delivery class")
	ErrUnknownPreset   = errors.New("unknown price preset")
	ErrInvalidQuery    = errors.New("invalid catalog query")
)

// SortKey selects the listing order.
type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortRating    SortKey = "rating"
	SortNewest    SortKey = "newest"
	SortDiscount  SortKey = "discount"
)

// SortKeys lists every supported key in display order.
func SortKeys() []SortKey {
	return []SortKey{SortRelevance, SortPriceAsc, SortPriceDesc, SortRating, SortNewest, SortDiscount}
}

// ParseSortKey parses a sort key. An empty string means relevance.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortRelevance, nil
	}

	key := SortKey(s)
	if !slices.Contains(SortKeys(), key) {
		return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
	}

	return key, nil
}

// ParseDeliveryClass accepts the English class names and the storefront's Spanish labels.
func ParseDeliveryClass(s string) (models.DeliveryClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "national", "nacional":
		return models.DeliveryNational, nil
	case "international", "internacional":
		return models.DeliveryInternational, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownDelivery, s)
}

// PriceRange is an inclusive price interval.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether price lies within the range, bounds included.
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

func (r PriceRange) normalized() PriceRange {
	r.Min = max(0, r.Min)
	r.Max = max(0, r.Max)

	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}

	return r
}

// FilterState holds the user's filter selections.
type FilterState struct {
	Price     PriceRange             `json:"price_range"`
	Delivery  []models.DeliveryClass `json:"delivery"`
	MinRating float64                `json:"min_rating"`
}

// DefaultFilters returns the untouched filter state for a catalog whose prices top out at maxPrice.
func DefaultFilters(maxPrice float64) FilterState {
	return FilterState{
		Price:    PriceRange{Min: 0, Max: maxPrice},
		Delivery: []models.DeliveryClass{},
	}
}

// HasDelivery reports whether class is selected.
func (f FilterState) HasDelivery(class models.DeliveryClass) bool {
	return slices.Contains(f.Delivery, class)
}

// normalized returns a copy with a valid price range, a rating floor in [0, 5]
// and the delivery selections as a set in canonical order.
func (f FilterState) normalized() FilterState {
	out := FilterState{
		Price:     f.Price.normalized(),
		MinRating: max(0, min(5, f.MinRating)),
		Delivery:  make([]models.DeliveryClass, 0, 2),
	}

	for _, class := range []models.DeliveryClass{models.DeliveryNational, models.DeliveryInternational} {
		if f.HasDelivery(class) {
			out.Delivery = append(out.Delivery, class)
		}
	}

	return out
}

// PageState holds the ordering and position within the filtered listing.
type PageState struct {
	Sort        SortKey `json:"sort"`
	CurrentPage int     `json:"current_page"`
	PageSize    int     `json:"page_size"`
}
