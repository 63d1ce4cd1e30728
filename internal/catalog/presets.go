package catalog

import (
	"storefront/internal/models"
)

// PricePreset is a one-click price range.
type PricePreset struct {
	Label string     `json:"label"`
	Range PriceRange `json:"range"`
}

// PricePresets returns the quick price ranges offered beside the slider.
// The last preset is open-ended up to maxPrice.
func PricePresets(maxPrice float64) []PricePreset {
	return []PricePreset{
		{Label: "Hasta $500K", Range: PriceRange{Min: 0, Max: 500000}},
		{Label: "$500K - $1M", Range: PriceRange{Min: 500000, Max: 1000000}},
		{Label: "$1M - $3M", Range: PriceRange{Min: 1000000, Max: 3000000}},
		{Label: "Más de $3M", Range: PriceRange{Min: 3000000, Max: maxPrice}},
	}
}

// DeliveryOption pairs a delivery class with its display label.
type DeliveryOption struct {
	Class models.DeliveryClass `json:"class"`
	Label string               `json:"label"`
}

// DeliveryOptions lists the selectable delivery classes.
func DeliveryOptions() []DeliveryOption {
	return []DeliveryOption{
		{Class: models.DeliveryNational, Label: "Nacional"},
		{Class: models.DeliveryInternational, Label: "Internacional"},
	}
}

// RatingFloors lists the selectable minimum ratings, highest first.
func RatingFloors() []float64 {
	return []float64{4, 3, 2, 1}
}
