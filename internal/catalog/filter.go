package catalog

import (
	"storefront/internal/models"
)

// Filter returns the records matching every active filter, in input order.
// The input is never modified.
func Filter(records []models.ProductRecord, f FilterState) []models.ProductRecord {
	out := make([]models.ProductRecord, 0, len(records))

	for i := range records {
		if f.Matches(&records[i]) {
			out = append(out, records[i])
		}
	}

	return out
}

// Matches reports whether one record passes the filters. Categories are ANDed;
// delivery selections are ORed and an empty selection matches everything.
func (f FilterState) Matches(r *models.ProductRecord) bool {
	if !f.Price.Contains(r.Price) {
		return false
	}

	if len(f.Delivery) > 0 {
		national := f.HasDelivery(models.DeliveryNational) && r.IsNational
		international := f.HasDelivery(models.DeliveryInternational) && !r.IsNational

		if !national && !international {
			return false
		}
	}

	if f.MinRating > 0 && r.AverageRating < f.MinRating {
		return false
	}

	return true
}

// ActiveFilterCount counts non-default selections for badge display: one for a
// narrowed price range, one per delivery class and one for a rating floor.
func ActiveFilterCount(f FilterState, maxPrice float64) int {
	count := 0

	if f.Price.Min != 0 || f.Price.Max != maxPrice {
		count++
	}

	count += len(f.Delivery)

	if f.MinRating > 0 {
		count++
	}

	return count
}
