package catalog

import (
	"cmp"
	"slices"

	"storefront/internal/models"
)

// Sort returns a sorted copy of records. The sort is stable, so records that
// compare equal keep their relative order; relevance keeps the input order.
func Sort(records []models.ProductRecord, key SortKey) []models.ProductRecord {
	out := slices.Clone(records)
	if out == nil {
		out = []models.ProductRecord{}
	}

	less := comparator(key)
	if less == nil {
		return out
	}

	slices.SortStableFunc(out, less)

	return out
}

func comparator(key SortKey) func(a, b models.ProductRecord) int {
	switch key {
	case SortPriceAsc:
		return func(a, b models.ProductRecord) int { return cmp.Compare(a.Price, b.Price) }
	case SortPriceDesc:
		return func(a, b models.ProductRecord) int { return cmp.Compare(b.Price, a.Price) }
	case SortRating:
		return func(a, b models.ProductRecord) int { return cmp.Compare(b.AverageRating, a.AverageRating) }
	case SortNewest:
		return func(a, b models.ProductRecord) int { return cmp.Compare(b.NumericID, a.NumericID) }
	case SortDiscount:
		return func(a, b models.ProductRecord) int { return cmp.Compare(b.Discount(), a.Discount()) }
	default:
		return nil
	}
}
