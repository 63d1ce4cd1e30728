package flashsale

import (
	"math"

	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/normalizer"
)

// Item is a product on offer in the flash sale.
type Item struct {
	DiscountPercent *int                 `json:"discountPercent,omitempty"`
	Product         models.ProductRecord `json:"product"`
	Sold            int                  `json:"sold"`
	Total           int                  `json:"total"`
	SoldPercent     int                  `json:"soldPercent"`
}

// SoldPercent returns round(sold/total*100) clamped to [0, 100], or 0 without stock.
func SoldPercent(sold, total int) int {
	if total <= 0 || sold <= 0 {
		return 0
	}

	pct := int(math.Round(float64(sold) / float64(total) * 100))

	return min(100, pct)
}

// NewItem builds the offer for one record. Units on offer are the units sold plus
// the stock left; without a stock count the offer counts as sold out.
func NewItem(rec models.ProductRecord) Item {
	sold := max(0, rec.TotalSales)
	total := sold

	if rec.StockQuantity != nil {
		total += max(0, *rec.StockQuantity)
	}

	item := Item{
		Product:     rec,
		Sold:        sold,
		Total:       total,
		SoldPercent: SoldPercent(sold, total),
	}

	if rec.RegularPrice != nil {
		item.DiscountPercent = normalizer.DiscountFromValues(*rec.RegularPrice, rec.Price)
	}

	return item
}

// NewItems picks up to limit discounted records, deepest discount first.
func NewItems(records []models.ProductRecord, limit int) []Item {
	items := []Item{}
	if limit <= 0 {
		return items
	}

	for _, rec := range catalog.Sort(records, catalog.SortDiscount) {
		if len(items) == limit {
			break
		}

		if item := NewItem(rec); item.DiscountPercent != nil {
			items = append(items, item)
		}
	}

	return items
}
