package catalog

import (
	"strings"

	"storefront/internal/models"
	"storefront/pkg/utils"
)

// Related returns up to limit records sharing at least one category with target,
// excluding target itself, in input order.
func Related(records []models.ProductRecord, target models.ProductRecord, limit int) []models.ProductRecord {
	out := []models.ProductRecord{}
	if limit <= 0 || len(target.CategorySlugs) == 0 {
		return out
	}

	for i := range records {
		if records[i].ID == target.ID {
			continue
		}

		for _, slug := range target.CategorySlugs {
			if records[i].InCategory(slug) {
				out = append(out, records[i])
				break
			}
		}

		if len(out) == limit {
			break
		}
	}

	return out
}

// Search returns records whose name contains every word of term, ignoring case and
// accents. A blank term matches everything.
func Search(records []models.ProductRecord, term string) []models.ProductRecord {
	text := utils.NewStringHelper()
	words := strings.Fields(term)

	out := make([]models.ProductRecord, 0, len(records))

	for i := range records {
		matched := true

		for _, w := range words {
			if !text.ContainsFold(records[i].Name, w) {
				matched = false
				break
			}
		}

		if matched {
			out = append(out, records[i])
		}
	}

	return out
}
