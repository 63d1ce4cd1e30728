package catalog

import (
	"storefront/internal/models"
)

// TotalPages returns ceil(count/pageSize). An empty listing still has one page.
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 || count <= 0 {
		return 1
	}

	return (count + pageSize - 1) / pageSize
}

// ClampPage limits page to [1, totalPages].
func ClampPage(page, totalPages int) int {
	return max(1, min(page, max(1, totalPages)))
}

// Paginate returns the records of the 1-based page. Pages past the end are empty.
func Paginate(records []models.ProductRecord, page, pageSize int) []models.ProductRecord {
	if page < 1 || pageSize <= 0 {
		return []models.ProductRecord{}
	}

	start := (page - 1) * pageSize
	if start >= len(records) {
		return []models.ProductRecord{}
	}

	end := min(start+pageSize, len(records))

	return records[start:end]
}
