// Package reviews summarises and orders product reviews.
package reviews

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"storefront/internal/models"
)

// ErrUnknownFilter is returned by ParseFilter for an unsupported filter name.
var ErrUnknownFilter = errors.New("unknown review filter")

// Filter selects a subset of reviews.
type Filter string

// Review filters.
const (
	FilterAll    Filter = "all"
	FilterPhotos Filter = "photos"
	FilterFive   Filter = "5stars"
	FilterFour   Filter = "4stars"
)

// ParseFilter parses a filter name. Empty means FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterPhotos, FilterFive, FilterFour:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFilter, s)
	}
}

// StarShare is one row of the rating breakdown.
type StarShare struct {
	Stars   int `json:"stars"`
	Count   int `json:"count"`
	Percent int `json:"percent"`
}

// Summary aggregates the ratings of a set of reviews.
type Summary struct {
	Breakdown []StarShare `json:"breakdown"`
	Average   float64     `json:"average"`
	Count     int         `json:"count"`
}

// Summarize computes the average rating (one decimal) and a 5-to-1 star breakdown.
// Reviews rated outside 1..5 are ignored. Percentages are whole numbers that add
// up to exactly 100 whenever at least one review counts.
func Summarize(reviews []models.Review) Summary {
	var counts [6]int

	total, sum := 0, 0

	for _, r := range reviews {
		if r.Rating < 1 || r.Rating > 5 {
			continue
		}

		counts[r.Rating]++
		total++
		sum += r.Rating
	}

	s := Summary{Count: total, Breakdown: make([]StarShare, 0, 5)}
	for stars := 5; stars >= 1; stars-- {
		s.Breakdown = append(s.Breakdown, StarShare{Stars: stars, Count: counts[stars]})
	}

	if total == 0 {
		return s
	}

	s.Average = math.Round(float64(sum)/float64(total)*10) / 10
	distribute(s.Breakdown, total)

	return s
}

// distribute assigns percentages with the largest remainder method. Ties go to the
// higher star rating.
func distribute(shares []StarShare, total int) {
	remainders := make([]int, len(shares))
	assigned := 0

	for i := range shares {
		exact := shares[i].Count * 100
		shares[i].Percent = exact / total
		remainders[i] = exact % total
		assigned += shares[i].Percent
	}

	order := make([]int, len(shares))
	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]] > remainders[order[b]]
	})

	for _, i := range order[:100-assigned] {
		shares[i].Percent++
	}
}

// Apply returns the reviews matching f, most helpful first.
func Apply(reviews []models.Review, f Filter) []models.Review {
	out := make([]models.Review, 0, len(reviews))

	for _, r := range reviews {
		switch f {
		case FilterPhotos:
			if len(r.Images) == 0 {
				continue
			}
		case FilterFive:
			if r.Rating != 5 {
				continue
			}
		case FilterFour:
			if r.Rating != 4 {
				continue
			}
		}

		out = append(out, r)
	}

	SortByHelpful(out)

	return out
}

// SortByHelpful orders reviews by helpful votes, then newest first. Equal reviews keep
// their relative order.
func SortByHelpful(reviews []models.Review) {
	slices.SortStableFunc(reviews, func(a, b models.Review) int {
		if c := cmp.Compare(b.Helpful, a.Helpful); c != 0 {
			return c
		}

		return b.Date.Compare(a.Date)
	})
}
