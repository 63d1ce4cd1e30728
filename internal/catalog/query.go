package catalog

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"storefront/pkg/utils"
)

// Query parameter names understood by ParseQuery.
const (
	ParamMinPrice = "minPrice"
	ParamMaxPrice = "maxPrice"
	ParamDelivery = "delivery"
	ParamRating   = "rating"
	ParamSort     = "sort"
	ParamPage     = "page"
	ParamSearch   = "q"
)

// Query is a stateless description of a listing request.
type Query struct {
	Filters FilterState
	Search  string
	Sort    SortKey
	Page    int
}

// DefaultQuery returns page 1 of the unfiltered listing in relevance order.
func DefaultQuery(maxPrice float64) Query {
	return Query{Filters: DefaultFilters(maxPrice), Sort: SortRelevance, Page: 1}
}

// ParseQuery reads a listing request from URL parameters. Missing parameters keep
// their defaults; delivery may repeat or hold a comma-separated list.
func ParseQuery(values url.Values, maxPrice float64) (Query, error) {
	q := DefaultQuery(maxPrice)

	var err error

	if q.Filters.Price.Min, err = floatParam(values, ParamMinPrice, 0); err != nil {
		return Query{}, err
	}

	if q.Filters.Price.Max, err = floatParam(values, ParamMaxPrice, maxPrice); err != nil {
		return Query{}, err
	}

	for _, raw := range values[ParamDelivery] {
		for _, part := range strings.Split(raw, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}

			class, err := ParseDeliveryClass(part)
			if err != nil {
				return Query{}, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
			}

			q.Filters.Delivery = append(q.Filters.Delivery, class)
		}
	}

	if q.Filters.MinRating, err = floatParam(values, ParamRating, 0); err != nil {
		return Query{}, err
	}

	if q.Filters.MinRating > 5 {
		return Query{}, fmt.Errorf("%w: %s must be between 0 and 5", ErrInvalidQuery, ParamRating)
	}

	q.Search = utils.NewStringHelper().NormalizeWhitespace(values.Get(ParamSearch))

	if q.Sort, err = ParseSortKey(values.Get(ParamSort)); err != nil {
		return Query{}, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}

	if s := strings.TrimSpace(values.Get(ParamPage)); s != "" {
		page, err := strconv.Atoi(s)
		if err != nil || page < 1 {
			return Query{}, fmt.Errorf("%w: %s must be a positive integer", ErrInvalidQuery, ParamPage)
		}

		q.Page = page
	}

	q.Filters = q.Filters.normalized()

	return q, nil
}

// Values encodes the non-default parts of the query as URL parameters.
func (q Query) Values(maxPrice float64) url.Values {
	values := url.Values{}

	if q.Filters.Price.Min != 0 {
		values.Set(ParamMinPrice, strconv.FormatFloat(q.Filters.Price.Min, 'f', -1, 64))
	}

	if q.Filters.Price.Max != maxPrice {
		values.Set(ParamMaxPrice, strconv.FormatFloat(q.Filters.Price.Max, 'f', -1, 64))
	}

	for _, class := range q.Filters.Delivery {
		values.Add(ParamDelivery, string(class))
	}

	if q.Filters.MinRating > 0 {
		values.Set(ParamRating, strconv.FormatFloat(q.Filters.MinRating, 'f', -1, 64))
	}

	if q.Search != "" {
		values.Set(ParamSearch, q.Search)
	}

	if q.Sort != "" && q.Sort != SortRelevance {
		values.Set(ParamSort, string(q.Sort))
	}

	if q.Page > 1 {
		values.Set(ParamPage, strconv.Itoa(q.Page))
	}

	return values
}

func floatParam(values url.Values, name string, def float64) (float64, error) {
	s := strings.TrimSpace(values.Get(name))
	if s == "" {
		return def, nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s must be a non-negative number", ErrInvalidQuery, name)
	}

	return v, nil
}
