package catalog

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
)

func TestParseQuery(t *testing.T) {
	values := url.Values{
		"minPrice": {"500000"},
		"maxPrice": {"100000"},
		"delivery": {"nacional,international", "national"},
		"rating":   {"4"},
		"sort":     {"price-asc"},
		"page":     {"3"},
		"q":        {" cafetera   oster "},
	}

	q, err := ParseQuery(values, DefaultMaxPrice)
	require.NoError(t, err)

	assert.Equal(t, PriceRange{Min: 100000, Max: 500000}, q.Filters.Price)
	assert.Equal(t, []models.DeliveryClass{models.DeliveryNational, models.DeliveryInternational}, q.Filters.Delivery)
	assert.InDelta(t, 4, q.Filters.MinRating, 0)
	assert.Equal(t, SortPriceAsc, q.Sort)
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, "cafetera oster", q.Search)
}

func TestParseQuery_Defaults(t *testing.T) {
	q, err := ParseQuery(url.Values{}, 2000)
	require.NoError(t, err)
	assert.Equal(t, DefaultQuery(2000), q)
}

func TestParseQuery_Errors(t *testing.T) {
	tests := []url.Values{
		{"minPrice": {"abc"}},
		{"maxPrice": {"-1"}},
		{"delivery": {"express"}},
		{"rating": {"6"}},
		{"sort": {"cheapest"}},
		{"page": {"0"}},
		{"page": {"two"}},
	}

	for _, values := range tests {
		t.Run(values.Encode(), func(t *testing.T) {
			_, err := ParseQuery(values, DefaultMaxPrice)
			assert.ErrorIs(t, err, ErrInvalidQuery)
		})
	}
}

func TestQuery_ApplyKeepsPage(t *testing.T) {
	q, err := ParseQuery(url.Values{"page": {"2"}, "sort": {"newest"}}, DefaultMaxPrice)
	require.NoError(t, err)

	c := NewController(8, 0)
	c.SetRecords(fixture())
	c.Apply(q)

	v := c.View()
	assert.Equal(t, 2, v.CurrentPage)
	assert.Equal(t, "p07", v.Items[0].ID)
}

func TestQuery_ValuesRoundTrip(t *testing.T) {
	q := Query{
		Filters: FilterState{
			Price:     PriceRange{Min: 1000, Max: 5000},
			Delivery:  []models.DeliveryClass{models.DeliveryInternational},
			MinRating: 3,
		},
		Search: "audifonos sony",
		Sort:   SortDiscount,
		Page:   4,
	}

	got, err := ParseQuery(q.Values(DefaultMaxPrice), DefaultMaxPrice)
	require.NoError(t, err)
	assert.Equal(t, q, got)

	assert.Empty(t, DefaultQuery(DefaultMaxPrice).Values(DefaultMaxPrice))
}
