package reviews

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
)

func review(id string, rating, helpful int) models.Review {
	return models.Review{ID: id, Rating: rating, Helpful: helpful}
}

func ids(rs []models.Review) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}

	return out
}

func percents(s Summary) []int {
	out := make([]int, len(s.Breakdown))
	for i, b := range s.Breakdown {
		out[i] = b.Percent
	}

	return out
}

func TestSummarize(t *testing.T) {
	s := Summarize([]models.Review{
		review("a", 5, 0),
		review("b", 5, 0),
		review("c", 4, 0),
		review("d", 0, 0),
		review("e", 7, 0),
	})

	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 4.7, s.Average, 1e-9)
	require.Len(t, s.Breakdown, 5)
	assert.Equal(t, 5, s.Breakdown[0].Stars)
	assert.Equal(t, 2, s.Breakdown[0].Count)
	assert.Equal(t, []int{67, 33, 0, 0, 0}, percents(s))
}

func TestSummarize_PercentagesSumTo100(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    []int
	}{
		{"thirds", []int{5, 4, 3}, []int{34, 33, 33, 0, 0}},
		{"single", []int{1}, []int{0, 0, 0, 0, 100}},
		{"sevenths", []int{5, 5, 5, 4, 3, 2, 1}, []int{43, 15, 14, 14, 14}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := make([]models.Review, len(tt.ratings))
			for i, r := range tt.ratings {
				rs[i] = review("", r, 0)
			}

			got := percents(Summarize(rs))
			assert.Equal(t, tt.want, got)

			sum := 0
			for _, p := range got {
				sum += p
			}

			assert.Equal(t, 100, sum)
		})
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	assert.Zero(t, s.Count)
	assert.Zero(t, s.Average)
	assert.Equal(t, []int{0, 0, 0, 0, 0}, percents(s))
}

func TestSortByHelpful(t *testing.T) {
	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(24 * time.Hour)

	rs := []models.Review{
		{ID: "a", Helpful: 3, Date: older},
		{ID: "b", Helpful: 10, Date: older},
		{ID: "c", Helpful: 3, Date: newer},
		{ID: "d", Helpful: 3, Date: older},
	}

	SortByHelpful(rs)
	assert.Equal(t, []string{"b", "c", "a", "d"}, ids(rs))
}

func TestApply(t *testing.T) {
	rs := []models.Review{
		review("a", 5, 1),
		{ID: "b", Rating: 4, Helpful: 9, Images: []string{"x.jpg"}},
		review("c", 5, 7),
		review("d", 4, 2),
	}

	assert.Equal(t, []string{"b", "c", "d", "a"}, ids(Apply(rs, FilterAll)))
	assert.Equal(t, []string{"b"}, ids(Apply(rs, FilterPhotos)))
	assert.Equal(t, []string{"c", "a"}, ids(Apply(rs, FilterFive)))
	assert.Equal(t, []string{"b", "d"}, ids(Apply(rs, FilterFour)))
	assert.Equal(t, "a", rs[0].ID)
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	f, err = ParseFilter(" Photos ")
	require.NoError(t, err)
	assert.Equal(t, FilterPhotos, f)

	_, err = ParseFilter("3stars")
	assert.ErrorIs(t, err, ErrUnknownFilter)
}
