package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront/internal/models"
)

func TestRelated(t *testing.T) {
	records := []models.ProductRecord{
		{ID: "a", CategorySlugs: []string{"tecnologia"}},
		{ID: "b", CategorySlugs: []string{"hogar"}},
		{ID: "c", CategorySlugs: []string{"tecnologia", "ofertas"}},
		{ID: "d", CategorySlugs: []string{"ofertas"}},
		{ID: "e", CategorySlugs: []string{"tecnologia"}},
	}

	assert.Equal(t, []string{"a", "d", "e"}, ids(Related(records, records[2], 10)))
	assert.Equal(t, []string{"a"}, ids(Related(records, records[2], 1)))
	assert.Empty(t, Related(records, records[1], 4))
	assert.Empty(t, Related(records, records[0], 0))
	assert.Empty(t, Related(records, models.ProductRecord{ID: "x"}, 4))
}

func TestRelated_TargetOutsideRecords(t *testing.T) {
	records := []models.ProductRecord{
		{ID: "a", CategorySlugs: []string{"zapatos"}},
		{ID: "b", CategorySlugs: []string{"zapatos", "ofertas"}},
		{ID: "c", CategorySlugs: []string{"hogar"}},
	}

	target := models.ProductRecord{ID: "z", CategorySlugs: []string{"zapatos"}}

	assert.Equal(t, []string{"a", "b"}, ids(Related(records, target, 4)))
}

func TestSearch(t *testing.T) {
	records := []models.ProductRecord{
		{ID: "1", Name: "Audífonos Bluetooth Sony"},
		{ID: "2", Name: "Cafetera Oster"},
		{ID: "3", Name: "AUDIFONOS gamer"},
	}

	assert.Equal(t, []string{"1", "3"}, ids(Search(records, "audifonos")))
	assert.Equal(t, []string{"1"}, ids(Search(records, "sony audífonos")))
	assert.Len(t, Search(records, "  "), 3)
	assert.Empty(t, Search(records, "licuadora"))
}
