package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront/internal/catalog"
	"storefront/internal/models"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0"},
		{999, "$999"},
		{8000, "$8.000"},
		{89000, "$89.000"},
		{1999000, "$1.999.000"},
		{1234.6, "$1.235"},
		{-15000, "-$15.000"},
	}

	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPresetLabel(t *testing.T) {
	presets := catalog.PricePresets(catalog.DefaultMaxPrice)

	labels := make([]string, len(presets))
	for i, p := range presets {
		labels[i] = PresetLabel(p.Range, catalog.DefaultMaxPrice)
	}

	assert.Equal(t, []string{"Hasta $500.000", "$500.000 - $1.0M", "$1.0M - $3.0M", "Más de $3.0M"}, labels)
}

func TestFormatCompact(t *testing.T) {
	assert.Equal(t, "$1.5M", FormatCompact(1500000))
	assert.Equal(t, "$10.0M", FormatCompact(10000000))
	assert.Equal(t, "$500.000", FormatCompact(500000))
}

func TestFormatDiscount(t *testing.T) {
	pct := 26
	zero := 0

	assert.Equal(t, "-26%", FormatDiscount(&pct))
	assert.Empty(t, FormatDiscount(&zero))
	assert.Empty(t, FormatDiscount(nil))
}

func TestRenderTable(t *testing.T) {
	got := RenderTable(
		[]string{"Producto", "Precio"},
		[][]string{{"Café", "$8.000"}, {"Audífonos", "$89.000", "extra"}},
	)

	want := strings.Join([]string{
		"| Producto  | Precio  |       |",
		"| --------- | ------- | ----- |",
		"| Café      | $8.000  |       |",
		"| Audífonos | $89.000 | extra |",
		"",
	}, "\n")

	assert.Equal(t, want, got)
}

func TestRenderTable_WideCharacters(t *testing.T) {
	got := RenderTable([]string{"A"}, [][]string{{"日本"}})

	assert.Equal(t, "| A    |\n| ---- |\n| 日本 |\n", got)
}

func TestRenderTable_Empty(t *testing.T) {
	assert.Empty(t, RenderTable(nil, nil))
}

func TestRenderView(t *testing.T) {
	pct := 26
	v := catalog.View{
		Items: []models.ProductRecord{{
			Name:            "Audífonos",
			Price:           89000,
			DiscountPercent: &pct,
			AverageRating:   4.5,
			ReviewCount:     3,
			IsNational:      true,
			IsNew:           true,
			Shipping:        models.ShippingClass{DeliveryDays: "2-4 días"},
		}},
		FilteredCount: 1,
		TotalCount:    16,
		TotalPages:    1,
		CurrentPage:   1,
		ActiveFilters: 2,
		Page:          catalog.PageState{Sort: catalog.SortRelevance},
	}

	out := RenderView(v)

	assert.Contains(t, out, "| Audífonos * | $89.000 | -26% | 4.5 (3)")
	assert.Contains(t, out, "Nacional 2-4 días")
	assert.Contains(t, out, "Página 1 de 1 · 1 de 16 productos · orden: relevance · 2 filtros activos")

	empty := RenderView(catalog.View{Empty: true, TotalPages: 1, CurrentPage: 1})
	assert.Contains(t, empty, "No se encontraron productos")
	assert.NotContains(t, empty, "filtros activos")
	assert.NotContains(t, empty, "búsqueda")

	v.Search = "audifonos"
	assert.Contains(t, RenderView(v), `2 filtros activos · búsqueda: "audifonos"`)
}
