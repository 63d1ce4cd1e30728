// Package formatter renders catalog listings for terminals.
package formatter

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/pkg/utils"
)

// maxNameWidth bounds the product name column.
const maxNameWidth = 40

// RenderTable lays out rows as a pipe table whose columns are padded to the
// widest cell by display width, so accented and wide characters line up.
func RenderTable(headers []string, rows [][]string) string {
	colCount := len(headers)
	for _, row := range rows {
		colCount = max(colCount, len(row))
	}

	if colCount == 0 {
		return ""
	}

	colWidths := make([]int, colCount)

	measure := func(row []string) {
		for i := 0; i < len(row) && i < colCount; i++ {
			colWidths[i] = max(colWidths[i], runewidth.StringWidth(row[i]))
		}
	}

	measure(headers)

	for _, row := range rows {
		measure(row)
	}

	// Separator cells need at least three dashes.
	for i := range colWidths {
		colWidths[i] = max(colWidths[i], 3)
	}

	var sb strings.Builder

	writeRow := func(row []string) {
		sb.WriteString("|")

		for j := 0; j < colCount; j++ {
			content := ""
			if j < len(row) {
				content = row[j]
			}

			sb.WriteString(" ")
			sb.WriteString(runewidth.FillRight(content, colWidths[j]))
			sb.WriteString(" |")
		}

		sb.WriteString("\n")
	}

	writeRow(headers)

	sb.WriteString("|")

	for _, w := range colWidths {
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat("-", w))
		sb.WriteString(" |")
	}

	sb.WriteString("\n")

	for _, row := range rows {
		writeRow(row)
	}

	return sb.String()
}

// ProductRows converts records to table cells: name, price, discount, rating, delivery.
func ProductRows(records []models.ProductRecord) [][]string {
	text := utils.NewStringHelper()
	rows := make([][]string, 0, len(records))

	for i := range records {
		r := &records[i]

		flags := ""
		if r.IsNew {
			flags = " *"
		}

		rows = append(rows, []string{
			text.TruncateString(r.Name, maxNameWidth) + flags,
			FormatPrice(r.Price),
			FormatDiscount(r.DiscountPercent),
			fmt.Sprintf("%.1f (%d)", r.AverageRating, r.ReviewCount),
			deliveryLabel(r),
		})
	}

	return rows
}

// RenderView renders one page of a listing followed by a summary line.
func RenderView(v catalog.View) string {
	var sb strings.Builder

	if v.Empty {
		sb.WriteString("No se encontraron productos con los filtros seleccionados.\n")
	} else {
		sb.WriteString(RenderTable(
			[]string{"Producto", "Precio", "Dto.", "Valoración", "Envío"},
			ProductRows(v.Items),
		))
	}

	fmt.Fprintf(&sb, "\nPágina %d de %d · %d de %d productos · orden: %s",
		v.CurrentPage, v.TotalPages, v.FilteredCount, v.TotalCount, v.Page.Sort)

	if v.ActiveFilters > 0 {
		fmt.Fprintf(&sb, " · %d filtros activos", v.ActiveFilters)
	}

	if v.Search != "" {
		fmt.Fprintf(&sb, " · búsqueda: %q", v.Search)
	}

	sb.WriteString("\n")

	return sb.String()
}

func deliveryLabel(r *models.ProductRecord) string {
	label := "Nacional"
	if !r.IsNational {
		label = "Internacional"
	}

	if r.Shipping.DeliveryDays == "" {
		return label
	}

	return label + " " + r.Shipping.DeliveryDays
}
