package formatter

import (
	"math"
	"strconv"
	"strings"

	"storefront/internal/catalog"
)

// FormatPrice renders a peso amount without decimals and with '.' thousands
// separators: 1999000 becomes "$1.999.000".
func FormatPrice(value float64) string {
	n := int64(math.Round(value))

	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	digits := strconv.FormatInt(n, 10)

	var sb strings.Builder

	sb.WriteString(sign)
	sb.WriteString("$")

	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte('.')
		}

		sb.WriteRune(d)
	}

	return sb.String()
}

// FormatCompact abbreviates millions for filter labels ("$1.5M") and falls back
// to FormatPrice below one million.
func FormatCompact(value float64) string {
	if value >= 1000000 {
		return "$" + strconv.FormatFloat(value/1000000, 'f', 1, 64) + "M"
	}

	return FormatPrice(value)
}

// FormatDiscount renders a discount badge ("-26%"), or "" when there is none.
func FormatDiscount(percent *int) string {
	if percent == nil || *percent <= 0 {
		return ""
	}

	return "-" + strconv.Itoa(*percent) + "%"
}

// PresetLabel renders a price preset with compact amounts: "Hasta $500.000",
// "$1.0M - $3.0M", or "Más de $3.0M" when the preset reaches maxPrice.
func PresetLabel(r catalog.PriceRange, maxPrice float64) string {
	switch {
	case r.Min <= 0:
		return "Hasta " + FormatCompact(r.Max)
	case r.Max >= maxPrice:
		return "Más de " + FormatCompact(r.Min)
	}

	return FormatCompact(r.Min) + " - " + FormatCompact(r.Max)
}
