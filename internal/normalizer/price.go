package normalizer

import (
	"math"
	"strconv"
	"strings"
)

// rangeSeparators split formatted price ranges such as "$10.000 - $20.000".
var rangeSeparators = []string{" - ", " – ", "–", " to "}

// CleanPrice parses a currency-formatted price. Currency symbols, HTML non-breaking
// spaces and whitespace are dropped and thousands separators are resolved:
//   - with both '.' and ',' present, the last one is the decimal mark;
//   - a lone ',' followed by exactly two digits is a decimal mark, otherwise a separator;
//   - a lone '.' followed by exactly three digits is a separator ("89.000"), otherwise decimal.
//
// A '-' once the number has started ends it, so a range yields its lower bound.
// Unparseable input yields 0 and negative values clamp to 0.
func CleanPrice(price string) float64 {
	s := strings.ReplaceAll(price, "&nbsp;", "")
	s = strings.TrimSpace(s)

	if s == "" {
		return 0
	}

	negative := false

	var b strings.Builder

scan:
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			negative = true
		case r == '-':
			break scan
		}
	}

	digits := resolveSeparators(b.String())
	if digits == "" {
		return 0
	}

	v, err := strconv.ParseFloat(digits, 64)
	if err != nil || negative || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	return v
}

// LowestPrice parses a price that may be a range and returns its lower bound.
func LowestPrice(price string) float64 {
	for _, sep := range rangeSeparators {
		if idx := strings.Index(price, sep); idx > 0 {
			return CleanPrice(price[:idx])
		}
	}

	return CleanPrice(price)
}

func resolveSeparators(s string) string {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			// 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		// 1,234.56
		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		if strings.Count(s, ",") == 1 && len(s)-lastComma-1 == 2 {
			return strings.Replace(s, ",", ".", 1)
		}

		return strings.ReplaceAll(s, ",", "")
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 || len(s)-lastDot-1 == 3 {
			return strings.ReplaceAll(s, ".", "")
		}
	}

	return s
}

// Discount computes the discount percentage of sale against regular, both as
// formatted upstream strings. It returns nil when either price is missing.
func Discount(regular, sale string) *int {
	if strings.TrimSpace(regular) == "" || strings.TrimSpace(sale) == "" {
		return nil
	}

	return DiscountFromValues(CleanPrice(regular), CleanPrice(sale))
}

// DiscountFromValues returns round((regular-price)/regular*100) when regular > price > 0,
// and nil otherwise. A nil discount is distinct from a zero-percent discount.
func DiscountFromValues(regular, price float64) *int {
	if regular <= 0 || price <= 0 || price >= regular {
		return nil
	}

	pct := int(math.Round((regular - price) / regular * 100))
	pct = max(0, min(100, pct))

	return &pct
}

// ParseRating parses an average rating, accepting a decimal comma.
// Unparseable values yield 0; results are clamped into [0, 5].
func ParseRating(rating string) float64 {
	s := strings.ReplaceAll(strings.TrimSpace(rating), ",", ".")
	if s == "" {
		return 0
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0
	}

	return math.Max(0, math.Min(5, v))
}
