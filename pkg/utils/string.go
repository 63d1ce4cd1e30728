package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/mattn/go-runewidth"
)

// StringHelper provides string utility functions.
type StringHelper struct{}

// NewStringHelper creates a new string helper.
func NewStringHelper() *StringHelper {
	return &StringHelper{}
}

// NormalizeWhitespace replaces multiple whitespace with single space.
// Non-breaking spaces count as whitespace.
func (s *StringHelper) NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// TruncateString truncates string to a maximum display width, appending "...".
func (s *StringHelper) TruncateString(str string, maxWidth int) string {
	if runewidth.StringWidth(str) <= maxWidth {
		return str
	}

	return runewidth.Truncate(str, maxWidth, "...")
}

// Fold returns a case- and accent-insensitive key for str, so "Envío" and "ENVIO" compare equal.
func (s *StringHelper) Fold(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	stripped, _, err := transform.String(t, str)
	if err != nil {
		stripped = str
	}

	// Casers carry state; a fresh one keeps the helper safe for concurrent use.
	return cases.Fold().String(s.NormalizeWhitespace(stripped))
}

// ContainsFold reports whether needle occurs in haystack ignoring case and accents.
func (s *StringHelper) ContainsFold(haystack, needle string) bool {
	return strings.Contains(s.Fold(haystack), s.Fold(needle))
}
