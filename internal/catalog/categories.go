package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var categoryTitles = map[string]string{
	"tecnologia": "Tecnología",
	"hogar":      "Hogar & Decoración",
	"belleza":    "Belleza & Cuidado Personal",
	"ofertas":    "Ofertas Relámpago",
	"moda":       "Moda",
	"deportes":   "Deportes",
}

// CategoryTitle returns the display title for a category slug. Unknown slugs are
// title-cased with dashes turned into spaces.
func CategoryTitle(slug string) string {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if title, ok := categoryTitles[slug]; ok {
		return title
	}

	return cases.Title(language.Spanish).String(strings.ReplaceAll(slug, "-", " "))
}
