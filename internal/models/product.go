// Package models defines the catalog data structures shared across the storefront.
package models

import "strings"

// ProductKind identifies the upstream product variant.
type ProductKind string

// Upstream product kinds.
const (
	KindSimple   ProductKind = "simple"
	KindVariable ProductKind = "variable"
	KindExternal ProductKind = "external"
	KindGrouped  ProductKind = "grouped"
	KindUnknown  ProductKind = "unknown"
)

// ParseProductKind maps an upstream type label (SIMPLE, variable, ...) to a ProductKind.
func ParseProductKind(s string) ProductKind {
	switch ProductKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindSimple:
		return KindSimple
	case KindVariable:
		return KindVariable
	case KindExternal:
		return KindExternal
	case KindGrouped:
		return KindGrouped
	}

	return KindUnknown
}

// Image is a product image reference.
type Image struct {
	SourceURL string `json:"sourceUrl"`
	AltText   string `json:"altText,omitempty"`
}

// CategoryRef is a category a product belongs to.
type CategoryRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Slug string `json:"slug"`
}

// Attribute is a product attribute with its options.
type Attribute struct {
	Name    string   `json:"name"`
	Options []string `json:"options,omitempty"`
}

// MetaEntry is a free-form upstream metadata pair.
type MetaEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ProductBase holds the fields every upstream product variant carries.
// Numeric-looking fields are kept as the raw upstream text; the normalizer parses them.
type ProductBase struct {
	StockQuantity    *int          `json:"stockQuantity,omitempty"`
	Image            *Image        `json:"image,omitempty"`
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Slug             string        `json:"slug"`
	ShortDescription string        `json:"shortDescription,omitempty"`
	SKU              string        `json:"sku,omitempty"`
	Price            string        `json:"price,omitempty"`
	RegularPrice     string        `json:"regularPrice,omitempty"`
	SalePrice        string        `json:"salePrice,omitempty"`
	StockStatus      string        `json:"stockStatus,omitempty"`
	AverageRating    string        `json:"averageRating,omitempty"`
	Gallery          []Image       `json:"gallery,omitempty"`
	Categories       []CategoryRef `json:"categories,omitempty"`
	Attributes       []Attribute   `json:"attributes,omitempty"`
	MetaData         []MetaEntry   `json:"metaData,omitempty"`
	DatabaseID       int           `json:"databaseId"`
	ReviewCount      int           `json:"reviewCount,omitempty"`
	TotalSales       int           `json:"totalSales,omitempty"`
	Featured         bool          `json:"featured,omitempty"`
}

// Variation is one purchasable variation of a variable product.
type Variation struct {
	Price        string `json:"price,omitempty"`
	RegularPrice string `json:"regularPrice,omitempty"`
	SalePrice    string `json:"salePrice,omitempty"`
}

// SimpleProduct is a single-SKU product.
type SimpleProduct struct {
	ProductBase
}

// VariableProduct is a product sold through variations; its own price is often a range.
type VariableProduct struct {
	ProductBase
	Variations []Variation `json:"variations,omitempty"`
}

// ExternalProduct is sold on another site.
type ExternalProduct struct {
	ProductBase
	ExternalURL string `json:"externalUrl,omitempty"`
	ButtonText  string `json:"buttonText,omitempty"`
}

// GroupedProduct bundles child products; it usually has no price of its own.
type GroupedProduct struct {
	ProductBase
	Children []ProductBase `json:"children,omitempty"`
}

// RawProduct is an upstream product tagged by kind. Exactly one variant pointer is set
// unless Malformed is true, in which case only RecoveredID may carry information.
type RawProduct struct {
	Simple      *SimpleProduct   `json:"simple,omitempty"`
	Variable    *VariableProduct `json:"variable,omitempty"`
	External    *ExternalProduct `json:"external,omitempty"`
	Grouped     *GroupedProduct  `json:"grouped,omitempty"`
	Kind        ProductKind      `json:"kind"`
	RecoveredID string           `json:"recoveredId,omitempty"`
	Malformed   bool             `json:"malformed,omitempty"`
}

// Base returns the shared fields of whichever variant is set, or nil.
func (r *RawProduct) Base() *ProductBase {
	switch {
	case r.Simple != nil:
		return &r.Simple.ProductBase
	case r.Variable != nil:
		return &r.Variable.ProductBase
	case r.External != nil:
		return &r.External.ProductBase
	case r.Grouped != nil:
		return &r.Grouped.ProductBase
	}

	return nil
}

// NewRawProduct wraps a decoded base into the variant matching kind.
// Unknown kinds are carried as simple products.
func NewRawProduct(kind ProductKind, base ProductBase) RawProduct {
	switch kind {
	case KindVariable:
		return RawProduct{Kind: kind, Variable: &VariableProduct{ProductBase: base}}
	case KindExternal:
		return RawProduct{Kind: kind, External: &ExternalProduct{ProductBase: base}}
	case KindGrouped:
		return RawProduct{Kind: kind, Grouped: &GroupedProduct{ProductBase: base}}
	case KindSimple:
		return RawProduct{Kind: kind, Simple: &SimpleProduct{ProductBase: base}}
	}

	return RawProduct{Kind: KindUnknown, Simple: &SimpleProduct{ProductBase: base}}
}

// MalformedProduct records an upstream entry that could not be decoded.
func MalformedProduct(recoveredID string) RawProduct {
	return RawProduct{Kind: KindUnknown, Malformed: true, RecoveredID: recoveredID}
}
