package commerce

import (
	"encoding/json"
	"strings"

	"storefront/internal/models"
)

type imageNode struct {
	SourceURL string `json:"sourceUrl"`
	AltText   string `json:"altText"`
}

type connection[T any] struct {
	Nodes []T `json:"nodes"`
}

// productNode is a WPGraphQL product of any type. Price fields may arrive as
// formatted strings or numbers depending on the WooGraphQL version.
type productNode struct {
	Typename         string                      `json:"__typename"`
	ID               flexString                  `json:"id"`
	DatabaseID       flexInt                     `json:"databaseId"`
	Name             string                      `json:"name"`
	Slug             string                      `json:"slug"`
	ShortDescription string                      `json:"shortDescription"`
	SKU              string                      `json:"sku"`
	Price            flexString                  `json:"price"`
	RegularPrice     flexString                  `json:"regularPrice"`
	SalePrice        flexString                  `json:"salePrice"`
	StockStatus      string                      `json:"stockStatus"`
	StockQuantity    optionalInt                 `json:"stockQuantity"`
	AverageRating    flexString                  `json:"averageRating"`
	ReviewCount      flexInt                     `json:"reviewCount"`
	TotalSales       flexInt                     `json:"totalSales"`
	Featured         bool                        `json:"featured"`
	Image            *imageNode                  `json:"image"`
	GalleryImages    connection[imageNode]       `json:"galleryImages"`
	Categories       connection[categoryRefNode] `json:"productCategories"`
	Attributes       connection[attributeNode]   `json:"attributes"`
	MetaData         []metaNode                  `json:"metaData"`
	Variations       connection[variationNode]   `json:"variations"`
	ExternalURL      string                      `json:"externalUrl"`
	ButtonText       string                      `json:"buttonText"`
	Products         connection[json.RawMessage] `json:"products"`
}

type categoryRefNode struct {
	ID   flexString `json:"id"`
	Name string     `json:"name"`
	Slug string     `json:"slug"`
}

type attributeNode struct {
	Name    string       `json:"name"`
	Options []flexString `json:"options"`
}

type metaNode struct {
	Key   string     `json:"key"`
	Value flexString `json:"value"`
}

type variationNode struct {
	Price        flexString `json:"price"`
	RegularPrice flexString `json:"regularPrice"`
	SalePrice    flexString `json:"salePrice"`
}

// kindFromTypename maps "VariableProduct" to variable and so on.
func kindFromTypename(typename string) models.ProductKind {
	return models.ParseProductKind(strings.TrimSuffix(typename, "Product"))
}

// decodeProductNode converts one node to a RawProduct. Nodes that are not
// objects, or whose fields have the wrong types, become malformed products
// carrying whatever identifier could be recovered.
func decodeProductNode(raw json.RawMessage) models.RawProduct {
	var node productNode
	if err := json.Unmarshal(raw, &node); err != nil || !isObject(raw) {
		return models.MalformedProduct(recoverID(raw, "databaseId", "id"))
	}

	return node.toRaw()
}

func decodeProductNodes(nodes []json.RawMessage) []models.RawProduct {
	out := make([]models.RawProduct, 0, len(nodes))
	for _, raw := range nodes {
		out = append(out, decodeProductNode(raw))
	}

	return out
}

func (n *productNode) base() models.ProductBase {
	b := models.ProductBase{
		StockQuantity:    n.StockQuantity.ptr(),
		ID:               string(n.ID),
		Name:             n.Name,
		Slug:             n.Slug,
		ShortDescription: n.ShortDescription,
		SKU:              n.SKU,
		Price:            string(n.Price),
		RegularPrice:     string(n.RegularPrice),
		SalePrice:        string(n.SalePrice),
		StockStatus:      n.StockStatus,
		AverageRating:    string(n.AverageRating),
		DatabaseID:       int(n.DatabaseID),
		ReviewCount:      int(n.ReviewCount),
		TotalSales:       int(n.TotalSales),
		Featured:         n.Featured,
	}

	if n.Image != nil {
		b.Image = &models.Image{SourceURL: n.Image.SourceURL, AltText: n.Image.AltText}
	}

	for _, img := range n.GalleryImages.Nodes {
		b.Gallery = append(b.Gallery, models.Image{SourceURL: img.SourceURL, AltText: img.AltText})
	}

	for _, c := range n.Categories.Nodes {
		b.Categories = append(b.Categories, models.CategoryRef{ID: string(c.ID), Name: c.Name, Slug: c.Slug})
	}

	for _, a := range n.Attributes.Nodes {
		attr := models.Attribute{Name: a.Name}
		for _, opt := range a.Options {
			attr.Options = append(attr.Options, string(opt))
		}

		b.Attributes = append(b.Attributes, attr)
	}

	for _, m := range n.MetaData {
		b.MetaData = append(b.MetaData, models.MetaEntry{Key: m.Key, Value: string(m.Value)})
	}

	return b
}

func (n *productNode) toRaw() models.RawProduct {
	kind := kindFromTypename(n.Typename)
	raw := models.NewRawProduct(kind, n.base())

	switch {
	case raw.Variable != nil:
		for _, v := range n.Variations.Nodes {
			raw.Variable.Variations = append(raw.Variable.Variations, models.Variation{
				Price:        string(v.Price),
				RegularPrice: string(v.RegularPrice),
				SalePrice:    string(v.SalePrice),
			})
		}
	case raw.External != nil:
		raw.External.ExternalURL = n.ExternalURL
		raw.External.ButtonText = n.ButtonText
	case raw.Grouped != nil:
		for _, child := range n.Products.Nodes {
			var c productNode
			if json.Unmarshal(child, &c) == nil && isObject(child) {
				raw.Grouped.Children = append(raw.Grouped.Children, c.base())
			}
		}
	}

	return raw
}

func isObject(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return strings.HasPrefix(s, "{")
}
