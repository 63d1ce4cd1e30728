package normalizer

import (
	"encoding/base64"
	"strconv"
	"strings"

	"storefront/internal/models"
	"storefront/pkg/utils"
)

// UnnamedProduct is the display name used when a record carries no name, slug or ID.
const UnnamedProduct = "Producto sin nombre"

// Transformer converts tagged upstream products into ProductRecords.
type Transformer struct {
	text      *utils.StringHelper
	threshold float64
}

// NewTransformer creates a new transformer with the default international threshold.
func NewTransformer() *Transformer {
	return NewTransformerWithThreshold(DefaultInternationalThreshold)
}

// NewTransformerWithThreshold creates a transformer that classifies products priced
// above threshold as international when nothing else decides.
func NewTransformerWithThreshold(threshold float64) *Transformer {
	return &Transformer{
		text:      utils.NewStringHelper(),
		threshold: threshold,
	}
}

// pricing is what each variant contributes beyond the shared fields.
type pricing struct {
	price   float64
	regular float64
}

// Transform converts one raw product. It never fails: malformed input yields a
// record holding only defaults and whatever identifier was recovered.
func (t *Transformer) Transform(raw models.RawProduct) models.ProductRecord {
	base := raw.Base()
	if raw.Malformed || base == nil {
		return t.defaults(raw.RecoveredID)
	}

	var rec models.ProductRecord

	switch {
	case raw.Variable != nil:
		rec = t.fromVariable(raw.Variable)
	case raw.External != nil:
		rec = t.fromExternal(raw.External)
	case raw.Grouped != nil:
		rec = t.fromGrouped(raw.Grouped)
	default:
		rec = t.fromSimple(raw.Simple)
	}

	if raw.Kind != "" {
		rec.Type = raw.Kind
	}

	return rec
}

func (t *Transformer) fromSimple(p *models.SimpleProduct) models.ProductRecord {
	return t.build(&p.ProductBase, models.KindSimple, basePricing(&p.ProductBase))
}

func (t *Transformer) fromExternal(p *models.ExternalProduct) models.ProductRecord {
	rec := t.build(&p.ProductBase, models.KindExternal, basePricing(&p.ProductBase))
	rec.ExternalURL = strings.TrimSpace(p.ExternalURL)
	rec.ButtonText = t.text.NormalizeWhitespace(p.ButtonText)

	return rec
}

// fromVariable prices a variable product at its cheapest variation when the
// product price itself is missing or a range.
func (t *Transformer) fromVariable(p *models.VariableProduct) models.ProductRecord {
	pr := basePricing(&p.ProductBase)

	if pr.price <= 0 {
		for _, v := range p.Variations {
			price := LowestPrice(firstNonEmpty(v.Price, v.SalePrice, v.RegularPrice))
			if price <= 0 || (pr.price > 0 && price >= pr.price) {
				continue
			}

			pr.price = price
			pr.regular = LowestPrice(v.RegularPrice)
		}
	}

	return t.build(&p.ProductBase, models.KindVariable, pr)
}

// fromGrouped prices a grouped product at its cheapest child when it has no price of its own.
func (t *Transformer) fromGrouped(p *models.GroupedProduct) models.ProductRecord {
	pr := basePricing(&p.ProductBase)

	if pr.price <= 0 {
		for i := range p.Children {
			child := basePricing(&p.Children[i])
			if child.price <= 0 || (pr.price > 0 && child.price >= pr.price) {
				continue
			}

			pr = child
		}
	}

	return t.build(&p.ProductBase, models.KindGrouped, pr)
}

func basePricing(b *models.ProductBase) pricing {
	return pricing{
		price:   LowestPrice(firstNonEmpty(b.Price, b.SalePrice, b.RegularPrice)),
		regular: LowestPrice(b.RegularPrice),
	}
}

func (t *Transformer) build(b *models.ProductBase, kind models.ProductKind, pr pricing) models.ProductRecord {
	id := strings.TrimSpace(b.ID)
	numericID := b.DatabaseID

	if numericID <= 0 {
		numericID = decodeNumericID(id)
	}

	if id == "" && numericID > 0 {
		id = strconv.Itoa(numericID)
	}

	rec := models.ProductRecord{
		ID:               id,
		NumericID:        max(0, numericID),
		Name:             t.displayName(b.Name, b.Slug, id),
		Slug:             strings.TrimSpace(b.Slug),
		Type:             kind,
		ShortDescription: strings.TrimSpace(b.ShortDescription),
		SKU:              strings.TrimSpace(b.SKU),
		StockStatus:      strings.TrimSpace(b.StockStatus),
		Price:            pr.price,
		DiscountPercent:  DiscountFromValues(pr.regular, pr.price),
		AverageRating:    ParseRating(b.AverageRating),
		ReviewCount:      max(0, b.ReviewCount),
		TotalSales:       max(0, b.TotalSales),
		IsFeatured:       b.Featured,
		// Featured stands in for recency until upstream exposes a publish date.
		IsNew:         b.Featured,
		CategorySlugs: categorySlugs(b.Categories),
		Images:        images(b.Image, b.Gallery),
	}

	if pr.regular > 0 {
		regular := pr.regular
		rec.RegularPrice = &regular
	}

	if b.StockQuantity != nil {
		qty := *b.StockQuantity
		rec.StockQuantity = &qty
	}

	rec.Shipping = ClassifyShipping(b, rec.Price, t.threshold)
	rec.IsNational = rec.Shipping.Class == models.DeliveryNational

	return rec
}

func (t *Transformer) defaults(id string) models.ProductRecord {
	id = strings.TrimSpace(id)
	numericID := decodeNumericID(id)

	rec := models.ProductRecord{
		ID:            id,
		NumericID:     numericID,
		Name:          t.displayName("", "", id),
		Type:          models.KindUnknown,
		CategorySlugs: []string{},
		Images:        []models.Image{},
	}
	rec.Shipping = ClassifyShipping(nil, 0, t.threshold)
	rec.IsNational = true

	return rec
}

func (t *Transformer) displayName(name, slug, id string) string {
	for _, candidate := range []string{name, slug, id} {
		if n := t.text.NormalizeWhitespace(candidate); n != "" {
			return n
		}
	}

	return UnnamedProduct
}

func categorySlugs(cats []models.CategoryRef) []string {
	slugs := make([]string, 0, len(cats))
	seen := make(map[string]struct{}, len(cats))

	for _, c := range cats {
		slug := strings.TrimSpace(c.Slug)
		if slug == "" {
			continue
		}

		if _, dup := seen[slug]; dup {
			continue
		}

		seen[slug] = struct{}{}
		slugs = append(slugs, slug)
	}

	return slugs
}

func images(primary *models.Image, gallery []models.Image) []models.Image {
	out := make([]models.Image, 0, len(gallery)+1)
	seen := make(map[string]struct{}, len(gallery)+1)

	add := func(img models.Image) {
		src := strings.TrimSpace(img.SourceURL)
		if src == "" {
			return
		}

		if _, dup := seen[src]; dup {
			return
		}

		seen[src] = struct{}{}
		out = append(out, models.Image{SourceURL: src, AltText: img.AltText})
	}

	if primary != nil {
		add(*primary)
	}

	for _, img := range gallery {
		add(img)
	}

	return out
}

// decodeNumericID extracts a database ID from a plain number or a WPGraphQL
// global ID such as base64("post:123").
func decodeNumericID(id string) int {
	if id == "" {
		return 0
	}

	if n, err := strconv.Atoi(id); err == nil && n > 0 {
		return n
	}

	decoded, err := base64.StdEncoding.DecodeString(id)
	if err != nil {
		return 0
	}

	_, tail, found := strings.Cut(string(decoded), ":")
	if !found {
		return 0
	}

	n, err := strconv.Atoi(tail)
	if err != nil || n < 0 {
		return 0
	}

	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}

	return ""
}
