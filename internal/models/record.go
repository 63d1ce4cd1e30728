package models

// DeliveryClass is the shipping classification label used by delivery-time filters.
type DeliveryClass string

// Delivery classes.
const (
	DeliveryNational      DeliveryClass = "national"
	DeliveryInternational DeliveryClass = "international"
)

// ShippingRule names the rule that decided a shipping classification.
type ShippingRule string

// Shipping rules in priority order.
const (
	RuleZoneMeta      ShippingRule = "zone-meta"
	RuleAttribute     ShippingRule = "attribute"
	RulePriceCeiling  ShippingRule = "price-threshold"
	RuleDefaultNation ShippingRule = "default"
)

// ShippingClass is a derived, non-authoritative guess at how a product ships.
type ShippingClass struct {
	Class        DeliveryClass `json:"class"`
	DeliveryDays string        `json:"deliveryDays"`
	Rule         ShippingRule  `json:"rule"`
	Heuristic    bool          `json:"heuristic"`
}

// ProductRecord is the uniform, normalized catalog item. Records are never mutated
// after normalization; views hold copies or slices of them.
type ProductRecord struct {
	RegularPrice     *float64      `json:"regularPrice,omitempty"`
	DiscountPercent  *int          `json:"discountPercent,omitempty"`
	StockQuantity    *int          `json:"stockQuantity,omitempty"`
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Slug             string        `json:"slug"`
	Type             ProductKind   `json:"type"`
	ShortDescription string        `json:"shortDescription,omitempty"`
	SKU              string        `json:"sku,omitempty"`
	StockStatus      string        `json:"stockStatus,omitempty"`
	ExternalURL      string        `json:"externalUrl,omitempty"`
	ButtonText       string        `json:"buttonText,omitempty"`
	Shipping         ShippingClass `json:"shipping"`
	CategorySlugs    []string      `json:"categorySlugs"`
	Images           []Image       `json:"images"`
	Price            float64       `json:"price"`
	AverageRating    float64       `json:"averageRating"`
	NumericID        int           `json:"numericId"`
	ReviewCount      int           `json:"reviewCount"`
	TotalSales       int           `json:"totalSales,omitempty"`
	IsNational       bool          `json:"isNational"`
	IsFeatured       bool          `json:"isFeatured"`
	IsNew            bool          `json:"isNew"`
}

// Discount returns the discount percentage, treating an absent discount as 0.
func (p *ProductRecord) Discount() int {
	if p.DiscountPercent == nil {
		return 0
	}

	return *p.DiscountPercent
}

// HasDiscount reports whether a discount was derived for the record.
func (p *ProductRecord) HasDiscount() bool {
	return p.DiscountPercent != nil
}

// DeliveryClass returns the record's delivery class.
func (p *ProductRecord) DeliveryClass() DeliveryClass {
	if p.IsNational {
		return DeliveryNational
	}

	return DeliveryInternational
}

// InCategory reports whether the record belongs to the category slug.
func (p *ProductRecord) InCategory(slug string) bool {
	for _, s := range p.CategorySlugs {
		if s == slug {
			return true
		}
	}

	return false
}
