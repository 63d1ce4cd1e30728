package normalizer

import (
	"testing"

	"storefront/internal/models"
)

func TestClassifyShipping_Priority(t *testing.T) {
	tests := []struct {
		name     string
		base     *models.ProductBase
		price    float64
		national bool
		rule     models.ShippingRule
	}{
		{
			name:     "zone meta national wins over expensive price",
			base:     &models.ProductBase{MetaData: []models.MetaEntry{{Key: "_shipping_zone", Value: "Envío Nacional"}}},
			price:    2000000,
			national: true,
			rule:     models.RuleZoneMeta,
		},
		{
			name:     "zone meta accent and case insensitive",
			base:     &models.ProductBase{MetaData: []models.MetaEntry{{Key: "Shipping_Zone", Value: "COLOMBIA"}}},
			national: true,
			rule:     models.RuleZoneMeta,
		},
		{
			name: "zone meta wins over international attribute",
			base: &models.ProductBase{
				MetaData:   []models.MetaEntry{{Key: "shipping_zone", Value: "domestic"}},
				Attributes: []models.Attribute{{Name: "Envío", Options: []string{"Internacional"}}},
			},
			national: true,
			rule:     models.RuleZoneMeta,
		},
		{
			name:     "zone meta naming another zone is international",
			base:     &models.ProductBase{MetaData: []models.MetaEntry{{Key: "shipping_zone", Value: "China"}}},
			national: false,
			rule:     models.RuleZoneMeta,
		},
		{
			name:     "international zone is not mistaken for national",
			base:     &models.ProductBase{MetaData: []models.MetaEntry{{Key: "_shipping_zone", Value: "Internacional"}}},
			national: false,
			rule:     models.RuleZoneMeta,
		},
		{
			name:     "international attribute option",
			base:     &models.ProductBase{Attributes: []models.Attribute{{Name: "Tipo de envío", Options: []string{"Nacional", "INTERNACIONAL"}}}},
			price:    1000,
			national: false,
			rule:     models.RuleAttribute,
		},
		{
			name:     "shipping attribute without international option falls through",
			base:     &models.ProductBase{Attributes: []models.Attribute{{Name: "Shipping", Options: []string{"Express"}}}},
			price:    1000,
			national: true,
			rule:     models.RuleDefaultNation,
		},
		{
			name: "only the first shipping attribute is read",
			base: &models.ProductBase{Attributes: []models.Attribute{
				{Name: "Envío", Options: []string{"Nacional"}},
				{Name: "Shipping origin", Options: []string{"International"}},
			}},
			price:    1000,
			national: true,
			rule:     models.RuleDefaultNation,
		},
		{
			name:     "unrelated attribute is ignored",
			base:     &models.ProductBase{Attributes: []models.Attribute{{Name: "Color", Options: []string{"International blue"}}}},
			price:    1000,
			national: true,
			rule:     models.RuleDefaultNation,
		},
		{
			name:     "price above threshold",
			base:     &models.ProductBase{},
			price:    500001,
			national: false,
			rule:     models.RulePriceCeiling,
		},
		{
			name:     "price at threshold stays national",
			base:     &models.ProductBase{},
			price:    500000,
			national: true,
			rule:     models.RuleDefaultNation,
		},
		{
			name:     "nil base",
			base:     nil,
			national: true,
			rule:     models.RuleDefaultNation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyShipping(tt.base, tt.price, DefaultInternationalThreshold)

			if (got.Class == models.DeliveryNational) != tt.national {
				t.Errorf("Class = %s, want national=%v", got.Class, tt.national)
			}

			if got.Rule != tt.rule {
				t.Errorf("Rule = %s, want %s", got.Rule, tt.rule)
			}

			if !got.Heuristic {
				t.Error("classification must be labelled heuristic")
			}
		})
	}
}

func TestClassifyShipping_DeliveryDays(t *testing.T) {
	national := ClassifyShipping(nil, 0, DefaultInternationalThreshold)
	if national.DeliveryDays != NationalDeliveryDays {
		t.Errorf("national DeliveryDays = %q", national.DeliveryDays)
	}

	intl := ClassifyShipping(nil, 1e9, DefaultInternationalThreshold)
	if intl.DeliveryDays != InternationalDeliveryDays {
		t.Errorf("international DeliveryDays = %q", intl.DeliveryDays)
	}
}
