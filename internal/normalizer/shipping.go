package normalizer

import (
	"storefront/internal/models"
	"storefront/pkg/utils"
)

// DefaultInternationalThreshold is the price above which unlabelled products are assumed imported.
const DefaultInternationalThreshold = 500000

// Delivery-days labels shown next to each class.
const (
	NationalDeliveryDays      = "2-4 días"
	InternationalDeliveryDays = "15-20 días"
)

var (
	shippingZoneKeys   = []string{"_shipping_zone", "shipping_zone"}
	nationalZoneWords  = []string{"nacional", "national", "domestic", "colombia"}
	shippingAttrWords  = []string{"envio", "shipping"}
	internationalWords = []string{"internacional", "international"}
)

// ClassifyShipping guesses whether a product ships nationally. Rules, first match wins:
//  1. a shipping-zone metadata entry decides: national when it names a national/domestic zone;
//  2. the first shipping attribute with an international option forces international;
//  3. a price above threshold is international;
//  4. otherwise national.
//
// The result is a heuristic and is always labelled as such.
func ClassifyShipping(base *models.ProductBase, price, threshold float64) models.ShippingClass {
	text := utils.NewStringHelper()

	if base != nil {
		for _, meta := range base.MetaData {
			if !matchesKey(text, meta.Key, shippingZoneKeys) {
				continue
			}

			// "internacional" contains "nacional", so rule out international zones first.
			if !containsAny(text, meta.Value, internationalWords) && containsAny(text, meta.Value, nationalZoneWords) {
				return shippingClass(true, models.RuleZoneMeta)
			}

			return shippingClass(false, models.RuleZoneMeta)
		}

		// Only the first shipping attribute counts.
		for _, attr := range base.Attributes {
			if !containsAny(text, attr.Name, shippingAttrWords) {
				continue
			}

			for _, opt := range attr.Options {
				if containsAny(text, opt, internationalWords) {
					return shippingClass(false, models.RuleAttribute)
				}
			}

			break
		}
	}

	if price > threshold {
		return shippingClass(false, models.RulePriceCeiling)
	}

	return shippingClass(true, models.RuleDefaultNation)
}

func shippingClass(national bool, rule models.ShippingRule) models.ShippingClass {
	if national {
		return models.ShippingClass{
			Class:        models.DeliveryNational,
			DeliveryDays: NationalDeliveryDays,
			Rule:         rule,
			Heuristic:    true,
		}
	}

	return models.ShippingClass{
		Class:        models.DeliveryInternational,
		DeliveryDays: InternationalDeliveryDays,
		Rule:         rule,
		Heuristic:    true,
	}
}

func matchesKey(text *utils.StringHelper, key string, candidates []string) bool {
	k := text.Fold(key)
	for _, c := range candidates {
		if k == c {
			return true
		}
	}

	return false
}

func containsAny(text *utils.StringHelper, haystack string, needles []string) bool {
	for _, n := range needles {
		if text.ContainsFold(haystack, n) {
			return true
		}
	}

	return false
}
