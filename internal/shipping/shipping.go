// Package shipping quotes delivery cost and time for a product and destination city.
package shipping

import (
	"errors"
	"fmt"
	"strings"

	"storefront/internal/config"
	"storefront/internal/models"
	"storefront/internal/normalizer"
	"storefront/pkg/utils"
)

// ErrUnknownCity is returned when the destination is not in the city table.
var ErrUnknownCity = errors.New("unknown city")

// City is a delivery destination with its national rate and lead times (business days).
type City struct {
	Name              string  `json:"name"`
	Region            string  `json:"region"`
	NationalCost      float64 `json:"national_cost"`
	NationalDays      string  `json:"national_days"`
	InternationalDays string  `json:"international_days"`
}

var cities = []City{
	{Name: "Bogotá", Region: "Cundinamarca", NationalCost: 0, NationalDays: "1-2", InternationalDays: "12-15"},
	{Name: "Medellín", Region: "Antioquia", NationalCost: 8000, NationalDays: "2-3", InternationalDays: "14-18"},
	{Name: "Cali", Region: "Valle del Cauca", NationalCost: 10000, NationalDays: "2-3", InternationalDays: "14-18"},
	{Name: "Barranquilla", Region: "Atlántico", NationalCost: 12000, NationalDays: "3-4", InternationalDays: "15-20"},
	{Name: "Cartagena", Region: "Bolívar", NationalCost: 12000, NationalDays: "3-4", InternationalDays: "15-20"},
	{Name: "Bucaramanga", Region: "Santander", NationalCost: 10000, NationalDays: "2-3", InternationalDays: "14-18"},
	{Name: "Pereira", Region: "Risaralda", NationalCost: 9000, NationalDays: "2-3", InternationalDays: "14-18"},
	{Name: "Santa Marta", Region: "Magdalena", NationalCost: 14000, NationalDays: "3-4", InternationalDays: "16-20"},
}

// Cities returns the supported destinations.
func Cities() []City {
	out := make([]City, len(cities))
	copy(out, cities)

	return out
}

// Request describes what to quote.
type Request struct {
	Price    float64 `json:"price"`
	National bool    `json:"national"`
	City     string  `json:"city,omitempty"`
}

// Quote is the delivery option offered for a request.
type Quote struct {
	Method models.DeliveryClass `json:"method"`
	City   string               `json:"city,omitempty"`
	Cost   float64              `json:"cost"`
	// RegularCost is the city's rate before free shipping was applied.
	RegularCost float64 `json:"regular_cost"`
	Free        bool    `json:"free"`
	Days        string  `json:"days"`
	// RemainingForFree is how much more the order needs for free national shipping.
	RemainingForFree float64 `json:"remaining_for_free,omitempty"`
}

// Estimator quotes shipping from the configured rates.
type Estimator struct {
	cfg  config.ShippingConfig
	text *utils.StringHelper
}

// NewEstimator creates an estimator.
func NewEstimator(cfg config.ShippingConfig) *Estimator {
	return &Estimator{cfg: cfg, text: utils.NewStringHelper()}
}

// SearchCities returns the cities whose name or region contains query, ignoring
// case and accents. A blank query returns nothing.
func (e *Estimator) SearchCities(query string) []City {
	out := []City{}
	if strings.TrimSpace(query) == "" {
		return out
	}

	for _, c := range cities {
		if e.text.ContainsFold(c.Name, query) || e.text.ContainsFold(c.Region, query) {
			out = append(out, c)
		}
	}

	return out
}

// FindCity looks a city up by name, ignoring case and accents.
func (e *Estimator) FindCity(name string) (City, bool) {
	key := e.text.Fold(name)

	for _, c := range cities {
		if e.text.Fold(c.Name) == key {
			return c, true
		}
	}

	return City{}, false
}

// Estimate quotes the single delivery method available for the product. National
// orders at or above the free-shipping threshold ship free. Without a city the
// default rate and generic lead times apply.
func (e *Estimator) Estimate(req Request) (Quote, error) {
	var (
		city  City
		found bool
	)

	if strings.TrimSpace(req.City) != "" {
		if city, found = e.FindCity(req.City); !found {
			return Quote{}, fmt.Errorf("%w: %s", ErrUnknownCity, req.City)
		}
	}

	if !req.National {
		q := Quote{
			Method:      models.DeliveryInternational,
			City:        city.Name,
			Cost:        e.cfg.InternationalCost,
			RegularCost: e.cfg.InternationalCost,
			Days:        normalizer.InternationalDeliveryDays,
		}

		if found {
			q.Days = city.InternationalDays + " días"
		}

		return q, nil
	}

	q := Quote{
		Method:      models.DeliveryNational,
		City:        city.Name,
		RegularCost: e.cfg.DefaultNationalCost,
		Days:        normalizer.NationalDeliveryDays,
	}

	if found {
		q.RegularCost = city.NationalCost
		q.Days = city.NationalDays + " días"
	}

	q.Free = req.Price >= e.cfg.FreeThreshold || q.RegularCost == 0
	if !q.Free {
		q.Cost = q.RegularCost
		q.RemainingForFree = e.cfg.FreeThreshold - max(0, req.Price)
	}

	return q, nil
}
