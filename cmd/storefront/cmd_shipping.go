package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storefront/internal/formatter"
	"storefront/internal/shipping"
)

var shippingFlags struct {
	price    float64
	national bool
	city     string
}

var shippingCmd = &cobra.Command{
	Use:   "shipping",
	Short: "Estimate shipping for a price and destination city",
	Args:  cobra.NoArgs,
	RunE:  runShipping,
}

func init() {
	f := shippingCmd.Flags()
	f.Float64Var(&shippingFlags.price, "price", 0, "product price")
	f.BoolVar(&shippingFlags.national, "national", true, "product ships from inside the country")
	f.StringVar(&shippingFlags.city, "city", "", "destination city")
}

func runShipping(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	est := shipping.NewEstimator(e.cfg.Shipping)
	out := cmd.OutOrStdout()

	quote, err := est.Estimate(shipping.Request{
		Price:    shippingFlags.price,
		National: shippingFlags.national,
		City:     shippingFlags.city,
	})
	if err != nil {
		if matches := est.SearchCities(shippingFlags.city); len(matches) > 0 {
			fmt.Fprintf(out, "¿Quisiste decir %s?\n", matches[0].Name)
		}

		return err
	}

	method := "Envío nacional"
	if !shippingFlags.national {
		method = "Envío internacional"
	}

	cost := formatter.FormatPrice(quote.Cost)
	if quote.Free {
		cost = "GRATIS"
	}

	fmt.Fprintf(out, "%s: %s · %s\n", method, cost, quote.Days)

	if quote.City == "" {
		fmt.Fprintln(out, "Ingresa tu ciudad para ver opciones de envío")
	}

	if shippingFlags.national && !quote.Free && quote.RemainingForFree > 0 {
		fmt.Fprintf(out, "Agrega %s más para envío gratis\n", formatter.FormatPrice(quote.RemainingForFree))
	}

	return nil
}
