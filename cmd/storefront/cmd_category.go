package main

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"storefront/internal/catalog"
	"storefront/internal/commerce"
	"storefront/internal/formatter"
	"storefront/internal/normalizer"
	"storefront/internal/session"
)

var categoryFlags struct {
	minPrice float64
	maxPrice float64
	delivery []string
	rating   float64
	search   string
	preset   int
	sort     string
	page     int
	refresh  bool
}

var categoryCmd = &cobra.Command{
	Use:   "category <slug>",
	Short: "List one page of a category",
	Long: `Fetches the category, normalizes its products and prints one page after
applying the price, delivery and rating filters and the sort order.`,
	Args: cobra.ExactArgs(1),
	RunE: runCategory,
}

func init() {
	f := categoryCmd.Flags()
	f.Float64Var(&categoryFlags.minPrice, "min-price", 0, "minimum price")
	f.Float64Var(&categoryFlags.maxPrice, "max-price", 0, "maximum price (default: catalog.max_price)")
	f.StringSliceVar(&categoryFlags.delivery, "delivery", nil, "delivery classes: national, international")
	f.Float64Var(&categoryFlags.rating, "rating", 0, "minimum average rating")
	f.StringVarP(&categoryFlags.search, "search", "q", "", "only products whose name contains every word")
	f.IntVar(&categoryFlags.preset, "preset", 0, "price preset number, see `storefront filters`")
	f.BoolVar(&categoryFlags.refresh, "refresh", false, "drop the cached listing before fetching")
	f.StringVar(&categoryFlags.sort, "sort", string(catalog.SortRelevance), "sort order: relevance, price-asc, price-desc, rating, newest, discount")
	f.IntVar(&categoryFlags.page, "page", 1, "page number")
}

// categoryValues turns the flags that were set into listing query parameters.
// A preset sets both price bounds; explicit bounds override it.
func categoryValues(cmd *cobra.Command, maxPrice float64) (url.Values, error) {
	values := url.Values{}
	f := cmd.Flags()

	if f.Changed("preset") {
		presets := catalog.PricePresets(maxPrice)
		if categoryFlags.preset < 1 || categoryFlags.preset > len(presets) {
			return nil, fmt.Errorf("%w: %d", catalog.ErrUnknownPreset, categoryFlags.preset)
		}

		r := presets[categoryFlags.preset-1].Range
		values.Set(catalog.ParamMinPrice, strconv.FormatFloat(r.Min, 'f', -1, 64))
		values.Set(catalog.ParamMaxPrice, strconv.FormatFloat(r.Max, 'f', -1, 64))
	}

	if f.Changed("min-price") {
		values.Set(catalog.ParamMinPrice, strconv.FormatFloat(categoryFlags.minPrice, 'f', -1, 64))
	}

	if f.Changed("max-price") {
		values.Set(catalog.ParamMaxPrice, strconv.FormatFloat(categoryFlags.maxPrice, 'f', -1, 64))
	}

	for _, d := range categoryFlags.delivery {
		values.Add(catalog.ParamDelivery, d)
	}

	if f.Changed("rating") {
		values.Set(catalog.ParamRating, strconv.FormatFloat(categoryFlags.rating, 'f', -1, 64))
	}

	if categoryFlags.search != "" {
		values.Set(catalog.ParamSearch, categoryFlags.search)
	}

	values.Set(catalog.ParamSort, categoryFlags.sort)
	values.Set(catalog.ParamPage, strconv.Itoa(categoryFlags.page))

	return values, nil
}

func runCategory(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	values, err := categoryValues(cmd, e.cfg.Catalog.MaxPrice)
	if err != nil {
		return err
	}

	q, err := catalog.ParseQuery(values, e.cfg.Catalog.MaxPrice)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(cmd)
	defer cancel()

	fetcher, cleanup, err := e.fetcher(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if categoryFlags.refresh {
		refresh(ctx, fetcher, args[0], e)
	}

	sess := session.New(fetcher,
		normalizer.NewProcessorWithThreshold(e.cfg.Catalog.InternationalThreshold, e.log),
		session.Options{
			PageSize:  e.cfg.Catalog.PageSize,
			MaxPrice:  e.cfg.Catalog.MaxPrice,
			FetchSize: e.cfg.Upstream.FetchSize,
		}, e.log)
	defer sess.Close()

	if err := sess.Load(ctx, args[0]); err != nil {
		return err
	}

	view := sess.Apply(q)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n\n", catalog.CategoryTitle(args[0]))
	fmt.Fprint(out, formatter.RenderView(view))

	if r := sess.Report(); r.Dropped > 0 {
		fmt.Fprintf(out, "%d productos descartados por datos inválidos\n", r.Dropped)
	}

	return nil
}

// refresh drops the cached listing of slug. Without a cache there is nothing to drop.
func refresh(ctx context.Context, f commerce.Fetcher, slug string, e *env) {
	c, ok := f.(*commerce.CachedFetcher)
	if !ok {
		return
	}

	if err := c.Invalidate(ctx, slug, e.cfg.Upstream.FetchSize); err != nil {
		e.log.Warn("failed to drop cached listing", "category", slug, "error", err)
	}
}

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "List the price presets, delivery options and rating floors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Precio (--preset):")

		for i, p := range catalog.PricePresets(e.cfg.Catalog.MaxPrice) {
			fmt.Fprintf(out, "  %d. %s\n", i+1, formatter.PresetLabel(p.Range, e.cfg.Catalog.MaxPrice))
		}

		fmt.Fprintln(out, "Tiempo de entrega (--delivery):")

		for _, d := range catalog.DeliveryOptions() {
			fmt.Fprintf(out, "  %s (%s)\n", d.Label, d.Class)
		}

		fmt.Fprintln(out, "Valoración (--rating):")

		for _, r := range catalog.RatingFloors() {
			fmt.Fprintf(out, "  %g+ estrellas\n", r)
		}

		return nil
	},
}
