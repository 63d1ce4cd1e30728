package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"storefront/internal/catalog"
	"storefront/internal/formatter"
	"storefront/internal/models"
	"storefront/internal/normalizer"
	"storefront/internal/reviews"
)

var productCmd = &cobra.Command{
	Use:   "product <id|slug>",
	Short: "Show one product with its reviews and related products",
	Args:  cobra.ExactArgs(1),
	RunE:  runProduct,
}

func runProduct(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
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

	processor := normalizer.NewProcessorWithThreshold(e.cfg.Catalog.InternationalThreshold, e.log)

	raw, err := fetcher.FetchProduct(ctx, args[0])
	if err != nil {
		return err
	}

	rec := processor.Normalize(raw)
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%s\n", rec.Name)
	fmt.Fprintf(out, "Precio: %s", formatter.FormatPrice(rec.Price))

	if rec.RegularPrice != nil && rec.HasDiscount() {
		fmt.Fprintf(out, " (antes %s, %s)", formatter.FormatPrice(*rec.RegularPrice), formatter.FormatDiscount(rec.DiscountPercent))
	}

	fmt.Fprintf(out, "\nValoración: %.1f (%d opiniones)\n", rec.AverageRating, rec.ReviewCount)
	fmt.Fprintf(out, "Envío: %s (estimado)\n", rec.Shipping.DeliveryDays)

	if len(rec.CategorySlugs) > 0 {
		fmt.Fprintf(out, "Categorías: %s\n", strings.Join(rec.CategorySlugs, ", "))
	}

	list, err := fetcher.FetchReviews(ctx, rec.ID)
	if err != nil {
		e.log.Warn("failed to fetch reviews", "id", rec.ID, "error", err)
	} else if len(list) > 0 {
		s := reviews.Summarize(list)
		fmt.Fprintf(out, "\nOpiniones: %.1f de 5 (%d)\n", s.Average, s.Count)

		for _, b := range s.Breakdown {
			fmt.Fprintf(out, "  %d★ %3d%%\n", b.Stars, b.Percent)
		}
	}

	if len(rec.CategorySlugs) == 0 {
		return nil
	}

	raws, err := fetcher.FetchCategoryProducts(ctx, rec.CategorySlugs[0], e.cfg.Upstream.FetchSize)
	if err != nil {
		e.log.Warn("failed to fetch related products", "id", rec.ID, "error", err)
		return nil
	}

	related := catalog.Related(processor.Process(raws).Records, rec, 4)
	if len(related) > 0 {
		fmt.Fprintf(out, "\nTambién te puede interesar\n%s", formatter.RenderTable(
			[]string{"Producto", "Precio", "Dto.", "Valoración", "Envío"},
			formatter.ProductRows(related),
		))
	}

	return nil
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the store categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := loadEnv()
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

		cats, err := fetcher.FetchCategories(ctx)
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"Slug", "Nombre", "Productos"}, categoryRows(cats)))

		return nil
	},
}

func categoryRows(cats []models.Category) [][]string {
	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, []string{c.Slug, c.Name, fmt.Sprint(c.Count)})
	}

	return rows
}
