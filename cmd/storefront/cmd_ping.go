package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"storefront/internal/commerce"
	"storefront/internal/config"
)

var pingFlags struct {
	wait     time.Duration
	interval time.Duration
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Wait until the upstream store answers",
	Long: `Polls the upstream category list until it responds. Useful after deploying
the store, before pointing the API or the CLI at it.`,
	Args: cobra.NoArgs,
	RunE: runPing,
}

func init() {
	pingCmd.Flags().DurationVar(&pingFlags.wait, "wait", 0, "keep retrying for this long (0: single attempt)")
	pingCmd.Flags().DurationVar(&pingFlags.interval, "interval", 2*time.Second, "delay between attempts")
}

func runPing(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	// Bypass the cache: a cached answer says nothing about the upstream.
	e.cfg.Cache.Backend = config.CacheNone

	ctx, cancel := context.WithTimeout(cmd.Context(), pingFlags.wait+timeout)
	defer cancel()

	fetcher, cleanup, err := e.fetcher(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if pingFlags.wait <= 0 {
		if _, err := fetcher.FetchCategories(ctx); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "upstream is ready")

		return nil
	}

	waitCtx, stop := context.WithTimeout(ctx, pingFlags.wait)
	defer stop()

	attempts, err := commerce.WaitReady(waitCtx, fetcher, pingFlags.interval, e.log)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "upstream is ready after %d attempt(s)\n", attempts)

	return nil
}
