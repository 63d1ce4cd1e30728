// Package main implements the storefront CLI: browse a headless WooCommerce catalog
// from the terminal with the same filters, sorting and pagination as the web listing.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"storefront/internal/cache"
	"storefront/internal/commerce"
	"storefront/internal/config"
	"storefront/internal/logger"
)

var (
	configPath string
	envFile    string
	logLevel   string
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "Browse a headless WooCommerce catalog",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (default: built-in defaults)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "upstream request timeout")

	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(productCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(filtersCmd)
	rootCmd.AddCommand(shippingCmd)
	rootCmd.AddCommand(configCheckCmd)
	rootCmd.AddCommand(pingCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// env is what every command needs once flags are parsed.
type env struct {
	cfg *config.Config
	log *logger.Logger
}

func loadEnv() (*env, error) {
	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return nil, err
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	return &env{cfg: cfg, log: logger.New(cfg.Logging.Level, cfg.Logging.Format)}, nil
}

// fetcher builds the configured upstream fetcher. The returned cleanup closes the cache.
func (e *env) fetcher(ctx context.Context) (commerce.Fetcher, func(), error) {
	f, store, err := commerce.NewFetcher(ctx, e.cfg, e.log)
	if err != nil {
		return nil, nil, err
	}

	return f, func() {
		logAttempts(f)
		closeCache(store, e.log)
	}, nil
}

// logAttempts reports upstream failovers when the fallback transport is enabled.
func logAttempts(f commerce.Fetcher) {
	if c, ok := f.(*commerce.CachedFetcher); ok {
		f = c.Unwrap()
	}

	if fb, ok := f.(*commerce.FallbackFetcher); ok && fb.Stats().Fallbacks > 0 {
		fb.LogSummary()
	}
}

func closeCache(store cache.Cache, log *logger.Logger) {
	if err := store.Close(); err != nil {
		log.Warn("failed to close cache", "error", err)
	}

	_ = log.Sync()
}

func withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}
