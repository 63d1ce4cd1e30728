// Package main runs the storefront HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/commerce"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/server"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (default: built-in defaults)")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before the config")
	flag.Parse()

	if err := run(*configPath, *envFile); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(configPath, envFile string) error {
	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher, store, err := commerce.NewFetcher(ctx, cfg, log)
	if err != nil {
		return err
	}

	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("failed to close cache", "error", err)
		}
	}()

	log.Info("starting storefront API", "config", cfg.String())

	return server.New(cfg, fetcher, log).Run(ctx)
}
