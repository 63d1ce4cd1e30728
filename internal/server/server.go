// Package server exposes the storefront catalog over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/commerce"
	"storefront/internal/config"
	"storefront/internal/flashsale"
	"storefront/internal/logger"
	"storefront/internal/normalizer"
	"storefront/internal/shipping"
)

const (
	relatedLimit    = 4
	shutdownTimeout = 10 * time.Second
)

// Server serves the storefront API.
type Server struct {
	cfg       *config.Config
	fetcher   commerce.Fetcher
	processor *normalizer.Processor
	estimator *shipping.Estimator
	countdown *flashsale.Countdown
	logger    *logger.Logger
	engine    *gin.Engine
}

// New wires the routes. The flash sale countdown does not run until Run.
func New(cfg *config.Config, fetcher commerce.Fetcher, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewNop()
	}

	s := &Server{
		cfg:       cfg,
		fetcher:   fetcher,
		processor: normalizer.NewProcessorWithThreshold(cfg.Catalog.InternationalThreshold, log),
		estimator: shipping.NewEstimator(cfg.Shipping),
		countdown: flashsale.NewCountdown(cfg.FlashSale.Window()),
		logger:    log,
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), RequestID(), AccessLog(log), CORS(cfg.Server.AllowedOrigins))
	s.routes(engine)
	s.engine = engine

	return s
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/healthz", s.health)

	store := r.Group("/store")

	categories := store.Group("/categories")
	{
		categories.GET("", s.listCategories)
		categories.GET("/:slug/products", s.listCategoryProducts)
	}

	products := store.Group("/products")
	{
		products.GET("/:id", s.getProduct)
		products.GET("/:id/reviews", s.getProductReviews)
	}

	shippingGroup := store.Group("/shipping")
	{
		shippingGroup.GET("/estimate", s.estimateShipping)
		shippingGroup.GET("/cities", s.listCities)
	}

	store.GET("/flash-sale", s.getFlashSale)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on cfg.Server.Addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if _, err := s.countdown.Start(ctx); err != nil {
		return fmt.Errorf("failed to start flash sale countdown: %w", err)
	}
	defer s.countdown.Stop()

	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("server listening", "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}

		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	return <-errCh
}
