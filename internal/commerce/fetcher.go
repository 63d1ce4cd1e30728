// Package commerce fetches catalog data from a headless WooCommerce store.
package commerce

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/models"
)

// Upstream errors.
var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrGraphQLError         = errors.New("graphql error")
	ErrNoData               = errors.New("no data in response")
	ErrNotFound             = errors.New("not found")
)

// Fetcher loads raw catalog data from the upstream store.
type Fetcher interface {
	// FetchCategoryProducts returns up to first products of the category, in upstream order.
	FetchCategoryProducts(ctx context.Context, slug string, first int) ([]models.RawProduct, error)
	FetchProduct(ctx context.Context, id string) (models.RawProduct, error)
	FetchCategories(ctx context.Context) ([]models.Category, error)
	FetchReviews(ctx context.Context, productID string) ([]models.Review, error)
}

// NewFetcher builds the fetcher selected by cfg.Upstream, falling back to the other
// transport when configured, wrapped in a CachedFetcher unless caching is disabled.
func NewFetcher(ctx context.Context, cfg *config.Config, log *logger.Logger) (Fetcher, cache.Cache, error) {
	graphql := Source{
		Name:    config.TransportGraphQL,
		Fetcher: NewGraphQLFetcher(NewGraphQLClient(cfg.Upstream.GraphQLURL, &cfg.Upstream.Retry, log), log),
	}
	rest := Source{
		Name:    config.TransportREST,
		Fetcher: NewRESTFetcher(cfg.Upstream.RESTURL, cfg.Upstream.ConsumerKey, cfg.Upstream.ConsumerSecret, &cfg.Upstream.Retry, log),
	}

	var sources []Source

	switch cfg.Upstream.Transport {
	case config.TransportGraphQL:
		sources = []Source{graphql, rest}
	case config.TransportREST:
		sources = []Source{rest, graphql}
	default:
		return nil, nil, fmt.Errorf("%w: %s", config.ErrInvalidTransport, cfg.Upstream.Transport)
	}

	f := sources[0].Fetcher
	if cfg.Upstream.Fallback {
		f = NewFallbackFetcher(log, sources...)
	}

	store, err := cache.New(ctx, cfg.Cache)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cache: %w", err)
	}

	if cfg.Cache.Backend == config.CacheNone {
		return f, store, nil
	}

	return NewCachedFetcher(f, store, cfg.Cache.TTL(), log), store, nil
}
