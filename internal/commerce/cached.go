package commerce

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"storefront/internal/cache"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/pkg/fingerprint"
)

// CachedFetcher wraps a Fetcher with a TTL cache. Concurrent identical requests
// share one upstream call.
type CachedFetcher struct {
	next   Fetcher
	store  cache.Cache
	ttl    time.Duration
	group  singleflight.Group
	logger *logger.Logger
}

var _ Fetcher = (*CachedFetcher)(nil)

// NewCachedFetcher creates a caching wrapper around next.
func NewCachedFetcher(next Fetcher, store cache.Cache, ttl time.Duration, log *logger.Logger) *CachedFetcher {
	if log == nil {
		log = logger.NewNop()
	}

	return &CachedFetcher{next: next, store: store, ttl: ttl, logger: log}
}

// Unwrap returns the fetcher behind the cache.
func (c *CachedFetcher) Unwrap() Fetcher {
	return c.next
}

// FetchCategoryProducts implements Fetcher.
func (c *CachedFetcher) FetchCategoryProducts(ctx context.Context, slug string, first int) ([]models.RawProduct, error) {
	return cached(ctx, c, fingerprint.Key("category", slug, strconv.Itoa(first)), func(ctx context.Context) ([]models.RawProduct, error) {
		return c.next.FetchCategoryProducts(ctx, slug, first)
	})
}

// FetchProduct implements Fetcher.
func (c *CachedFetcher) FetchProduct(ctx context.Context, id string) (models.RawProduct, error) {
	return cached(ctx, c, fingerprint.Key("product", id), func(ctx context.Context) (models.RawProduct, error) {
		return c.next.FetchProduct(ctx, id)
	})
}

// FetchCategories implements Fetcher.
func (c *CachedFetcher) FetchCategories(ctx context.Context) ([]models.Category, error) {
	return cached(ctx, c, fingerprint.Key("categories"), c.next.FetchCategories)
}

// FetchReviews implements Fetcher.
func (c *CachedFetcher) FetchReviews(ctx context.Context, productID string) ([]models.Review, error) {
	return cached(ctx, c, fingerprint.Key("reviews", productID), func(ctx context.Context) ([]models.Review, error) {
		return c.next.FetchReviews(ctx, productID)
	})
}

// Invalidate drops the cached category listing so the next fetch goes upstream.
func (c *CachedFetcher) Invalidate(ctx context.Context, slug string, first int) error {
	return c.store.Delete(ctx, fingerprint.Key("category", slug, strconv.Itoa(first)))
}

// cached serves key from the store, or loads it once for all concurrent callers.
// Cache failures are logged and never fail the request.
func cached[T any](ctx context.Context, c *CachedFetcher, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T

	if data, err := c.store.Get(ctx, key); err == nil {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			return v, nil
		}

		c.logger.Warn("discarding undecodable cache entry", "key", key)
	} else if !errors.Is(err, cache.ErrMiss) {
		c.logger.Warn("cache read failed", "key", key, "error", err)
	}

	ch := c.group.DoChan(key, func() (any, error) {
		// Detached so one caller's cancellation does not fail the others.
		v, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		if data, err := json.Marshal(v); err == nil {
			if err := c.store.Set(context.WithoutCancel(ctx), key, data, c.ttl); err != nil {
				c.logger.Warn("cache write failed", "key", key, "error", err)
			}
		}

		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}

		return res.Val.(T), nil
	}
}
