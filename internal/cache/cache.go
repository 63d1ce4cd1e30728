// Package cache stores upstream responses for a limited time.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/config"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache is a byte-oriented TTL store.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// New builds the cache backend selected in cfg.
func New(ctx context.Context, cfg config.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case config.CacheMemory, "":
		return NewMemory(), nil
	case config.CacheRedis:
		return NewRedis(ctx, cfg.RedisURL)
	case config.CacheNone:
		return Nop{}, nil
	}

	return nil, fmt.Errorf("%w: %s", config.ErrInvalidCacheBackend, cfg.Backend)
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }

func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (Nop) Delete(context.Context, string) error { return nil }

func (Nop) Close() error { return nil }
