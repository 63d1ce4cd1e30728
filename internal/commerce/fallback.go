package commerce

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront/internal/logger"
	"storefront/internal/models"
)

// ErrAllSourcesFailed is returned when every upstream source failed.
var ErrAllSourcesFailed = errors.New("all upstream sources failed")

// Source is a named upstream fetcher.
type Source struct {
	Name    string
	Fetcher Fetcher
}

// Attempt records one call to one source.
type Attempt struct {
	Timestamp time.Time
	Source    string
	Op        string
	Error     string
	Duration  time.Duration
	Success   bool
}

// AttemptStats summarises the attempt log.
type AttemptStats struct {
	SourceAttempts     map[string]int
	TotalAttempts      int
	SuccessfulAttempts int
	FailedAttempts     int
	Fallbacks          int
}

// String returns a one-line summary.
func (s AttemptStats) String() string {
	return fmt.Sprintf("Attempts: %d total, %d success, %d failed | Fallbacks: %d",
		s.TotalAttempts, s.SuccessfulAttempts, s.FailedAttempts, s.Fallbacks)
}

// FallbackFetcher tries its sources in order until one answers. A missing entity
// or a canceled caller ends the search, since another source would not do better.
type FallbackFetcher struct {
	sources []Source
	logger  *logger.Logger

	mu        sync.Mutex
	log       []Attempt
	fallbacks int
}

// NewFallbackFetcher creates a fetcher over sources, tried in the given order.
func NewFallbackFetcher(log *logger.Logger, sources ...Source) *FallbackFetcher {
	if log == nil {
		log = logger.NewNop()
	}

	return &FallbackFetcher{sources: sources, logger: log}
}

func (f *FallbackFetcher) FetchCategoryProducts(ctx context.Context, slug string, first int) ([]models.RawProduct, error) {
	return fallback(ctx, f, "category", func(ctx context.Context, src Fetcher) ([]models.RawProduct, error) {
		return src.FetchCategoryProducts(ctx, slug, first)
	})
}

func (f *FallbackFetcher) FetchProduct(ctx context.Context, id string) (models.RawProduct, error) {
	return fallback(ctx, f, "product", func(ctx context.Context, src Fetcher) (models.RawProduct, error) {
		return src.FetchProduct(ctx, id)
	})
}

func (f *FallbackFetcher) FetchCategories(ctx context.Context) ([]models.Category, error) {
	return fallback(ctx, f, "categories", func(ctx context.Context, src Fetcher) ([]models.Category, error) {
		return src.FetchCategories(ctx)
	})
}

func (f *FallbackFetcher) FetchReviews(ctx context.Context, productID string) ([]models.Review, error) {
	return fallback(ctx, f, "reviews", func(ctx context.Context, src Fetcher) ([]models.Review, error) {
		return src.FetchReviews(ctx, productID)
	})
}

func fallback[T any](ctx context.Context, f *FallbackFetcher, op string, call func(context.Context, Fetcher) (T, error)) (T, error) {
	var (
		zero T
		errs []error
	)

	for i, src := range f.sources {
		if i > 0 {
			f.mu.Lock()
			f.fallbacks++
			f.mu.Unlock()

			f.logger.Warn("falling back to next upstream source", "op", op, "source", src.Name)
		}

		start := time.Now()
		v, err := call(ctx, src.Fetcher)
		f.record(src.Name, op, err, time.Since(start))

		if err == nil {
			return v, nil
		}

		if errors.Is(err, ErrNotFound) || ctx.Err() != nil {
			return zero, err
		}

		errs = append(errs, fmt.Errorf("%s: %w", src.Name, err))
	}

	return zero, fmt.Errorf("%w: %w", ErrAllSourcesFailed, errors.Join(errs...))
}

func (f *FallbackFetcher) record(source, op string, err error, d time.Duration) {
	a := Attempt{Timestamp: time.Now(), Source: source, Op: op, Duration: d, Success: err == nil}
	if err != nil {
		a.Error = err.Error()
	}

	f.mu.Lock()
	f.log = append(f.log, a)
	f.mu.Unlock()
}

// Attempts returns a copy of the attempt log.
func (f *FallbackFetcher) Attempts() []Attempt {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Attempt, len(f.log))
	copy(out, f.log)

	return out
}

// Stats summarises the attempt log.
func (f *FallbackFetcher) Stats() AttemptStats {
	f.mu.Lock()
	defer f.mu.Unlock()

	stats := AttemptStats{SourceAttempts: make(map[string]int), Fallbacks: f.fallbacks}

	for _, a := range f.log {
		stats.SourceAttempts[a.Source]++
		stats.TotalAttempts++

		if a.Success {
			stats.SuccessfulAttempts++
		} else {
			stats.FailedAttempts++
		}
	}

	return stats
}

// LogSummary logs the attempt statistics.
func (f *FallbackFetcher) LogSummary() {
	stats := f.Stats()
	f.logger.Info("upstream attempt summary", "stats", stats.String(), "per_source", stats.SourceAttempts)
}
