package commerce

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/logger"
)

// WaitReady polls the upstream category list until it answers or ctx is done,
// sleeping interval between attempts. It returns the number of attempts made.
func WaitReady(ctx context.Context, f Fetcher, interval time.Duration, log *logger.Logger) (int, error) {
	if log == nil {
		log = logger.NewNop()
	}

	for attempt := 1; ; attempt++ {
		cats, err := f.FetchCategories(ctx)
		if err == nil {
			log.Info("upstream is ready", "attempts", attempt, "categories", len(cats))
			return attempt, nil
		}

		log.Warn("upstream not ready", "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return attempt, fmt.Errorf("upstream not ready after %d attempts: %w", attempt, err)
		case <-time.After(interval):
		}
	}
}
