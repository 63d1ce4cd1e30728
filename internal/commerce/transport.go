package commerce

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/pkg/utils"
)

// maxResponseBytes caps how much of an upstream response is read.
const maxResponseBytes = 10 * 1024 * 1024

// transport performs HTTP requests with the configured retry policy.
type transport struct {
	client  *http.Client
	retry   config.RetryPolicy
	headers http.Header
	logger  *logger.Logger
}

func newTransport(retry *config.RetryPolicy, headers map[string]string, log *logger.Logger) *transport {
	policy := config.Default().Upstream.Retry
	if retry != nil {
		policy = *retry
	}

	if log == nil {
		log = logger.NewNop()
	}

	return &transport{
		client:  &http.Client{Timeout: policy.GetTimeout()},
		retry:   policy,
		headers: utils.NewHTTPHelper().BuildHeaders(headers),
		logger:  log,
	}
}

// response is a fully read upstream response.
type response struct {
	header http.Header
	body   []byte
	status int
}

// do sends the request, retrying network failures and temporary statuses.
// A non-200 final status is returned as ErrUnexpectedStatusCode, or ErrNotFound for 404.
func (t *transport) do(ctx context.Context, method, url string, body []byte) (*response, error) {
	attempts := max(1, t.retry.MaxAttempts)

	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := t.once(ctx, method, url, body)

		switch {
		case err != nil:
			lastErr = fmt.Errorf("request failed (attempt %d/%d): %w", attempt, attempts, err)
		case resp.status == http.StatusOK:
			return resp, nil
		case resp.status == http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
		default:
			lastErr = fmt.Errorf("%w: %d: %s", ErrUnexpectedStatusCode, resp.status, snippet(resp.body))

			if !isRetryableStatus(resp.status) {
				return nil, lastErr
			}
		}

		if ctx.Err() != nil || attempt == attempts {
			break
		}

		delay := t.retry.GetRetryDelay(attempt + 1)
		t.logger.Warn("retrying upstream request", "url", url, "attempt", attempt, "delay", delay, "error", lastErr)

		if err := sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

func (t *transport) once(ctx context.Context, method, url string, body []byte) (*response, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = t.headers.Clone()
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &response{header: resp.Header, body: data, status: resp.StatusCode}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isRetryableStatus reports whether a status indicates a temporary failure.
func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout,
		http.StatusTooManyRequests, http.StatusRequestTimeout, http.StatusBadGateway:
		return true
	}

	return false
}

func snippet(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}

	return string(body)
}
