package upstream

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// BackoffConfig controls exponential backoff behaviour.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// ClientConfig bundles HTTP client and resilience settings. The per-attempt
// timeout is the Client's own Timeout.
type ClientConfig struct {
	Client  *http.Client
	Backoff BackoffConfig
}

var (
	// ErrUpstream marks retryable provider failures (network, 429, 5xx).
	ErrUpstream = errors.New("upstream fetch failed")

	// ErrInvalidParameter marks a provider rejecting a request parameter.
	ErrInvalidParameter = errors.New("invalid request parameter")

	errCircuitOpen   = errors.New("circuit breaker open")
	errNoHTTPClient  = errors.New("http client not configured")
	errInvalidConfig = errors.New("invalid backoff configuration")
)

// DoWithResilience executes the HTTP request with retries, exponential
// backoff, and a circuit breaker.
//
// classify, when non-nil, inspects a non-2xx response and may return
// ErrInvalidParameter to signal a non-retryable parameter rejection; such
// errors propagate immediately so the caller can rebuild the request.
func DoWithResilience(
	ctx context.Context,
	cfg ClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
	classify func(resp *http.Response) error,
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}
	if cfg.Backoff.MaxRetries < 0 || cfg.Backoff.InitialInterval <= 0 {
		return nil, errInvalidConfig
	}

	var attempt int
	var lastErr error

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}

		// Ensure the request obeys context cancellation.
		req = req.WithContext(ctx)

		result, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := cfg.Client.Do(req)
			if execErr != nil {
				return nil, fmt.Errorf("%w: %v", ErrUpstream, execErr)
			}

			// Handle rate limiting and server errors explicitly.
			if resp.StatusCode == http.StatusTooManyRequests {
				resp.Body.Close()
				return nil, fmt.Errorf("%w: rate limited", ErrUpstream)
			}
			if resp.StatusCode >= 500 {
				resp.Body.Close()
				return nil, fmt.Errorf("%w: server error %d", ErrUpstream, resp.StatusCode)
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				if classify != nil {
					if cErr := classify(resp); cErr != nil {
						resp.Body.Close()
						return nil, cErr
					}
				}
				resp.Body.Close()
				return nil, fmt.Errorf("%w: unexpected status %d", ErrUpstream, resp.StatusCode)
			}

			return resp, nil
		})

		if err == nil {
			// Success.
			resp, ok := result.(*http.Response)
			if !ok {
				return nil, fmt.Errorf("unexpected result type from circuit breaker")
			}
			return resp, nil
		}

		// Parameter rejections are handled by the caller, never retried here.
		if errors.Is(err, ErrInvalidParameter) {
			return nil, err
		}

		// If circuit is open, propagate immediately.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}

		lastErr = err
		if attempt >= cfg.Backoff.MaxRetries {
			return nil, lastErr
		}

		// Backoff with exponential delay.
		delay := cfg.Backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if delay > cfg.Backoff.MaxInterval && cfg.Backoff.MaxInterval > 0 {
			delay = cfg.Backoff.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
			// continue to next attempt
		}

		attempt++
	}
}
