package httpclient

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Client is a wrapper around http.Client with a configurable retry budget
// and structured error reporting.
type Client struct {
	httpClient  *http.Client
	retryConfig RetryConfig
	serviceName string
}

// RetryConfig defines retry behavior.
type RetryConfig struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	RetryableStatuses []int
}

// DefaultRetryConfig returns sensible defaults for retries.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		RetryableStatuses: []int{
			http.StatusRequestTimeout,
			http.StatusTooManyRequests,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
		},
	}
}

// NoRetry returns a retry config that performs exactly one attempt and
// treats every response status as final. The auction protocol forbids
// automatic retries on bids and result submissions.
func NoRetry() RetryConfig {
	return RetryConfig{MaxRetries: 0}
}

// NewClient creates a new HTTP client with the default retry budget.
func NewClient(serviceName string, timeout time.Duration) *Client {
	return NewClientWithRetry(serviceName, timeout, DefaultRetryConfig())
}

// NewClientWithRetry creates a new HTTP client with a custom retry config.
func NewClientWithRetry(serviceName string, timeout time.Duration, retryConfig RetryConfig) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retryConfig: retryConfig,
		serviceName: serviceName,
	}
}

// Do executes an HTTP request, retrying within the configured budget.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	var lastErr error
	backoff := c.retryConfig.InitialBackoff

	for attempt := 0; attempt <= c.retryConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			slog.DebugContext(ctx, "retrying_request",
				"service", c.serviceName,
				"attempt", attempt,
				"method", req.Method,
				"url", req.URL.String(),
				"backoff", backoff,
			)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}

			backoff *= 2
			if backoff > c.retryConfig.MaxBackoff {
				backoff = c.retryConfig.MaxBackoff
			}
		}

		resp, err := c.httpClient.Do(req.WithContext(ctx))
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}

		if c.isRetryableStatus(resp.StatusCode) {
			resp.Body.Close()
			lastErr = fmt.Errorf("retryable status code: %d", resp.StatusCode)
			continue
		}

		return resp, nil
	}

	return nil, fmt.Errorf("request to %s failed: %w", req.URL.String(), lastErr)
}

func (c *Client) isRetryableStatus(statusCode int) bool {
	for _, s := range c.retryConfig.RetryableStatuses {
		if s == statusCode {
			return true
		}
	}
	return false
}

// HTTPError represents an HTTP error response.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *HTTPError) Error() string {
	if len(e.Body) > 0 {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, string(e.Body))
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}
