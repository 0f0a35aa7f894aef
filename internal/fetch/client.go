package fetch

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Anuragp22/axiom-sub000/internal/domain"
	"github.com/go-resty/resty/v2"
)

// maxRetryDelay caps the exponential backoff between retry attempts.
const maxRetryDelay = 30 * time.Second

// Config holds per-provider HTTP settings, injected from configuration at
// process start.
type Config struct {
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
	// Limiter is optional; when set, every request waits for a token first.
	Limiter *RateLimiter
}

// Client is the shared retry/backoff/timeout wrapper used by every source
// adapter. Transient failures (network errors, timeouts, 429, 5xx) are
// retried with capped exponential backoff; other 4xx statuses are terminal.
type Client struct {
	rc       *resty.Client
	provider string
	limiter  *RateLimiter
}

// NewClient builds a client for one upstream provider.
func NewClient(provider string, cfg Config) *Client {
	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(cfg.RetryBaseDelay).
		SetRetryMaxWaitTime(maxRetryDelay).
		SetHeader("Accept", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
		}).
		AddRetryHook(func(r *resty.Response, err error) {
			attempt := 0
			url := ""
			if r != nil && r.Request != nil {
				attempt = r.Request.Attempt
				url = r.Request.URL
			}
			log.Printf("%s retry attempt=%d url=%s err=%v", provider, attempt, url, err)
		})

	return &Client{rc: rc, provider: provider, limiter: cfg.Limiter}
}

// Get issues a GET against the provider's base URL and returns the response
// body. Exhausted retries and non-retryable statuses surface as
// *domain.UpstreamError carrying the provider identity and last status.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &domain.UpstreamError{Provider: c.provider, URL: path, Err: fmt.Errorf("rate limit wait: %w", err)}
		}
	}

	resp, err := c.rc.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, &domain.UpstreamError{Provider: c.provider, URL: path, Err: err}
	}
	if resp.IsError() {
		return nil, &domain.UpstreamError{
			Provider: c.provider,
			URL:      path,
			Status:   resp.StatusCode(),
			Err:      fmt.Errorf("unexpected status %d", resp.StatusCode()),
		}
	}

	return resp.Body(), nil
}
