package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/CharlesIC/fourth-wall/internal/metrics"
)

const (
	// MaxConcurrentRequests limits concurrent API requests to avoid overwhelming the API
	MaxConcurrentRequests = 5
	// DefaultPageSize is the largest page the API hands out; only the first page is read.
	DefaultPageSize = 100
)

// HTTPClient interface for HTTP operations (allows mocking in tests).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPFetcher is the Fetcher that talks HTTP. It injects a per-hostname token,
// limits concurrency and logs rate-limit diagnostics on failures. It never retries.
type HTTPFetcher struct {
	httpClient HTTPClient
	tokens     TokenSource
	logger     *zap.Logger
	semaphore  chan struct{}
	now        func() time.Time
}

// NewHTTPFetcher creates a fetcher. tokens may be nil for unauthenticated access.
func NewHTTPFetcher(httpClient HTTPClient, tokens TokenSource, logger *zap.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		httpClient: httpClient,
		tokens:     tokens,
		logger:     logger,
		semaphore:  make(chan struct{}, MaxConcurrentRequests),
		now:        time.Now,
	}
}

// Fetch performs a GET request and returns the body of a 2xx response.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	select {
	case f.semaphore <- struct{}{}:
		defer func() { <-f.semaphore }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return f.doRequest(ctx, rawURL, params)
}

func (f *HTTPFetcher) doRequest(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	target, err := RequestURL(rawURL, params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if f.tokens != nil {
		if token := f.tokens.TokenForURL(rawURL); token != "" {
			req.Header.Set("Authorization", "token "+token)
		}
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("request to %s failed: %w", target, err)
	}
	defer resp.Body.Close()

	metrics.APIRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", target, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{URL: target, StatusCode: resp.StatusCode, Body: string(body)}
		f.logger.Warn("api call failed",
			zap.String("url", target),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
		if rl, ok := parseRateLimit(resp.Header); ok {
			statusErr.RateLimit = rl
			f.logRateLimit(rl)
		} else if resp.Header.Get("X-RateLimit-Remaining") == "0" {
			f.logger.Warn("rate limit exceeded")
		}
		return nil, statusErr
	}

	return body, nil
}

func (f *HTTPFetcher) logRateLimit(rl RateLimit) {
	if rl.Exceeded() {
		f.logger.Warn("rate limit exceeded")
	}
	f.logger.Warn("rate limit status",
		zap.String("remaining", rl.Remaining),
		zap.String("limit", rl.Limit),
		zap.Int("reset_in_minutes", rl.MinutesUntilReset(f.now())),
		zap.Time("reset_at", rl.Reset))
}
