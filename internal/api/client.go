package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Fetcher performs GET requests against a REST API and returns the raw body.
// Consumers depend on this interface, so transports and caches can be stacked.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, params url.Values) ([]byte, error)
}

// TokenSource resolves the auth token to send for a request URL.
type TokenSource interface {
	TokenForURL(rawURL string) string
}

// FetchJSON fetches rawURL and decodes the JSON body into out.
func FetchJSON(ctx context.Context, f Fetcher, rawURL string, params url.Values, out any) error {
	body, err := f.Fetch(ctx, rawURL, params)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", rawURL, err)
	}

	return nil
}

// RequestURL joins rawURL and params into the URL that is actually requested.
func RequestURL(rawURL string, params url.Values) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if len(params) > 0 {
		q := u.Query()
		for key, values := range params {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
