package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// staticTokens is a TokenSource returning a fixed token for every URL.
type staticTokens string

func (s staticTokens) TokenForURL(string) string { return string(s) }

// TestFetch_SendsTokenAndParams tests request setup.
// Follows AAA (Arrange, Act, Assert) pattern.
func TestFetch_SendsTokenAndParams(t *testing.T) {
	// Arrange
	var gotAuth, gotPerPage string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPerPage = r.URL.Query().Get("per_page")
		_, _ = w.Write([]byte(`[{"id": 1}]`))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(server.Client(), staticTokens("secret"), zap.NewNop())

	// Act
	var out []struct {
		ID int `json:"id"`
	}
	err := FetchJSON(context.Background(), fetcher, server.URL+"/orgs/o/teams", url.Values{"per_page": {"100"}}, &out)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "token secret", gotAuth)
	assert.Equal(t, "100", gotPerPage)
	require.Len(t, out, 1)
	assert.Equal(t, 1, out[0].ID)
}

// TestFetch_NoTokenNoAuthorization tests that anonymous requests carry no auth header.
func TestFetch_NoTokenNoAuthorization(t *testing.T) {
	// Arrange
	var hasAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(server.Client(), nil, zap.NewNop())

	// Act
	_, err := fetcher.Fetch(context.Background(), server.URL, nil)

	// Assert
	require.NoError(t, err)
	assert.False(t, hasAuth)
}

// TestFetch_StatusError tests that non-2xx responses surface as StatusError with rate limits.
func TestFetch_StatusError(t *testing.T) {
	// Arrange
	reset := time.Now().Add(30 * time.Minute).Unix()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "60")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"API rate limit exceeded"}`))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(server.Client(), nil, zap.NewNop())

	// Act
	_, err := fetcher.Fetch(context.Background(), server.URL+"/gists/x", nil)

	// Assert
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "rate limit")
	assert.True(t, statusErr.RateLimit.Exceeded())
	assert.Equal(t, "60", statusErr.RateLimit.Limit)
	assert.Equal(t, reset, statusErr.RateLimit.Reset.Unix())
}

// TestFetch_ContextCanceled tests that a canceled context is reported.
func TestFetch_ContextCanceled(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(server.Client(), nil, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	_, err := fetcher.Fetch(ctx, server.URL, nil)

	// Assert
	assert.Error(t, err)
}

// TestFetchJSON_DecodeError tests that invalid JSON is an error.
func TestFetchJSON_DecodeError(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(server.Client(), nil, zap.NewNop())

	// Act
	var out map[string]any
	err := FetchJSON(context.Background(), fetcher, server.URL, nil, &out)

	// Assert
	assert.ErrorContains(t, err, "failed to decode")
}

func TestRateLimit_MinutesUntilReset(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	rl := RateLimit{Reset: now.Add(42*time.Minute + 30*time.Second)}

	assert.Equal(t, 42, rl.MinutesUntilReset(now))
}

func TestParseRateLimit_Incomplete(t *testing.T) {
	h := http.Header{}
	h.Set("X-RateLimit-Limit", "60")

	_, ok := parseRateLimit(h)

	assert.False(t, ok)
}

func TestRequestURL(t *testing.T) {
	got, err := RequestURL("https://api.github.com/repos/o/r/contents/x.json?ref=gh-pages", url.Values{"per_page": {"100"}})

	require.NoError(t, err)
	assert.Equal(t, "https://api.github.com/repos/o/r/contents/x.json?per_page=100&ref=gh-pages", got)
}
