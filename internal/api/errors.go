package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// RateLimit holds the rate-limit headers of a response. They're diagnostic only.
type RateLimit struct {
	Limit     string
	Remaining string
	Reset     time.Time
}

// parseRateLimit reads the x-ratelimit-* headers; ok is false when any is missing.
func parseRateLimit(h http.Header) (RateLimit, bool) {
	rl := RateLimit{
		Limit:     h.Get("X-RateLimit-Limit"),
		Remaining: h.Get("X-RateLimit-Remaining"),
	}
	reset, err := strconv.ParseInt(h.Get("X-RateLimit-Reset"), 10, 64)
	if err == nil && reset > 0 {
		rl.Reset = time.Unix(reset, 0)
	}
	return rl, rl.Limit != "" && rl.Remaining != "" && !rl.Reset.IsZero()
}

// Exceeded reports whether no requests remain.
func (r RateLimit) Exceeded() bool {
	return r.Remaining == "0"
}

// MinutesUntilReset returns whole minutes from now until the limit resets.
func (r RateLimit) MinutesUntilReset(now time.Time) int {
	return int(r.Reset.Sub(now) / time.Minute)
}

// StatusError is returned for non-2xx API responses.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
	RateLimit  RateLimit
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed call to %s: API returned status %d: %s", e.URL, e.StatusCode, e.Body)
}
