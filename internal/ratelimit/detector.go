// Package ratelimit detects GitHub API rate limiting from HTTP responses.
// GitHub signals an exhausted quota with a 403 or 429 status plus the
// X-RateLimit-* headers (primary limit) or a Retry-After header (secondary
// limit). A plain 403 without those headers is an authorization failure,
// not rate limiting, so detection must look at the headers and not just
// the status code.
package ratelimit

import (
	"net/http"
	"strconv"
	"time"
)

// Info describes the rate limit state reported by a response.
type Info struct {
	// Limit is the request quota for the current window, if reported.
	Limit int
	// Remaining is the number of requests left in the current window.
	Remaining int
	// Reset is the time the quota resets. Zero if the header was absent.
	Reset time.Time
	// RetryAfter is the server-requested wait, if a Retry-After header
	// was present. Zero otherwise.
	RetryAfter time.Duration
}

// Detector classifies HTTP responses as rate limited or not.
type Detector struct{}

// NewDetector returns a Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// IsRateLimited reports whether resp signals an exhausted quota.
func (d *Detector) IsRateLimited(resp *http.Response) bool {
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return true
	case http.StatusForbidden:
		if resp.Header.Get("Retry-After") != "" {
			return true
		}
		return resp.Header.Get("X-RateLimit-Remaining") == "0"
	default:
		return false
	}
}

// Detect extracts rate limit details from resp's headers. Fields whose
// headers are missing or unparseable are left at their zero values.
func (d *Detector) Detect(resp *http.Response) Info {
	var info Info

	if v := resp.Header.Get("X-RateLimit-Limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			info.Limit = n
		}
	}
	if v := resp.Header.Get("X-RateLimit-Remaining"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			info.Remaining = n
		}
	}
	if v := resp.Header.Get("X-RateLimit-Reset"); v != "" {
		if epoch, err := strconv.ParseInt(v, 10, 64); err == nil {
			info.Reset = time.Unix(epoch, 0)
		}
	}
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			info.RetryAfter = time.Duration(secs) * time.Second
		}
	}

	return info
}
