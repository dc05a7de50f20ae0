package ratelimit

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func response(status int, headers map[string]string) *http.Response {
	h := http.Header{}
	for k, v := range headers {
		h.Set(k, v)
	}
	return &http.Response{StatusCode: status, Header: h}
}

func TestIsRateLimited(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name    string
		resp    *http.Response
		limited bool
	}{
		{
			name:    "429 always rate limited",
			resp:    response(429, nil),
			limited: true,
		},
		{
			name:    "429 with retry after",
			resp:    response(429, map[string]string{"Retry-After": "60"}),
			limited: true,
		},
		{
			name:    "403 with zero remaining",
			resp:    response(403, map[string]string{"X-RateLimit-Remaining": "0"}),
			limited: true,
		},
		{
			name:    "403 with retry after",
			resp:    response(403, map[string]string{"Retry-After": "30"}),
			limited: true,
		},
		{
			name:    "plain 403 is auth not rate limit",
			resp:    response(403, nil),
			limited: false,
		},
		{
			name:    "403 with quota remaining is auth",
			resp:    response(403, map[string]string{"X-RateLimit-Remaining": "42"}),
			limited: false,
		},
		{
			name:    "200 never rate limited",
			resp:    response(200, map[string]string{"X-RateLimit-Remaining": "0"}),
			limited: false,
		},
		{
			name:    "401 never rate limited",
			resp:    response(401, nil),
			limited: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.limited, d.IsRateLimited(tt.resp))
		})
	}
}

func TestDetect(t *testing.T) {
	d := NewDetector()

	resp := response(403, map[string]string{
		"X-RateLimit-Limit":     "60",
		"X-RateLimit-Remaining": "0",
		"X-RateLimit-Reset":     "1700000000",
		"Retry-After":           "120",
	})

	info := d.Detect(resp)
	assert.Equal(t, 60, info.Limit)
	assert.Equal(t, 0, info.Remaining)
	assert.Equal(t, time.Unix(1700000000, 0), info.Reset)
	assert.Equal(t, 2*time.Minute, info.RetryAfter)
}

func TestDetectMissingHeaders(t *testing.T) {
	d := NewDetector()

	info := d.Detect(response(429, nil))
	assert.Zero(t, info.Limit)
	assert.Zero(t, info.Remaining)
	assert.True(t, info.Reset.IsZero())
	assert.Zero(t, info.RetryAfter)
}

func TestDetectUnparseableHeaders(t *testing.T) {
	d := NewDetector()

	info := d.Detect(response(429, map[string]string{
		"X-RateLimit-Reset": "not-a-number",
		"Retry-After":       "soon",
	}))
	assert.True(t, info.Reset.IsZero())
	assert.Zero(t, info.RetryAfter)
}
