// Copyright 2025 The ghprod Authors
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	ghproderrors "github.com/jmcph4/ghprod/internal/errors"
	"github.com/jmcph4/ghprod/internal/ratelimit"
	"github.com/jmcph4/ghprod/pkg/version"
)

// requestTimeout bounds a single page request. The overall fetch has no
// deadline because inter-page pacing can stretch a run over hours.
const requestTimeout = 30 * time.Second

// maxResponseSize limits a single response body to 10MB. A page of 100
// pull requests is well under 1MB, so hitting the limit means the server
// sent something other than the page we asked for.
const maxResponseSize = 10 * 1024 * 1024

// Client defines the interface for fetching pull request pages from GitHub.
// This interface allows for easy mocking in tests.
type Client interface {
	// FetchPage retrieves a single page of pull requests. The first call
	// uses a URL built by ListPullsURL; subsequent calls follow the
	// NextURL returned with the previous page.
	FetchPage(ctx context.Context, pageURL string) (*Page, error)
}

// RESTClient implements the Client interface against GitHub's REST API.
// It handles authentication, pagination link extraction, error
// classification, and safety features like timeouts and response size
// limits.
type RESTClient struct {
	httpClient *http.Client
	detector   *ratelimit.Detector
}

// NewRESTClient creates a new GitHub REST client. The token may be empty,
// in which case requests are sent unauthenticated and are subject to
// GitHub's much lower anonymous rate limit. The client is configured with:
//   - Authentication via the provided token (when set)
//   - Per-request timeout and response size limiting
//   - Standard GitHub media type and API version headers
//   - Optimized connection pooling for API performance
func NewRESTClient(token string) *RESTClient {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10, // Increased from default 2
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		DisableCompression:  false,
		ForceAttemptHTTP2:   true, // Ensure HTTP/2 is used
	}

	return &RESTClient{
		httpClient: &http.Client{
			Timeout: requestTimeout,
			Transport: &authTransport{
				token: token,
				base:  transport,
			},
		},
		detector: ratelimit.NewDetector(),
	}
}

// ListPullsURL builds the first-page URL for listing a repository's pull
// requests. All states are requested so callers can filter by terminating
// state locally; perPage is capped by GitHub at 100.
func ListPullsURL(endpoint, owner, repo string, perPage int) string {
	return fmt.Sprintf("%s/repos/%s/%s/pulls?state=all&per_page=%d",
		strings.TrimRight(endpoint, "/"), url.PathEscape(owner), url.PathEscape(repo), perPage)
}

// FetchPage retrieves a single page of pull requests from pageURL. Errors
// are classified into the sentinel errors understood by the CLI exit-code
// mapping; a non-nil error always means no usable page.
func (c *RESTClient) FetchPage(ctx context.Context, pageURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %q: %w", pageURL, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// A canceled context is the caller's signal, not a network fault.
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("network error connecting to GitHub API. Please check your internet connection and try again: %w", ghproderrors.ErrNetworkFailure)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, c.classifyStatus(resp)
	}

	var prs []PullRequest
	if err := json.NewDecoder(resp.Body).Decode(&prs); err != nil {
		return nil, fmt.Errorf("decoding pull request page: %v: %w", err, ghproderrors.ErrMalformedResponse)
	}

	return &Page{
		PullRequests: prs,
		NextURL:      nextPageURL(resp.Header),
	}, nil
}

// classifyStatus maps a non-200 response to a sentinel error.
// Rate limiting is checked first, as 403 can be both auth and rate limit.
func (c *RESTClient) classifyStatus(resp *http.Response) error {
	if c.detector.IsRateLimited(resp) {
		info := c.detector.Detect(resp)
		if !info.Reset.IsZero() {
			return fmt.Errorf("GitHub API rate limit exceeded, reset at %s. Provide a token via --api-secret to raise the limit: %w",
				info.Reset.Format("3:04 PM"), ghproderrors.ErrRateLimit)
		}
		return fmt.Errorf("GitHub API rate limit exceeded. Provide a token via --api-secret to raise the limit: %w", ghproderrors.ErrRateLimit)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("GitHub API authentication failed. Please provide a valid token via the --api-secret flag: %w", ghproderrors.ErrInvalidToken)
	case http.StatusNotFound:
		return fmt.Errorf("repository not found at %s. Please check the repository name and your access permissions: %w",
			resp.Request.URL.Path, ghproderrors.ErrRepoNotFound)
	default:
		return fmt.Errorf("GitHub API returned unexpected status %s: %w", resp.Status, ghproderrors.ErrMalformedResponse)
	}
}

// nextPageURL extracts the rel="next" target from the response's Link
// header. An empty string means the final page has been reached.
//
// The header looks like:
//
//	<https://api.github.com/...&page=2>; rel="next", <...&page=9>; rel="last"
func nextPageURL(h http.Header) string {
	for _, header := range h.Values("Link") {
		for _, link := range strings.Split(header, ",") {
			parts := strings.Split(link, ";")
			if len(parts) < 2 {
				continue
			}
			target := strings.Trim(strings.TrimSpace(parts[0]), "<>")
			for _, param := range parts[1:] {
				if strings.TrimSpace(param) == `rel="next"` {
					return target
				}
			}
		}
	}
	return ""
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	// Calculate how much we can read
	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}

// authTransport adds authentication and standard headers to HTTP requests
type authTransport struct {
	token string
	base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	req = req.Clone(req.Context())

	// Add auth header; anonymous access is allowed but heavily rate limited
	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}

	// Add user agent for identification
	req.Header.Set("User-Agent", fmt.Sprintf("ghprod/%s", version.Version))

	// Standard REST API headers
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	// Execute the request
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// Apply response size limit
	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      maxResponseSize,
		}
	}

	return resp, nil
}
