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
	"fmt"
	"time"

	ghproderrors "github.com/jmcph4/ghprod/internal/errors"
)

// MockClient is a mock implementation of the Client interface for testing.
// Successive FetchPage calls return the configured Pages in order; a call
// past the last page returns an empty final page.
type MockClient struct {
	// Pages to return, one per FetchPage call
	Pages []Page

	// Error to return
	Error error

	// ErrorOnCall makes only that 1-based call fail; zero fails the
	// first call that would otherwise succeed
	ErrorOnCall int

	// Behavior flags
	ShouldFailAuth bool

	// Track calls for verification
	CallCount int
	LastURL   string
	URLs      []string
}

// NewMockClient creates a new mock client serving a single default page
// of test data.
func NewMockClient() *MockClient {
	return &MockClient{
		Pages: []Page{{PullRequests: generateTestPRs()}},
	}
}

// FetchPage implements the Client interface
func (m *MockClient) FetchPage(ctx context.Context, pageURL string) (*Page, error) {
	// Track the call
	m.CallCount++
	m.LastURL = pageURL
	m.URLs = append(m.URLs, pageURL)

	// Check for context cancellation
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	// Simulate various error conditions
	if m.ShouldFailAuth {
		return nil, fmt.Errorf("authentication failed: %w", ghproderrors.ErrInvalidToken)
	}

	// Return configured error if set
	if m.Error != nil && (m.ErrorOnCall == 0 || m.ErrorOnCall == m.CallCount) {
		return nil, m.Error
	}

	// Return the mock data
	if m.CallCount > len(m.Pages) {
		return &Page{}, nil
	}
	page := m.Pages[m.CallCount-1]

	return &page, nil
}

// generateTestPRs creates sample pull request data for testing
func generateTestPRs() []PullRequest {
	now := time.Now().UTC()
	yesterday := now.Add(-24 * time.Hour)
	lastWeek := now.Add(-7 * 24 * time.Hour)

	merged := yesterday

	return []PullRequest{
		{
			ID:        9001,
			Number:    1234,
			Title:     "Add new feature for data processing",
			State:     "open",
			CreatedAt: lastWeek,
			UpdatedAt: now,
			User:      User{Login: "alice"},
		},
		{
			ID:        9002,
			Number:    1233,
			Title:     "Fix memory leak in parser",
			State:     "closed",
			CreatedAt: lastWeek,
			UpdatedAt: yesterday,
			ClosedAt:  &yesterday,
			MergedAt:  &merged,
			User:      User{Login: "bob"},
		},
		{
			ID:        9003,
			Number:    1232,
			Title:     "Update documentation",
			State:     "open",
			CreatedAt: yesterday,
			UpdatedAt: yesterday,
			User:      User{Login: "charlie"},
		},
	}
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithPages sets the pages returned by successive FetchPage calls
func WithPages(pages ...Page) MockClientOption {
	return func(m *MockClient) {
		m.Pages = pages
	}
}

// WithError makes the client return a specific error
func WithError(err error) MockClientOption {
	return func(m *MockClient) {
		m.Error = err
	}
}

// WithErrorOnCall makes only the n-th FetchPage call return err
func WithErrorOnCall(n int, err error) MockClientOption {
	return func(m *MockClient) {
		m.Error = err
		m.ErrorOnCall = n
	}
}

// WithAuthFailure makes the client simulate authentication failure
func WithAuthFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailAuth = true
	}
}

// NewMockClientWithOptions creates a mock client with options
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
