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

// Package github provides a client for GitHub's REST API to fetch pull
// request data. It abstracts response decoding, Link-header pagination,
// error classification, and rate limit detection behind a small
// interface.
//
// The package includes:
//   - A Client interface for fetching pages of pull requests
//   - A REST implementation with auth, pacing-friendly pagination, and
//     response size limits
//   - A Depaginator that walks every page of a repository
//   - Mock client for testing
//   - Type definitions for pull request data
//
// Basic usage:
//
//	client := github.NewRESTClient("your-github-token")
//	first := github.ListPullsURL("https://api.github.com", "golang", "go", 100)
//	prs, err := github.NewDepaginator(client, time.Second, logger).FetchAll(ctx, first)
//	if err != nil {
//	    // Handle error
//	}
//	for _, pr := range prs {
//	    // Process pull request
//	}
package github
