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

// Package main implements the ghprod command-line interface.
// This tool fetches pull request data from GitHub repositories over the
// REST API and computes productivity metrics for a single developer.
//
// The CLI supports:
//   - Mean and median pull request duration in fractional days
//   - Total pull request counts per developer
//   - A human-readable contribution summary when no metric is named
//   - Optional GitHub token authentication via flag or environment variable
//   - Graceful error handling with appropriate exit codes
//
// Usage:
//
//	ghprod solo <owner> <repo> <developer> [metric]
//
// Example:
//
//	export GITHUB_TOKEN=your_token
//	ghprod solo rust-lang rust octocat mean_pr_duration
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication/authorization error
//   - 3: Network error
package main
