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

// Package metadata provides in-memory tracking of statistics about fetch
// operations. It records the number of pull requests processed, API calls
// made, and the date ranges covered by the fetched data.
//
// The summary is emitted through the structured log when a fetch
// completes. This makes slow or partial fetches diagnosable from the log
// alone: how many pages were requested, how much time pacing consumed,
// and what slice of the repository's history was actually seen.
package metadata

import "time"

// Tracker collects statistics during a fetch operation. It tracks API
// calls, pull request counts, and date ranges throughout the fetch
// process. Create a new tracker at the start of each fetch operation and
// call its methods to record activity.
type Tracker struct {
	startTime    time.Time
	apiCallCount int
	prStats      PRStats
}

// PRStats holds statistical information about pull requests processed during
// a fetch operation. It tracks both the numerical range (first/last PR numbers)
// and temporal range (oldest/newest PR dates) of the fetched data.
type PRStats struct {
	TotalPRs int       // Total number of PRs processed
	FirstPR  int       // Lowest PR number seen
	LastPR   int       // Highest PR number seen
	OldestPR time.Time // Earliest PR creation date
	NewestPR time.Time // Latest PR update date
}

// New creates a new tracker and initializes it with the current time.
// Call this at the beginning of a fetch operation to start tracking.
func New() *Tracker {
	return &Tracker{
		startTime: time.Now(),
	}
}

// IncrementAPICall records that an API call was made. Call this after each
// successful GitHub API request to maintain accurate API usage statistics.
func (t *Tracker) IncrementAPICall() {
	t.apiCallCount++
}

// UpdatePRStats updates the running statistics with data from a single pull
// request. It adjusts the first/last PR numbers and oldest/newest dates as
// needed.
func (t *Tracker) UpdatePRStats(prNumber int, createdAt, updatedAt time.Time) {
	t.prStats.TotalPRs++

	// Track first and last PR numbers
	if t.prStats.FirstPR == 0 || prNumber < t.prStats.FirstPR {
		t.prStats.FirstPR = prNumber
	}
	if prNumber > t.prStats.LastPR {
		t.prStats.LastPR = prNumber
	}

	// Track oldest and newest PR dates
	if t.prStats.OldestPR.IsZero() || createdAt.Before(t.prStats.OldestPR) {
		t.prStats.OldestPR = createdAt
	}
	if updatedAt.After(t.prStats.NewestPR) {
		t.prStats.NewestPR = updatedAt
	}
}

// Summary captures the complete fetch operation statistics. Call this at
// the end of a fetch to obtain the record for logging.
func (t *Tracker) Summary() FetchSummary {
	completedAt := time.Now()

	return FetchSummary{
		TotalPRs:    t.prStats.TotalPRs,
		FirstPR:     t.prStats.FirstPR,
		LastPR:      t.prStats.LastPR,
		OldestPR:    t.prStats.OldestPR,
		NewestPR:    t.prStats.NewestPR,
		APICalls:    t.apiCallCount,
		StartedAt:   t.startTime,
		CompletedAt: completedAt,
		Duration:    completedAt.Sub(t.startTime),
	}
}
