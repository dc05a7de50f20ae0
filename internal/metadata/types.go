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

package metadata

import "time"

// FetchSummary is the complete statistical record for a single fetch
// operation. It tracks both quantitative metrics (PR counts, API calls)
// and temporal information (date ranges, duration). FirstPR, LastPR,
// OldestPR, and NewestPR are zero when the fetch saw no pull requests.
type FetchSummary struct {
	TotalPRs    int           `json:"total_prs"`
	FirstPR     int           `json:"first_pr_number"`
	LastPR      int           `json:"last_pr_number"`
	OldestPR    time.Time     `json:"oldest_pr_date"`
	NewestPR    time.Time     `json:"newest_pr_date"`
	APICalls    int           `json:"api_calls_made"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at"`
	Duration    time.Duration `json:"fetch_duration"`
}
