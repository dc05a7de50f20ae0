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

import "time"

// PullRequest represents a GitHub pull request as returned by the REST
// list endpoint. The REST API reports State as "open" or "closed" only;
// a merged pull request is a closed one whose MergedAt timestamp is set.
type PullRequest struct {
	ID        int64      `json:"id"`
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	State     string     `json:"state"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	MergedAt  *time.Time `json:"merged_at,omitempty"`
	User      User       `json:"user"`
}

// User represents the author of a pull request.
// Only the login is decoded; metric filtering matches on it exactly.
type User struct {
	Login string `json:"login"`
}

// LifecycleState is the three-valued pull request state derived from the
// termination timestamps. It is strictly finer than the REST state field:
// merged and closed-without-merging are distinct.
type LifecycleState string

const (
	StateOpen   LifecycleState = "open"
	StateClosed LifecycleState = "closed"
	StateMerged LifecycleState = "merged"
)

// Lifecycle derives p's state. GitHub's REST state field reports merged
// pull requests as "closed"; the merged_at timestamp disambiguates.
func (p PullRequest) Lifecycle() LifecycleState {
	switch {
	case p.MergedAt != nil:
		return StateMerged
	case p.ClosedAt != nil:
		return StateClosed
	default:
		return StateOpen
	}
}

// Page is one page of pull requests plus the continuation link taken from
// the response's Link header. A page is transient: the depaginator folds
// its records into the full sequence and discards it.
type Page struct {
	PullRequests []PullRequest
	NextURL      string
}
