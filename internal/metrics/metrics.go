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

// Package metrics implements the productivity metrics ghprod reports:
// mean and median pull request duration, total pull request counts, and
// the human-readable contribution summary.
//
// The whole package operates on data that has already been fetched in
// full; nothing here performs API calls. Duration metrics consider only
// pull requests that reached the configured terminating state. Open pull
// requests never contribute a duration.
package metrics

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	ghproderrors "github.com/jmcph4/ghprod/internal/errors"
	"github.com/jmcph4/ghprod/internal/github"
)

// Metric identifies a particular statistic.
type Metric string

const (
	MetricMeanPRDuration   Metric = "mean_pr_duration"
	MetricMedianPRDuration Metric = "median_pr_duration"
	MetricTotalPRs         Metric = "total_num_prs"
)

// ParseMetric maps a metric name from the command line to a Metric.
func ParseMetric(s string) (Metric, error) {
	switch s {
	case "mean_pr_duration":
		return MetricMeanPRDuration, nil
	case "median_pr_duration":
		return MetricMedianPRDuration, nil
	case "total_num_prs":
		return MetricTotalPRs, nil
	case "mean_net_change":
		return "", errors.New("metric mean_net_change is not supported: the pull request list endpoint does not report line counts")
	default:
		return "", fmt.Errorf("unknown metric %q", s)
	}
}

// TerminatingState selects which lifecycle state counts as "done" for
// duration computation.
//
// Most projects integrate pull requests by merging them, but some
// workflows (merge bots like Bors, or patch-based review) integrate the
// change out of band and close the pull request instead. For those,
// closed is the meaningful terminating state.
type TerminatingState string

const (
	StateMerged TerminatingState = "merged"
	StateClosed TerminatingState = "closed"
)

// DefaultTerminatingState is used when no state is configured.
const DefaultTerminatingState = StateMerged

// ParseTerminatingState maps a state name, including the short and verb
// aliases accepted on the command line, to a TerminatingState.
func ParseTerminatingState(s string) (TerminatingState, error) {
	switch s {
	case "merged", "Merged", "MERGED", "m", "M", "merge", "Merge", "MERGE":
		return StateMerged, nil
	case "closed", "Closed", "CLOSED", "c", "C", "close", "Close", "CLOSE":
		return StateClosed, nil
	default:
		return "", fmt.Errorf("unknown terminating state %q", s)
	}
}

// secondsPerDay is the fixed day length used to convert pull request
// lifetimes into fractional days. No calendar or timezone adjustment.
const secondsPerDay = 60 * 60 * 24

// ByAuthor returns the subset of prs authored by author. Login matching
// is exact.
func ByAuthor(author string, prs []github.PullRequest) []github.PullRequest {
	var out []github.PullRequest
	for _, pr := range prs {
		if pr.User.Login == author {
			out = append(out, pr)
		}
	}
	return out
}

// Terminated reports whether pr reached state. Merged and closed are
// disjoint: a merged pull request is not "closed" in this sense even
// though GitHub sets both timestamps on it.
func Terminated(pr github.PullRequest, state TerminatingState) bool {
	switch state {
	case StateClosed:
		return pr.Lifecycle() == github.StateClosed
	default:
		return pr.Lifecycle() == github.StateMerged
	}
}

// TerminatedPullRequests returns the subset of prs that reached state.
func TerminatedPullRequests(prs []github.PullRequest, state TerminatingState) []github.PullRequest {
	var out []github.PullRequest
	for _, pr := range prs {
		if Terminated(pr, state) {
			out = append(out, pr)
		}
	}
	return out
}

// terminationTime returns when pr reached state. Only valid for a pr
// for which Terminated(pr, state) holds.
func terminationTime(pr github.PullRequest, state TerminatingState) time.Time {
	if state == StateClosed {
		return *pr.ClosedAt
	}
	return *pr.MergedAt
}

// Durations returns, in input order, the fractional days each terminated
// pull request took from creation to reaching state. Pull requests that
// have not reached state contribute nothing.
func Durations(prs []github.PullRequest, state TerminatingState) []float64 {
	var out []float64
	for _, pr := range prs {
		if !Terminated(pr, state) {
			continue
		}
		secs := terminationTime(pr, state).Sub(pr.CreatedAt).Seconds()
		out = append(out, secs/secondsPerDay)
	}
	return out
}

// MeanPRDuration returns the mean number of days author's pull requests
// took to reach state. Returns ErrNoMatchingPullRequests when no pull
// request qualifies.
func MeanPRDuration(author string, prs []github.PullRequest, state TerminatingState) (float64, error) {
	durations := Durations(ByAuthor(author, prs), state)
	if len(durations) == 0 {
		return 0, ghproderrors.ErrNoMatchingPullRequests
	}

	var sum float64
	for _, d := range durations {
		sum += d
	}
	return sum / float64(len(durations)), nil
}

// MedianPRDuration returns the median number of days author's pull
// requests took to reach state: the middle duration for an odd count,
// the average of the two middle durations for an even count. Returns
// ErrNoMatchingPullRequests when no pull request qualifies.
func MedianPRDuration(author string, prs []github.PullRequest, state TerminatingState) (float64, error) {
	durations := Durations(ByAuthor(author, prs), state)
	if len(durations) == 0 {
		return 0, ghproderrors.ErrNoMatchingPullRequests
	}

	sort.Float64s(durations)
	n := len(durations)
	if n%2 == 1 {
		return durations[n/2], nil
	}
	return (durations[n/2-1] + durations[n/2]) / 2, nil
}

// TotalPullRequests returns how many of prs author wrote, in any state.
func TotalPullRequests(author string, prs []github.PullRequest) int {
	return len(ByAuthor(author, prs))
}

// Compute evaluates metric for author over prs. Counts come back as
// exact float64 integers; the caller formats.
func Compute(metric Metric, author string, prs []github.PullRequest, state TerminatingState) (float64, error) {
	switch metric {
	case MetricMeanPRDuration:
		return MeanPRDuration(author, prs, state)
	case MetricMedianPRDuration:
		return MedianPRDuration(author, prs, state)
	case MetricTotalPRs:
		return float64(TotalPullRequests(author, prs)), nil
	default:
		return 0, fmt.Errorf("unknown metric %q", metric)
	}
}

// FormatValue renders a metric value the way it is printed: the shortest
// decimal representation that round-trips, so whole numbers carry no
// trailing ".0".
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
