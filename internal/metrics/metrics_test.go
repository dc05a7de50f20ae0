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

package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ghproderrors "github.com/jmcph4/ghprod/internal/errors"
	"github.com/jmcph4/ghprod/internal/github"
)

var testEpoch = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

// mergedPR builds a pull request by author that merged after the given
// number of fractional days.
func mergedPR(author string, days float64) github.PullRequest {
	merged := testEpoch.Add(time.Duration(days * 24 * float64(time.Hour)))
	return github.PullRequest{
		State:     "closed",
		CreatedAt: testEpoch,
		UpdatedAt: merged,
		ClosedAt:  &merged,
		MergedAt:  &merged,
		User:      github.User{Login: author},
	}
}

// closedPR builds a pull request by author that was closed without
// merging after the given number of fractional days.
func closedPR(author string, days float64) github.PullRequest {
	closed := testEpoch.Add(time.Duration(days * 24 * float64(time.Hour)))
	return github.PullRequest{
		State:     "closed",
		CreatedAt: testEpoch,
		UpdatedAt: closed,
		ClosedAt:  &closed,
		User:      github.User{Login: author},
	}
}

func openPR(author string) github.PullRequest {
	return github.PullRequest{
		State:     "open",
		CreatedAt: testEpoch,
		UpdatedAt: testEpoch,
		User:      github.User{Login: author},
	}
}

func TestParseMetric(t *testing.T) {
	tests := []struct {
		input   string
		want    Metric
		wantErr string
	}{
		{input: "mean_pr_duration", want: MetricMeanPRDuration},
		{input: "median_pr_duration", want: MetricMedianPRDuration},
		{input: "total_num_prs", want: MetricTotalPRs},
		{input: "mean_net_change", wantErr: "not supported"},
		{input: "pr_velocity", wantErr: "unknown metric"},
		{input: "", wantErr: "unknown metric"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMetric(tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTerminatingState(t *testing.T) {
	merged := []string{"merged", "Merged", "MERGED", "m", "M", "merge", "Merge", "MERGE"}
	for _, alias := range merged {
		got, err := ParseTerminatingState(alias)
		require.NoError(t, err, "alias %q", alias)
		assert.Equal(t, StateMerged, got, "alias %q", alias)
	}

	closed := []string{"closed", "Closed", "CLOSED", "c", "C", "close", "Close", "CLOSE"}
	for _, alias := range closed {
		got, err := ParseTerminatingState(alias)
		require.NoError(t, err, "alias %q", alias)
		assert.Equal(t, StateClosed, got, "alias %q", alias)
	}

	for _, bad := range []string{"", "open", "mErGeD", "done"} {
		_, err := ParseTerminatingState(bad)
		assert.Error(t, err, "alias %q", bad)
	}
}

func TestTerminated_DisjointStates(t *testing.T) {
	merged := mergedPR("alice", 1)
	closed := closedPR("alice", 1)
	open := openPR("alice")

	// Merged PRs count under merged only, closed-without-merging under
	// closed only, open under neither.
	assert.True(t, Terminated(merged, StateMerged))
	assert.False(t, Terminated(merged, StateClosed))

	assert.True(t, Terminated(closed, StateClosed))
	assert.False(t, Terminated(closed, StateMerged))

	assert.False(t, Terminated(open, StateMerged))
	assert.False(t, Terminated(open, StateClosed))
}

func TestDurations(t *testing.T) {
	t.Run("fractional days", func(t *testing.T) {
		prs := []github.PullRequest{
			mergedPR("alice", 1),
			mergedPR("alice", 2.5),
			mergedPR("alice", 0.5),
		}
		got := Durations(prs, StateMerged)
		assert.Equal(t, []float64{1, 2.5, 0.5}, got)
	})

	t.Run("half day is twelve hours", func(t *testing.T) {
		merged := testEpoch.Add(12 * time.Hour)
		pr := github.PullRequest{
			State:     "closed",
			CreatedAt: testEpoch,
			MergedAt:  &merged,
			ClosedAt:  &merged,
			User:      github.User{Login: "alice"},
		}
		got := Durations([]github.PullRequest{pr}, StateMerged)
		require.Len(t, got, 1)
		assert.InDelta(t, 0.5, got[0], 1e-12)
	})

	t.Run("open PRs contribute nothing", func(t *testing.T) {
		prs := []github.PullRequest{
			openPR("alice"),
			mergedPR("alice", 3),
			openPR("alice"),
		}
		assert.Equal(t, []float64{3}, Durations(prs, StateMerged))
	})

	t.Run("closed state uses closed_at", func(t *testing.T) {
		prs := []github.PullRequest{
			closedPR("alice", 4),
			mergedPR("alice", 100), // merged, so invisible under closed
			openPR("alice"),
		}
		assert.Equal(t, []float64{4}, Durations(prs, StateClosed))
	})
}

func TestMeanPRDuration(t *testing.T) {
	t.Run("hand-computed fixture", func(t *testing.T) {
		prs := []github.PullRequest{
			mergedPR("alice", 1),
			mergedPR("alice", 2),
			mergedPR("alice", 3),
		}
		got, err := MeanPRDuration("alice", prs, StateMerged)
		require.NoError(t, err)
		assert.Equal(t, 2.0, got)
	})

	t.Run("ignores other authors", func(t *testing.T) {
		prs := []github.PullRequest{
			mergedPR("alice", 1),
			mergedPR("bob", 1000),
			mergedPR("alice", 3),
			mergedPR("bob", 5000),
		}
		got, err := MeanPRDuration("alice", prs, StateMerged)
		require.NoError(t, err)
		assert.Equal(t, 2.0, got)
	})

	t.Run("ignores unterminated PRs", func(t *testing.T) {
		prs := []github.PullRequest{
			mergedPR("alice", 2),
			openPR("alice"),
			closedPR("alice", 50),
		}
		got, err := MeanPRDuration("alice", prs, StateMerged)
		require.NoError(t, err)
		assert.Equal(t, 2.0, got)
	})

	t.Run("no matching PRs", func(t *testing.T) {
		prs := []github.PullRequest{
			mergedPR("bob", 1),
			openPR("alice"),
		}
		_, err := MeanPRDuration("alice", prs, StateMerged)
		require.ErrorIs(t, err, ghproderrors.ErrNoMatchingPullRequests)

		_, err = MeanPRDuration("alice", nil, StateMerged)
		require.ErrorIs(t, err, ghproderrors.ErrNoMatchingPullRequests)
	})
}

func TestMedianPRDuration(t *testing.T) {
	t.Run("odd count", func(t *testing.T) {
		prs := []github.PullRequest{
			mergedPR("alice", 1),
			mergedPR("alice", 2),
			mergedPR("alice", 3),
		}
		got, err := MedianPRDuration("alice", prs, StateMerged)
		require.NoError(t, err)
		assert.Equal(t, 2.0, got)
	})

	t.Run("even count averages the middle pair", func(t *testing.T) {
		prs := []github.PullRequest{
			mergedPR("alice", 1),
			mergedPR("alice", 2),
			mergedPR("alice", 3),
			mergedPR("alice", 4),
		}
		got, err := MedianPRDuration("alice", prs, StateMerged)
		require.NoError(t, err)
		assert.Equal(t, 2.5, got)
	})

	t.Run("sorts unsorted input", func(t *testing.T) {
		prs := []github.PullRequest{
			mergedPR("alice", 3),
			mergedPR("alice", 1),
			mergedPR("alice", 2),
		}
		got, err := MedianPRDuration("alice", prs, StateMerged)
		require.NoError(t, err)
		assert.Equal(t, 2.0, got)
	})

	t.Run("single value", func(t *testing.T) {
		prs := []github.PullRequest{mergedPR("alice", 5.5)}
		got, err := MedianPRDuration("alice", prs, StateMerged)
		require.NoError(t, err)
		assert.Equal(t, 5.5, got)
	})

	t.Run("no matching PRs", func(t *testing.T) {
		_, err := MedianPRDuration("alice", []github.PullRequest{openPR("alice")}, StateMerged)
		require.ErrorIs(t, err, ghproderrors.ErrNoMatchingPullRequests)
	})
}

func TestTotalPullRequests(t *testing.T) {
	prs := []github.PullRequest{
		mergedPR("alice", 1),
		openPR("alice"),
		closedPR("alice", 2),
		mergedPR("bob", 1),
	}

	// Counts every state, unlike the duration metrics.
	assert.Equal(t, 3, TotalPullRequests("alice", prs))
	assert.Equal(t, 1, TotalPullRequests("bob", prs))
	assert.Equal(t, 0, TotalPullRequests("mallory", prs))
}

func TestCompute(t *testing.T) {
	prs := []github.PullRequest{
		mergedPR("alice", 1),
		mergedPR("alice", 2),
		mergedPR("alice", 3),
		mergedPR("alice", 4),
		openPR("alice"),
	}

	tests := []struct {
		metric Metric
		want   float64
	}{
		{MetricMeanPRDuration, 2.5},
		{MetricMedianPRDuration, 2.5},
		{MetricTotalPRs, 5},
	}

	for _, tt := range tests {
		t.Run(string(tt.metric), func(t *testing.T) {
			got, err := Compute(tt.metric, "alice", prs, StateMerged)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unknown metric", func(t *testing.T) {
		_, err := Compute(Metric("bogus"), "alice", prs, StateMerged)
		require.Error(t, err)
	})

	t.Run("total is zero without error", func(t *testing.T) {
		got, err := Compute(MetricTotalPRs, "mallory", prs, StateMerged)
		require.NoError(t, err)
		assert.Equal(t, 0.0, got)
	})

	t.Run("duration metrics propagate no-match", func(t *testing.T) {
		_, err := Compute(MetricMeanPRDuration, "mallory", prs, StateMerged)
		require.ErrorIs(t, err, ghproderrors.ErrNoMatchingPullRequests)
	})
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2, "2"},
		{2.5, "2.5"},
		{0.5, "0.5"},
		{42, "42"},
		{10.0 / 4.0, "2.5"},
		{0.125, "0.125"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.in))
	}
}
