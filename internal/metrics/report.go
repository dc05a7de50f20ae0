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
	"fmt"
	"strings"

	"github.com/jmcph4/ghprod/internal/github"
)

// Summary renders the human-readable contribution report shown when solo
// is invoked without a metric. The mean-duration line is omitted when the
// user has no pull request in the terminating state.
func Summary(owner, repo, user string, prs []github.PullRequest, state TerminatingState) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== %s's contributions to %s/%s ===\n", user, owner, repo)

	authored := ByAuthor(user, prs)
	total := len(authored)
	if total == 0 {
		b.WriteString("There's not much here...\n")
		return b.String()
	}

	done := len(TerminatedPullRequests(authored, state))
	if total == done {
		fmt.Fprintf(&b, "%s has %d PRs in total (all of which are completed)\n", user, total)
	} else {
		fmt.Fprintf(&b, "%s has %d PRs in total (%d of these are completed)\n", user, total, done)
	}

	if mean, err := MeanPRDuration(user, prs, state); err == nil {
		fmt.Fprintf(&b, "%s's PRs take %s days to complete on average\n", user, FormatValue(mean))
	}

	return b.String()
}
