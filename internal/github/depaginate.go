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
	"time"

	"go.uber.org/zap"

	"github.com/jmcph4/ghprod/internal/metadata"
)

// Depaginator walks GitHub's Link-header pagination and collects every
// page of pull requests into a single slice. A fixed delay is applied
// between page requests to stay under GitHub's rate limits; the delay is
// never applied after the final page.
type Depaginator struct {
	client Client
	delay  time.Duration
	log    *zap.Logger

	// sleep is swappable so tests can count pacing delays without
	// waiting them out.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewDepaginator creates a Depaginator that fetches pages through client,
// pausing delay between page requests. A nil logger disables logging.
func NewDepaginator(client Client, delay time.Duration, log *zap.Logger) *Depaginator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Depaginator{
		client: client,
		delay:  delay,
		log:    log,
		sleep:  sleepContext,
	}
}

// FetchAll retrieves every page starting at firstPageURL and returns the
// concatenated pull requests in API order. The walk ends when a page
// carries no rel="next" link. The first error aborts the walk and no
// partial results are returned.
func (d *Depaginator) FetchAll(ctx context.Context, firstPageURL string) ([]PullRequest, error) {
	tracker := metadata.New()

	var all []PullRequest
	pageURL := firstPageURL

	for pageNum := 1; ; pageNum++ {
		d.log.Info("fetching page", zap.Int("page", pageNum))

		page, err := d.client.FetchPage(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		tracker.IncrementAPICall()

		if len(page.PullRequests) == 0 {
			d.log.Warn("received empty page", zap.Int("page", pageNum))
		}
		for _, pr := range page.PullRequests {
			tracker.UpdatePRStats(pr.Number, pr.CreatedAt, pr.UpdatedAt)
		}
		all = append(all, page.PullRequests...)

		if page.NextURL == "" {
			break
		}
		pageURL = page.NextURL

		d.log.Debug("sleeping between pages", zap.Duration("delay", d.delay))
		if err := d.sleep(ctx, d.delay); err != nil {
			return nil, err
		}
	}

	d.log.Info("retrieved pull requests", summaryFields(tracker.Summary())...)
	return all, nil
}

// summaryFields converts a fetch summary into structured log fields.
// Range fields are omitted for an empty fetch, where they carry no
// information.
func summaryFields(s metadata.FetchSummary) []zap.Field {
	fields := []zap.Field{
		zap.Int("pull_requests", s.TotalPRs),
		zap.Int("api_calls", s.APICalls),
		zap.Duration("elapsed", s.Duration),
	}
	if s.TotalPRs > 0 {
		fields = append(fields,
			zap.Int("first_pr", s.FirstPR),
			zap.Int("last_pr", s.LastPR),
			zap.Time("oldest_created", s.OldestPR),
			zap.Time("newest_updated", s.NewestPR),
		)
	}
	return fields
}

// sleepContext pauses for d or until ctx is canceled, whichever comes
// first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
