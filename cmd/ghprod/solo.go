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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jmcph4/ghprod/internal/config"
	ghproderrors "github.com/jmcph4/ghprod/internal/errors"
	"github.com/jmcph4/ghprod/internal/github"
	"github.com/jmcph4/ghprod/internal/logging"
	"github.com/jmcph4/ghprod/internal/metrics"
)

// soloOptions carries the solo command's arguments and flags.
type soloOptions struct {
	owner      string
	repo       string
	developer  string
	metric     string // empty selects the summary report
	token      string
	state      string
	configPath string
	verbose    bool
}

// soloCmd represents the solo command
func newSoloCommand() *cobra.Command {
	var opts soloOptions

	cmd := &cobra.Command{
		Use:   "solo <owner> <repo> <developer> [metric]",
		Short: "Compute productivity metrics for a single developer",
		Long: `Compute productivity metrics for a single developer within a repository.

Available metrics:
  mean_pr_duration    mean time from PR creation to completion, in days
  median_pr_duration  median time from PR creation to completion, in days
  total_num_prs       number of PRs the developer has opened

When no metric is given, a human-readable contribution summary is printed.

Authentication is optional but strongly recommended: unauthenticated
requests are limited to 60 per hour, so page fetches are paced a minute
apart. Provide a token via --api-secret or the environment variable named
in the config (GITHUB_TOKEN by default) to lift the limit.`,
		Args: cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.owner = args[0]
			opts.repo = args[1]
			opts.developer = args[2]
			if len(args) == 4 {
				opts.metric = args[3]
			}

			return runSolo(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	// Define flags
	cmd.Flags().StringVar(&opts.token, "api-secret", "", "GitHub personal access token (overrides the configured token env var)")
	cmd.Flags().StringVar(&opts.state, "pull-request-terminating-state", "", "State at which a PR counts as done: merged or closed (default merged)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Config file path (default: search standard locations)")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")

	return cmd
}

// runSolo executes the solo command
func runSolo(ctx context.Context, opts soloOptions, out io.Writer) error {
	// Reject bad metric and state names before any network traffic
	var metric metrics.Metric
	if opts.metric != "" {
		var err error
		metric, err = metrics.ParseMetric(opts.metric)
		if err != nil {
			return err
		}
	}

	state := metrics.DefaultTerminatingState
	if opts.state != "" {
		var err error
		state, err = metrics.ParseTerminatingState(opts.state)
		if err != nil {
			return err
		}
	}

	// Load configuration with repository-specific overrides
	repo := opts.owner + "/" + opts.repo
	cfg, err := config.LoadConfigForRepo(opts.configPath, repo)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	token := cfg.ResolveToken(opts.token)

	log, err := logging.NewLogger(opts.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	// Fetch the repository's complete pull request history
	client := github.NewRESTClient(token)
	firstPage := github.ListPullsURL(cfg.GitHub.APIEndpoint, opts.owner, opts.repo, cfg.GetPageSize(repo))

	prs, err := github.NewDepaginator(client, cfg.PageDelayFor(token), log).FetchAll(ctx, firstPage)
	if err != nil {
		return err
	}

	// No metric selects the contribution summary report
	if opts.metric == "" {
		fmt.Fprintln(out, metrics.Summary(opts.owner, opts.repo, opts.developer, prs, state))
		return nil
	}

	value, err := metrics.Compute(metric, opts.developer, prs, state)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, metrics.FormatValue(value))

	return nil
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	// Check for specific error types
	if errors.Is(err, ghproderrors.ErrInvalidToken) ||
		errors.Is(err, ghproderrors.ErrRepoNotFound) ||
		errors.Is(err, ghproderrors.ErrRateLimit) {
		return 2 // Authentication/authorization errors
	}

	if errors.Is(err, ghproderrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	return 1 // General error
}
