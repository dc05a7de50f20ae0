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
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmcph4/ghprod/pkg/version"
)

func main() {
	// Interrupts cancel the root context so inter-page pacing sleeps
	// abort promptly instead of running out their full delay.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:   "ghprod",
		Short: "Compute developer productivity metrics from GitHub",
		Long: `ghprod computes productivity metrics for a single developer within a
GitHub repository. It fetches the repository's full pull request history
over the REST API, paced to stay inside rate limits, and reduces it to a
duration metric or a contribution summary.`,
		Version:       version.Version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
	}

	rootCmd.AddCommand(newSoloCommand())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(mapErrorToExitCode(err))
	}
}
