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

// Package config types define the configuration structures used throughout
// ghprod. These types represent settings that can be loaded from YAML
// configuration files, environment variables, or command-line flags.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for ghprod. It consolidates
// settings from various sources and provides a unified interface for
// accessing configuration values throughout the application.
type Config struct {
	GitHub       GitHubConfig          `yaml:"github"`
	Defaults     DefaultsConfig        `yaml:"defaults"`
	Repositories map[string]RepoConfig `yaml:"repositories"`
}

// GitHubConfig contains GitHub-specific settings including the API endpoint
// and authentication configuration. This allows easy configuration for
// GitHub Enterprise deployments by specifying a custom endpoint.
type GitHubConfig struct {
	APIEndpoint string `yaml:"api_endpoint"`
	TokenEnv    string `yaml:"token_env"`
}

// DefaultsConfig contains default settings that apply to all fetch
// operations unless overridden by repository-specific settings or
// command-line flags.
//
// PageDelay paces unauthenticated fetches; it defaults to one minute
// because anonymous access is limited to 60 requests per hour.
// AuthPageDelay applies when a token is configured, where the quota is
// high enough that only a nominal pause is needed.
type DefaultsConfig struct {
	PageSize      int      `yaml:"page_size"`
	PageDelay     Duration `yaml:"page_delay"`
	AuthPageDelay Duration `yaml:"auth_page_delay"`
}

// RepoConfig contains repository-specific overrides that allow fine-tuning
// fetch behavior for individual repositories. This is useful when certain
// repositories have special requirements, such as smaller pages for
// repositories with very large pull requests.
type RepoConfig struct {
	PageSize int `yaml:"page_size"`
}

// Duration wraps time.Duration so config files can use Go duration
// strings ("60s", "1500ms") rather than bare nanosecond counts.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// DefaultConfig returns a Config with sensible defaults suitable for most
// use cases. These defaults are optimized for public GitHub.com usage but
// can be overridden for GitHub Enterprise or special requirements.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIEndpoint: "https://api.github.com",
			TokenEnv:    "GITHUB_TOKEN",
		},
		Defaults: DefaultsConfig{
			PageSize:      100,
			PageDelay:     Duration(60 * time.Second),
			AuthPageDelay: Duration(time.Second),
		},
		Repositories: make(map[string]RepoConfig),
	}
}
