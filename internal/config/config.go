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

// Package config provides configuration management for ghprod with support
// for multiple configuration sources and a well-defined precedence order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Repository-specific configuration
//  4. Global configuration file
//  5. Built-in defaults
//
// The package supports YAML configuration files and provides automatic
// discovery of configuration in standard locations. It's designed to work
// seamlessly with GitHub Enterprise deployments and supports
// repository-specific overrides for fine-grained control.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .ghprod.yaml (current directory)
//   - .ghprod.yml (current directory)
//   - ~/.ghprod/config.yaml
//   - ~/.ghprod/config.yml
//
// Environment variables are applied after loading the config file, allowing
// runtime overrides.
//
// Returns an error if the specified config file cannot be loaded, but will
// succeed with defaults if no config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	// Try to load config file if path is provided
	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		// Try default locations
		defaultPaths := []string{
			".ghprod.yaml",
			".ghprod.yml",
			filepath.Join(os.Getenv("HOME"), ".ghprod", "config.yaml"),
			filepath.Join(os.Getenv("HOME"), ".ghprod", "config.yml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadConfigForRepo loads configuration and applies repository-specific
// overrides. This allows different settings for different repositories,
// useful when some repositories require special handling (e.g., smaller
// pages for repositories with large pull requests).
//
// The repo parameter should be in "owner/repo" format.
func LoadConfigForRepo(configPath, repo string) (*Config, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	// Apply repository-specific overrides if they exist
	if repoConfig, ok := cfg.Repositories[repo]; ok {
		if repoConfig.PageSize > 0 {
			cfg.Defaults.PageSize = repoConfig.PageSize
		}
	}

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	// GitHub endpoint
	if endpoint := os.Getenv("GITHUB_API_ENDPOINT"); endpoint != "" {
		cfg.GitHub.APIEndpoint = endpoint
	}

	// Defaults
	if pageSize := os.Getenv("GHPROD_PAGE_SIZE"); pageSize != "" {
		if size, err := parsePositiveInt(pageSize); err == nil {
			cfg.Defaults.PageSize = size
		}
	}
	if delay := os.Getenv("GHPROD_PAGE_DELAY"); delay != "" {
		if d, err := time.ParseDuration(delay); err == nil && d >= 0 {
			cfg.Defaults.PageDelay = Duration(d)
		}
	}
	if delay := os.Getenv("GHPROD_AUTH_PAGE_DELAY"); delay != "" {
		if d, err := time.ParseDuration(delay); err == nil && d >= 0 {
			cfg.Defaults.AuthPageDelay = Duration(d)
		}
	}
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	var i int
	_, err := fmt.Sscanf(s, "%d", &i)
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

// GetPageSize returns the effective page size for a repository, taking
// into account repository-specific overrides. If the repository has a
// specific page size configured, it returns that value. Otherwise, it
// returns the default page size.
func (c *Config) GetPageSize(repo string) int {
	if repoConfig, ok := c.Repositories[repo]; ok && repoConfig.PageSize > 0 {
		return repoConfig.PageSize
	}
	return c.Defaults.PageSize
}

// PageDelayFor returns the inter-page pacing delay appropriate for the
// given token: the anonymous delay when token is empty, the much shorter
// authenticated delay otherwise.
func (c *Config) PageDelayFor(token string) time.Duration {
	if token == "" {
		return time.Duration(c.Defaults.PageDelay)
	}
	return time.Duration(c.Defaults.AuthPageDelay)
}

// ResolveToken returns the API token to use. An explicitly provided token
// wins; otherwise the environment variable named by token_env is
// consulted. An empty result means unauthenticated access.
func (c *Config) ResolveToken(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return os.Getenv(c.GitHub.TokenEnv)
}

// Validate checks if the configuration contains valid values. It ensures
// page sizes are within GitHub's limits, the endpoint is not empty, and
// pacing delays are not negative. This should be called after loading
// configuration to catch invalid settings early.
func (c *Config) Validate() error {
	if c.Defaults.PageSize <= 0 {
		return fmt.Errorf("default page size must be positive, got: %d", c.Defaults.PageSize)
	}
	if c.Defaults.PageSize > 100 {
		return fmt.Errorf("default page size %d exceeds GitHub API limit of 100", c.Defaults.PageSize)
	}
	if c.GitHub.APIEndpoint == "" {
		return fmt.Errorf("GitHub API endpoint cannot be empty")
	}
	if c.Defaults.PageDelay < 0 {
		return fmt.Errorf("page delay cannot be negative, got: %v", time.Duration(c.Defaults.PageDelay))
	}
	if c.Defaults.AuthPageDelay < 0 {
		return fmt.Errorf("authenticated page delay cannot be negative, got: %v", time.Duration(c.Defaults.AuthPageDelay))
	}
	return nil
}
