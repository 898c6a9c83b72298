// Copyright 2026 The Fathomline Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the studioctl configuration file. The file is
// JSONC (JSON with comments and trailing commas) so operators can
// annotate their setup.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
)

// DefaultPageSize matches the backend's contact pagination window.
const DefaultPageSize = 15

// DefaultRequestTimeout bounds API requests when the file does not
// say otherwise.
const DefaultRequestTimeout = 15 * time.Second

// Config is the parsed configuration.
type Config struct {
	// APIBaseURL is the content API root. Required, either here or
	// via the --api flag.
	APIBaseURL string `json:"api_url"`

	// PageSize is the number of rows per page on paginated screens.
	PageSize int `json:"page_size"`

	// RequestTimeoutSeconds bounds each API request.
	RequestTimeoutSeconds int `json:"request_timeout_seconds"`
}

// RequestTimeout returns the configured timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return DefaultRequestTimeout
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Path returns the config file location: $STUDIOCTL_CONFIG if set,
// otherwise $XDG_CONFIG_HOME/studioctl/config.jsonc, otherwise
// ~/.config/studioctl/config.jsonc.
func Path() (string, error) {
	if override := os.Getenv("STUDIOCTL_CONFIG"); override != "" {
		return override, nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "studioctl", "config.jsonc"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "studioctl", "config.jsonc"), nil
}

// Load reads and parses the config file at path. A missing file is not
// an error: it yields defaults, and the API URL then has to come from
// the command line.
func Load(path string) (*Config, error) {
	config := &Config{
		PageSize:              DefaultPageSize,
		RequestTimeoutSeconds: int(DefaultRequestTimeout / time.Second),
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(jsonc.ToJSON(raw), config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.APIBaseURL != "" && !strings.Contains(c.APIBaseURL, "://") {
		return fmt.Errorf("api_url %q is not an absolute URL", c.APIBaseURL)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive, got %d", c.RequestTimeoutSeconds)
	}
	return nil
}
