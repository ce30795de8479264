// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "USHER_CONFIG"

// Environment represents the deployment environment.
type Environment string

const (
	// Development points at a local API server.
	Development Environment = "development"
	// Staging is for rehearsal events.
	Staging Environment = "staging"
	// Production is the live event.
	Production Environment = "production"
)

// Secure storage backends.
const (
	BackendSealed = "sealed"
	BackendPlain  = "plain"
)

// Config is the usher configuration.
type Config struct {
	// Environment selects which override section applies.
	Environment Environment `yaml:"environment"`

	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	History HistoryConfig `yaml:"history"`

	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per
// environment. Empty strings leave the base value alone.
type ConfigOverrides struct {
	API     *APIConfig     `yaml:"api,omitempty"`
	Storage *StorageConfig `yaml:"storage,omitempty"`
	History *HistoryConfig `yaml:"history,omitempty"`
}

// APIConfig configures the ticket API client.
type APIConfig struct {
	// BaseURL is the tickets API root; admit and on-door paths are
	// appended to it.
	BaseURL string `yaml:"base_url"`

	// Timeout is a Go duration string bounding each request.
	// Default: 15s
	Timeout string `yaml:"timeout"`

	// UserAgent is sent on every request.
	UserAgent string `yaml:"user_agent"`
}

// StorageConfig configures where device state lives.
type StorageConfig struct {
	// Root holds the sealed store, the data database, and the console
	// log.
	Root string `yaml:"root"`

	// SecureBackend is "sealed" (age-encrypted files) or "plain"
	// (unencrypted SQLite, for hosts where the sealed store cannot
	// lock memory).
	SecureBackend string `yaml:"secure_backend"`
}

// HistoryConfig configures the scan history log.
type HistoryConfig struct {
	// Timezone is an IANA zone name, or "Local", used to find midnight
	// for today's stats.
	Timezone string `yaml:"timezone"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Environment: Production,
		API: APIConfig{
			BaseURL:   "https://www.tedxbedayia.com/api/tickets",
			Timeout:   "15s",
			UserAgent: "TEDxBedayia-Usher-App/1.0",
		},
		Storage: StorageConfig{
			Root:          "${HOME}/.local/share/usher",
			SecureBackend: BackendSealed,
		},
		History: HistoryConfig{
			Timezone: "Local",
		},
	}
}

// Resolve loads the configuration named by flagPath, falling back to
// USHER_CONFIG, falling back to Default. The result is validated.
func Resolve(flagPath string) (*Config, error) {
	path := flagPath
	if path == "" {
		path = os.Getenv(EnvVar)
	}

	var cfg *Config
	if path == "" {
		cfg = Default()
		cfg.expandVariables()
	} else {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadFile loads configuration from path on top of Default, applies
// the matching environment section, and expands variables. It does not
// validate.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		// Compacted JSON is a YAML flow document, so it goes through
		// the same decoder and struct tags. Compacting drops tab
		// indentation, which YAML rejects.
		var compacted bytes.Buffer
		if err := json.Compact(&compacted, jsonc.ToJSON(data)); err != nil {
			return fmt.Errorf("config: parsing %s: %w", path, err)
		}
		data = compacted.Bytes()
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}

	if overrides == nil {
		return
	}

	if overrides.API != nil {
		if overrides.API.BaseURL != "" {
			c.API.BaseURL = overrides.API.BaseURL
		}
		if overrides.API.Timeout != "" {
			c.API.Timeout = overrides.API.Timeout
		}
		if overrides.API.UserAgent != "" {
			c.API.UserAgent = overrides.API.UserAgent
		}
	}

	if overrides.Storage != nil {
		if overrides.Storage.Root != "" {
			c.Storage.Root = overrides.Storage.Root
		}
		if overrides.Storage.SecureBackend != "" {
			c.Storage.SecureBackend = overrides.Storage.SecureBackend
		}
	}

	if overrides.History != nil && overrides.History.Timezone != "" {
		c.History.Timezone = overrides.History.Timezone
	}
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Storage.Root = expandVars(c.Storage.Root, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns, consulting
// vars first and then the process environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.API.BaseURL == "" {
		errs = append(errs, fmt.Errorf("api.base_url is required"))
	} else if parsed, err := url.Parse(c.API.BaseURL); err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url must be an absolute http or https URL: %q", c.API.BaseURL))
	}

	if _, err := c.RequestTimeout(); err != nil {
		errs = append(errs, err)
	}

	if c.API.UserAgent == "" {
		errs = append(errs, fmt.Errorf("api.user_agent is required"))
	}

	if c.Storage.Root == "" {
		errs = append(errs, fmt.Errorf("storage.root is required"))
	}

	switch c.Storage.SecureBackend {
	case BackendSealed, BackendPlain:
	default:
		errs = append(errs, fmt.Errorf("storage.secure_backend must be one of: %s, %s", BackendSealed, BackendPlain))
	}

	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// RequestTimeout parses API.Timeout.
func (c *Config) RequestTimeout() (time.Duration, error) {
	timeout, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 0, fmt.Errorf("api.timeout: %w", err)
	}
	if timeout <= 0 {
		return 0, fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	return timeout, nil
}

// Location resolves History.Timezone. An empty value means Local.
func (c *Config) Location() (*time.Location, error) {
	if c.History.Timezone == "" || c.History.Timezone == "Local" {
		return time.Local, nil
	}
	location, err := time.LoadLocation(c.History.Timezone)
	if err != nil {
		return nil, fmt.Errorf("history.timezone: %w", err)
	}
	return location, nil
}

// SecureDir is the sealed store's directory.
func (c *Config) SecureDir() string {
	return filepath.Join(c.Storage.Root, "secure")
}

// SecureDatabasePath is the plain secure store, used when
// SecureBackend is "plain".
func (c *Config) SecureDatabasePath() string {
	return filepath.Join(c.Storage.Root, "secure.db")
}

// DataDatabasePath holds non-secret state such as the scan history.
func (c *Config) DataDatabasePath() string {
	return filepath.Join(c.Storage.Root, "data.db")
}

// ConsoleLogPath receives logs while the scan console owns the
// terminal.
func (c *Config) ConsoleLogPath() string {
	return filepath.Join(c.Storage.Root, "console.log")
}

// EnsurePaths creates the storage root with mode 0700.
func (c *Config) EnsurePaths() error {
	if err := os.MkdirAll(c.Storage.Root, 0o700); err != nil {
		return fmt.Errorf("creating %s: %w", c.Storage.Root, err)
	}
	return nil
}
