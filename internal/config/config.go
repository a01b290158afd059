package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// StateDirName is the per-workspace directory holding config, session and logs.
const StateDirName = ".railspark"

// Config holds all railspark configuration.
type Config struct {
	Name string `yaml:"name"`

	// Backend REST API
	API APIConfig `yaml:"api"`

	// Session persistence
	Session SessionConfig `yaml:"session"`

	// Dashboard refresh and upload limits
	Dashboard DashboardConfig `yaml:"dashboard"`
	Upload    UploadConfig    `yaml:"upload"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the backend client.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	// Timeout is empty by default: the transport default applies.
	Timeout string `yaml:"timeout"`
	// Token seeds the session when no persisted session exists.
	Token string `yaml:"token,omitempty"`
}

// SessionConfig configures where the login session is kept.
type SessionConfig struct {
	StateDir string `yaml:"state_dir"`
	File     string `yaml:"file"`
	Watch    bool   `yaml:"watch"`
}

// DashboardConfig configures summary refresh.
type DashboardConfig struct {
	RefreshInterval string `yaml:"refresh_interval"`
}

// UploadConfig configures client-side CSV checks.
type UploadConfig struct {
	MaxBytes int64 `yaml:"max_bytes"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name: "railspark",

		API: APIConfig{
			BaseURL: "http://localhost:8000",
		},

		Session: SessionConfig{
			StateDir: StateDirName,
			File:     "session.json",
			Watch:    true,
		},

		Dashboard: DashboardConfig{
			RefreshInterval: "5m",
		},

		Upload: UploadConfig{
			MaxBytes: 10 * 1024 * 1024,
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultConfigPath returns <workspace>/.railspark/config.yaml.
func DefaultConfigPath(workspace string) string {
	return filepath.Join(workspace, StateDirName, "config.yaml")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("RAILSPARK_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("RAILSPARK_TOKEN"); v != "" {
		c.API.Token = v
	}
	if v := os.Getenv("RAILSPARK_TIMEOUT"); v != "" {
		c.API.Timeout = v
	}
	if v := os.Getenv("RAILSPARK_STATE_DIR"); v != "" {
		c.Session.StateDir = v
	}
	if v := os.Getenv("RAILSPARK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// GetAPITimeout returns the client timeout; zero means no client-side limit.
func (c *Config) GetAPITimeout() time.Duration {
	if c.API.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// GetRefreshInterval returns the dashboard refresh interval.
func (c *Config) GetRefreshInterval() time.Duration {
	d, err := time.ParseDuration(c.Dashboard.RefreshInterval)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}

// StateDir resolves the state directory against workspace when relative.
func (c *Config) StateDir(workspace string) string {
	dir := c.Session.StateDir
	if dir == "" {
		dir = StateDirName
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(workspace, dir)
}

// SessionPath returns the absolute session file path.
func (c *Config) SessionPath(workspace string) string {
	name := c.Session.File
	if name == "" {
		name = "session.json"
	}
	return filepath.Join(c.StateDir(workspace), name)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api base_url not configured (set RAILSPARK_BASE_URL)")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api base_url %q: %w", c.API.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api base_url %q: scheme must be http or https", c.API.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid api base_url %q: missing host", c.API.BaseURL)
	}
	if c.API.Timeout != "" {
		if _, err := time.ParseDuration(c.API.Timeout); err != nil {
			return fmt.Errorf("invalid api timeout %q: %w", c.API.Timeout, err)
		}
	}
	if c.Upload.MaxBytes < 0 {
		return fmt.Errorf("upload max_bytes must not be negative")
	}
	return nil
}
