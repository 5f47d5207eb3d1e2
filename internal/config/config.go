package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all configuration settings for the application
type Config struct {
	// APIBaseURL is the base URL of the backend whose health is displayed
	APIBaseURL string `toml:"api_base_url"`

	// HealthPath is the path appended to APIBaseURL for health checks
	HealthPath string `toml:"health_path"`

	// ListenAddr is the address and port for the web server
	ListenAddr string `toml:"listen_addr"`

	// DatabasePath is the path to the SQLite database file
	DatabasePath string `toml:"database_path"`

	// CheckInterval is how often the scheduler probes the backend.
	// Zero disables scheduled checks.
	CheckInterval time.Duration `toml:"-"`

	// CheckTimeout bounds a single health check request
	CheckTimeout time.Duration `toml:"-"`

	// HistoryRetention is how long check and vitals rows are kept
	HistoryRetention time.Duration `toml:"-"`

	// CheckIntervalStr and friends are the raw TOML values; durations are
	// parsed during Load so env overrides share one code path.
	CheckIntervalStr    string `toml:"check_interval"`
	CheckTimeoutStr     string `toml:"check_timeout"`
	HistoryRetentionStr string `toml:"history_retention"`

	// DashboardPasswordHash is an optional bcrypt hash. Empty means the
	// dashboard is public.
	DashboardPasswordHash string `toml:"dashboard_password_hash"`

	// SessionKey is the cookie session authentication key
	SessionKey string `toml:"session_key"`

	// TargetsPath is an optional YAML file listing extra monitor targets
	TargetsPath string `toml:"targets_path"`
}

// defaultConfig returns the default configuration
func defaultConfig() *Config {
	return &Config{
		HealthPath:          "/api/health/",
		ListenAddr:          ":8084",
		DatabasePath:        "grimoire-status.db",
		CheckIntervalStr:    "1m",
		CheckTimeoutStr:     "10s",
		HistoryRetentionStr: "168h",
	}
}

// Load loads the configuration from file and environment variables
func Load() (*Config, error) {
	// Start with default configuration
	config := defaultConfig()

	// Try to load from config.toml if it exists
	configPath := "config.toml"
	if path := os.Getenv("GRIMOIRE_CONFIG"); path != "" {
		configPath = path
	}
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, config); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	// Override with environment variables if set
	if baseURL := os.Getenv("GRIMOIRE_API_URL"); baseURL != "" {
		config.APIBaseURL = baseURL
	}

	if healthPath := os.Getenv("GRIMOIRE_HEALTH_PATH"); healthPath != "" {
		config.HealthPath = healthPath
	}

	if listenAddr := os.Getenv("LISTEN_ADDR"); listenAddr != "" {
		config.ListenAddr = listenAddr
	}

	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		config.DatabasePath = dbPath
	}

	if interval := os.Getenv("GRIMOIRE_CHECK_INTERVAL"); interval != "" {
		config.CheckIntervalStr = interval
	}

	if timeout := os.Getenv("GRIMOIRE_CHECK_TIMEOUT"); timeout != "" {
		config.CheckTimeoutStr = timeout
	}

	if hash := os.Getenv("GRIMOIRE_DASHBOARD_PASSWORD_HASH"); hash != "" {
		config.DashboardPasswordHash = hash
	}

	if key := os.Getenv("GRIMOIRE_SESSION_KEY"); key != "" {
		config.SessionKey = key
	}

	if targets := os.Getenv("GRIMOIRE_TARGETS_PATH"); targets != "" {
		config.TargetsPath = targets
	}

	if err := config.parseDurations(); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) parseDurations() error {
	var err error

	if c.CheckIntervalStr == "0" || c.CheckIntervalStr == "" {
		c.CheckInterval = 0
	} else if c.CheckInterval, err = time.ParseDuration(c.CheckIntervalStr); err != nil {
		return fmt.Errorf("invalid check_interval %q: %w", c.CheckIntervalStr, err)
	}

	if c.CheckTimeout, err = time.ParseDuration(c.CheckTimeoutStr); err != nil {
		return fmt.Errorf("invalid check_timeout %q: %w", c.CheckTimeoutStr, err)
	}

	if c.HistoryRetention, err = time.ParseDuration(c.HistoryRetentionStr); err != nil {
		return fmt.Errorf("invalid history_retention %q: %w", c.HistoryRetentionStr, err)
	}

	return nil
}

func (c *Config) validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url is required (set GRIMOIRE_API_URL or api_base_url in config.toml)")
	}

	u, err := url.Parse(c.APIBaseURL)
	if err != nil || !u.IsAbs() {
		return fmt.Errorf("api_base_url %q is not an absolute URL", c.APIBaseURL)
	}

	if c.CheckTimeout <= 0 {
		return fmt.Errorf("check_timeout must be positive")
	}

	return nil
}

// HealthURL returns the full URL probed by health checks
func (c *Config) HealthURL() string {
	return strings.TrimSuffix(c.APIBaseURL, "/") + c.HealthPath
}

// AuthEnabled reports whether the dashboard requires a password
func (c *Config) AuthEnabled() bool {
	return c.DashboardPasswordHash != ""
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("APIBaseURL: %s", c.APIBaseURL))
	parts = append(parts, fmt.Sprintf("HealthPath: %s", c.HealthPath))
	parts = append(parts, fmt.Sprintf("ListenAddr: %s", c.ListenAddr))
	parts = append(parts, fmt.Sprintf("DatabasePath: %s", c.DatabasePath))
	parts = append(parts, fmt.Sprintf("CheckInterval: %s", c.CheckInterval))
	return strings.Join(parts, ", ")
}
