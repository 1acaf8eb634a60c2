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

// Config holds all addressbook configuration.
type Config struct {
	// Backend connection
	API APIConfig `yaml:"api"`

	// Terminal UI behaviour
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the REST backend client.
type APIConfig struct {
	BaseURL   string `yaml:"base_url"`
	Timeout   string `yaml:"timeout"`
	UserAgent string `yaml:"user_agent"`
}

// UIConfig configures the interactive mode.
type UIConfig struct {
	SearchDebounce     string `yaml:"search_debounce"`
	ToastDuration      string `yaml:"toast_duration"`
	ErrorToastDuration string `yaml:"error_toast_duration"`
	Theme              string `yaml:"theme"` // auto, light, dark
}

// Environment variables that override the file.
const (
	EnvBaseURL  = "ADDRESSBOOK_URL"
	EnvTimeout  = "ADDRESSBOOK_TIMEOUT"
	EnvLogLevel = "ADDRESSBOOK_LOG_LEVEL"
	EnvLogFile  = "ADDRESSBOOK_LOG_FILE"
	EnvTheme    = "ADDRESSBOOK_THEME"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   "http://localhost:5000",
			Timeout:   "15s",
			UserAgent: "addressbook",
		},
		UI: UIConfig{
			SearchDebounce:     "300ms",
			ToastDuration:      "3s",
			ErrorToastDuration: "3s",
			Theme:              "auto",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/addressbook/config.yaml, falling back
// to a file in the working directory when no config dir can be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "addressbook.yaml"
	}
	return filepath.Join(dir, "addressbook", "config.yaml")
}

// Load loads configuration from a YAML file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()

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
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		c.API.Timeout = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv(EnvTheme); v != "" {
		c.UI.Theme = v
	}
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// GetTimeout returns the per-request timeout.
func (c *Config) GetTimeout() time.Duration {
	return parseDuration(c.API.Timeout, 15*time.Second)
}

// GetSearchDebounce returns the search debounce window.
func (c *Config) GetSearchDebounce() time.Duration {
	return parseDuration(c.UI.SearchDebounce, 300*time.Millisecond)
}

// GetToastDuration returns how long success and info toasts stay visible.
func (c *Config) GetToastDuration() time.Duration {
	return parseDuration(c.UI.ToastDuration, 3*time.Second)
}

// GetErrorToastDuration returns how long error toasts stay visible.
func (c *Config) GetErrorToastDuration() time.Duration {
	return parseDuration(c.UI.ErrorToastDuration, c.GetToastDuration())
}

// ValidThemes lists the accepted ui.theme values.
var ValidThemes = []string{"auto", "light", "dark"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api.base_url %q: must be an absolute http(s) URL", c.API.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api.base_url %q: unsupported scheme %s", c.API.BaseURL, u.Scheme)
	}

	for name, v := range map[string]string{
		"api.timeout":             c.API.Timeout,
		"ui.search_debounce":      c.UI.SearchDebounce,
		"ui.toast_duration":       c.UI.ToastDuration,
		"ui.error_toast_duration": c.UI.ErrorToastDuration,
	} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, v, err)
		}
	}

	theme := strings.ToLower(c.UI.Theme)
	validTheme := theme == ""
	for _, t := range ValidThemes {
		if theme == t {
			validTheme = true
			break
		}
	}
	if !validTheme {
		return fmt.Errorf("invalid ui.theme: %s (valid: %v)", c.UI.Theme, ValidThemes)
	}

	return c.Logging.Validate()
}
