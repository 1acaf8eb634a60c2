package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv(EnvBaseURL, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileStillAppliesEnv(t *testing.T) {
	t.Setenv(EnvBaseURL, "https://book.example.com")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "https://book.example.com", cfg.API.BaseURL)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: http://10.0.0.2:5000\nui:\n  search_debounce: 150ms\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.2:5000", cfg.API.BaseURL)
	assert.Equal(t, 150*time.Millisecond, cfg.GetSearchDebounce())
	assert.Equal(t, 3*time.Second, cfg.GetToastDuration())
	assert.Equal(t, "addressbook", cfg.API.UserAgent)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unterminated"), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.UI.Theme = "dark"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestDurationFallbacks(t *testing.T) {
	cfg := &Config{UI: UIConfig{SearchDebounce: "soon", ToastDuration: "-1s"}}

	assert.Equal(t, 15*time.Second, cfg.GetTimeout())
	assert.Equal(t, 300*time.Millisecond, cfg.GetSearchDebounce())
	assert.Equal(t, 3*time.Second, cfg.GetToastDuration())
	assert.Equal(t, 3*time.Second, cfg.GetErrorToastDuration())

	cfg.UI.ToastDuration = "5s"
	assert.Equal(t, 5*time.Second, cfg.GetErrorToastDuration())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "relative url", mutate: func(c *Config) { c.API.BaseURL = "localhost:5000" }, wantErr: "api.base_url"},
		{name: "ftp url", mutate: func(c *Config) { c.API.BaseURL = "ftp://host" }, wantErr: "unsupported scheme"},
		{name: "bad duration", mutate: func(c *Config) { c.UI.SearchDebounce = "fast" }, wantErr: "ui.search_debounce"},
		{name: "bad theme", mutate: func(c *Config) { c.UI.Theme = "neon" }, wantErr: "ui.theme"},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "trace" }, wantErr: "logging.level"},
		{name: "bad format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "logging.format"},
		{name: "uppercase level", mutate: func(c *Config) { c.Logging.Level = "DEBUG" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
