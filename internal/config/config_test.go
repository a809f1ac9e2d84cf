package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultGlobalConfig(t *testing.T) {
	cfg := NewDefaultGlobalConfig()

	assert.Equal(t, DefaultAPIBaseURL, cfg.ClientConfig.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.ClientConfig.Timeout())
	assert.Equal(t, 3, cfg.RetryConfig.MaxRetries)
	assert.Equal(t, 60*time.Second, cfg.RateLimitConfig.DefaultCooldown())
	assert.Equal(t, 30*time.Second, cfg.ConnectivityConfig.ProbeInterval())
	assert.Equal(t, 5*time.Second, cfg.ConnectivityConfig.ProbeTimeout())
	assert.Equal(t, "keyring", cfg.SessionConfig.Store)
	assert.Equal(t, "info", cfg.LogConfig.LogLevel)

	require.NoError(t, ValidateConfig(cfg))
}

func TestLoadGlobalConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
client_config:
  base_url: "https://console.example.com/api/v1"
  timeout_secs: 10
retry_config:
  max_retries: 5
  base_delay_ms: 100
rate_limit_config:
  default_cooldown_secs: 120
log_config:
  log_level: debug
`)
	require.NoError(t, os.WriteFile(path, content, 0644))

	cfg, err := LoadGlobalConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://console.example.com/api/v1", cfg.ClientConfig.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.ClientConfig.Timeout())
	assert.Equal(t, 5, cfg.RetryConfig.MaxRetries)
	assert.Equal(t, 100, cfg.RetryConfig.BaseDelayMs)
	assert.Equal(t, 2*time.Minute, cfg.RateLimitConfig.DefaultCooldown())
	assert.Equal(t, "debug", cfg.LogConfig.LogLevel)

	// Untouched sections keep their defaults.
	assert.Equal(t, DefaultProbeIntervalSecs, cfg.ConnectivityConfig.ProbeIntervalSecs)

	require.NoError(t, ValidateConfig(cfg))
}

func TestLoadGlobalConfigMissingExplicitPath(t *testing.T) {
	_, err := LoadGlobalConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidateConfigRejectsBadValues(t *testing.T) {
	cfg := NewDefaultGlobalConfig()
	cfg.LogConfig.LogLevel = "loud"
	require.Error(t, ValidateConfig(cfg))

	cfg = NewDefaultGlobalConfig()
	cfg.RetryConfig.MaxRetries = 99
	require.Error(t, ValidateConfig(cfg))

	cfg = NewDefaultGlobalConfig()
	cfg.RetryConfig.RetryableKinds = []string{"server", "catastrophic"}
	require.Error(t, ValidateConfig(cfg))

	cfg = NewDefaultGlobalConfig()
	cfg.NotificationConfig.WebhookURL = "not a url"
	require.Error(t, ValidateConfig(cfg))
}
