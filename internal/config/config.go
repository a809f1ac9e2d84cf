// Package config defines the configuration sections for the resilient call
// layer and loads them from YAML or JSON files.
package config

const (
	// Client defaults
	DefaultAPIBaseURL          = "http://localhost:8080/api/v1"
	DefaultRequestTimeoutSecs  = 30
	DefaultUserAgent           = "deckhand/1.0"
	DefaultMaxIdleConns        = 100
	DefaultMaxIdleConnsPerHost = 10
	DefaultEnableHTTP2         = true

	// Retry defaults
	DefaultMaxRetries    = 3
	DefaultBaseDelayMs   = 500
	DefaultMaxDelaySecs  = 30
	DefaultBackoffFactor = 2.0

	// Rate-limit defaults
	DefaultCooldownSecs = 60

	// Connectivity defaults
	DefaultProbeIntervalSecs     = 30
	DefaultProbeTimeoutSecs      = 5
	DefaultInterfacePollSecs     = 5
	DefaultConnectivityProbePath = "/health"

	// Log defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// Metrics defaults
	DefaultMetricsListenAddr = ":9190"
)

// GlobalConfig aggregates every configuration section.
type GlobalConfig struct {
	ClientConfig       ClientConfig       `json:"client_config,omitempty" yaml:"client_config,omitempty"`
	RetryConfig        RetryConfig        `json:"retry_config,omitempty" yaml:"retry_config,omitempty"`
	RateLimitConfig    RateLimitConfig    `json:"rate_limit_config,omitempty" yaml:"rate_limit_config,omitempty"`
	ConnectivityConfig ConnectivityConfig `json:"connectivity_config,omitempty" yaml:"connectivity_config,omitempty"`
	SessionConfig      SessionConfig      `json:"session_config,omitempty" yaml:"session_config,omitempty"`
	NotificationConfig NotificationConfig `json:"notification_config,omitempty" yaml:"notification_config,omitempty"`
	MetricsConfig      MetricsConfig      `json:"metrics_config,omitempty" yaml:"metrics_config,omitempty"`
	LogConfig          LogConfig          `json:"log_config,omitempty" yaml:"log_config,omitempty"`
}

// NewDefaultGlobalConfig creates a configuration with every section at its
// defaults.
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		ClientConfig:       NewDefaultClientConfig(),
		RetryConfig:        NewDefaultRetryConfig(),
		RateLimitConfig:    NewDefaultRateLimitConfig(),
		ConnectivityConfig: NewDefaultConnectivityConfig(),
		SessionConfig:      NewDefaultSessionConfig(),
		NotificationConfig: NewDefaultNotificationConfig(),
		MetricsConfig:      NewDefaultMetricsConfig(),
		LogConfig:          NewDefaultLogConfig(),
	}
}
