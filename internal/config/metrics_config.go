package config

// MetricsConfig defines configuration for diagnostic metrics.
type MetricsConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	// Address the watch agent serves /metrics on.
	ListenAddr string `json:"listen_addr,omitempty" yaml:"listen_addr,omitempty" validate:"omitempty,hostname_port"`
}

// NewDefaultMetricsConfig creates default metrics configuration.
func NewDefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:    false,
		ListenAddr: DefaultMetricsListenAddr,
	}
}
