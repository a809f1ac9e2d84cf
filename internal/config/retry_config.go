package config

// RetryConfig defines configuration for request retries with exponential
// backoff.
type RetryConfig struct {
	MaxRetries     int      `json:"max_retries,omitempty" yaml:"max_retries,omitempty" validate:"omitempty,min=0,max=10"`
	BaseDelayMs    int      `json:"base_delay_ms,omitempty" yaml:"base_delay_ms,omitempty" validate:"omitempty,min=1,max=60000"`
	MaxDelaySecs   int      `json:"max_delay_secs,omitempty" yaml:"max_delay_secs,omitempty" validate:"omitempty,min=1,max=3600"`
	BackoffFactor  float64  `json:"backoff_factor,omitempty" yaml:"backoff_factor,omitempty" validate:"omitempty,min=1,max=10"`
	RetryableKinds []string `json:"retryable_kinds,omitempty" yaml:"retryable_kinds,omitempty" validate:"omitempty,dive,errorkind"`
}

// NewDefaultRetryConfig creates default retry configuration.
func NewDefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     DefaultMaxRetries,
		BaseDelayMs:    DefaultBaseDelayMs,
		MaxDelaySecs:   DefaultMaxDelaySecs,
		BackoffFactor:  DefaultBackoffFactor,
		RetryableKinds: []string{"network", "timeout", "server", "rateLimited"},
	}
}
