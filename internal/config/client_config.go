package config

import "time"

// ClientConfig defines configuration for the transport pipeline's underlying
// HTTP client.
type ClientConfig struct {
	BaseURL             string            `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`
	TimeoutSecs         int               `json:"timeout_secs,omitempty" yaml:"timeout_secs,omitempty" validate:"omitempty,min=1,max=600"`
	UserAgent           string            `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	CustomHeaders       map[string]string `json:"custom_headers,omitempty" yaml:"custom_headers,omitempty"`
	Proxy               string            `json:"proxy,omitempty" yaml:"proxy,omitempty" validate:"omitempty,url"`
	InsecureSkipVerify  bool              `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
	EnableHTTP2         bool              `json:"enable_http2" yaml:"enable_http2"`
	MaxIdleConns        int               `json:"max_idle_conns,omitempty" yaml:"max_idle_conns,omitempty" validate:"omitempty,min=1"`
	MaxIdleConnsPerHost int               `json:"max_idle_conns_per_host,omitempty" yaml:"max_idle_conns_per_host,omitempty" validate:"omitempty,min=1"`
	MaxConnsPerHost     int               `json:"max_conns_per_host,omitempty" yaml:"max_conns_per_host,omitempty" validate:"omitempty,min=0"`
	DialTimeoutSecs     int               `json:"dial_timeout_secs,omitempty" yaml:"dial_timeout_secs,omitempty" validate:"omitempty,min=1"`
}

// Timeout returns the per-request timeout as a duration.
func (c ClientConfig) Timeout() time.Duration {
	if c.TimeoutSecs <= 0 {
		return DefaultRequestTimeoutSecs * time.Second
	}
	return time.Duration(c.TimeoutSecs) * time.Second
}

// NewDefaultClientConfig creates default client configuration.
func NewDefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:             DefaultAPIBaseURL,
		TimeoutSecs:         DefaultRequestTimeoutSecs,
		UserAgent:           DefaultUserAgent,
		EnableHTTP2:         DefaultEnableHTTP2,
		MaxIdleConns:        DefaultMaxIdleConns,
		MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
		DialTimeoutSecs:     10,
	}
}
