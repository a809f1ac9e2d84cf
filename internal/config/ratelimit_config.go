package config

import "time"

// RateLimitConfig defines configuration for per-endpoint cooldown tracking.
type RateLimitConfig struct {
	// Cooldown applied when a 429 response carries no usable Retry-After.
	DefaultCooldownSecs int `json:"default_cooldown_secs,omitempty" yaml:"default_cooldown_secs,omitempty" validate:"omitempty,min=1,max=3600"`
	// Upper bound on any cooldown, including server-provided ones.
	MaxCooldownSecs int `json:"max_cooldown_secs,omitempty" yaml:"max_cooldown_secs,omitempty" validate:"omitempty,min=1,max=86400"`
}

// DefaultCooldown returns the fallback cooldown window as a duration.
func (c RateLimitConfig) DefaultCooldown() time.Duration {
	if c.DefaultCooldownSecs <= 0 {
		return DefaultCooldownSecs * time.Second
	}
	return time.Duration(c.DefaultCooldownSecs) * time.Second
}

// MaxCooldown returns the cooldown ceiling as a duration.
func (c RateLimitConfig) MaxCooldown() time.Duration {
	if c.MaxCooldownSecs <= 0 {
		return time.Hour
	}
	return time.Duration(c.MaxCooldownSecs) * time.Second
}

// NewDefaultRateLimitConfig creates default rate-limit configuration.
func NewDefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		DefaultCooldownSecs: DefaultCooldownSecs,
		MaxCooldownSecs:     3600,
	}
}
