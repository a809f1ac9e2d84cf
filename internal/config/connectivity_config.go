package config

import "time"

// ConnectivityConfig defines configuration for the connectivity monitor.
type ConnectivityConfig struct {
	// Path probed against the API base URL to confirm reachability.
	ProbePath         string `json:"probe_path,omitempty" yaml:"probe_path,omitempty"`
	ProbeIntervalSecs int    `json:"probe_interval_secs,omitempty" yaml:"probe_interval_secs,omitempty" validate:"omitempty,min=1,max=3600"`
	ProbeTimeoutSecs  int    `json:"probe_timeout_secs,omitempty" yaml:"probe_timeout_secs,omitempty" validate:"omitempty,min=1,max=60"`
	// Interval for the cheap local network-interface reading. No network I/O.
	InterfacePollSecs int  `json:"interface_poll_secs,omitempty" yaml:"interface_poll_secs,omitempty" validate:"omitempty,min=1,max=600"`
	DisableInterface  bool `json:"disable_interface_signal" yaml:"disable_interface_signal"`
}

// ProbeInterval returns the active probe interval as a duration.
func (c ConnectivityConfig) ProbeInterval() time.Duration {
	if c.ProbeIntervalSecs <= 0 {
		return DefaultProbeIntervalSecs * time.Second
	}
	return time.Duration(c.ProbeIntervalSecs) * time.Second
}

// ProbeTimeout returns the per-probe timeout as a duration.
func (c ConnectivityConfig) ProbeTimeout() time.Duration {
	if c.ProbeTimeoutSecs <= 0 {
		return DefaultProbeTimeoutSecs * time.Second
	}
	return time.Duration(c.ProbeTimeoutSecs) * time.Second
}

// InterfacePoll returns the interface reading interval as a duration.
func (c ConnectivityConfig) InterfacePoll() time.Duration {
	if c.InterfacePollSecs <= 0 {
		return DefaultInterfacePollSecs * time.Second
	}
	return time.Duration(c.InterfacePollSecs) * time.Second
}

// NewDefaultConnectivityConfig creates default connectivity configuration.
func NewDefaultConnectivityConfig() ConnectivityConfig {
	return ConnectivityConfig{
		ProbePath:         DefaultConnectivityProbePath,
		ProbeIntervalSecs: DefaultProbeIntervalSecs,
		ProbeTimeoutSecs:  DefaultProbeTimeoutSecs,
		InterfacePollSecs: DefaultInterfacePollSecs,
	}
}
