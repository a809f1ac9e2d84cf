package config

// SessionConfig defines configuration for session credential storage and
// renewal.
type SessionConfig struct {
	// Store backend: "keyring" persists in the OS keychain, "memory" does not
	// survive the process.
	Store string `json:"store,omitempty" yaml:"store,omitempty" validate:"omitempty,oneof=keyring memory"`
	// Keychain service name; defaults to "deckhand".
	KeyringService string `json:"keyring_service,omitempty" yaml:"keyring_service,omitempty"`
	// Path posted to with the refresh token on credential expiry.
	RenewPath string `json:"renew_path,omitempty" yaml:"renew_path,omitempty"`
}

// NewDefaultSessionConfig creates default session configuration.
func NewDefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Store:          "keyring",
		KeyringService: "deckhand",
		RenewPath:      "/auth/renew",
	}
}
