package config

// NotificationConfig defines configuration for user-facing failure
// notifications.
type NotificationConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	WebhookURL string `json:"webhook_url,omitempty" yaml:"webhook_url,omitempty" validate:"omitempty,url"`
	// Also log every notification through the structured logger.
	LogNotifications bool `json:"log_notifications" yaml:"log_notifications"`
}

// NewDefaultNotificationConfig creates default notification configuration.
func NewDefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{
		Enabled:          true,
		WebhookURL:       "",
		LogNotifications: true,
	}
}
