// Package notifier delivers user-facing notifications about surfaced call
// failures. The transport pipeline produces classified errors; a notifier is
// the optional presentation-side observer of them.
package notifier

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/promptdeck/deckhand/internal/apierr"
)

// Severity levels for user-facing notifications.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Notification is one user-visible message.
type Notification struct {
	Severity string        `json:"severity"`
	Title    string        `json:"title"`
	Message  string        `json:"message"`
	AutoHide bool          `json:"auto_hide"`
	Duration time.Duration `json:"duration,omitempty"`
}

// Notifier accepts notifications. Implementations must not block the caller
// beyond ordinary I/O and must never panic on delivery failure.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// titles maps each failure kind to a stable notification title.
var titles = map[apierr.Kind]string{
	apierr.KindNetwork:        "Network Problem",
	apierr.KindAuthentication: "Session Expired",
	apierr.KindAuthorization:  "Access Denied",
	apierr.KindValidation:     "Invalid Request",
	apierr.KindNotFound:       "Not Found",
	apierr.KindServer:         "Server Error",
	apierr.KindTimeout:        "Request Timed Out",
	apierr.KindOffline:        "You Are Offline",
	apierr.KindRateLimited:    "Too Many Requests",
	apierr.KindUnknown:        "Unexpected Error",
}

// Severity maps a failure kind to a notification severity. Authentication and
// authorization failures are expected, actionable conditions, as are
// validation and not-found responses; only genuinely unexpected kinds stay at
// error level.
func Severity(kind apierr.Kind) string {
	switch kind {
	case apierr.KindAuthentication, apierr.KindAuthorization:
		return SeverityInfo
	case apierr.KindValidation, apierr.KindNotFound:
		return SeverityWarning
	default:
		return SeverityError
	}
}

// FromError builds the notification for a surfaced classified error.
func FromError(ce *apierr.Error) Notification {
	title, ok := titles[ce.Kind]
	if !ok {
		title = titles[apierr.KindUnknown]
	}
	severity := Severity(ce.Kind)
	return Notification{
		Severity: severity,
		Title:    title,
		Message:  ce.Message,
		AutoHide: severity != SeverityError,
		Duration: 5 * time.Second,
	}
}

// FromConnectivity builds the notification for a connectivity transition.
// Going offline is a warning that stays on screen; coming back is
// informational and auto-hides.
func FromConnectivity(online bool) Notification {
	if online {
		return Notification{
			Severity: SeverityInfo,
			Title:    "Back Online",
			Message:  "Connection to the backend restored",
			AutoHide: true,
			Duration: 5 * time.Second,
		}
	}
	return Notification{
		Severity: SeverityWarning,
		Title:    "You Are Offline",
		Message:  "Connection to the backend lost",
	}
}

// LogNotifier writes notifications to the structured log. It is the default
// sink for headless runs.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{
		logger: logger.With().Str("component", "Notifier").Logger(),
	}
}

// Notify logs the notification at a level matching its severity.
func (n *LogNotifier) Notify(_ context.Context, notification Notification) {
	event := n.logger.Error()
	switch notification.Severity {
	case SeverityInfo:
		event = n.logger.Info()
	case SeverityWarning:
		event = n.logger.Warn()
	}
	event.
		Str("title", notification.Title).
		Msg(notification.Message)
}

// Multi fans a notification out to several sinks in order.
type Multi struct {
	sinks []Notifier
}

// NewMulti creates a fan-out notifier. Nil sinks are skipped.
func NewMulti(sinks ...Notifier) *Multi {
	kept := make([]Notifier, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &Multi{sinks: kept}
}

// Notify delivers to every sink.
func (m *Multi) Notify(ctx context.Context, n Notification) {
	for _, s := range m.sinks {
		s.Notify(ctx, n)
	}
}

// Nop discards every notification.
type Nop struct{}

// NewNop creates a discarding notifier.
func NewNop() Nop { return Nop{} }

// Notify discards the notification.
func (Nop) Notify(context.Context, Notification) {}
