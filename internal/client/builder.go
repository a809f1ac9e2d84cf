package client

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/promptdeck/deckhand/internal/apierr"
	"github.com/promptdeck/deckhand/internal/config"
	"github.com/promptdeck/deckhand/internal/metrics"
	"github.com/promptdeck/deckhand/internal/notifier"
	"github.com/promptdeck/deckhand/internal/ratelimit"
	"github.com/promptdeck/deckhand/internal/retry"
	"github.com/promptdeck/deckhand/internal/session"
)

// Builder wires a Client together with a fluent interface. Collaborators
// left unset fall back to inert defaults so tests can construct minimal
// pipelines.
type Builder struct {
	cfg          config.ClientConfig
	rlCfg        config.RateLimitConfig
	retryCfg     config.RetryConfig
	logger       zerolog.Logger
	tracker      *ratelimit.Tracker
	connectivity Connectivity
	sessions     session.Store
	renewer      session.Renewer
	notify       notifier.Notifier
	metrics      *metrics.Metrics
}

// NewBuilder creates a builder with default configuration.
func NewBuilder(logger zerolog.Logger) *Builder {
	return &Builder{
		cfg:      config.NewDefaultClientConfig(),
		rlCfg:    config.NewDefaultRateLimitConfig(),
		retryCfg: config.NewDefaultRetryConfig(),
		logger:   logger,
	}
}

// WithClientConfig sets the transport configuration.
func (b *Builder) WithClientConfig(cfg config.ClientConfig) *Builder {
	b.cfg = cfg
	return b
}

// WithRateLimitConfig sets the cooldown configuration.
func (b *Builder) WithRateLimitConfig(cfg config.RateLimitConfig) *Builder {
	b.rlCfg = cfg
	return b
}

// WithRetryConfig sets the default retry policy configuration.
func (b *Builder) WithRetryConfig(cfg config.RetryConfig) *Builder {
	b.retryCfg = cfg
	return b
}

// WithTracker sets the rate-limit tracker.
func (b *Builder) WithTracker(tracker *ratelimit.Tracker) *Builder {
	b.tracker = tracker
	return b
}

// WithConnectivity sets the connectivity reader.
func (b *Builder) WithConnectivity(conn Connectivity) *Builder {
	b.connectivity = conn
	return b
}

// WithSessionStore sets the credential store.
func (b *Builder) WithSessionStore(store session.Store) *Builder {
	b.sessions = store
	return b
}

// WithRenewer sets the session renewal operation.
func (b *Builder) WithRenewer(renewer session.Renewer) *Builder {
	b.renewer = renewer
	return b
}

// WithNotifier sets the user-facing notification sink.
func (b *Builder) WithNotifier(n notifier.Notifier) *Builder {
	b.notify = n
	return b
}

// WithMetrics sets the diagnostic metrics sink.
func (b *Builder) WithMetrics(m *metrics.Metrics) *Builder {
	b.metrics = m
	return b
}

// Build creates the client.
func (b *Builder) Build() (*Client, error) {
	httpClient, err := newHTTPClient(b.cfg, b.logger)
	if err != nil {
		return nil, err
	}

	if b.tracker == nil {
		b.tracker = ratelimit.NewTracker(b.logger)
	}
	if b.connectivity == nil {
		b.connectivity = alwaysOnline{}
	}
	if b.sessions == nil {
		b.sessions = session.NewMemoryStore()
	}
	if b.notify == nil {
		b.notify = notifier.NewNop()
	}
	if b.metrics == nil {
		b.metrics = metrics.Nop()
	}

	c := &Client{
		httpClient:    httpClient,
		cfg:           b.cfg,
		rlCfg:         b.rlCfg,
		logger:        b.logger.With().Str("component", "TransportPipeline").Logger(),
		tracker:       b.tracker,
		defaultPolicy: policyFromConfig(b.retryCfg),
		connectivity:  b.connectivity,
		sessions:      b.sessions,
		renewer:       b.renewer,
		notifier:      b.notify,
		metrics:       b.metrics,
	}
	c.executor = retry.NewExecutor(c.classify, b.logger)
	return c, nil
}

// policyFromConfig converts the retry configuration section into an executor
// policy.
func policyFromConfig(cfg config.RetryConfig) retry.Policy {
	policy := retry.DefaultPolicy()
	if cfg.MaxRetries >= 0 {
		policy.MaxRetries = cfg.MaxRetries
	}
	if cfg.BaseDelayMs > 0 {
		policy.BaseDelay = time.Duration(cfg.BaseDelayMs) * time.Millisecond
	}
	if cfg.MaxDelaySecs > 0 {
		policy.MaxDelay = time.Duration(cfg.MaxDelaySecs) * time.Second
	}
	if cfg.BackoffFactor >= 1 {
		policy.BackoffFactor = cfg.BackoffFactor
	}
	if len(cfg.RetryableKinds) > 0 {
		kinds := make([]apierr.Kind, 0, len(cfg.RetryableKinds))
		for _, k := range cfg.RetryableKinds {
			kinds = append(kinds, apierr.Kind(k))
		}
		policy.RetryableKinds = retry.Kinds(kinds...)
	}
	return policy
}
