// Package client is the transport pipeline: the single chokepoint every
// outbound console call passes through. It attaches identity, consults the
// rate-limit tracker, dispatches through the retry executor, and coordinates
// single-flight session renewal on credential expiry. Every error escaping
// this package is a classified *apierr.Error.
package client

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/sync/singleflight"

	"github.com/promptdeck/deckhand/internal/apierr"
	"github.com/promptdeck/deckhand/internal/config"
	"github.com/promptdeck/deckhand/internal/metrics"
	"github.com/promptdeck/deckhand/internal/notifier"
	"github.com/promptdeck/deckhand/internal/ratelimit"
	"github.com/promptdeck/deckhand/internal/retry"
	"github.com/promptdeck/deckhand/internal/session"
)

// Connectivity is the reading the pipeline takes from the connectivity
// monitor, plus the hint channel back into it.
type Connectivity interface {
	Online() bool
	Hint(online bool)
	CheckNow(ctx context.Context) bool
}

// alwaysOnline is the fallback when no monitor is wired.
type alwaysOnline struct{}

func (alwaysOnline) Online() bool                  { return true }
func (alwaysOnline) Hint(bool)                     {}
func (alwaysOnline) CheckNow(context.Context) bool { return true }

// Client dispatches outbound calls against the console backend.
type Client struct {
	httpClient *http.Client
	cfg        config.ClientConfig
	rlCfg      config.RateLimitConfig
	logger     zerolog.Logger

	tracker       *ratelimit.Tracker
	executor      *retry.Executor
	defaultPolicy retry.Policy
	connectivity  Connectivity
	sessions      session.Store
	renewer       session.Renewer
	notifier      notifier.Notifier
	metrics       *metrics.Metrics

	renewGroup singleflight.Group
}

// newHTTPClient builds the underlying net/http client with the configured
// transport.
func newHTTPClient(cfg config.ClientConfig, logger zerolog.Logger) (*http.Client, error) {
	dialTimeout := time.Duration(cfg.DialTimeoutSecs) * time.Second
	if cfg.DialTimeoutSecs <= 0 {
		dialTimeout = 10 * time.Second
	}

	transport := &http.Transport{
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		},
	}

	if cfg.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			logger.Warn().Err(err).Msg("Failed to configure HTTP/2, falling back to HTTP/1.1")
		}
	}

	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("failed to parse proxy URL: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
		logger.Info().Str("proxy", cfg.Proxy).Msg("HTTP client configured with proxy")
	}

	// No client-level timeout: each attempt carries its own deadline via
	// context so per-call overrides (long uploads, short probes) work.
	return &http.Client{Transport: transport}, nil
}

// BaseURL returns the configured API base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return strings.TrimSuffix(c.cfg.BaseURL, "/")
}

// SetRenewer installs the session renewer after construction. Renewers are
// typically API services built on top of the client itself, so they cannot
// exist before Build. Call this during wiring, before issuing requests.
func (c *Client) SetRenewer(r session.Renewer) {
	c.renewer = r
}

// Connectivity returns the wired connectivity reader.
func (c *Client) Connectivity() Connectivity {
	return c.connectivity
}

// CheckConnectivity performs an immediate connectivity probe.
func (c *Client) CheckConnectivity(ctx context.Context) bool {
	return c.connectivity.CheckNow(ctx)
}

// Logout clears the stored session credential and drops every rate-limit
// cooldown; both are session-scoped state.
func (c *Client) Logout(ctx context.Context) error {
	c.tracker.Clear()
	if err := c.sessions.Clear(); err != nil {
		return apierr.Wrap(apierr.KindUnknown, "failed to clear session credential", err)
	}
	c.logger.Info().Msg("Session cleared")
	return nil
}

// classify maps a raw failure to a classified error using the current
// connectivity reading.
func (c *Client) classify(err error) *apierr.Error {
	return apierr.Classify(err, c.connectivity.Online())
}
