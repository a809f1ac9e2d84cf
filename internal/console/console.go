// Package console exposes typed wrappers over the transport pipeline for the
// PromptDeck admin API. The wrappers are deliberately thin: CRUD semantics
// live server-side, and everything resilient happens in the pipeline
// underneath.
package console

import (
	"context"

	"github.com/promptdeck/deckhand/internal/client"
)

// Console bundles the API services sharing one pipeline client.
type Console struct {
	Prompts   *PromptService
	Providers *ProviderService
	Exports   *ExportService
	Auth      *AuthService

	client *client.Client
}

// Option adjusts the console surface during construction.
type Option func(*Console)

// WithRenewPath overrides the endpoint posted to on session renewal.
func WithRenewPath(path string) Option {
	return func(c *Console) {
		if path != "" {
			c.Auth.renewPath = path
		}
	}
}

// New creates the console API surface over the given pipeline client.
func New(c *client.Client, opts ...Option) *Console {
	console := &Console{
		Prompts:   &PromptService{client: c},
		Providers: &ProviderService{client: c},
		Exports:   &ExportService{client: c},
		Auth:      &AuthService{client: c, renewPath: "/auth/renew"},
		client:    c,
	}
	for _, opt := range opts {
		opt(console)
	}
	return console
}

// Health checks the API health endpoint.
func (c *Console) Health(ctx context.Context) error {
	_, err := c.client.Get(ctx, "/health", client.WithSkipNotify())
	return err
}

// CheckConnectivity performs an immediate connectivity probe.
func (c *Console) CheckConnectivity(ctx context.Context) bool {
	return c.client.CheckConnectivity(ctx)
}
