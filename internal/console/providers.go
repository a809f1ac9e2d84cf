package console

import (
	"context"
	"net/url"

	"github.com/promptdeck/deckhand/internal/client"
)

// ProviderService manages LLM provider configurations.
type ProviderService struct {
	client *client.Client
}

// List fetches every configured provider.
func (s *ProviderService) List(ctx context.Context) ([]Provider, error) {
	resp, err := s.client.Get(ctx, "/providers")
	if err != nil {
		return nil, err
	}
	var providers []Provider
	if err := resp.JSON(&providers); err != nil {
		return nil, err
	}
	return providers, nil
}

// Test asks the backend to verify a provider's upstream connectivity. The
// test itself may be slow, so it opts out of retries.
func (s *ProviderService) Test(ctx context.Context, id string) (*ProviderTestResult, error) {
	resp, err := s.client.Post(ctx, "/providers/"+url.PathEscape(id)+"/test", nil,
		client.WithEndpointKey("POST /providers/{id}/test"),
		client.WithSkipRetry())
	if err != nil {
		return nil, err
	}
	var result ProviderTestResult
	if err := resp.JSON(&result); err != nil {
		return nil, err
	}
	return &result, nil
}
