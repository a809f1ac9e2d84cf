package console

import (
	"context"
	"net/url"

	"github.com/promptdeck/deckhand/internal/client"
)

// PromptService manages prompt records.
type PromptService struct {
	client *client.Client
}

// List fetches every prompt record.
func (s *PromptService) List(ctx context.Context) ([]Prompt, error) {
	resp, err := s.client.Get(ctx, "/prompts")
	if err != nil {
		return nil, err
	}
	var prompts []Prompt
	if err := resp.JSON(&prompts); err != nil {
		return nil, err
	}
	return prompts, nil
}

// Get fetches one prompt by ID.
func (s *PromptService) Get(ctx context.Context, id string) (*Prompt, error) {
	resp, err := s.client.Get(ctx, "/prompts/"+url.PathEscape(id),
		client.WithEndpointKey("GET /prompts/{id}"))
	if err != nil {
		return nil, err
	}
	var prompt Prompt
	if err := resp.JSON(&prompt); err != nil {
		return nil, err
	}
	return &prompt, nil
}

// Create stores a new prompt.
func (s *PromptService) Create(ctx context.Context, input PromptInput) (*Prompt, error) {
	resp, err := s.client.Post(ctx, "/prompts", input)
	if err != nil {
		return nil, err
	}
	var prompt Prompt
	if err := resp.JSON(&prompt); err != nil {
		return nil, err
	}
	return &prompt, nil
}

// Update replaces an existing prompt.
func (s *PromptService) Update(ctx context.Context, id string, input PromptInput) (*Prompt, error) {
	resp, err := s.client.Put(ctx, "/prompts/"+url.PathEscape(id), input,
		client.WithEndpointKey("PUT /prompts/{id}"))
	if err != nil {
		return nil, err
	}
	var prompt Prompt
	if err := resp.JSON(&prompt); err != nil {
		return nil, err
	}
	return &prompt, nil
}

// Delete removes a prompt.
func (s *PromptService) Delete(ctx context.Context, id string) error {
	_, err := s.client.Delete(ctx, "/prompts/"+url.PathEscape(id),
		client.WithEndpointKey("DELETE /prompts/{id}"))
	return err
}
