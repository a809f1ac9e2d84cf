package console

import "time"

// Prompt is one managed prompt record.
type Prompt struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Body       string    `json:"body"`
	ProviderID string    `json:"provider_id,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

// PromptInput is the create/update payload for a prompt.
type PromptInput struct {
	Name       string   `json:"name"`
	Body       string   `json:"body"`
	ProviderID string   `json:"provider_id,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// Provider is one configured LLM provider.
type Provider struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Model   string `json:"model,omitempty"`
	Enabled bool   `json:"enabled"`
}

// ProviderTestResult is the outcome of a provider connectivity test.
type ProviderTestResult struct {
	OK        bool   `json:"ok"`
	Message   string `json:"message,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

// ExportJob is a started bulk export.
type ExportJob struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// ImportResult summarizes an archive import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}
