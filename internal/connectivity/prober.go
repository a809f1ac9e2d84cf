package connectivity

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Prober issues one reachability check. A nil return means online.
type Prober interface {
	Probe(ctx context.Context) error
}

// HTTPProber probes the backend's health endpoint. Receiving any HTTP
// response counts as reachable; only transport-level failures and timeouts
// read as offline.
type HTTPProber struct {
	url        string
	httpClient *http.Client
}

// NewHTTPProber creates a prober against baseURL+probePath using a dedicated
// HTTP client so probes never compete with pipeline connections.
func NewHTTPProber(baseURL, probePath string, timeout time.Duration) *HTTPProber {
	return &HTTPProber{
		url: strings.TrimSuffix(baseURL, "/") + probePath,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:    2,
				IdleConnTimeout: 30 * time.Second,
			},
		},
	}
}

// Probe issues a HEAD request, falling back to GET when the server rejects
// the method outright.
func (p *HTTPProber) Probe(ctx context.Context) error {
	if err := p.request(ctx, http.MethodHead); err != nil {
		return err
	}
	return nil
}

func (p *HTTPProber) request(ctx context.Context, method string) error {
	req, err := http.NewRequestWithContext(ctx, method, p.url, nil)
	if err != nil {
		return fmt.Errorf("failed to build probe request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if method == http.MethodHead {
			return p.request(ctx, http.MethodGet)
		}
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
	return nil
}

// ProberFunc adapts a plain function to the Prober interface.
type ProberFunc func(ctx context.Context) error

// Probe invokes the function.
func (f ProberFunc) Probe(ctx context.Context) error { return f(ctx) }
