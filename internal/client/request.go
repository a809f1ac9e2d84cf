package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/promptdeck/deckhand/internal/retry"
)

// requestOptions is the per-call configuration assembled from Option values.
type requestOptions struct {
	skipRetry   bool
	skipNotify  bool
	policy      retry.Policy
	timeout     time.Duration
	headers     map[string]string
	query       url.Values
	endpointKey string
	contentType string
	onProgress  func(written int64)
	noRenewal   bool
}

// Option customizes one call through the pipeline.
type Option func(*requestOptions)

// WithSkipRetry bypasses the retry executor: the call gets exactly one
// physical attempt.
func WithSkipRetry() Option {
	return func(o *requestOptions) { o.skipRetry = true }
}

// WithRetries opts back into the retry executor for calls that default to a
// single attempt, such as uploads. Request bodies are held as replayable
// bytes, so a re-sent attempt transmits the full payload again.
func WithRetries() Option {
	return func(o *requestOptions) { o.skipRetry = false }
}

// WithSkipNotify suppresses the user-facing notification for a surfaced
// failure. The classified error still reaches the caller.
func WithSkipNotify() Option {
	return func(o *requestOptions) { o.skipNotify = true }
}

// WithRetryPolicy overrides the default retry policy for this call.
func WithRetryPolicy(policy retry.Policy) Option {
	return func(o *requestOptions) {
		o.policy = policy
	}
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *requestOptions) { o.timeout = d }
}

// WithHeader adds a request header.
func WithHeader(key, value string) Option {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers[key] = value
	}
}

// WithQuery adds a query parameter.
func WithQuery(key, value string) Option {
	return func(o *requestOptions) {
		if o.query == nil {
			o.query = url.Values{}
		}
		o.query.Add(key, value)
	}
}

// WithEndpointKey overrides the rate-limit endpoint key. Callers use it to
// collapse templated paths ("GET /prompts/{id}") into one cooldown bucket.
func WithEndpointKey(key string) Option {
	return func(o *requestOptions) { o.endpointKey = key }
}

// WithNoRenewal disables the 401 renewal recovery for this call. The auth
// endpoints themselves use it: a 401 from the renewal call must never start
// another renewal.
func WithNoRenewal() Option {
	return func(o *requestOptions) { o.noRenewal = true }
}

// WithProgress reports upload progress as the request body is written.
func WithProgress(fn func(written int64)) Option {
	return func(o *requestOptions) { o.onProgress = fn }
}

// encodeBody turns a request body into replayable bytes. Retries re-read the
// same slice through a fresh bytes.Reader per attempt.
func encodeBody(body any) ([]byte, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return v, "application/json", nil
	case string:
		return []byte(v), "application/json", nil
	case io.Reader:
		data, err := io.ReadAll(v)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read request body: %w", err)
		}
		return data, "application/octet-stream", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode request body: %w", err)
		}
		return data, "application/json", nil
	}
}

// progressReader wraps a body reader and reports cumulative bytes written.
type progressReader struct {
	r       *bytes.Reader
	written int64
	report  func(written int64)
}

func newProgressReader(data []byte, report func(int64)) *progressReader {
	return &progressReader{r: bytes.NewReader(data), report: report}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.written += int64(n)
		p.report(p.written)
	}
	return n, err
}
