package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/promptdeck/deckhand/internal/apierr"
	"github.com/promptdeck/deckhand/internal/notifier"
)

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, opts ...Option) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, opts...)
}

// Post issues a POST request.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...Option) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, body, opts...)
}

// Put issues a PUT request.
func (c *Client) Put(ctx context.Context, path string, body any, opts ...Option) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, body, opts...)
}

// Patch issues a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body any, opts ...Option) (*Response, error) {
	return c.do(ctx, http.MethodPatch, path, body, opts...)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, opts ...Option) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil, opts...)
}

// newOptions assembles the per-call options over the pipeline defaults.
func (c *Client) newOptions(opts []Option) *requestOptions {
	o := &requestOptions{
		policy:  c.defaultPolicy,
		timeout: c.cfg.Timeout(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// do is the single internal dispatcher every verb funnels through.
func (c *Client) do(ctx context.Context, method, path string, body any, opts ...Option) (*Response, error) {
	o := c.newOptions(opts)

	endpointKey := o.endpointKey
	if endpointKey == "" {
		endpointKey = method + " " + path
	}

	requestID := uuid.NewString()
	start := time.Now()
	fullURL := c.buildURL(path, o)

	// Pre-flight: an active cooldown fails fast with zero network I/O.
	if c.tracker.IsBlocked(endpointKey) {
		remaining := c.tracker.Remaining(endpointKey)
		c.metrics.IncRateLimitBlock()
		ce := apierr.New(apierr.KindRateLimited,
			fmt.Sprintf("endpoint on cooldown for another %s", remaining.Round(time.Second)))
		return nil, c.surface(ctx, ce, o, method, requestID, fullURL, start)
	}

	bodyBytes, defaultContentType, err := encodeBody(body)
	if err != nil {
		ce := apierr.Wrap(apierr.KindUnknown, "failed to prepare request body", err)
		return nil, c.surface(ctx, ce, o, method, requestID, fullURL, start)
	}
	if o.contentType == "" {
		o.contentType = defaultContentType
	}

	resp, dispatchErr := c.dispatch(ctx, method, fullURL, bodyBytes, requestID, endpointKey, o)

	if dispatchErr != nil {
		ce := c.classify(dispatchErr)

		// Credential expiry gets one single-flight recovery: renew the
		// session, then re-issue the original request exactly once with the
		// refreshed credential. A second 401 surfaces without another
		// renewal.
		if ce.Kind == apierr.KindAuthentication && c.renewer != nil && !o.noRenewal {
			if renewErr := c.renewSession(ctx); renewErr != nil {
				ce = apierr.Wrap(apierr.KindAuthentication, "session renewal failed", renewErr)
			} else {
				c.logger.Debug().
					Str("request_id", requestID).
					Msg("Session renewed, re-issuing original request")
				retried, retryErr := c.attempt(ctx, method, fullURL, bodyBytes, requestID, endpointKey, o)
				if retryErr == nil {
					resp = retried
					ce = nil
				} else {
					ce = c.classify(retryErr)
				}
			}
		}

		if ce != nil {
			return nil, c.surface(ctx, ce, o, method, requestID, fullURL, start)
		}
	}

	duration := time.Since(start)
	resp.RequestID = requestID
	resp.Duration = duration
	c.metrics.ObserveRequest(method, "success", duration)
	c.logger.Debug().
		Str("method", method).
		Str("url", fullURL).
		Str("request_id", requestID).
		Int("status_code", resp.StatusCode).
		Dur("duration", duration).
		Msg("Request completed")
	return resp, nil
}

// dispatch runs the physical call, through the retry executor unless the
// call opted out.
func (c *Client) dispatch(ctx context.Context, method, fullURL string, bodyBytes []byte, requestID, endpointKey string, o *requestOptions) (*Response, error) {
	if o.skipRetry {
		return c.attempt(ctx, method, fullURL, bodyBytes, requestID, endpointKey, o)
	}

	var resp *Response
	invocations := 0
	err := c.executor.Do(ctx, endpointKey, o.policy, func(ctx context.Context) error {
		invocations++
		if invocations > 1 {
			c.metrics.IncRetry()
		}
		r, attemptErr := c.attempt(ctx, method, fullURL, bodyBytes, requestID, endpointKey, o)
		if attemptErr != nil {
			return attemptErr
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// attempt performs one physical HTTP call. Each invocation builds a fresh
// request with a fresh body reader and its own timeout.
func (c *Client) attempt(ctx context.Context, method, fullURL string, bodyBytes []byte, requestID, endpointKey string, o *requestOptions) (*Response, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	var bodyReader io.Reader
	if bodyBytes != nil {
		if o.onProgress != nil {
			bodyReader = newProgressReader(bodyBytes, o.onProgress)
		} else {
			bodyReader = bytes.NewReader(bodyBytes)
		}
	}

	req, err := http.NewRequestWithContext(attemptCtx, method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.decorate(req, requestID, o)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		// A transport-level failure is a low-latency offline hint; the
		// monitor re-probes before flipping state.
		c.connectivity.Hint(false)
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if httpResp.StatusCode == http.StatusTooManyRequests {
		c.blockEndpoint(endpointKey, httpResp.Header)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, apierr.FromResponse(httpResp.StatusCode, respBody, fullURL)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       respBody,
	}, nil
}

// decorate attaches identity and defaults to an outgoing request. The
// Authorization header is read from the store per attempt so a renewed
// credential is picked up without rebuilding the call.
func (c *Client) decorate(req *http.Request, requestID string, o *requestOptions) {
	for key, value := range c.cfg.CustomHeaders {
		req.Header.Set(key, value)
	}

	req.Header.Set("X-Request-ID", requestID)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if o.contentType != "" && req.Body != nil {
		req.Header.Set("Content-Type", o.contentType)
	}

	if cred, ok := c.sessions.Current(); ok && !cred.Empty() {
		req.Header.Set("Authorization", "Bearer "+cred.AccessToken)
	}

	for key, value := range o.headers {
		req.Header.Set(key, value)
	}
}

// buildURL joins the base URL, path, and query parameters.
func (c *Client) buildURL(path string, o *requestOptions) string {
	fullURL := c.BaseURL() + path
	if len(o.query) > 0 {
		fullURL += "?" + o.query.Encode()
	}
	return fullURL
}

// blockEndpoint records a cooldown after a 429 response, honoring a parseable
// Retry-After and capping at the configured maximum.
func (c *Client) blockEndpoint(endpointKey string, header http.Header) {
	cooldown := c.rlCfg.DefaultCooldown()
	if retryAfter := header.Get("Retry-After"); retryAfter != "" {
		if secs, err := strconv.Atoi(retryAfter); err == nil && secs > 0 {
			cooldown = time.Duration(secs) * time.Second
		} else if at, err := http.ParseTime(retryAfter); err == nil {
			if until := time.Until(at); until > 0 {
				cooldown = until
			}
		}
	}
	if max := c.rlCfg.MaxCooldown(); cooldown > max {
		cooldown = max
	}
	c.tracker.Block(endpointKey, cooldown)
}

// renewSession exchanges the stored refresh token for a fresh credential.
// Concurrent expiries share one in-flight renewal: the singleflight group
// guarantees at most one renewal operation regardless of how many calls
// trigger it, and clears the shared handle once it settles. On failure the
// stored session is cleared so every waiter surfaces an authentication
// failure.
func (c *Client) renewSession(ctx context.Context) error {
	_, err, _ := c.renewGroup.Do("session-renewal", func() (any, error) {
		cred, ok := c.sessions.Current()
		if !ok || cred.RefreshToken == "" {
			return nil, apierr.New(apierr.KindAuthentication, "no refresh credential available")
		}

		fresh, renewErr := c.renewer.Renew(ctx, cred.RefreshToken)
		if renewErr != nil {
			c.metrics.IncRenewal("failure")
			if clearErr := c.sessions.Clear(); clearErr != nil {
				c.logger.Error().Err(clearErr).Msg("Failed to clear session after renewal failure")
			}
			c.logger.Warn().Err(renewErr).Msg("Session renewal failed, session cleared")
			return nil, renewErr
		}

		if replaceErr := c.sessions.Replace(fresh); replaceErr != nil {
			c.metrics.IncRenewal("failure")
			return nil, replaceErr
		}
		c.metrics.IncRenewal("success")
		c.logger.Info().Msg("Session credential renewed")
		return nil, nil
	})
	return err
}

// surface finalizes a failure: annotates it with request identity, records
// metrics, emits at most one user-facing notification, and returns the
// classified error that crosses the pipeline boundary.
func (c *Client) surface(ctx context.Context, ce *apierr.Error, o *requestOptions, method, requestID, fullURL string, start time.Time) *apierr.Error {
	ce = ce.WithRequest(requestID, fullURL)
	c.metrics.ObserveRequest(method, ce.Kind.String(), time.Since(start))

	c.logger.Warn().
		Str("method", method).
		Str("url", fullURL).
		Str("request_id", requestID).
		Str("kind", ce.Kind.String()).
		Int("status_code", ce.StatusCode).
		Msg("Request failed")

	if !o.skipNotify {
		c.notifier.Notify(ctx, notifier.FromError(ce))
	}
	return ce
}
