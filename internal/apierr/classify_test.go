package apierr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyStatusCodes(t *testing.T) {
	testCases := []struct {
		name          string
		status        int
		wantKind      Kind
		wantRetryable bool
	}{
		{name: "401 is authentication", status: 401, wantKind: KindAuthentication, wantRetryable: false},
		{name: "403 is authorization", status: 403, wantKind: KindAuthorization, wantRetryable: false},
		{name: "404 is not found", status: 404, wantKind: KindNotFound, wantRetryable: false},
		{name: "408 is timeout", status: 408, wantKind: KindTimeout, wantRetryable: true},
		{name: "422 is validation", status: 422, wantKind: KindValidation, wantRetryable: false},
		{name: "429 is rate limited", status: 429, wantKind: KindRateLimited, wantRetryable: true},
		{name: "500 is server", status: 500, wantKind: KindServer, wantRetryable: true},
		{name: "503 is server", status: 503, wantKind: KindServer, wantRetryable: true},
		{name: "599 is server", status: 599, wantKind: KindServer, wantRetryable: true},
		{name: "400 falls back to unknown", status: 400, wantKind: KindUnknown, wantRetryable: false},
		{name: "418 falls back to unknown", status: 418, wantKind: KindUnknown, wantRetryable: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			raw := FromResponse(tc.status, []byte("body"), "https://api.example.com/prompts")
			ce := Classify(raw, true)

			require.NotNil(t, ce)
			assert.Equal(t, tc.wantKind, ce.Kind)
			assert.Equal(t, tc.wantRetryable, ce.Retryable)
			assert.Equal(t, tc.status, ce.StatusCode)
			assert.Equal(t, "https://api.example.com/prompts", ce.URL)
		})
	}
}

func TestClassifyTotalOverStatusRange(t *testing.T) {
	// Every status in 400..599 must map to exactly one kind.
	for status := 400; status <= 599; status++ {
		ce := Classify(FromResponse(status, nil, "https://api.example.com"), true)
		require.NotNil(t, ce, "status %d", status)
		assert.Contains(t, Kinds(), ce.Kind, "status %d", status)
	}
}

func TestClassifyTimeoutSignals(t *testing.T) {
	testCases := []struct {
		name string
		err  error
	}{
		{name: "context deadline", err: context.DeadlineExceeded},
		{name: "wrapped deadline", err: fmt.Errorf("call failed: %w", context.DeadlineExceeded)},
		{name: "context canceled abort", err: context.Canceled},
		{name: "net timeout", err: &timeoutErr{}},
		{name: "url error wrapping timeout", err: &url.Error{Op: "Get", URL: "https://x", Err: &timeoutErr{}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ce := Classify(tc.err, true)
			require.NotNil(t, ce)
			assert.Equal(t, KindTimeout, ce.Kind)
			assert.True(t, ce.Retryable)
		})
	}
}

func TestClassifyTransportFailureDependsOnConnectivity(t *testing.T) {
	raw := &url.Error{Op: "Post", URL: "https://api.example.com", Err: errors.New("connection refused")}

	online := Classify(raw, true)
	assert.Equal(t, KindNetwork, online.Kind)
	assert.True(t, online.Retryable)

	offline := Classify(raw, false)
	assert.Equal(t, KindOffline, offline.Kind)
	assert.True(t, offline.Retryable)
}

func TestClassifySyscallErrors(t *testing.T) {
	for _, errno := range []error{syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.EPIPE} {
		ce := Classify(&net.OpError{Op: "dial", Err: errno}, true)
		assert.Equal(t, KindNetwork, ce.Kind, "errno %v", errno)
	}
}

func TestClassifyGenericErrorIsUnknown(t *testing.T) {
	ce := Classify(errors.New("something odd happened"), true)

	require.NotNil(t, ce)
	assert.Equal(t, KindUnknown, ce.Kind)
	assert.False(t, ce.Retryable)
	assert.Equal(t, "something odd happened", ce.Details)
}

func TestClassifyPassesThroughClassifiedErrors(t *testing.T) {
	original := New(KindRateLimited, "cooldown active")
	again := Classify(original, false)

	assert.Same(t, original, again)
}

func TestClassifyNil(t *testing.T) {
	assert.Nil(t, Classify(nil, true))
}

func TestErrorUnwrapAndKindCheck(t *testing.T) {
	cause := errors.New("boom")
	ce := Wrap(KindServer, "server error", cause)
	wrapped := fmt.Errorf("request failed: %w", ce)

	assert.True(t, errors.Is(wrapped, cause))
	assert.True(t, IsKind(wrapped, KindServer))
	assert.False(t, IsKind(wrapped, KindTimeout))

	got, ok := From(wrapped)
	require.True(t, ok)
	assert.Same(t, ce, got)
}

func TestWithRequestDoesNotMutateOriginal(t *testing.T) {
	ce := New(KindServer, "server error")
	annotated := ce.WithRequest("req-123", "https://api.example.com/providers")

	assert.Empty(t, ce.RequestID)
	assert.Equal(t, "req-123", annotated.RequestID)
	assert.Equal(t, "https://api.example.com/providers", annotated.URL)
	assert.Equal(t, ce.Kind, annotated.Kind)
}

func TestFromResponseTruncatesBody(t *testing.T) {
	big := make([]byte, 4096)
	for i := range big {
		big[i] = 'x'
	}
	se := FromResponse(500, big, "https://api.example.com")
	assert.Len(t, se.Body, maxBodyExcerpt)
}

func TestErrorTimestampSet(t *testing.T) {
	before := time.Now()
	ce := New(KindNetwork, "network request failed")
	assert.False(t, ce.Timestamp.Before(before))
}

// timeoutErr implements net.Error with Timeout() == true.
type timeoutErr struct{}

func (*timeoutErr) Error() string   { return "i/o timeout" }
func (*timeoutErr) Timeout() bool   { return true }
func (*timeoutErr) Temporary() bool { return true }
