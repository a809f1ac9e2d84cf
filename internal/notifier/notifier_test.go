package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptdeck/deckhand/internal/apierr"
)

func TestSeverityMapping(t *testing.T) {
	assert.Equal(t, SeverityInfo, Severity(apierr.KindAuthentication))
	assert.Equal(t, SeverityInfo, Severity(apierr.KindAuthorization))
	assert.Equal(t, SeverityWarning, Severity(apierr.KindValidation))
	assert.Equal(t, SeverityWarning, Severity(apierr.KindNotFound))
	assert.Equal(t, SeverityError, Severity(apierr.KindNetwork))
	assert.Equal(t, SeverityError, Severity(apierr.KindServer))
	assert.Equal(t, SeverityError, Severity(apierr.KindUnknown))
}

func TestFromError(t *testing.T) {
	ce := apierr.New(apierr.KindRateLimited, "rate limited by server")

	n := FromError(ce)

	assert.Equal(t, SeverityError, n.Severity)
	assert.Equal(t, "Too Many Requests", n.Title)
	assert.Equal(t, "rate limited by server", n.Message)
	assert.False(t, n.AutoHide)
}

func TestFromErrorAutoHidesNonErrors(t *testing.T) {
	n := FromError(apierr.New(apierr.KindAuthentication, "authentication required"))

	assert.Equal(t, SeverityInfo, n.Severity)
	assert.True(t, n.AutoHide)
	assert.Equal(t, 5*time.Second, n.Duration)
}

func TestFromErrorHasTitleForEveryKind(t *testing.T) {
	for _, kind := range apierr.Kinds() {
		n := FromError(apierr.New(kind, "message"))
		assert.NotEmpty(t, n.Title, "kind %s", kind)
	}
}

func TestFromConnectivity(t *testing.T) {
	offline := FromConnectivity(false)
	assert.Equal(t, SeverityWarning, offline.Severity)
	assert.False(t, offline.AutoHide, "offline stays on screen until resolved")

	online := FromConnectivity(true)
	assert.Equal(t, SeverityInfo, online.Severity)
	assert.True(t, online.AutoHide)
}

func TestWebhookNotifierDelivers(t *testing.T) {
	var received atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received.Add(1)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload webhookPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, SeverityWarning, payload.Severity)
		assert.Equal(t, "Not Found", payload.Title)

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	wn, err := NewWebhookNotifier(server.URL, zerolog.Nop(), server.Client())
	require.NoError(t, err)

	wn.Notify(context.Background(), FromError(apierr.New(apierr.KindNotFound, "resource not found")))
	assert.Equal(t, int32(1), received.Load())
}

func TestWebhookNotifierRejectsInvalidURL(t *testing.T) {
	_, err := NewWebhookNotifier("not a url", zerolog.Nop(), nil)
	require.Error(t, err)
}

type countingNotifier struct {
	count atomic.Int32
}

func (c *countingNotifier) Notify(context.Context, Notification) { c.count.Add(1) }

func TestMultiFanOut(t *testing.T) {
	first := &countingNotifier{}
	second := &countingNotifier{}

	m := NewMulti(first, nil, second)
	m.Notify(context.Background(), Notification{Severity: SeverityInfo})

	assert.Equal(t, int32(1), first.count.Load())
	assert.Equal(t, int32(1), second.count.Load())
}
