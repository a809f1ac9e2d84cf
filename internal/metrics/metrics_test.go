package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegisterOnInjectedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRequest("GET", "success", 120*time.Millisecond)
	m.IncRetry()
	m.IncRenewal("success")
	m.IncRateLimitBlock()
	m.SetOnline(true)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}

	assert.True(t, names["deckhand_request_duration_seconds"])
	assert.True(t, names["deckhand_requests_total"])
	assert.True(t, names["deckhand_retries_total"])
	assert.True(t, names["deckhand_session_renewals_total"])
	assert.True(t, names["deckhand_rate_limit_blocks_total"])
	assert.True(t, names["deckhand_connectivity_flips_total"])
	assert.True(t, names["deckhand_online"])
}

func TestOnlineGaugeTracksReading(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.SetOnline(true)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.online))

	m.SetOnline(false)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.online))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.connectivityFlips))
}

func TestNopIsolated(t *testing.T) {
	// Two Nop sinks must not collide on registration.
	first := Nop()
	second := Nop()

	first.IncRetry()
	second.IncRetry()
	assert.Equal(t, float64(1), testutil.ToFloat64(first.retriesTotal))
}
