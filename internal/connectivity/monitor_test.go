package connectivity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptdeck/deckhand/internal/config"
)

// flippableProber reads online or offline depending on its flag.
type flippableProber struct {
	online atomic.Bool
	probes atomic.Int32
}

var errProbeFailed = errors.New("probe failed")

func newFlippableProber(online bool) *flippableProber {
	p := &flippableProber{}
	p.online.Store(online)
	return p
}

func (p *flippableProber) setOnline(online bool) {
	p.online.Store(online)
}

func (p *flippableProber) Probe(context.Context) error {
	p.probes.Add(1)
	if !p.online.Load() {
		return errProbeFailed
	}
	return nil
}

func testMonitorConfig() config.ConnectivityConfig {
	cfg := config.NewDefaultConnectivityConfig()
	cfg.DisableInterface = true
	cfg.ProbeTimeoutSecs = 1
	return cfg
}

func TestCheckNowUpdatesState(t *testing.T) {
	prober := newFlippableProber(false)
	monitor := NewMonitor(testMonitorConfig(), prober, zerolog.Nop(), nil)

	online := monitor.CheckNow(context.Background())
	assert.False(t, online)
	assert.False(t, monitor.Online())
	assert.False(t, monitor.CurrentState().LastOfflineAt.IsZero())

	prober.setOnline(true)
	online = monitor.CheckNow(context.Background())
	assert.True(t, online)
	assert.True(t, monitor.Online())
}

func TestTransitionsAreDebounced(t *testing.T) {
	prober := newFlippableProber(true)
	monitor := NewMonitor(testMonitorConfig(), prober, zerolog.Nop(), nil)
	monitor.Start()
	defer monitor.Stop()

	var transitions atomic.Int32
	unsubscribe := monitor.Subscribe(func(State) {
		transitions.Add(1)
	})
	defer unsubscribe()

	// Repeated identical readings must not notify.
	monitor.CheckNow(context.Background())
	monitor.CheckNow(context.Background())
	assert.Equal(t, int32(0), transitions.Load())

	// One flip produces exactly one notification.
	prober.setOnline(false)
	monitor.CheckNow(context.Background())
	monitor.CheckNow(context.Background())

	require.Eventually(t, func() bool {
		return transitions.Load() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	prober := newFlippableProber(true)
	monitor := NewMonitor(testMonitorConfig(), prober, zerolog.Nop(), nil)
	monitor.Start()
	defer monitor.Stop()

	var notified atomic.Int32
	unsubscribe := monitor.Subscribe(func(State) { notified.Add(1) })
	unsubscribe()
	unsubscribe()

	prober.setOnline(false)
	monitor.CheckNow(context.Background())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), notified.Load())
}

func TestHintTriggersReprobeOnlyOnContradiction(t *testing.T) {
	prober := newFlippableProber(true)
	monitor := NewMonitor(testMonitorConfig(), prober, zerolog.Nop(), nil)
	monitor.CheckNow(context.Background())
	before := prober.probes.Load()

	// Matching hint is a no-op.
	monitor.Hint(true)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, before, prober.probes.Load())

	// Contradicting hint re-probes; the probe still reads online, so state
	// must not flip.
	monitor.Hint(false)
	require.Eventually(t, func() bool {
		return prober.probes.Load() > before
	}, time.Second, 10*time.Millisecond)
	assert.True(t, monitor.Online())
}

func TestRestartAfterStop(t *testing.T) {
	prober := newFlippableProber(true)
	monitor := NewMonitor(testMonitorConfig(), prober, zerolog.Nop(), nil)

	monitor.Start()
	require.True(t, monitor.Online())
	monitor.Stop()

	before := prober.probes.Load()
	prober.setOnline(false)
	monitor.Start()
	defer monitor.Stop()

	assert.Greater(t, prober.probes.Load(), before, "restart must seed with a fresh probe")
	assert.False(t, monitor.Online())
}

// switchableProber answers online until told to stall, then blocks until its
// context is canceled.
type switchableProber struct {
	stall   atomic.Bool
	started chan struct{}
}

func (p *switchableProber) Probe(ctx context.Context) error {
	if !p.stall.Load() {
		return nil
	}
	select {
	case p.started <- struct{}{}:
	default:
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestStopWaitsForHintProbe(t *testing.T) {
	prober := &switchableProber{started: make(chan struct{}, 1)}
	monitor := NewMonitor(testMonitorConfig(), prober, zerolog.Nop(), nil)
	monitor.Start()
	require.True(t, monitor.Online())

	prober.stall.Store(true)
	monitor.Hint(false)
	<-prober.started

	done := make(chan struct{})
	go func() {
		monitor.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop returned control without waiting out the in-flight hint probe")
	}

	// The aborted probe is not a reading; teardown must not flip the state.
	assert.True(t, monitor.Online())

	// Hints after teardown are ignored.
	monitor.Hint(false)
	time.Sleep(20 * time.Millisecond)
	assert.True(t, monitor.Online())
}

func TestHTTPProberReachableServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	prober := NewHTTPProber(server.URL, "/health", time.Second)
	assert.NoError(t, prober.Probe(context.Background()))
}

func TestHTTPProberUnreachableServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	prober := NewHTTPProber(server.URL, "/health", 200*time.Millisecond)
	assert.Error(t, prober.Probe(context.Background()))
}

func TestHTTPProberAnyStatusCountsAsOnline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	prober := NewHTTPProber(server.URL, "/health", time.Second)
	assert.NoError(t, prober.Probe(context.Background()))
}
