// Package connectivity tracks whether the console backend is reachable. It
// combines a periodic active probe with cheap local interface readings and
// in-process hints, and broadcasts state transitions to subscribers.
package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/promptdeck/deckhand/internal/config"
	"github.com/promptdeck/deckhand/internal/metrics"
)

// State is the current connectivity reading.
type State struct {
	Online        bool
	LastOnlineAt  time.Time
	LastOfflineAt time.Time
}

// Monitor owns the connectivity state. It is created with NewMonitor and
// runs between Start and Stop.
type Monitor struct {
	cfg     config.ConnectivityConfig
	prober  Prober
	logger  zerolog.Logger
	metrics *metrics.Metrics

	mu    sync.Mutex
	state State

	subMu       sync.Mutex
	subscribers map[int]func(State)
	nextSubID   int

	events chan State

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	active     bool
	activeMu   sync.Mutex
}

// NewMonitor creates a connectivity monitor. The initial state is optimistic
// (online) until the first reading lands; Start performs one immediately.
func NewMonitor(cfg config.ConnectivityConfig, prober Prober, logger zerolog.Logger, m *metrics.Metrics) *Monitor {
	ctx, cancel := context.WithCancel(context.Background())
	if m == nil {
		m = metrics.Nop()
	}
	return &Monitor{
		cfg:         cfg,
		prober:      prober,
		logger:      logger.With().Str("component", "ConnectivityMonitor").Logger(),
		metrics:     m,
		state:       State{Online: true, LastOnlineAt: time.Now()},
		subscribers: make(map[int]func(State)),
		events:      make(chan State, 16),
		ctx:         ctx,
		cancelFunc:  cancel,
	}
}

// Online returns the current reading.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Online
}

// CurrentState returns a copy of the full connectivity state.
func (m *Monitor) CurrentState() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Start begins the probe and interface loops. Calling Start on an active
// monitor is a no-op; a stopped monitor can be started again.
func (m *Monitor) Start() {
	m.activeMu.Lock()
	if m.active {
		m.activeMu.Unlock()
		m.logger.Warn().Msg("Connectivity monitor already active")
		return
	}
	m.active = true
	// A fresh context per run: Stop cancels permanently, so reusing the
	// construction-time one would spawn loops that exit immediately. The
	// previous context is released so pre-start hint probes wind down.
	m.cancelFunc()
	m.ctx, m.cancelFunc = context.WithCancel(context.Background())
	ctx := m.ctx
	loops := 2
	if !m.cfg.DisableInterface {
		loops++
	}
	m.wg.Add(loops)
	m.activeMu.Unlock()

	m.logger.Info().
		Dur("probe_interval", m.cfg.ProbeInterval()).
		Dur("probe_timeout", m.cfg.ProbeTimeout()).
		Msg("Starting connectivity monitor")

	go m.dispatchLoop(ctx)

	// Seed the state with one immediate probe so callers never act on the
	// optimistic default for long.
	m.CheckNow(ctx)

	go m.probeLoop(ctx)

	if !m.cfg.DisableInterface {
		go m.interfaceLoop(ctx)
	}
}

// Stop tears the monitor down and waits for its loops and any in-flight
// hint probes to exit.
func (m *Monitor) Stop() {
	m.activeMu.Lock()
	if !m.active {
		m.activeMu.Unlock()
		return
	}
	m.active = false
	// Cancel under the lock: Hint checks the context under the same lock
	// before registering a probe goroutine, so no new work can slip in
	// between the cancel and the wait.
	m.cancelFunc()
	m.activeMu.Unlock()

	m.wg.Wait()
	m.logger.Info().Msg("Connectivity monitor stopped")
}

// CheckNow performs an immediate probe outside the periodic schedule, updates
// state, and returns the reading.
func (m *Monitor) CheckNow(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, m.cfg.ProbeTimeout())
	defer cancel()

	err := m.prober.Probe(probeCtx)
	online := err == nil
	if err != nil {
		// A probe aborted by its caller is not a connectivity reading.
		if ctx.Err() != nil {
			return false
		}
		m.logger.Debug().Err(err).Msg("Connectivity probe failed")
	}
	m.setOnline(online, "probe")
	return online
}

// Hint feeds an in-process connectivity observation, typically a transport
// failure seen by the pipeline. A hint that contradicts the current state
// triggers an immediate re-probe rather than flipping the state blindly.
func (m *Monitor) Hint(online bool) {
	if m.Online() == online {
		return
	}
	m.logger.Debug().Bool("hinted_online", online).Msg("Connectivity hint contradicts state, re-probing")

	// Register the probe goroutine under the lifecycle lock so Stop, which
	// cancels under the same lock, waits for it before returning.
	m.activeMu.Lock()
	ctx := m.ctx
	if ctx.Err() != nil {
		m.activeMu.Unlock()
		return
	}
	m.wg.Add(1)
	m.activeMu.Unlock()

	go func() {
		defer m.wg.Done()
		m.CheckNow(ctx)
	}()
}

// Subscribe registers a callback invoked on every state transition. The
// returned function removes the subscription and is idempotent.
func (m *Monitor) Subscribe(fn func(State)) func() {
	m.subMu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn
	m.subMu.Unlock()

	return func() {
		m.subMu.Lock()
		delete(m.subscribers, id)
		m.subMu.Unlock()
	}
}

// setOnline applies a reading. Identical consecutive readings are no-ops;
// only actual transitions update timestamps and notify subscribers.
func (m *Monitor) setOnline(online bool, source string) {
	m.mu.Lock()
	if m.state.Online == online {
		m.mu.Unlock()
		return
	}

	m.state.Online = online
	now := time.Now()
	if online {
		m.state.LastOnlineAt = now
	} else {
		m.state.LastOfflineAt = now
	}
	snapshot := m.state
	m.mu.Unlock()

	m.metrics.SetOnline(online)
	m.logger.Info().
		Bool("online", online).
		Str("source", source).
		Msg("Connectivity state changed")

	select {
	case m.events <- snapshot:
	default:
		m.logger.Warn().Msg("Connectivity event queue full, dropping notification")
	}
}

// dispatchLoop fans transitions out to subscribers in arrival order.
func (m *Monitor) dispatchLoop(ctx context.Context) {
	defer m.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case state := <-m.events:
			m.subMu.Lock()
			fns := make([]func(State), 0, len(m.subscribers))
			for _, fn := range m.subscribers {
				fns = append(fns, fn)
			}
			m.subMu.Unlock()

			for _, fn := range fns {
				fn(state)
			}
		}
	}
}

// probeLoop runs the periodic active probe.
func (m *Monitor) probeLoop(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cfg.ProbeInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CheckNow(ctx)
		}
	}
}

// interfaceLoop polls the local network interfaces as a low-latency offline
// signal. No interface up means offline immediately; interfaces coming back
// up while we believe we are offline triggers a real probe, since a link is
// not proof the backend is reachable.
func (m *Monitor) interfaceLoop(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cfg.InterfacePoll())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			up, err := hasActiveInterface(ctx)
			if err != nil {
				m.logger.Debug().Err(err).Msg("Failed to read network interfaces")
				continue
			}
			if !up {
				m.setOnline(false, "interface")
			} else if !m.Online() {
				m.CheckNow(ctx)
			}
		}
	}
}
