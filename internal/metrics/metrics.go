// Package metrics records diagnostic observations from the transport pipeline
// and the connectivity monitor. The collector is constructed against an
// injected registry so tests and parallel instances stay isolated.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the set of collectors the resilient call layer records through.
type Metrics struct {
	requestDuration   *prometheus.HistogramVec
	requestsTotal     *prometheus.CounterVec
	retriesTotal      prometheus.Counter
	renewalsTotal     *prometheus.CounterVec
	rateLimitBlocks   prometheus.Counter
	connectivityFlips prometheus.Counter
	online            prometheus.Gauge
}

// New creates and registers the collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "deckhand_request_duration_seconds",
				Help:    "Latency of outbound API requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "outcome"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deckhand_requests_total",
				Help: "Total number of outbound API requests",
			},
			[]string{"method", "outcome"},
		),
		retriesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "deckhand_retries_total",
				Help: "Total number of retry attempts",
			},
		),
		renewalsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deckhand_session_renewals_total",
				Help: "Total number of session renewal operations",
			},
			[]string{"outcome"},
		),
		rateLimitBlocks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "deckhand_rate_limit_blocks_total",
				Help: "Total number of calls failed fast by an active cooldown",
			},
		),
		connectivityFlips: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "deckhand_connectivity_flips_total",
				Help: "Total number of online/offline state transitions",
			},
		),
		online: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "deckhand_online",
				Help: "1 when the connectivity monitor reports online, 0 otherwise",
			},
		),
	}

	reg.MustRegister(
		m.requestDuration,
		m.requestsTotal,
		m.retriesTotal,
		m.renewalsTotal,
		m.rateLimitBlocks,
		m.connectivityFlips,
		m.online,
	)
	return m
}

// Nop returns a metrics sink backed by a throwaway registry.
func Nop() *Metrics {
	return New(prometheus.NewRegistry())
}

// ObserveRequest records one completed request.
func (m *Metrics) ObserveRequest(method, outcome string, duration time.Duration) {
	m.requestDuration.WithLabelValues(method, outcome).Observe(duration.Seconds())
	m.requestsTotal.WithLabelValues(method, outcome).Inc()
}

// IncRetry records one retry attempt.
func (m *Metrics) IncRetry() {
	m.retriesTotal.Inc()
}

// IncRenewal records one session renewal with its outcome ("success" or
// "failure").
func (m *Metrics) IncRenewal(outcome string) {
	m.renewalsTotal.WithLabelValues(outcome).Inc()
}

// IncRateLimitBlock records one call failed fast by an active cooldown.
func (m *Metrics) IncRateLimitBlock() {
	m.rateLimitBlocks.Inc()
}

// SetOnline records the current connectivity reading and counts the flip.
func (m *Metrics) SetOnline(online bool) {
	m.connectivityFlips.Inc()
	if online {
		m.online.Set(1)
	} else {
		m.online.Set(0)
	}
}
