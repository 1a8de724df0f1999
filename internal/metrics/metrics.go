package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups all Prometheus instruments used across the application.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	Polls           *prometheus.CounterVec
	PollLatency     prometheus.Histogram
	Alerts          *prometheus.CounterVec
	Acknowledgments *prometheus.CounterVec
	QueueItems      prometheus.Gauge
}

// New registers all instruments with the given Prometheus registerer and
// returns the populated Metrics struct.
// Using a custom registry (instead of prometheus.DefaultRegisterer) keeps
// tests isolated and avoids global state.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "callqueue_polls_total",
			Help: "Queue polls by result (loaded, changed, unchanged, stale, failed, skipped).",
		}, []string{"result"}),

		PollLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "callqueue_poll_duration_seconds",
			Help:    "Round-trip time of queue polls, successful or not.",
			Buckets: prometheus.DefBuckets,
		}),

		Alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "callqueue_alerts_total",
			Help: "Alerts by outcome (started, suppressed).",
		}, []string{"outcome"}),

		Acknowledgments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "callqueue_acknowledgements_total",
			Help: "Acknowledge requests by result (ok, failed).",
		}, []string{"result"}),

		QueueItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "callqueue_queue_items",
			Help: "Number of items currently shown to staff.",
		}),
	}

	reg.MustRegister(
		m.Polls,
		m.PollLatency,
		m.Alerts,
		m.Acknowledgments,
		m.QueueItems,
	)

	return m
}

// PollerHooks returns the callbacks expected by worker.Hooks.
// Centralises the prometheus observation calls so the poller stays import-free.
func (m *Metrics) PollerHooks() (
	onPoll func(result string, latency time.Duration),
	onItems func(n int),
) {
	onPoll = func(result string, latency time.Duration) {
		m.Polls.WithLabelValues(result).Inc()
		if latency > 0 {
			m.PollLatency.Observe(latency.Seconds())
		}
	}
	onItems = func(n int) {
		m.QueueItems.Set(float64(n))
	}
	return
}

// AlertHook returns the callback expected by alert.New.
func (m *Metrics) AlertHook() func(started bool) {
	return func(started bool) {
		outcome := "suppressed"
		if started {
			outcome = "started"
		}
		m.Alerts.WithLabelValues(outcome).Inc()
	}
}

// AckHook returns the callback used by the queue service after each acknowledgement.
func (m *Metrics) AckHook() func(err error) {
	return func(err error) {
		result := "ok"
		if err != nil {
			result = "failed"
		}
		m.Acknowledgments.WithLabelValues(result).Inc()
	}
}
