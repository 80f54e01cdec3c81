// Package observability exposes the feed counters and latencies as Prometheus collectors.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is safe to use as a nil pointer, which disables collection.
type Metrics struct {
	pagesFetched    *prometheus.CounterVec
	messagesDropped prometheus.Counter
	messagesJoined  prometheus.Counter
	enrichLatency   prometheus.Histogram
	refreshes       *prometheus.CounterVec
	eventsLost      prometheus.Counter
	workerRestarts  *prometheus.CounterVec
	queueLength     *prometheus.GaugeVec
}

// NewMetrics registers every collector on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		pagesFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chat_feed",
			Name:      "pages_fetched_total",
			Help:      "Feed pages served, by scope kind.",
		}, []string{"scope"}),
		messagesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chat_feed",
			Name:      "messages_dropped_total",
			Help:      "Messages left out of a page because their author could not be resolved.",
		}),
		messagesJoined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chat_feed",
			Name:      "messages_enriched_total",
			Help:      "Messages joined with author, reactions and thread summary.",
		}),
		enrichLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "chat_feed",
			Name:      "page_enrichment_seconds",
			Help:      "Time spent enriching one page.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chat_feed",
			Name:      "live_refreshes_total",
			Help:      "Live feed refreshes triggered by change events, by outcome.",
		}, []string{"outcome"}),
		eventsLost: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chat_feed",
			Name:      "change_events_lost_total",
			Help:      "Change events dropped because the refresh queue was full.",
		}),
		workerRestarts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chat_feed",
			Name:      "worker_restarts_total",
			Help:      "Workers restarted by the supervisor after a crash.",
		}, []string{"worker"}),
		queueLength: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "chat_feed",
			Name:      "queue_length",
			Help:      "Sampled number of buffered items in an internal queue.",
		}, []string{"queue"}),
	}
	reg.MustRegister(m.pagesFetched, m.messagesDropped, m.messagesJoined, m.enrichLatency,
		m.refreshes, m.eventsLost, m.workerRestarts, m.queueLength)
	return m
}

func (m *Metrics) PageFetched(scope string) {
	if m == nil {
		return
	}
	m.pagesFetched.WithLabelValues(scope).Inc()
}

func (m *Metrics) MessageDropped() {
	if m == nil {
		return
	}
	m.messagesDropped.Inc()
}

func (m *Metrics) MessageEnriched() {
	if m == nil {
		return
	}
	m.messagesJoined.Inc()
}

func (m *Metrics) ObserveEnrichment(since time.Time) {
	if m == nil {
		return
	}
	m.enrichLatency.Observe(time.Since(since).Seconds())
}

func (m *Metrics) Refreshed(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.refreshes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) EventLost() {
	if m == nil {
		return
	}
	m.eventsLost.Inc()
}

func (m *Metrics) WorkerRestarted(name string) {
	if m == nil {
		return
	}
	m.workerRestarts.WithLabelValues(name).Inc()
}

func (m *Metrics) QueueLength(name string, length int) {
	if m == nil {
		return
	}
	m.queueLength.WithLabelValues(name).Set(float64(length))
}
