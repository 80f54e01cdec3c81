package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	req := require.New(t)
	m := NewMetrics(prometheus.NewRegistry())

	m.PageFetched("channel")
	m.PageFetched("channel")
	m.MessageDropped()
	m.Refreshed(nil)
	m.Refreshed(errors.New("boom"))
	m.ObserveEnrichment(time.Now())
	m.WorkerRestarted("Refresher")
	m.QueueLength("events", 7)

	req.Equal(2.0, testutil.ToFloat64(m.pagesFetched.WithLabelValues("channel")))
	req.Equal(1.0, testutil.ToFloat64(m.messagesDropped))
	req.Equal(1.0, testutil.ToFloat64(m.refreshes.WithLabelValues("error")))
	req.Equal(1.0, testutil.ToFloat64(m.workerRestarts.WithLabelValues("Refresher")))
	req.Equal(7.0, testutil.ToFloat64(m.queueLength.WithLabelValues("events")))
}

func TestMetrics_NilIsDisabled(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.PageFetched("thread")
		m.MessageDropped()
		m.MessageEnriched()
		m.ObserveEnrichment(time.Now())
		m.Refreshed(nil)
		m.EventLost()
		m.WorkerRestarted("Refresher")
		m.QueueLength("events", 1)
	})
}
