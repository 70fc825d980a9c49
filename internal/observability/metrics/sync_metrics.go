// Package metrics exposes prometheus instruments for sync health signals.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	PassResultSuccess = "success"
	PassResultFailed  = "failed"
)

// SyncMetrics captures sync orchestrator health signals.
type SyncMetrics struct {
	passes         *prometheus.CounterVec
	passDuration   prometheus.Histogram
	rowsSynced     prometheus.Counter
	sourceFailures prometheus.Counter
	fetchRetries   prometheus.Counter
}

var (
	syncMetricsOnce sync.Once
	syncMetrics     *SyncMetrics
)

// Sync returns the singleton sync metrics registry.
func Sync() *SyncMetrics {
	syncMetricsOnce.Do(func() {
		syncMetrics = newSyncMetrics()
	})
	return syncMetrics
}

// ResetSyncMetricsForTest clears the singleton so tests can swap the
// prometheus registry.
func ResetSyncMetricsForTest() {
	syncMetricsOnce = sync.Once{}
	syncMetrics = nil
}

func newSyncMetrics() *SyncMetrics {
	m := &SyncMetrics{
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sheetsync_sync_passes_total",
			Help: "Tenant sync passes by result.",
		}, []string{"result"}),
		passDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sheetsync_sync_pass_duration_seconds",
			Help:    "Duration of tenant sync passes.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		rowsSynced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sheetsync_rows_synced_total",
			Help: "Metric rows upserted by sync passes.",
		}),
		sourceFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sheetsync_source_failures_total",
			Help: "Data source sync attempts that ended FAILED.",
		}),
		fetchRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sheetsync_fetch_retries_total",
			Help: "Spreadsheet fetch attempts retried after a transient failure.",
		}),
	}
	prometheus.DefaultRegisterer.MustRegister(
		m.passes,
		m.passDuration,
		m.rowsSynced,
		m.sourceFailures,
		m.fetchRetries,
	)
	return m
}

func (m *SyncMetrics) IncPass(success bool) {
	result := PassResultFailed
	if success {
		result = PassResultSuccess
	}
	m.passes.WithLabelValues(result).Inc()
}

func (m *SyncMetrics) ObservePassDuration(d time.Duration) {
	m.passDuration.Observe(d.Seconds())
}

func (m *SyncMetrics) AddRowsSynced(n int) {
	if n > 0 {
		m.rowsSynced.Add(float64(n))
	}
}

func (m *SyncMetrics) IncSourceFailure() {
	m.sourceFailures.Inc()
}

func (m *SyncMetrics) IncFetchRetry() {
	m.fetchRetries.Inc()
}
