// Package metrics exposes the Prometheus instruments of a sync run. Each
// Metrics owns its registry so runs and tests never share counters; the CLI
// writes the registry to a node-exporter textfile at the end of a run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/agentstation/linksync/pkg/errors"
)

const namespace = "linksync"

// Metrics holds the run instruments. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	sourcePairs   *prometheus.GaugeVec
	skippedRows   *prometheus.CounterVec
	candidates    prometheus.Gauge
	batched       prometheus.Gauge
	writes        *prometheus.CounterVec
	writeDuration prometheus.Histogram
	throttleWait  prometheus.Histogram
	lastRun       prometheus.Gauge
}

// New creates the instruments on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		sourcePairs: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "source_pairs",
			Help:      "Link pairs loaded from each source in the last run",
		}, []string{"source"}),
		skippedRows: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_rows_total",
			Help:      "Rows dropped during normalization",
		}, []string{"source"}),
		candidates: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "candidates",
			Help:      "Catalog links missing from the knowledge base in the last run",
		}),
		batched: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "batched_candidates",
			Help:      "Candidates admitted to the write batch in the last run",
		}),
		writes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "writes_total",
			Help:      "Write-back outcomes by status and terminal stage",
		}, []string{"status", "stage"}),
		writeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "write_duration_seconds",
			Help:      "Time from dispatch to terminal outcome of one write-back",
			Buckets:   prometheus.DefBuckets,
		}),
		throttleWait: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "throttle_wait_seconds",
			Help:      "Time spent waiting for the write throttle",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 2, 4, 8, 16},
		}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
	}
}

// Registry returns the registry backing the instruments.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// SourceLoaded records how many pairs a source produced and how many rows it dropped.
func (m *Metrics) SourceLoaded(source string, pairs, skipped int) {
	if m == nil {
		return
	}
	m.sourcePairs.WithLabelValues(source).Set(float64(pairs))
	m.skippedRows.WithLabelValues(source).Add(float64(skipped))
}

// Reconciled records the candidate and batch sizes.
func (m *Metrics) Reconciled(candidates, batched int) {
	if m == nil {
		return
	}
	m.candidates.Set(float64(candidates))
	m.batched.Set(float64(batched))
}

// WriteFinished records one write-back outcome.
func (m *Metrics) WriteFinished(status, stage string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.writes.WithLabelValues(status, stage).Inc()
	m.writeDuration.Observe(elapsed.Seconds())
}

// ThrottleWaited records time spent blocked on the throttle.
func (m *Metrics) ThrottleWaited(d time.Duration) {
	if m == nil {
		return
	}
	m.throttleWait.Observe(d.Seconds())
}

// RunFinished stamps the end of a run.
func (m *Metrics) RunFinished(at time.Time) {
	if m == nil {
		return
	}
	m.lastRun.Set(float64(at.Unix()))
}

// WriteToTextfile writes the registry in the text exposition format,
// atomically replacing path.
func (m *Metrics) WriteToTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
