// Package metrics exposes Prometheus metrics for dataset loads, chart builds
// and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"covidash/domain/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "covidash"

// Manager owns every collector on its own registry
type Manager struct {
	registry *prometheus.Registry

	rowsRead     *prometheus.CounterVec
	rowsKept     *prometheus.CounterVec
	rowsDropped  *prometheus.CounterVec
	loadDuration *prometheus.HistogramVec
	loadFailures *prometheus.CounterVec
	datasetRows  *prometheus.GaugeVec

	chartBuilds   *prometheus.CounterVec
	chartDuration *prometheus.HistogramVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a manager with a fresh registry. Go runtime and
// process collectors are included.
func NewManager() *Manager {
	m := &Manager{registry: prometheus.NewRegistry()}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	auto := promauto.With(m.registry)

	m.rowsRead = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ingest",
		Name:      "rows_read_total",
		Help:      "Rows read from dataset sources",
	}, []string{"dataset"})
	m.rowsKept = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ingest",
		Name:      "rows_kept_total",
		Help:      "Rows that passed the row filter",
	}, []string{"dataset"})
	m.rowsDropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ingest",
		Name:      "rows_dropped_total",
		Help:      "Rows removed by the row filter",
	}, []string{"dataset"})
	m.loadDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "ingest",
		Name:      "load_duration_seconds",
		Help:      "Time to read, coerce and filter one dataset",
		Buckets:   prometheus.DefBuckets,
	}, []string{"dataset"})
	m.loadFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ingest",
		Name:      "load_failures_total",
		Help:      "Dataset loads that failed",
	}, []string{"dataset"})
	m.datasetRows = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "ingest",
		Name:      "dataset_rows",
		Help:      "Rows held by the current version of each dataset",
	}, []string{"dataset"})

	m.chartBuilds = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "charts",
		Name:      "builds_total",
		Help:      "Chart requests by chart, cache use and outcome",
	}, []string{"chart", "cached", "outcome"})
	m.chartDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "charts",
		Name:      "build_duration_seconds",
		Help:      "Time to build chart records",
		Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
	}, []string{"chart"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status",
	}, []string{"route", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	return m
}

// Registry exposes the underlying registry, mainly for tests
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordLoad records a successful dataset load
func (m *Manager) RecordLoad(name core.DatasetName, rowsRead, rowsKept, rowsDropped int, duration time.Duration) {
	label := name.String()
	m.rowsRead.WithLabelValues(label).Add(float64(rowsRead))
	m.rowsKept.WithLabelValues(label).Add(float64(rowsKept))
	m.rowsDropped.WithLabelValues(label).Add(float64(rowsDropped))
	m.loadDuration.WithLabelValues(label).Observe(duration.Seconds())
	m.datasetRows.WithLabelValues(label).Set(float64(rowsKept))
}

// RecordLoadFailure records a failed dataset load
func (m *Manager) RecordLoadFailure(name core.DatasetName) {
	m.loadFailures.WithLabelValues(name.String()).Inc()
}

// RecordChart records one chart request
func (m *Manager) RecordChart(chart core.ChartID, cached bool, duration time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.chartBuilds.WithLabelValues(chart.String(), strconv.FormatBool(cached), outcome).Inc()
	if !cached && err == nil {
		m.chartDuration.WithLabelValues(chart.String()).Observe(duration.Seconds())
	}
}

// RecordHTTPRequest records one HTTP request
func (m *Manager) RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}
