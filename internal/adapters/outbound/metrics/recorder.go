// Package metrics exposes analysis results as Prometheus metrics, either
// scraped over HTTP or written as a node_exporter textfile.
package metrics

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riskgate/riskgate/internal/domain"
)

// Recorder implements domain.MetricsRecorder on a private registry, so
// several recorders can coexist in one process.
type Recorder struct {
	registry *prometheus.Registry

	findings       *prometheus.GaugeVec
	findingsByTool *prometheus.GaugeVec
	gateFailed     prometheus.Gauge
	threshold      prometheus.Gauge
	lastRun        prometheus.Gauge
	runs           *prometheus.CounterVec
	loaderWarnings *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates a Recorder with all collectors registered.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		findings: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "riskgate_findings",
			Help: "Deduplicated findings of the last run by bucket.",
		}, []string{"bucket"}),
		findingsByTool: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "riskgate_findings_by_tool",
			Help: "Deduplicated findings of the last run by scanner.",
		}, []string{"tool"}),
		gateFailed: f.NewGauge(prometheus.GaugeOpts{
			Name: "riskgate_gate_failed",
			Help: "1 if the last run failed the gate, 0 otherwise.",
		}),
		threshold: f.NewGauge(prometheus.GaugeOpts{
			Name: "riskgate_gate_threshold",
			Help: "Score threshold used by the last run.",
		}),
		lastRun: f.NewGauge(prometheus.GaugeOpts{
			Name: "riskgate_last_run_timestamp_seconds",
			Help: "Unix time of the last run.",
		}),
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "riskgate_runs_total",
			Help: "Total analysis runs by verdict.",
		}, []string{"verdict"}),
		loaderWarnings: f.NewCounterVec(prometheus.CounterOpts{
			Name: "riskgate_loader_warnings_total",
			Help: "Scanner artifacts that were missing, empty, malformed or recovered.",
		}, []string{"tool"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "riskgate_http_requests_total",
			Help: "Total HTTP requests by method, path, and response status.",
		}, []string{"method", "path", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "riskgate_http_request_duration_seconds",
			Help:    "Request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

// ObserveReport replaces the per-run gauges with r's values.
func (m *Recorder) ObserveReport(r *domain.Report) {
	m.findings.WithLabelValues("total").Set(float64(r.Buckets.Total))
	m.findings.WithLabelValues("critical").Set(float64(r.Buckets.Critical))
	m.findings.WithLabelValues("high").Set(float64(r.Buckets.High))
	m.findings.WithLabelValues("medium").Set(float64(r.Buckets.Medium))
	m.findings.WithLabelValues("other").Set(float64(r.Buckets.Other))

	byTool := map[domain.Tool]int{domain.ToolTrivy: 0, domain.ToolCheckov: 0}
	for _, f := range r.Findings {
		byTool[f.Tool]++
	}
	for tool, n := range byTool {
		m.findingsByTool.WithLabelValues(string(tool)).Set(float64(n))
	}

	for _, s := range r.Sources {
		if s.Warning != "" {
			m.loaderWarnings.WithLabelValues(string(s.Tool)).Inc()
		}
	}

	if r.Failed {
		m.gateFailed.Set(1)
	} else {
		m.gateFailed.Set(0)
	}
	m.threshold.Set(float64(r.Threshold))
	if !r.GeneratedAt.IsZero() {
		m.lastRun.Set(float64(r.GeneratedAt.Unix()))
	}
	m.runs.WithLabelValues(r.Verdict()).Inc()
}

// ObserveRequest records one served HTTP request.
func (m *Recorder) ObserveRequest(method, path, status string, seconds float64) {
	m.httpRequests.WithLabelValues(method, path, status).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(seconds)
}

// Gatherer exposes the registry for tests and custom exporters.
func (m *Recorder) Gatherer() prometheus.Gatherer { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the registry to path in the node_exporter textfile
// format. The write is atomic.
func (m *Recorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
