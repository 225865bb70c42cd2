package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/riskgate/riskgate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failedReport() *domain.Report {
	return &domain.Report{
		GeneratedAt: time.Unix(1_700_000_000, 0),
		Threshold:   9,
		Failed:      true,
		Buckets:     domain.Buckets{Total: 3, Critical: 1, High: 1, Other: 1},
		Findings: []domain.Finding{
			{Tool: domain.ToolTrivy, Score: 10},
			{Tool: domain.ToolTrivy, Score: 8},
			{Tool: domain.ToolCheckov, Score: 3},
		},
		Sources: []domain.SourceStatus{
			{Tool: domain.ToolTrivy, Loaded: 2},
			{Tool: domain.ToolCheckov, Loaded: 1, Recovered: true, Warning: "recovered"},
		},
	}
}

func TestRecorder_ObserveReport(t *testing.T) {
	m := New()
	m.ObserveReport(failedReport())

	assert.Equal(t, 3.0, testutil.ToFloat64(m.findings.WithLabelValues("total")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.findings.WithLabelValues("critical")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.findings.WithLabelValues("high")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.findings.WithLabelValues("medium")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.findingsByTool.WithLabelValues("trivy")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.findingsByTool.WithLabelValues("checkov")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gateFailed))
	assert.Equal(t, 9.0, testutil.ToFloat64(m.threshold))
	assert.Equal(t, 1_700_000_000.0, testutil.ToFloat64(m.lastRun))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loaderWarnings.WithLabelValues("checkov")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("FAIL")))
}

func TestRecorder_GaugesTrackLatestRun(t *testing.T) {
	m := New()
	m.ObserveReport(failedReport())
	m.ObserveReport(&domain.Report{NoIssues: true, Threshold: 9})

	assert.Equal(t, 0.0, testutil.ToFloat64(m.findings.WithLabelValues("total")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.findingsByTool.WithLabelValues("trivy")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.gateFailed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("PASS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("FAIL")))
}

func TestRecorder_Independent(t *testing.T) {
	a, b := New(), New()
	a.ObserveReport(failedReport())
	assert.Equal(t, 0.0, testutil.ToFloat64(b.gateFailed))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	m := New()
	m.ObserveReport(failedReport())

	path := filepath.Join(t.TempDir(), "textfile", "riskgate.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `riskgate_findings{bucket="critical"} 1`)
	assert.Contains(t, out, "riskgate_gate_failed 1")
	assert.Contains(t, out, `riskgate_loader_warnings_total{tool="checkov"} 1`)
}

func TestRecorder_Handler(t *testing.T) {
	m := New()
	m.ObserveReport(failedReport())
	m.ObserveRequest(http.MethodGet, "/healthz", "200", 0.01)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "riskgate_gate_threshold 9"))
	assert.Contains(t, body, `riskgate_http_requests_total{method="GET",path="/healthz",status="200"} 1`)
}
