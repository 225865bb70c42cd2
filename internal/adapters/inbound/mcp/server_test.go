package mcp

import (
	"context"
	"encoding/json"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/riskgate/riskgate/internal/adapters/outbound/cache"
	"github.com/riskgate/riskgate/internal/adapters/outbound/config"
	"github.com/riskgate/riskgate/internal/adapters/outbound/loader"
	"github.com/riskgate/riskgate/internal/application"
	"github.com/riskgate/riskgate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testdataDir = "../../../../testdata"

func newService() *application.AnalyzeService {
	return application.NewAnalyzeService(
		[]domain.FindingLoader{loader.NewTrivy(nil), loader.NewCheckov(nil)},
		config.New(), nil, nil, nil, nil, nil,
	)
}

func callRequest(name string, args map[string]any) mcplib.CallToolRequest {
	req := mcplib.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcplib.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestNewRiskgateMCPServer(t *testing.T) {
	s := NewRiskgateMCPServer(newService(), testdataDir, "test")
	require.NotNil(t, s)

	tools := s.ListTools()
	expectedTools := []string{"riskgate_analyze", "riskgate_score_finding", "riskgate_gate"}
	for _, name := range expectedTools {
		_, exists := tools[name]
		assert.True(t, exists, "tool %q should be registered", name)
	}
	assert.Len(t, tools, len(expectedTools))
}

func TestScoreFindingTool(t *testing.T) {
	res, err := handleScoreFinding(context.Background(), callRequest("riskgate_score_finding", map[string]any{
		"message":  "Tiller is enabled on the cluster",
		"severity": "low",
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	var got findingScore
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
	assert.Equal(t, domain.SeverityLow, got.Severity)
	assert.Equal(t, 3, got.SeverityScore)
	assert.Equal(t, 10, got.ContextualRisk)
	assert.Equal(t, 10, got.Score)
	assert.Equal(t, []string{"tiller"}, got.MatchedRules)
	assert.Len(t, got.Remediation, 2)
	assert.True(t, got.FailsGate)
}

func TestScoreFindingTool_DefaultsToMedium(t *testing.T) {
	res, err := handleScoreFinding(context.Background(), callRequest("riskgate_score_finding", map[string]any{
		"message": "bucket logging disabled",
	}))
	require.NoError(t, err)

	var got findingScore
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
	assert.Equal(t, domain.SeverityMedium, got.Severity)
	assert.Equal(t, 5, got.Score)
	assert.Empty(t, got.MatchedRules)
	assert.False(t, got.FailsGate)
}

func TestScoreFindingTool_MissingMessage(t *testing.T) {
	res, err := handleScoreFinding(context.Background(), callRequest("riskgate_score_finding", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestAnalyzeTool(t *testing.T) {
	handler := handleAnalyze(newService(), testdataDir)
	res, err := handler(context.Background(), callRequest("riskgate_analyze", nil))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	var report domain.Report
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &report))
	assert.True(t, report.Failed)
	assert.Equal(t, 5, report.Buckets.Total)
	assert.Equal(t, 2, report.Buckets.Critical)
}

func TestGateTool_ThresholdArgument(t *testing.T) {
	handler := handleGate(newService(), testdataDir)
	res, err := handler(context.Background(), callRequest("riskgate_gate", map[string]any{"threshold": float64(10)}))
	require.NoError(t, err)

	var got gateResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
	assert.Equal(t, "PASS", got.Verdict)
	assert.Equal(t, 10, got.Threshold)
}

func TestGateTool_BadThreshold(t *testing.T) {
	handler := handleGate(newService(), testdataDir)
	res, err := handler(context.Background(), callRequest("riskgate_gate", map[string]any{"threshold": float64(42)}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestReportResource(t *testing.T) {
	contents, err := handleReportResource(newService(), testdataDir)(context.Background(), mcplib.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcplib.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, reportURI, text.URI)
	assert.Contains(t, text.Text, `"AVD-OCI-0010"`)
}

func TestReportResource_PrefersStoredReport(t *testing.T) {
	dir := t.TempDir()
	store := cache.New()
	stored := &domain.Report{RunID: "stored-run", Threshold: 9, NoIssues: true}
	require.NoError(t, store.Save(dir, stored))

	svc := newService()
	svc.SetReportStore(store)
	contents, err := handleReportResource(svc, dir)(context.Background(), mcplib.ReadResourceRequest{})
	require.NoError(t, err)

	text, ok := contents[0].(mcplib.TextResourceContents)
	require.True(t, ok)
	assert.Contains(t, text.Text, `"stored-run"`)
}

func TestRulesResource(t *testing.T) {
	contents, err := handleRulesResource(context.Background(), mcplib.ReadResourceRequest{})
	require.NoError(t, err)

	text, ok := contents[0].(mcplib.TextResourceContents)
	require.True(t, ok)

	var rules []ruleInfo
	require.NoError(t, json.Unmarshal([]byte(text.Text), &rules))
	assert.Contains(t, rules, ruleInfo{Name: "tiller", Floor: 10})
}
