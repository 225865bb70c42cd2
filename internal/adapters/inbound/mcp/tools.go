package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/riskgate/riskgate/internal/application"
	"github.com/riskgate/riskgate/internal/domain"
	"github.com/riskgate/riskgate/internal/domain/scoring"
)

// registerTools registers all riskgate MCP tools on the given server.
func registerTools(s *server.MCPServer, svc *application.AnalyzeService, projectPath string) {
	// 1. riskgate_analyze
	s.AddTool(
		mcplib.NewTool("riskgate_analyze",
			mcplib.WithDescription("Runs the pipeline on the project's Trivy and Checkov artifacts and returns the scored, deduplicated report as JSON"),
			mcplib.WithString("trivy", mcplib.Description("Path to the Trivy JSON artifact (defaults to config)")),
			mcplib.WithString("checkov", mcplib.Description("Path to the Checkov JSON artifact (defaults to config)")),
			mcplib.WithNumber("threshold", mcplib.Description("Gate threshold 1-10 (defaults to config, normally 9)")),
			mcplib.WithBoolean("summary", mcplib.Description("Request the LLM summary when it is configured")),
		),
		handleAnalyze(svc, projectPath),
	)

	// 2. riskgate_score_finding
	s.AddTool(
		mcplib.NewTool("riskgate_score_finding",
			mcplib.WithDescription("Scores a single finding: severity score, contextual risk, matched rules and remediation"),
			mcplib.WithString("message", mcplib.Required(), mcplib.Description("Finding description")),
			mcplib.WithString("severity", mcplib.Description("Tool severity label (CRITICAL, HIGH, MEDIUM, LOW, INFO)")),
			mcplib.WithString("path", mcplib.Description("File the finding refers to")),
		),
		handleScoreFinding,
	)

	// 3. riskgate_gate
	s.AddTool(
		mcplib.NewTool("riskgate_gate",
			mcplib.WithDescription("Returns the gate verdict (PASS/FAIL) and bucket counts for the project's artifacts"),
			mcplib.WithNumber("threshold", mcplib.Description("Gate threshold 1-10 (defaults to config, normally 9)")),
		),
		handleGate(svc, projectPath),
	)
}

func analyzeOptions(req mcplib.CallToolRequest, projectPath string) application.AnalyzeOptions {
	return application.AnalyzeOptions{
		ProjectPath: projectPath,
		TrivyPath:   req.GetString("trivy", ""),
		CheckovPath: req.GetString("checkov", ""),
		Threshold:   req.GetInt("threshold", 0),
		NoSummary:   !req.GetBool("summary", false),
		NoHistory:   true,
	}
}

func handleAnalyze(svc *application.AnalyzeService, projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		a, err := svc.Analyze(ctx, analyzeOptions(req, projectPath))
		if err != nil {
			return errorResult(fmt.Sprintf("analysis failed: %v", err)), nil
		}
		return jsonResult(a.Report)
	}
}

// findingScore is the riskgate_score_finding payload.
type findingScore struct {
	Severity       domain.Severity `json:"severity"`
	SeverityScore  int             `json:"severity_score"`
	ContextualRisk int             `json:"contextual_risk"`
	Score          int             `json:"score"`
	MatchedRules   []string        `json:"matched_rules"`
	Remediation    []string        `json:"remediation"`
	FailsGate      bool            `json:"fails_default_gate"`
}

func handleScoreFinding(_ context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	message, err := req.RequireString("message")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	label := req.GetString("severity", "")
	path := req.GetString("path", "")

	severity := domain.ParseSeverity(label)
	if label == "" {
		severity = domain.SeverityMedium
	}
	score := scoring.Score(string(severity), message, path)

	matched := scoring.MatchedRules(message)
	if matched == nil {
		matched = []string{}
	}

	return jsonResult(findingScore{
		Severity:       severity,
		SeverityScore:  scoring.SeverityScore(string(severity)),
		ContextualRisk: scoring.ContextualRisk(message, path),
		Score:          score,
		MatchedRules:   matched,
		Remediation:    scoring.Remediation(message),
		FailsGate:      score >= domain.DefaultThreshold,
	})
}

// gateResult is the riskgate_gate payload.
type gateResult struct {
	Verdict   string                `json:"verdict"`
	Failed    bool                  `json:"failed"`
	Threshold int                   `json:"threshold"`
	Buckets   domain.Buckets        `json:"buckets"`
	Sources   []domain.SourceStatus `json:"sources,omitempty"`
}

func handleGate(svc *application.AnalyzeService, projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		opts := analyzeOptions(req, projectPath)
		opts.NoSummary = true
		a, err := svc.Analyze(ctx, opts)
		if err != nil {
			return errorResult(fmt.Sprintf("analysis failed: %v", err)), nil
		}
		r := a.Report
		return jsonResult(gateResult{
			Verdict:   r.Verdict(),
			Failed:    r.Failed,
			Threshold: r.Threshold,
			Buckets:   r.Buckets,
			Sources:   r.Sources,
		})
	}
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
