package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/riskgate/riskgate/internal/application"
	"github.com/riskgate/riskgate/internal/domain/scoring"
)

const (
	reportURI = "riskgate://report"
	rulesURI  = "riskgate://rules"
)

// registerResources registers all riskgate MCP resources on the given server.
func registerResources(s *server.MCPServer, svc *application.AnalyzeService, projectPath string) {
	// 1. riskgate://report - last recorded report, or a fresh analysis
	s.AddResource(
		mcplib.NewResource(
			reportURI,
			"Security Report",
			mcplib.WithResourceDescription("Scored, deduplicated report for the project's scanner artifacts"),
			mcplib.WithMIMEType("application/json"),
		),
		handleReportResource(svc, projectPath),
	)

	// 2. riskgate://rules - contextual risk rule table
	s.AddResource(
		mcplib.NewResource(
			rulesURI,
			"Risk Rules",
			mcplib.WithResourceDescription("Contextual risk rules and the score floor each one applies"),
			mcplib.WithMIMEType("application/json"),
		),
		handleRulesResource,
	)
}

func handleReportResource(svc *application.AnalyzeService, projectPath string) server.ResourceHandlerFunc {
	return func(ctx context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		if r, err := svc.Latest(projectPath); err == nil && r != nil {
			return jsonContents(reportURI, r)
		}
		a, err := svc.Analyze(ctx, application.AnalyzeOptions{ProjectPath: projectPath, NoSummary: true, NoHistory: true})
		if err != nil {
			return nil, fmt.Errorf("analysis failed: %w", err)
		}
		return jsonContents(reportURI, a.Report)
	}
}

type ruleInfo struct {
	Name  string `json:"name"`
	Floor int    `json:"floor"`
}

func handleRulesResource(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	rules := scoring.Rules()
	out := make([]ruleInfo, len(rules))
	for i, r := range rules {
		out[i] = ruleInfo{Name: r.Name, Floor: r.Floor}
	}
	return jsonContents(rulesURI, out)
}

func jsonContents(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
