package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/riskgate/riskgate/internal/application"
)

// NewRiskgateMCPServer creates an MCP server with all riskgate tools and
// resources registered. projectPath is the root the scanner artifacts and
// .riskgate.yaml are resolved against.
func NewRiskgateMCPServer(svc *application.AnalyzeService, projectPath, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"riskgate",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, svc, projectPath)
	registerResources(s, svc, projectPath)

	return s
}
