package cli

import (
	"path/filepath"

	mcpadapter "github.com/riskgate/riskgate/internal/adapters/inbound/mcp"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the riskgate MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(root))
	return cmd
}

func newMCPServeCmd(root *rootOptions) *cobra.Command {
	var projectPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start riskgate MCP server (stdio)",
		Long:  "Start the riskgate MCP server using stdio transport. AI assistants can analyze scanner artifacts, score single findings and query the gate.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectPath == "" {
				projectPath = "."
			}
			absPath, err := filepath.Abs(projectPath)
			if err != nil {
				return err
			}
			s := mcpadapter.NewRiskgateMCPServer(newAnalyzeService(root.log(), nil), absPath, version)
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", "", "Project path (defaults to current working directory)")

	return cmd
}
