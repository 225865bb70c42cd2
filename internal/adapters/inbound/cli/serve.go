package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/riskgate/riskgate/internal/adapters/inbound/httpapi"
	"github.com/riskgate/riskgate/internal/adapters/outbound/metrics"
	"github.com/spf13/cobra"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [path]",
		Short: "Serve health, metrics and the latest report over HTTP",
		Long:  "Start an HTTP server exposing /healthz, /readyz, /version, /metrics, /report and /report.md for the project at path.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			absPath, err := filepath.Abs(path)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := root.log()
			rec := metrics.New()
			srv := httpapi.NewServer(newAnalyzeService(logger, rec), rec, absPath,
				httpapi.VersionInfo{Version: version, Commit: commit}, logger)
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")

	return cmd
}
