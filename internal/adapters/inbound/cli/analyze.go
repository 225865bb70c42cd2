package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/riskgate/riskgate/internal/adapters/outbound/gitinfo"
	"github.com/riskgate/riskgate/internal/adapters/outbound/markdown"
	"github.com/riskgate/riskgate/internal/adapters/outbound/metrics"
	"github.com/riskgate/riskgate/internal/adapters/outbound/tui"
	"github.com/riskgate/riskgate/internal/application"
	"github.com/riskgate/riskgate/internal/domain"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	var (
		trivyPath   string
		checkovPath string
		outPath     string
		threshold   int
		jsonOutput  bool
		noSummary   bool
		noHistory   bool
		noFail      bool
		showHistory bool
		metricsFile string
	)

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Score scanner findings and apply the gate",
		Long: "Load results/trivy.json and results/checkov.json, score and deduplicate the findings, " +
			"write results/security_report.md and exit 1 when any finding reaches the threshold (9 by default).",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			logger := root.log()
			var rec *metrics.Recorder
			if metricsFile != "" {
				rec = metrics.New()
			}
			svc := newAnalyzeService(logger, rec)

			// Show history if requested
			if showHistory {
				entries, err := svc.History(absPath)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries))
				return nil
			}

			a, err := svc.Analyze(cmd.Context(), application.AnalyzeOptions{
				ProjectPath: absPath,
				TrivyPath:   trivyPath,
				CheckovPath: checkovPath,
				Threshold:   threshold,
				NoSummary:   noSummary,
				NoHistory:   noHistory,
			})
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			out := a.OutputPath
			if outPath != "" {
				out = outPath
			}
			if err := markdown.WriteFile(out, a.Report); err != nil {
				return err
			}

			if rec != nil {
				if err := rec.WriteTextfile(metricsFile); err != nil {
					return err
				}
			}

			if jsonOutput {
				if err := renderJSON(cmd, a.Report); err != nil {
					return err
				}
			} else {
				branch, _ := gitinfo.New().Branch(absPath)
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(a.Report, branch))
				fmt.Fprintf(cmd.OutOrStdout(), "  Report written to %s\n", out)
			}

			if noFail {
				return nil
			}
			return application.Gate(a.Report)
		},
	}

	cmd.Flags().StringVar(&trivyPath, "trivy", "", "Trivy JSON artifact (default from config: results/trivy.json)")
	cmd.Flags().StringVar(&checkovPath, "checkov", "", "Checkov JSON artifact (default from config: results/checkov.json)")
	cmd.Flags().StringVar(&outPath, "out", "", "Markdown report path (default from config: results/security_report.md)")
	cmd.Flags().IntVar(&threshold, "threshold", 0, "Gate threshold 1-10 (default from config: 9)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON instead of the terminal view")
	cmd.Flags().BoolVar(&noSummary, "no-summary", false, "Skip the LLM summary even when it is enabled")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not append this run to the history file")
	cmd.Flags().BoolVar(&noFail, "no-fail", false, "Report only: exit 0 even when the gate fails")
	cmd.Flags().BoolVar(&showHistory, "history", false, "Show run history and exit")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path")

	return cmd
}

func renderJSON(cmd *cobra.Command, r *domain.Report) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
