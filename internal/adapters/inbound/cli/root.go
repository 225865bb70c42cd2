package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/riskgate/riskgate/internal/application"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version = "dev"
	commit  = "none"
)

// rootOptions carries the persistent flags and the logger they produce.
type rootOptions struct {
	debug  bool
	logger *zap.Logger
}

func (o *rootOptions) log() *zap.Logger {
	if o.logger == nil {
		return zap.NewNop()
	}
	return o.logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "riskgate",
		Short: "Contextual risk gate for IaC scanner findings",
		Long: "riskgate merges Trivy and Checkov results, re-scores every finding for an OCI/OKE " +
			"deployment, writes a prioritized report and fails CI when a finding reaches the threshold.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(opts.debug)
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opts.log().Sync()
		},
	}
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Verbose development logging on stderr")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newAnalyzeCmd(opts))
	cmd.AddCommand(newMCPCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	return cmd
}

// newLogger logs warnings and errors only, unless debug is set.
func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.Encoding = "console"
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the CLI and prints the returned error, if any, to stderr.
func Execute() error {
	err := newRootCmd().Execute()
	if err != nil {
		prefix := "Error"
		if errors.Is(err, application.ErrGateFailed) {
			prefix = "Gate"
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", prefix, err)
	}
	return err
}
