// Package summarizer provides the optional LLM summary of a report.
//
// Every implementation degrades instead of failing: the pipeline never
// stops because a summary could not be produced.
package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskgate/riskgate/internal/domain"
	"go.uber.org/zap"
)

// maxPromptFindings caps how many of the top findings go into the prompt.
const maxPromptFindings = 12

const systemPrompt = "You are a DevSecOps expert for OCI, OKE and Terraform. " +
	"Give short, technical recommendations."

// Noop is the default Summarizer. It never produces a summary.
type Noop struct{}

func (Noop) Summarize(context.Context, []domain.Finding) (string, bool) { return "", false }

// failed reports a construction error as the summary text so the report
// still shows why the section is degraded.
type failed struct {
	err error
}

func (f failed) Summarize(context.Context, []domain.Finding) (string, bool) {
	return failureText(f.err), true
}

func failureText(err error) string {
	return fmt.Sprintf("(summary failed: %v)", err)
}

// New returns the Summarizer for cfg: Noop unless the summary is enabled
// and has what it needs to run.
func New(cfg domain.ProjectConfig, logger *zap.Logger) domain.Summarizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.SummaryReady() {
		logger.Debug("summary disabled",
			zap.Bool("enabled", cfg.Summary.Enabled),
			zap.String("provider", cfg.Summary.Provider),
		)
		return Noop{}
	}

	s, err := NewLLM(cfg.Summary, logger)
	if err != nil {
		logger.Warn("summary provider unavailable", zap.String("provider", cfg.Summary.Provider), zap.Error(err))
		return failed{err: err}
	}
	return s
}

// buildPrompt lists the top findings, one per line.
func buildPrompt(findings []domain.Finding) string {
	var b strings.Builder
	b.WriteString("Briefly summarize the most important risks and propose concrete Terraform/OCI/OKE fixes for these issues:\n\n")
	for i, f := range findings {
		if i == maxPromptFindings {
			break
		}
		fmt.Fprintf(&b, "- [%s/%s:%s] %s @ %s\n", f.Severity, f.Tool, f.ID, f.Message, f.Path)
	}
	return b.String()
}
