package loader

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/riskgate/riskgate/internal/domain"
	"go.uber.org/zap"
)

const trivyPlaceholder = "trivy finding"

// trivyReport mirrors the parts of `trivy config --format json` we read.
type trivyReport struct {
	Results []trivyResult `json:"Results"`
}

type trivyResult struct {
	Target            string           `json:"Target"`
	Misconfigurations []trivyMisconfig `json:"Misconfigurations"`
}

type trivyMisconfig struct {
	ID          string `json:"ID"`
	Title       string `json:"Title"`
	Description string `json:"Description"`
	Message     string `json:"Message"`
	Severity    string `json:"Severity"`
}

// TrivyLoader implements domain.FindingLoader for Trivy IaC misconfiguration
// reports. Parsing is strict: invalid JSON is reported as a warning.
type TrivyLoader struct {
	logger *zap.Logger
}

// NewTrivy creates a TrivyLoader.
func NewTrivy(logger *zap.Logger) *TrivyLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrivyLoader{logger: logger}
}

func (l *TrivyLoader) Tool() domain.Tool { return domain.ToolTrivy }

func (l *TrivyLoader) Load(ctx context.Context, path string) ([]domain.Finding, domain.SourceStatus) {
	status := domain.SourceStatus{Tool: domain.ToolTrivy, Path: path}

	data, warning := readArtifact(ctx, path)
	if warning != "" {
		status.Warning = warning
		warn(l.logger, status)
		return nil, status
	}

	var report trivyReport
	if err := json.Unmarshal(data, &report); err != nil {
		status.Warning = fmt.Sprintf("invalid JSON: %v", err)
		warn(l.logger, status)
		return nil, status
	}

	findings := mapTrivy(report)
	status.Loaded = len(findings)
	l.logger.Debug("loaded scanner artifact",
		zap.String("tool", string(status.Tool)),
		zap.String("path", path),
		zap.Int("findings", status.Loaded),
	)
	return findings, status
}

func mapTrivy(report trivyReport) []domain.Finding {
	var findings []domain.Finding
	for _, r := range report.Results {
		for _, m := range r.Misconfigurations {
			findings = append(findings, domain.Finding{
				Tool:     domain.ToolTrivy,
				ID:       m.ID,
				Severity: severityOrMedium(m.Severity),
				Message:  firstNonEmpty(m.Message, m.Description, m.Title, m.ID, trivyPlaceholder),
				Path:     r.Target,
			})
		}
	}
	return findings
}
