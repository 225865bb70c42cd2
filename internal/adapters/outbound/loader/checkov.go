package loader

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/riskgate/riskgate/internal/domain"
	"go.uber.org/zap"
)

const checkovPlaceholder = "checkov finding"

// checkovReport mirrors one framework section of `checkov -o json`.
// Checkov writes a single object for one framework and an array of them
// when several frameworks ran.
type checkovReport struct {
	CheckType string         `json:"check_type"`
	Results   checkovResults `json:"results"`
}

type checkovResults struct {
	FailedChecks []checkovCheck `json:"failed_checks"`
}

type checkovCheck struct {
	CheckID     string `json:"check_id"`
	CheckName   string `json:"check_name"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	FilePath    string `json:"file_path"`
}

// CheckovLoader implements domain.FindingLoader for Checkov reports. It
// makes one recovery attempt on damaged JSON by trimming to the outermost
// bracketed region.
type CheckovLoader struct {
	logger *zap.Logger
}

// NewCheckov creates a CheckovLoader.
func NewCheckov(logger *zap.Logger) *CheckovLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckovLoader{logger: logger}
}

func (l *CheckovLoader) Tool() domain.Tool { return domain.ToolCheckov }

func (l *CheckovLoader) Load(ctx context.Context, path string) ([]domain.Finding, domain.SourceStatus) {
	status := domain.SourceStatus{Tool: domain.ToolCheckov, Path: path}

	data, warning := readArtifact(ctx, path)
	if warning != "" {
		status.Warning = warning
		warn(l.logger, status)
		return nil, status
	}

	var reports []checkovReport
	recovered, err := decodeWithRecovery(data, func(b []byte) error {
		reports = nil
		if isJSONArray(b) {
			return json.Unmarshal(b, &reports)
		}
		var single checkovReport
		if err := json.Unmarshal(b, &single); err != nil {
			return err
		}
		reports = []checkovReport{single}
		return nil
	})
	if err != nil {
		status.Warning = fmt.Sprintf("invalid JSON: %v", err)
		warn(l.logger, status)
		return nil, status
	}

	findings := mapCheckov(reports)
	status.Loaded = len(findings)
	if recovered {
		status.Recovered = true
		status.Warning = warnRecovered
		l.logger.Warn("recovered malformed scanner artifact",
			zap.String("tool", string(status.Tool)),
			zap.String("path", path),
			zap.Int("findings", status.Loaded),
		)
	}
	return findings, status
}

func mapCheckov(reports []checkovReport) []domain.Finding {
	var findings []domain.Finding
	for _, r := range reports {
		for _, c := range r.Results.FailedChecks {
			findings = append(findings, domain.Finding{
				Tool:     domain.ToolCheckov,
				ID:       c.CheckID,
				Severity: severityOrMedium(c.Severity),
				Message:  firstNonEmpty(c.Description, c.CheckName, c.CheckID, checkovPlaceholder),
				Path:     c.FilePath,
			})
		}
	}
	return findings
}
