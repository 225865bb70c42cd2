// Package scoring turns raw scanner findings into scored findings: a
// severity-derived score, a contextual risk score from the finding text,
// and remediation advice. Every function here is pure.
package scoring

import "github.com/riskgate/riskgate/internal/domain"

// Score returns the final score of a finding: the larger of its severity
// score and its contextual risk.
func Score(severity, message, path string) int {
	return max(SeverityScore(severity), ContextualRisk(message, path))
}

// ScoreFinding returns f with Score and Remediation filled in.
func ScoreFinding(f domain.Finding) domain.Finding {
	f.Score = Score(string(f.Severity), f.Message, f.Path)
	f.Remediation = Remediation(f.Message)
	return f
}

// ScoreAll scores every finding, returning a new slice.
func ScoreAll(findings []domain.Finding) []domain.Finding {
	out := make([]domain.Finding, len(findings))
	for i, f := range findings {
		out[i] = ScoreFinding(f)
	}
	return out
}
