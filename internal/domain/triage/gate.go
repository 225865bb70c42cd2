package triage

import "github.com/riskgate/riskgate/internal/domain"

// ShouldFail reports whether any finding reaches threshold.
func ShouldFail(findings []domain.Finding, threshold int) bool {
	for _, f := range findings {
		if f.Score >= threshold {
			return true
		}
	}
	return false
}
