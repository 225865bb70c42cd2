package scoring

import "github.com/riskgate/riskgate/internal/domain"

// unknownSeverityScore is used for missing or unrecognized labels. It sits
// between LOW and MEDIUM so an unlabeled finding is never ignored outright.
const unknownSeverityScore = 4

var severityScores = map[domain.Severity]int{
	domain.SeverityCritical: 10,
	domain.SeverityHigh:     8,
	domain.SeverityMedium:   5,
	domain.SeverityLow:      3,
	domain.SeverityInfo:     1,
}

// SeverityScore maps a tool-reported severity label (any case) to 1..10.
func SeverityScore(label string) int {
	if s, ok := severityScores[domain.ParseSeverity(label)]; ok {
		return s
	}
	return unknownSeverityScore
}
