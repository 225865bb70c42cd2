package triage

import (
	"sort"

	"github.com/riskgate/riskgate/internal/domain"
)

// Bucket lower bounds below the gate threshold.
const (
	highFloor   = 7
	mediumFloor = 5
)

// SortByScore returns findings ordered by descending score. Ties keep
// their input order.
func SortByScore(findings []domain.Finding) []domain.Finding {
	out := make([]domain.Finding, len(findings))
	copy(out, findings)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// Bucketize counts findings per bucket: critical at or above threshold,
// high from 7, medium from 5, everything else in Other.
func Bucketize(findings []domain.Finding, threshold int) domain.Buckets {
	b := domain.Buckets{Total: len(findings)}
	for _, f := range findings {
		switch {
		case f.Score >= threshold:
			b.Critical++
		case f.Score >= highFloor:
			b.High++
		case f.Score >= mediumFloor:
			b.Medium++
		default:
			b.Other++
		}
	}
	return b
}

// Assemble builds the report body from deduplicated, scored findings.
// An empty list yields a no-issues report without bucket math.
func Assemble(findings []domain.Finding, threshold int) *domain.Report {
	if len(findings) == 0 {
		return &domain.Report{
			Threshold: threshold,
			NoIssues:  true,
			Findings:  []domain.Finding{},
		}
	}

	sorted := SortByScore(findings)
	return &domain.Report{
		Threshold: threshold,
		Failed:    ShouldFail(sorted, threshold),
		Buckets:   Bucketize(sorted, threshold),
		Findings:  sorted,
	}
}

// Triage runs dedup, ordering, gating and bucketing in one pass over
// already scored findings.
func Triage(scored []domain.Finding, threshold int) *domain.Report {
	return Assemble(Deduplicate(scored), threshold)
}
