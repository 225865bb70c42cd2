// Package triage merges scored findings and derives the gate decision and
// report structure from them.
package triage

import "github.com/riskgate/riskgate/internal/domain"

// Deduplicate keeps one finding per (path, id, message) key. A finding
// replaces the kept one when its score is strictly greater, or equal and
// it comes later. Output order follows first appearance of each key.
func Deduplicate(findings []domain.Finding) []domain.Finding {
	index := make(map[domain.DedupKey]int, len(findings))
	out := make([]domain.Finding, 0, len(findings))

	for _, f := range findings {
		key := f.Key()
		i, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, f)
			continue
		}
		if f.Score >= out[i].Score {
			out[i] = f
		}
	}
	return out
}
