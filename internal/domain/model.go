package domain

import (
	"strings"
	"time"
)

// Tool identifies the scanner a finding came from.
type Tool string

const (
	ToolTrivy   Tool = "trivy"
	ToolCheckov Tool = "checkov"
)

// Severity is the tool-reported severity label, stored upper-case.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
	SeverityInfo     Severity = "INFO"
	SeverityUnknown  Severity = "UNKNOWN"
)

// ParseSeverity normalizes a raw label. Matching is case-insensitive and
// anything unrecognized becomes SeverityUnknown.
func ParseSeverity(label string) Severity {
	switch s := Severity(strings.ToUpper(strings.TrimSpace(label))); s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo:
		return s
	default:
		return SeverityUnknown
	}
}

// DefaultThreshold is the score at or above which a finding fails the gate.
const DefaultThreshold = 9

// Score bounds shared by the scorers.
const (
	MinScore = 1
	MaxScore = 10
)

// Finding is one normalized scanner result.
type Finding struct {
	Tool        Tool     `json:"tool"`
	ID          string   `json:"id"`
	Severity    Severity `json:"severity"`
	Message     string   `json:"message"`
	Path        string   `json:"path"`
	Score       int      `json:"score,omitempty"`
	Remediation []string `json:"remediation,omitempty"`
}

// Key returns the deduplication key of the finding.
func (f Finding) Key() DedupKey {
	return DedupKey{Path: f.Path, ID: f.ID, Message: f.Message}
}

// IsScored reports whether scoring has run on the finding.
func (f Finding) IsScored() bool { return f.Score >= MinScore }

// DedupKey identifies the same logical finding across tools.
type DedupKey struct {
	Path    string
	ID      string
	Message string
}

// Buckets holds per-bucket counts of a deduplicated finding list.
// Critical+High+Medium+Other always equals Total.
type Buckets struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Other    int `json:"other"`
}

// SourceStatus records what a loader produced for one input artifact.
type SourceStatus struct {
	Tool      Tool   `json:"tool"`
	Path      string `json:"path"`
	Loaded    int    `json:"loaded"`
	Recovered bool   `json:"recovered,omitempty"`
	Warning   string `json:"warning,omitempty"`
}

// Report is the structured result of one analysis run. Renderers only
// read it.
type Report struct {
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	CommitHash  string         `json:"commit_hash,omitempty"`
	Threshold   int            `json:"threshold"`
	Failed      bool           `json:"failed"`
	NoIssues    bool           `json:"no_issues"`
	Buckets     Buckets        `json:"buckets"`
	Findings    []Finding      `json:"findings"`
	Summary     string         `json:"summary,omitempty"`
	Sources     []SourceStatus `json:"sources,omitempty"`
}

// Verdict returns the human label for the gate outcome.
func (r Report) Verdict() string {
	if r.Failed {
		return "FAIL"
	}
	return "PASS"
}

// RunEntry is one line of the run history.
type RunEntry struct {
	RunID      string `json:"run_id"`
	Timestamp  string `json:"timestamp"`
	CommitHash string `json:"commit_hash,omitempty"`
	Total      int    `json:"total"`
	Critical   int    `json:"critical"`
	High       int    `json:"high"`
	Medium     int    `json:"medium"`
	Failed     bool   `json:"failed"`
}

// NewRunEntry condenses a report into a history entry.
func NewRunEntry(r *Report) RunEntry {
	return RunEntry{
		RunID:      r.RunID,
		Timestamp:  r.GeneratedAt.Format(time.RFC3339),
		CommitHash: r.CommitHash,
		Total:      r.Buckets.Total,
		Critical:   r.Buckets.Critical,
		High:       r.Buckets.High,
		Medium:     r.Buckets.Medium,
		Failed:     r.Failed,
	}
}
