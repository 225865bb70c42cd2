package domain

import "context"

// FindingLoader parses one scanner's JSON artifact into raw findings.
// Missing or unreadable input is reported through SourceStatus.Warning,
// never as an error.
type FindingLoader interface {
	Tool() Tool
	Load(ctx context.Context, path string) ([]Finding, SourceStatus)
}

// Summarizer produces an optional free-text summary of the top findings.
// ok is false when no summary section should be rendered.
type Summarizer interface {
	Summarize(ctx context.Context, findings []Finding) (text string, ok bool)
}

// ConfigLoader loads the project configuration.
type ConfigLoader interface {
	Load(projectPath string) (ProjectConfig, error)
}

// RunHistory persists run entries for a project.
type RunHistory interface {
	Save(projectPath string, entry RunEntry) error
	Load(projectPath string) ([]RunEntry, error)
}

// GitInfo exposes repository metadata for a project path.
type GitInfo interface {
	IsGitRepo(projectPath string) bool
	CommitHash(projectPath string) (string, error)
}

// MetricsRecorder observes finished reports.
type MetricsRecorder interface {
	ObserveReport(r *Report)
}

// ReportStore keeps the most recent report of a project.
type ReportStore interface {
	Save(projectPath string, r *Report) error
	Load(projectPath string) (*Report, error)
}
