// Package markdown renders a report as the Markdown document written to
// the results directory.
package markdown

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/riskgate/riskgate/internal/domain"
)

const (
	timeLayout   = "2006-01-02 15:04:05"
	noIssuesLine = "# Security Report\n\nNo issues found.\n"
)

// Render returns the Markdown document for r.
func Render(r *domain.Report) string {
	if r.NoIssues {
		return noIssuesLine
	}

	var b strings.Builder
	b.WriteString("# Security Report (Terraform / OCI / OKE)\n\n")
	fmt.Fprintf(&b, "Date: %s\n\n", r.GeneratedAt.Format(timeLayout))
	if r.CommitHash != "" {
		fmt.Fprintf(&b, "Commit: `%s`\n\n", r.CommitHash)
	}

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Issues found: **%d**\n", r.Buckets.Total)
	fmt.Fprintf(&b, "- Critical (score≥%d): **%d**\n", r.Threshold, r.Buckets.Critical)
	fmt.Fprintf(&b, "- High (%s): **%d**\n", bandLabel(7, domain.MaxScore, r.Threshold), r.Buckets.High)
	fmt.Fprintf(&b, "- Medium (%s): **%d**\n", bandLabel(5, 6, r.Threshold), r.Buckets.Medium)
	fmt.Fprintf(&b, "- Gate: **%s**\n\n", r.Verdict())

	writeSources(&b, r.Sources)

	if r.Summary != "" {
		b.WriteString("## AI summary and recommendations\n\n")
		b.WriteString(r.Summary)
		b.WriteString("\n\n")
	}

	b.WriteString("## Details\n\n")
	for _, f := range r.Findings {
		writeFinding(&b, f)
	}
	return b.String()
}

// writeSources lists artifacts that were missing, malformed or recovered.
func writeSources(b *strings.Builder, sources []domain.SourceStatus) {
	var noted []domain.SourceStatus
	for _, s := range sources {
		if s.Warning != "" {
			noted = append(noted, s)
		}
	}
	if len(noted) == 0 {
		return
	}
	b.WriteString("## Input warnings\n\n")
	for _, s := range noted {
		fmt.Fprintf(b, "- %s `%s`: %s\n", s.Tool, s.Path, s.Warning)
	}
	b.WriteString("\n")
}

func writeFinding(b *strings.Builder, f domain.Finding) {
	fmt.Fprintf(b, "### [%s] %s:%s — score %d/10\n", f.Severity, f.Tool, f.ID, f.Score)
	if f.Path != "" {
		fmt.Fprintf(b, "**File:** `%s`\n", f.Path)
	}
	fmt.Fprintf(b, "**Description:** %s\n", f.Message)
	if len(f.Remediation) > 0 {
		b.WriteString("**Recommended fixes:**\n")
		for _, r := range f.Remediation {
			fmt.Fprintf(b, "- %s\n", r)
		}
	}
	b.WriteString("\n")
}

// WriteFile renders r to path, creating parent directories.
func WriteFile(path string, r *domain.Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(Render(r)), 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// bandLabel describes the scores [lo, hi] that land in a bucket below the
// gate threshold.
func bandLabel(lo, hi, threshold int) string {
	hi = min(hi, threshold-1)
	switch {
	case hi < lo:
		return fmt.Sprintf("none below threshold %d", threshold)
	case hi == lo:
		return fmt.Sprintf("score %d", lo)
	default:
		return fmt.Sprintf("score %d–%d", lo, hi)
	}
}
