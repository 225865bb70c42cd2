package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/riskgate/riskgate/internal/domain"
)

// ── Warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	orange  = lipgloss.Color("#FB923C")
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

// MaxListed caps the findings shown in the terminal; the Markdown report
// carries the full list.
const MaxListed = 10

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	bucketStyle   = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderReport formats a report for terminal output. branch may be empty.
func RenderReport(r *domain.Report, branch string) string {
	var b strings.Builder

	// ── Header ──
	title := headerStyle.Render("riskgate")
	subtitle := dimStyle.Render("IaC Risk Gate")
	verdict := lipgloss.NewStyle().Bold(true).Foreground(verdictColor(r)).Render(r.Verdict())
	gate := dimStyle.Render(fmt.Sprintf("threshold %d", r.Threshold))
	header := title + "\n" + subtitle + "\n\n" + verdict + "  " + gate
	if meta := headerMeta(r, branch); meta != "" {
		header += "\n" + faintStyle.Render(meta)
	}
	b.WriteString(boxStyle.Render(header))
	b.WriteString("\n\n")

	if r.NoIssues {
		b.WriteString("  " + passStyle.Render("No issues found.") + "\n")
		renderSources(&b, r.Sources)
		b.WriteString("\n")
		return b.String()
	}

	// ── Buckets ──
	renderBucket(&b, fmt.Sprintf("critical ≥%d", r.Threshold), r.Buckets.Critical, r.Buckets.Total, danger)
	renderBucket(&b, "high", r.Buckets.High, r.Buckets.Total, orange)
	renderBucket(&b, "medium", r.Buckets.Medium, r.Buckets.Total, warning)
	renderBucket(&b, "other", r.Buckets.Other, r.Buckets.Total, info)

	renderSources(&b, r.Sources)

	b.WriteString("\n")
	b.WriteString("  " + separatorLine)
	b.WriteString("\n\n")

	// ── Findings ──
	b.WriteString("  ")
	b.WriteString(titleStyle.Render("Top findings"))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d total", r.Buckets.Total)))
	b.WriteString("\n\n")

	for i, f := range r.Findings {
		if i == MaxListed {
			more := len(r.Findings) - MaxListed
			b.WriteString("    " + dimStyle.Render(fmt.Sprintf("… %d more in the Markdown report", more)) + "\n")
			break
		}
		renderFinding(&b, f, r.Threshold)
	}

	if r.Summary != "" {
		b.WriteString("\n  " + titleStyle.Render("Summary") + "\n\n")
		for _, line := range strings.Split(r.Summary, "\n") {
			b.WriteString("    " + dimStyle.Render(line) + "\n")
		}
	}

	b.WriteString("\n")
	return b.String()
}

func headerMeta(r *domain.Report, branch string) string {
	var parts []string
	if branch != "" {
		parts = append(parts, branch)
	}
	if hash := shortHash(r.CommitHash); hash != "" {
		parts = append(parts, hash)
	}
	if !r.GeneratedAt.IsZero() {
		parts = append(parts, r.GeneratedAt.Format("2006-01-02 15:04"))
	}
	return strings.Join(parts, " · ")
}

func renderBucket(b *strings.Builder, name string, count, total int, color lipgloss.Color) {
	label := bucketStyle.Render(padRight(name, 14))
	bar := coloredBar(count, total, 24, color)
	n := lipgloss.NewStyle().Bold(true).Foreground(color).Render(fmt.Sprintf("%d", count))
	fmt.Fprintf(b, "  %s %s  %s\n", label, bar, n)
}

func renderSources(b *strings.Builder, sources []domain.SourceStatus) {
	for _, s := range sources {
		if s.Warning == "" {
			continue
		}
		fmt.Fprintf(b, "  %s %s %s\n",
			warnTagStyle.Render("warn "),
			fileStyle.Render(fmt.Sprintf("%s %s", s.Tool, shortenPath(s.Path))),
			dimStyle.Render(s.Warning),
		)
	}
}

func renderFinding(b *strings.Builder, f domain.Finding, threshold int) {
	score := lipgloss.NewStyle().
		Bold(true).
		Foreground(scoreColor(f.Score, threshold)).
		Render(fmt.Sprintf("%2d", f.Score))
	ref := fmt.Sprintf("%s:%s", f.Tool, f.ID)

	fmt.Fprintf(b, "    %s %s %s\n", score, titleStyle.Render(ref), faintStyle.Render(string(f.Severity)))
	if f.Path != "" {
		fmt.Fprintf(b, "       %s\n", fileStyle.Render(shortenPath(f.Path)))
	}
	fmt.Fprintf(b, "       %s\n", dimStyle.Render(f.Message))
}

func coloredBar(count, total, width int, color lipgloss.Color) string {
	filled := 0
	if total > 0 {
		filled = max(0, min(count*width/total, width))
	}
	if count > 0 && filled == 0 {
		filled = 1
	}
	empty := width - filled

	filledStr := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	emptyStr := lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("░", empty))
	return filledStr + emptyStr
}

func scoreColor(score, threshold int) lipgloss.Color {
	switch {
	case score >= threshold:
		return danger
	case score >= 7:
		return orange
	case score >= 5:
		return warning
	default:
		return info
	}
}

func verdictColor(r *domain.Report) lipgloss.Color {
	if r.Failed {
		return danger
	}
	return success
}

func shortenPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) > 3 {
		return strings.Join(parts[len(parts)-3:], "/")
	}
	return path
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

func padRight(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// RenderHistory formats run history for terminal output, with the change
// in critical findings between consecutive runs.
func RenderHistory(entries []domain.RunEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No run history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Run History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for i, e := range entries {
		hash := shortHash(e.CommitHash)
		if hash == "" {
			hash = "·······"
		}

		verdict := passStyle.Render("PASS")
		if e.Failed {
			verdict = failStyle.Render("FAIL")
		}

		line := fmt.Sprintf("  %s  %s  %s  %s",
			dimStyle.Render(datePart(e.Timestamp)),
			faintStyle.Render(hash),
			verdict,
			fmt.Sprintf("%d critical / %d total", e.Critical, e.Total),
		)

		if i > 0 {
			diff := e.Critical - entries[i-1].Critical
			if diff > 0 {
				line += "  " + failStyle.Render(fmt.Sprintf("↑%d", diff))
			} else if diff < 0 {
				line += "  " + passStyle.Render(fmt.Sprintf("↓%d", -diff))
			}
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func datePart(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}
