package clustering

import (
	"fmt"
	"strings"
)

const (
	sampleCommitCount = 3
	dateFormat        = "2006-01-02"
)

// FormatPhaseSummary returns a human-readable summary of detected phases.
// Shows date range, commit count, and the first 3 sample commits for each
// phase. Outliers are summarized by count only.
func FormatPhaseSummary(phases []Phase, outliers int) string {
	var sb strings.Builder

	totalCommits := outliers
	for _, p := range phases {
		totalCommits += len(p.Commits)
	}

	if len(phases) == 0 {
		sb.WriteString(fmt.Sprintf("No mood phases found from %d commits", totalCommits))
		if outliers > 0 {
			sb.WriteString(fmt.Sprintf(" (%d outliers skipped)", outliers))
		}
		sb.WriteString("\n")
		return sb.String()
	}

	phaseWord := "phase"
	if len(phases) > 1 {
		phaseWord = "phases"
	}

	sb.WriteString(fmt.Sprintf("Found %d mood %s from %d commits", len(phases), phaseWord, totalCommits))
	if outliers > 0 {
		sb.WriteString(fmt.Sprintf(" (%d outliers skipped)", outliers))
	}
	sb.WriteString("\n")

	for i, p := range phases {
		sb.WriteString("\n")
		sb.WriteString(formatPhase(i+1, p))
	}

	return sb.String()
}

// formatPhase formats a single phase with its sample commits.
func formatPhase(num int, p Phase) string {
	var sb strings.Builder

	commitWord := "commit"
	if len(p.Commits) > 1 {
		commitWord = "commits"
	}

	if p.Start.IsZero() {
		sb.WriteString(fmt.Sprintf("Phase %d: %s (%d %s)\n", num, p.Mood, len(p.Commits), commitWord))
	} else {
		sb.WriteString(fmt.Sprintf("Phase %d: %s, %s to %s (%d %s)\n",
			num, p.Mood, p.Start.Format(dateFormat), p.End.Format(dateFormat), len(p.Commits), commitWord))
	}

	sampleCount := min(sampleCommitCount, len(p.Commits))
	for i := 0; i < sampleCount; i++ {
		c := p.Commits[i].Commit
		if c.Author != "" {
			sb.WriteString(fmt.Sprintf("  • %q - %s\n", c.Message, c.Author))
		} else {
			sb.WriteString(fmt.Sprintf("  • %q\n", c.Message))
		}
	}

	remaining := len(p.Commits) - sampleCommitCount
	if remaining > 0 {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", remaining))
	}

	return sb.String()
}
