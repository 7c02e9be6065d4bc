package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/justestif/go-commit-mood/internal/clustering"
	"github.com/justestif/go-commit-mood/internal/mood"
)

// Repo identifies the analysed repository.
type Repo struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
	URL   string `json:"url"`
}

// FullName returns "owner/name".
func (r Repo) FullName() string {
	return r.Owner + "/" + r.Name
}

// Report is the outcome of one analysis run.
type Report struct {
	ID       string                      `json:"id,omitempty"` // Set once persisted
	Repo     Repo                        `json:"repo"`
	Result   mood.TrendResult            `json:"result"`
	Commits  []clustering.AnalyzedCommit `json:"commits"` // Most recent first
	Music    mood.Descriptor             `json:"music"`
	Phases   []clustering.Phase          `json:"phases,omitempty"`
	Outliers int                         `json:"outliers"`
	Created  time.Time                   `json:"created_at"`
}

// FormatReport renders a report as plain text for the terminal.
func FormatReport(r *Report) string {
	var sb strings.Builder

	if r.Repo.Owner != "" {
		sb.WriteString(fmt.Sprintf("Repository: %s\n", r.Repo.FullName()))
	}
	sb.WriteString(fmt.Sprintf("Overall mood: %s %s (confidence %.2f, trend %s)\n",
		r.Music.Emoji, r.Result.Mood.Title(), r.Result.Confidence, r.Result.Trend))
	sb.WriteString(fmt.Sprintf("Soundtrack: %s, %s energy\n", r.Music.Genre, r.Music.Energy))

	sb.WriteString("\nDistribution:\n")
	for _, m := range mood.Moods {
		sb.WriteString(fmt.Sprintf("  %-10s %.2f\n", m, r.Result.Distribution.Get(m)))
	}

	if len(r.Commits) > 0 {
		sb.WriteString(fmt.Sprintf("\nRecent commits (%d):\n", len(r.Commits)))
		for _, c := range r.Commits {
			sha := c.Commit.SHA
			if sha == "" {
				sha = "-------"
			}
			sb.WriteString(fmt.Sprintf("  %s %-10s %.2f  %s\n",
				sha, c.Analysis.Mood, c.Analysis.Confidence, c.Commit.Message))
		}
	}

	return sb.String()
}
