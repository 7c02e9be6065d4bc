package clustering

import (
	"strings"
	"testing"

	"github.com/justestif/go-commit-mood/internal/mood"
)

func TestFormatPhaseSummary(t *testing.T) {
	makePhase := func(m mood.Mood, commits []AnalyzedCommit) Phase {
		return Phase{
			Name:    m.Title(),
			Mood:    m,
			Commits: commits,
			Start:   commits[0].Time(),
			End:     commits[len(commits)-1].Time(),
		}
	}

	frustrated := scores(1.5, 0, 0, 0, 0)
	fixes := []AnalyzedCommit{
		makeCommit("fix bug", 0, frustrated),
		makeCommit("fix crash", 1, frustrated),
		makeCommit("fix error", 2, frustrated),
		makeCommit("fix panic", 3, frustrated),
		makeCommit("fix leak", 4, frustrated),
	}
	fixes[0].Commit.Author = "Ada"

	tests := []struct {
		name           string
		phases         []Phase
		outliers       []AnalyzedCommit
		wantContains   []string
		wantNotContain []string
	}{
		{
			name:         "no phases no outliers",
			wantContains: []string{"No mood phases found from 0 commits"},
			wantNotContain: []string{
				"outliers",
			},
		},
		{
			name:         "no phases with outliers",
			outliers:     fixes[:2],
			wantContains: []string{"No mood phases found from 2 commits", "(2 outliers skipped)"},
		},
		{
			name:   "single phase",
			phases: []Phase{makePhase(mood.Frustrated, fixes[:2])},
			wantContains: []string{
				"Found 1 mood phase from 2 commits",
				"Phase 1: frustrated, 2024-01-15 to 2024-01-16 (2 commits)",
				`"fix bug" - Ada`,
				`"fix crash"`,
			},
			wantNotContain: []string{"phases", "more"},
		},
		{
			name: "multiple phases truncates samples",
			phases: []Phase{
				makePhase(mood.Frustrated, fixes),
				makePhase(mood.Excited, []AnalyzedCommit{makeCommit("add feature", 9, scores(0, 1.2, 0, 0, 0))}),
			},
			outliers: []AnalyzedCommit{makeCommit("bump", 10, mood.Scores{})},
			wantContains: []string{
				"Found 2 mood phases from 7 commits (1 outliers skipped)",
				"... and 2 more",
				"Phase 2: excited, 2024-01-24 to 2024-01-24 (1 commit)",
			},
			wantNotContain: []string{"fix panic"},
		},
		{
			name: "phase without timestamps",
			phases: []Phase{{
				Name:    "Tired",
				Mood:    mood.Tired,
				Commits: []AnalyzedCommit{{Commit: mood.Commit{Message: "wip"}}, {Commit: mood.Commit{Message: "tweak"}}},
			}},
			wantContains: []string{"Phase 1: tired (2 commits)"},
			wantNotContain: []string{
				" to ",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatPhaseSummary(tt.phases, len(tt.outliers))
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q\ngot:\n%s", want, got)
				}
			}
			for _, bad := range tt.wantNotContain {
				if strings.Contains(got, bad) {
					t.Errorf("output should not contain %q\ngot:\n%s", bad, got)
				}
			}
		})
	}
}
