package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDBAnalysis(t *testing.T) {
	commits := commitsAt("feat: add search", "fix: crash on empty input")
	commits[0].Author = "ana"
	commits[0].URL = "https://github.com/octo/demo/commit/a"

	report := newTestService(nil).AnalyzeCommits(commits, 5)
	report.Repo = Repo{Owner: "octo", Name: "demo", URL: "https://github.com/octo/demo"}

	a, rows := toDBAnalysis(report)

	assert.Equal(t, "octo", a.RepoOwner)
	assert.Equal(t, "demo", a.RepoName)
	assert.Equal(t, report.Result.Mood, a.Mood)
	assert.Equal(t, report.Result.Confidence, a.Confidence)
	assert.Equal(t, report.Result.Trend, a.Trend)
	assert.Equal(t, report.Result.Distribution, a.Distribution)

	require.Len(t, rows, 2)
	for i, row := range rows {
		assert.Equal(t, i, row.Position)
		assert.Equal(t, commits[i].SHA, row.SHA)
		assert.Equal(t, commits[i].Message, row.Message)
		assert.Equal(t, report.Commits[i].Analysis.Mood, row.Mood)
		assert.Equal(t, report.Commits[i].Analysis.Scores, row.Scores)
	}
	assert.Equal(t, "ana", rows[0].Author)
	assert.Equal(t, commits[0].URL, rows[0].URL)
	assert.Equal(t, commits[1].Timestamp, rows[1].CommittedAt)
}

func TestDBStore_RejectsInvalidIDs(t *testing.T) {
	store := &DBStore{}
	ctx := context.Background()

	_, _, err := store.Load(ctx, "not-a-uuid")
	assert.ErrorContains(t, err, "invalid analysis ID")

	assert.ErrorContains(t, store.Delete(ctx, "42"), "invalid analysis ID")
	assert.ErrorContains(t, store.RecordPlaylist(ctx, "", "nope", "pl1"), "invalid analysis ID")

	// Nothing to record without a report or a user.
	assert.NoError(t, store.RecordPlaylist(ctx, "", "", "pl1"))
}
