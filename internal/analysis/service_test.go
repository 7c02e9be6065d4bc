package analysis

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justestif/go-commit-mood/internal/github"
	"github.com/justestif/go-commit-mood/internal/mood"
)

// mockSource implements CommitSource for testing.
type mockSource struct {
	commits  []mood.Commit
	err      error
	calls    atomic.Int32
	gotLimit int
	gotRepo  string
}

func (m *mockSource) FetchCommits(ctx context.Context, owner, repo string, limit int) ([]mood.Commit, error) {
	m.calls.Add(1)
	m.gotLimit = limit
	m.gotRepo = owner + "/" + repo
	if m.err != nil {
		return nil, m.err
	}
	return m.commits[:min(limit, len(m.commits))], nil
}

// mockStore implements Store for testing.
type mockStore struct {
	saved []*Report
	err   error
}

func (m *mockStore) SaveReport(ctx context.Context, report *Report) error {
	if m.err != nil {
		return m.err
	}
	report.ID = "stored-id"
	m.saved = append(m.saved, report)
	return nil
}

func commitsAt(messages ...string) []mood.Commit {
	// Weekday mornings so no time adjustments apply.
	base := time.Date(2024, 6, 5, 10, 0, 0, 0, time.UTC)
	commits := make([]mood.Commit, len(messages))
	for i, msg := range messages {
		ts := base.Add(-time.Duration(i) * time.Hour)
		commits[i] = mood.Commit{Message: msg, Timestamp: &ts, SHA: "sha" + string(rune('a'+i))}
	}
	return commits
}

func newTestService(source CommitSource, opts ...Option) *Service {
	scorer := mood.NewScorer(nil, mood.WithLocation(time.UTC))
	opts = append([]Option{WithAggregator(mood.NewAggregator(scorer))}, opts...)
	return New(source, opts...)
}

func TestAnalyze(t *testing.T) {
	source := &mockSource{commits: commitsAt(
		"fix critical bug in parser",
		"fix crash on startup",
		"add new feature for export",
		"update config",
		"fix broken test",
		"initial commit",
		"refactor storage",
	)}
	store := &mockStore{}
	svc := newTestService(source, WithStore(store))

	report, err := svc.Analyze(context.Background(), Request{RepoURL: "https://github.com/octo/demo.git"})
	require.NoError(t, err)

	assert.Equal(t, "octo/demo", source.gotRepo)
	assert.Equal(t, DefaultFetchLimit, source.gotLimit)
	assert.Equal(t, Repo{Owner: "octo", Name: "demo", URL: "https://github.com/octo/demo"}, report.Repo)

	require.Len(t, report.Commits, DefaultWindow)
	require.Len(t, report.Result.Analyses, DefaultWindow)
	assert.Equal(t, "fix critical bug in parser", report.Commits[0].Commit.Message)
	assert.Equal(t, mood.Frustrated, report.Result.Mood)
	assert.Equal(t, mood.Describe(mood.Frustrated), report.Music)

	for i, c := range report.Commits {
		assert.Equal(t, report.Result.Analyses[i], c.Analysis)
	}

	require.Len(t, store.saved, 1)
	assert.Equal(t, "stored-id", report.ID)
}

func TestAnalyze_RequestWindow(t *testing.T) {
	source := &mockSource{commits: commitsAt("fix bug", "add feature", "refactor", "oops", "wip")}
	svc := newTestService(source)

	report, err := svc.Analyze(context.Background(), Request{
		RepoURL: "https://github.com/octo/demo",
		Window:  2,
	})
	require.NoError(t, err)

	assert.Len(t, report.Commits, 2)
	assert.Equal(t, DefaultFetchLimit, source.gotLimit)
}

func TestAnalyze_WindowLargerThanFetchLimit(t *testing.T) {
	source := &mockSource{commits: commitsAt("a", "b", "c")}
	svc := newTestService(source, WithFetchLimit(2))

	_, err := svc.Analyze(context.Background(), Request{RepoURL: "https://github.com/octo/demo", Window: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, source.gotLimit)
}

func TestAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		source  *mockSource
		store   Store
		wantErr error
		calls   int32
	}{
		{
			name:    "invalid URL",
			url:     "https://gitlab.com/octo/demo",
			source:  &mockSource{},
			wantErr: github.ErrInvalidURL,
			calls:   0,
		},
		{
			name:    "repo not found",
			url:     "https://github.com/octo/missing",
			source:  &mockSource{err: github.ErrRepoNotFound},
			wantErr: github.ErrRepoNotFound,
			calls:   1,
		},
		{
			name:    "rate limited",
			url:     "https://github.com/octo/demo",
			source:  &mockSource{err: github.ErrRateLimited},
			wantErr: github.ErrRateLimited,
			calls:   1,
		},
		{
			name:    "no commits",
			url:     "https://github.com/octo/empty",
			source:  &mockSource{},
			wantErr: ErrNoCommits,
			calls:   1,
		},
		{
			name:    "store failure",
			url:     "https://github.com/octo/demo",
			source:  &mockSource{commits: commitsAt("fix bug")},
			store:   &mockStore{err: errors.New("db down")},
			wantErr: nil,
			calls:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []Option
			if tt.store != nil {
				opts = append(opts, WithStore(tt.store))
			}
			svc := newTestService(tt.source, opts...)

			report, err := svc.Analyze(context.Background(), Request{RepoURL: tt.url})
			require.Error(t, err)
			assert.Nil(t, report)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.Contains(t, err.Error(), "saving analysis")
			}
			assert.Equal(t, tt.calls, tt.source.calls.Load())
		})
	}
}

func TestAnalyze_TokenUsesFactory(t *testing.T) {
	shared := &mockSource{commits: commitsAt("shared")}
	private := &mockSource{commits: commitsAt("private fix bug")}

	var gotToken string
	svc := newTestService(shared, WithSourceFactory(func(token string) (CommitSource, error) {
		gotToken = token
		return private, nil
	}))

	report, err := svc.Analyze(context.Background(), Request{RepoURL: "https://github.com/octo/demo", Token: "secret"})
	require.NoError(t, err)

	assert.Equal(t, "secret", gotToken)
	assert.Equal(t, int32(0), shared.calls.Load())
	assert.Equal(t, int32(1), private.calls.Load())
	assert.Equal(t, "private fix bug", report.Commits[0].Commit.Message)

	_, err = svc.Analyze(context.Background(), Request{RepoURL: "https://github.com/octo/demo"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), shared.calls.Load())
}

func TestAnalyze_FactoryError(t *testing.T) {
	svc := newTestService(&mockSource{}, WithSourceFactory(func(string) (CommitSource, error) {
		return nil, errors.New("bad token")
	}))

	_, err := svc.Analyze(context.Background(), Request{RepoURL: "https://github.com/octo/demo", Token: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating commit source")
}

func TestAnalyzeCommits(t *testing.T) {
	svc := newTestService(nil)

	t.Run("empty", func(t *testing.T) {
		report := svc.AnalyzeCommits(nil, 0)
		assert.Empty(t, report.Commits)
		assert.Equal(t, mood.Frustrated, report.Result.Mood)
		assert.Equal(t, mood.Stable, report.Result.Trend)
		assert.Empty(t, report.Phases)
	})

	t.Run("phases cover all commits", func(t *testing.T) {
		commits := commitsAt(
			"fix bug", "fix crash", "fix error",
			"add feature", "implement new api", "create module",
			"refactor code", "clean up docs", "improve tests",
			"bump version",
		)
		report := svc.AnalyzeCommits(commits, 3)

		assert.Len(t, report.Commits, 3)
		total := report.Outliers
		for _, p := range report.Phases {
			total += len(p.Commits)
		}
		assert.Equal(t, len(commits), total)
	})
}

func TestFormatReport(t *testing.T) {
	svc := newTestService(nil)
	report := svc.AnalyzeCommits(commitsAt("fix critical bug", "add feature"), 5)
	report.Repo = Repo{Owner: "octo", Name: "demo"}

	out := FormatReport(report)

	for _, want := range []string{
		"Repository: octo/demo",
		"Overall mood:",
		"Frustrated",
		"Distribution:",
		"euphoric",
		"Recent commits (2):",
		"shaa",
		"fix critical bug",
	} {
		assert.True(t, strings.Contains(out, want), "output missing %q:\n%s", want, out)
	}
}

func TestAnalyze_ClampsWindow(t *testing.T) {
	messages := make([]string, MaxFetchLimit+50)
	for i := range messages {
		messages[i] = "fix bug"
	}
	source := &mockSource{commits: commitsAt(messages...)}
	svc := newTestService(source)

	report, err := svc.Analyze(context.Background(), Request{
		RepoURL: "https://github.com/octo/demo",
		Window:  1 << 60,
	})
	require.NoError(t, err)

	assert.Equal(t, MaxFetchLimit, source.gotLimit)
	assert.Len(t, report.Commits, MaxWindow)
	assert.Len(t, report.Result.Analyses, MaxWindow)

	report = svc.AnalyzeCommits(source.commits, 1<<60)
	assert.Len(t, report.Commits, MaxWindow)
}

func TestWithFetchLimit_Clamped(t *testing.T) {
	source := &mockSource{commits: commitsAt("fix bug")}
	svc := newTestService(source, WithFetchLimit(1<<40), WithWindow(1<<40))

	_, err := svc.Analyze(context.Background(), Request{RepoURL: "https://github.com/octo/demo"})
	require.NoError(t, err)
	assert.Equal(t, MaxFetchLimit, source.gotLimit)
}
