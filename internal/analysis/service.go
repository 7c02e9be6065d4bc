// Package analysis runs the mood pipeline for a repository: fetch recent
// commits, score and aggregate them, detect mood phases and optionally
// persist the result.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/justestif/go-commit-mood/internal/clustering"
	"github.com/justestif/go-commit-mood/internal/github"
	"github.com/justestif/go-commit-mood/internal/mood"
)

// Defaults and upper bounds for the number of commits fetched and aggregated.
// The bounds match one page of the GitHub commits API.
const (
	DefaultWindow     = 5
	DefaultFetchLimit = 10
	MaxWindow         = 100
	MaxFetchLimit     = 100
)

// ErrNoCommits is returned when a repository has no commits to analyse.
var ErrNoCommits = errors.New("repository has no commits")

// CommitSource fetches the most recent commits of a repository, newest first.
type CommitSource interface {
	FetchCommits(ctx context.Context, owner, repo string, limit int) ([]mood.Commit, error)
}

// SourceFactory builds a CommitSource authenticated with a caller-supplied
// token.
type SourceFactory func(token string) (CommitSource, error)

// Store persists finished reports. Save assigns the report ID.
type Store interface {
	SaveReport(ctx context.Context, report *Report) error
}

// Request describes one analysis run.
type Request struct {
	RepoURL string
	Token   string // Optional per-request GitHub token
	Window  int    // Commits to aggregate; 0 selects the service default
}

// Service orchestrates commit retrieval, scoring and persistence.
type Service struct {
	source     CommitSource
	factory    SourceFactory
	store      Store
	aggregator *mood.Aggregator
	phases     clustering.PhaseConfig
	window     int
	fetchLimit int
	logger     *logrus.Logger
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithStore enables persistence of every report.
func WithStore(store Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithSourceFactory sets how per-request tokens become commit sources.
func WithSourceFactory(f SourceFactory) Option {
	return func(s *Service) {
		s.factory = f
	}
}

// WithAggregator overrides the default mood aggregator.
func WithAggregator(a *mood.Aggregator) Option {
	return func(s *Service) {
		if a != nil {
			s.aggregator = a
		}
	}
}

// WithWindow sets the default number of commits aggregated.
func WithWindow(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.window = min(n, MaxWindow)
		}
	}
}

// WithFetchLimit sets how many commits are fetched for phase detection.
func WithFetchLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.fetchLimit = min(n, MaxFetchLimit)
		}
	}
}

// WithPhaseConfig sets the phase clustering parameters.
func WithPhaseConfig(cfg clustering.PhaseConfig) Option {
	return func(s *Service) {
		s.phases = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates an analysis service reading commits from source.
func New(source CommitSource, opts ...Option) *Service {
	s := &Service{
		source:     source,
		aggregator: mood.NewAggregator(nil),
		phases:     clustering.DefaultPhaseConfig(),
		window:     DefaultWindow,
		fetchLimit: DefaultFetchLimit,
		logger:     logrus.StandardLogger(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze fetches a repository's recent commits and builds a mood report.
// Invalid URLs return github.ErrInvalidURL; retrieval failures keep their
// github error classification.
func (s *Service) Analyze(ctx context.Context, req Request) (*Report, error) {
	owner, name, err := github.ParseRepoURL(req.RepoURL)
	if err != nil {
		return nil, err
	}

	window := s.windowFor(req.Window)
	limit := min(max(s.fetchLimit, window), MaxFetchLimit)

	source, err := s.sourceFor(req.Token)
	if err != nil {
		return nil, err
	}

	log := s.logger.WithFields(logrus.Fields{
		"repo":   owner + "/" + name,
		"window": window,
	})
	log.Debug("fetching commits")

	commits, err := source.FetchCommits(ctx, owner, name, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching commits for %s/%s: %w", owner, name, err)
	}
	if len(commits) == 0 {
		return nil, ErrNoCommits
	}

	report := s.buildReport(commits, window)
	report.Repo = Repo{
		Owner: owner,
		Name:  name,
		URL:   fmt.Sprintf("https://github.com/%s/%s", owner, name),
	}

	if s.store != nil {
		if err := s.store.SaveReport(ctx, report); err != nil {
			return nil, fmt.Errorf("saving analysis: %w", err)
		}
	}

	log.WithFields(logrus.Fields{
		"mood":       report.Result.Mood,
		"confidence": report.Result.Confidence,
		"trend":      report.Result.Trend,
		"phases":     len(report.Phases),
	}).Info("analysis complete")

	return report, nil
}

// AnalyzeCommits builds a report from commits already in hand, newest first.
// The first window commits (at most MaxWindow) are aggregated; all of them
// feed phase detection.
func (s *Service) AnalyzeCommits(commits []mood.Commit, window int) *Report {
	return s.buildReport(commits, s.windowFor(window))
}

// windowFor resolves a requested window: non-positive selects the default,
// anything above MaxWindow is clamped.
func (s *Service) windowFor(n int) int {
	if n <= 0 {
		return s.window
	}
	return min(n, MaxWindow)
}

func (s *Service) buildReport(commits []mood.Commit, window int) *Report {
	recent := commits[:min(window, len(commits))]
	result := s.aggregator.Aggregate(recent)

	analyzed := make([]clustering.AnalyzedCommit, len(recent))
	for i, c := range recent {
		analyzed[i] = clustering.AnalyzedCommit{Commit: c, Analysis: result.Analyses[i]}
	}

	// Phase detection sees every fetched commit, not only the window.
	scorer := s.aggregator.Scorer()
	all := make([]clustering.AnalyzedCommit, len(commits))
	copy(all, analyzed)
	for i := len(recent); i < len(commits); i++ {
		all[i] = clustering.AnalyzedCommit{Commit: commits[i], Analysis: scorer.ScoreCommit(commits[i])}
	}
	phases, outliers := clustering.DetectPhases(all, s.phases)

	return &Report{
		Result:   result,
		Commits:  analyzed,
		Music:    mood.Describe(result.Mood),
		Phases:   phases,
		Outliers: len(outliers),
		Created:  s.now(),
	}
}

func (s *Service) sourceFor(token string) (CommitSource, error) {
	if token == "" || s.factory == nil {
		if s.source == nil {
			return nil, errors.New("no commit source configured")
		}
		return s.source, nil
	}
	source, err := s.factory(token)
	if err != nil {
		return nil, fmt.Errorf("creating commit source: %w", err)
	}
	return source, nil
}
