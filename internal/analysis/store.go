package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/justestif/go-commit-mood/internal/db"
)

// DBStore persists reports in PostgreSQL.
type DBStore struct {
	db *db.DB
}

// NewDBStore creates a Store backed by database.
func NewDBStore(database *db.DB) *DBStore {
	return &DBStore{db: database}
}

// SaveReport stores the report and its commits and sets report.ID.
func (s *DBStore) SaveReport(ctx context.Context, report *Report) error {
	a, commits := toDBAnalysis(report)
	if err := s.db.Analyses().Create(ctx, &a, commits); err != nil {
		return fmt.Errorf("creating analysis for %s: %w", report.Repo.FullName(), err)
	}
	report.ID = a.ID.String()
	report.Created = a.CreatedAt
	return nil
}

// LatestForRepo returns the stored summaries of a repository, newest first.
func (s *DBStore) LatestForRepo(ctx context.Context, owner, name string, limit int) ([]db.Analysis, error) {
	analyses, err := s.db.Analyses().ListForRepo(ctx, owner, name, limit)
	if err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}
	return analyses, nil
}

// Load returns a stored analysis with its scored commits.
func (s *DBStore) Load(ctx context.Context, reportID string) (*db.Analysis, []db.AnalysisCommit, error) {
	id, err := uuid.Parse(reportID)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid analysis ID: %w", err)
	}
	a, err := s.db.Analyses().Get(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("getting analysis %s: %w", id, err)
	}
	commits, err := s.db.Analyses().GetCommits(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("getting commits of analysis %s: %w", id, err)
	}
	return a, commits, nil
}

// Delete removes a stored analysis and its commits.
func (s *DBStore) Delete(ctx context.Context, reportID string) error {
	id, err := uuid.Parse(reportID)
	if err != nil {
		return fmt.Errorf("invalid analysis ID: %w", err)
	}
	if err := s.db.Analyses().Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting analysis %s: %w", id, err)
	}
	return nil
}

// RecordPlaylist links a created playlist to the report it was built from
// and stamps the user's last playlist time. Either ID may be empty.
func (s *DBStore) RecordPlaylist(ctx context.Context, userID, reportID, playlistID string) error {
	if reportID != "" {
		id, err := uuid.Parse(reportID)
		if err != nil {
			return fmt.Errorf("invalid analysis ID: %w", err)
		}
		if err := s.db.Analyses().UpdatePlaylistID(ctx, id, playlistID); err != nil {
			return fmt.Errorf("updating analysis playlist: %w", err)
		}
	}
	if userID != "" {
		if err := s.db.Users().MarkPlaylistCreated(ctx, userID, time.Now()); err != nil {
			return fmt.Errorf("marking playlist for user %s: %w", userID, err)
		}
	}
	return nil
}

// toDBAnalysis converts a report to its database rows.
func toDBAnalysis(r *Report) (db.Analysis, []db.AnalysisCommit) {
	commits := make([]db.AnalysisCommit, len(r.Commits))
	for i, c := range r.Commits {
		commits[i] = db.AnalysisCommit{
			Position:    i,
			SHA:         c.Commit.SHA,
			Message:     c.Commit.Message,
			Author:      c.Commit.Author,
			URL:         c.Commit.URL,
			CommittedAt: c.Commit.Timestamp,
			Mood:        c.Analysis.Mood,
			Confidence:  c.Analysis.Confidence,
			Scores:      c.Analysis.Scores,
		}
	}
	return db.Analysis{
		RepoOwner:    r.Repo.Owner,
		RepoName:     r.Repo.Name,
		RepoURL:      r.Repo.URL,
		Mood:         r.Result.Mood,
		Confidence:   r.Result.Confidence,
		Trend:        r.Result.Trend,
		Distribution: r.Result.Distribution,
	}, commits
}
