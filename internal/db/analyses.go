package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalysisRepository handles stored analysis operations.
type AnalysisRepository struct {
	pool *pgxpool.Pool
}

const analysisColumns = `id, user_id, repo_owner, repo_name, repo_url, mood, confidence, trend,
		distribution, commit_count, playlist_id, created_at`

// Create inserts an analysis together with its scored commits.
func (r *AnalysisRepository) Create(ctx context.Context, a *Analysis, commits []AnalysisCommit) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CommitCount = len(commits)

	distribution, err := json.Marshal(a.Distribution)
	if err != nil {
		return fmt.Errorf("encoding distribution: %w", err)
	}

	query := `
		INSERT INTO analyses (id, user_id, repo_owner, repo_name, repo_url, mood, confidence, trend,
			distribution, commit_count, playlist_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		RETURNING created_at
	`
	err = tx.QueryRow(ctx, query,
		a.ID,
		a.UserID,
		a.RepoOwner,
		a.RepoName,
		a.RepoURL,
		a.Mood,
		a.Confidence,
		a.Trend,
		distribution,
		a.CommitCount,
		a.PlaylistID,
	).Scan(&a.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting analysis: %w", err)
	}

	if len(commits) > 0 {
		batch := &pgx.Batch{}
		for i := range commits {
			c := &commits[i]
			c.AnalysisID = a.ID
			c.Position = i
			scores, err := json.Marshal(c.Scores)
			if err != nil {
				return fmt.Errorf("encoding commit scores: %w", err)
			}
			batch.Queue(`
				INSERT INTO analysis_commits (analysis_id, position, sha, message, author, url,
					committed_at, mood, confidence, scores)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			`, c.AnalysisID, c.Position, c.SHA, c.Message, c.Author, c.URL,
				c.CommittedAt, c.Mood, c.Confidence, scores)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting analysis commits: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Get retrieves an analysis by ID.
func (r *AnalysisRepository) Get(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	query := `SELECT ` + analysisColumns + ` FROM analyses WHERE id = $1`

	a, err := scanAnalysis(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying analysis: %w", err)
	}
	return a, nil
}

// ListForRepo returns the most recent analyses of a repository, newest first.
func (r *AnalysisRepository) ListForRepo(ctx context.Context, owner, name string, limit int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT ` + analysisColumns + `
		FROM analyses
		WHERE repo_owner = $1 AND repo_name = $2
		ORDER BY created_at DESC
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, owner, name, limit)
	if err != nil {
		return nil, fmt.Errorf("querying repo analyses: %w", err)
	}
	defer rows.Close()

	var analyses []Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning analysis: %w", err)
		}
		analyses = append(analyses, *a)
	}
	return analyses, rows.Err()
}

// GetCommits retrieves the scored commits of an analysis, most recent first.
func (r *AnalysisRepository) GetCommits(ctx context.Context, analysisID uuid.UUID) ([]AnalysisCommit, error) {
	query := `
		SELECT analysis_id, position, sha, message, author, url, committed_at, mood, confidence, scores
		FROM analysis_commits
		WHERE analysis_id = $1
		ORDER BY position
	`
	rows, err := r.pool.Query(ctx, query, analysisID)
	if err != nil {
		return nil, fmt.Errorf("querying analysis commits: %w", err)
	}
	defer rows.Close()

	var commits []AnalysisCommit
	for rows.Next() {
		var c AnalysisCommit
		var scores []byte
		if err := rows.Scan(
			&c.AnalysisID,
			&c.Position,
			&c.SHA,
			&c.Message,
			&c.Author,
			&c.URL,
			&c.CommittedAt,
			&c.Mood,
			&c.Confidence,
			&scores,
		); err != nil {
			return nil, fmt.Errorf("scanning analysis commit: %w", err)
		}
		if err := json.Unmarshal(scores, &c.Scores); err != nil {
			return nil, fmt.Errorf("decoding commit scores: %w", err)
		}
		commits = append(commits, c)
	}
	return commits, rows.Err()
}

// UpdatePlaylistID sets the Spotify playlist ID generated from an analysis.
func (r *AnalysisRepository) UpdatePlaylistID(ctx context.Context, id uuid.UUID, playlistID string) error {
	result, err := r.pool.Exec(ctx, `UPDATE analyses SET playlist_id = $2 WHERE id = $1`, id, playlistID)
	if err != nil {
		return fmt.Errorf("updating playlist ID: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an analysis and its commits.
func (r *AnalysisRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM analyses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting analysis: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAnalysis(row pgx.Row) (*Analysis, error) {
	var a Analysis
	var distribution []byte
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.RepoOwner,
		&a.RepoName,
		&a.RepoURL,
		&a.Mood,
		&a.Confidence,
		&a.Trend,
		&distribution,
		&a.CommitCount,
		&a.PlaylistID,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(distribution, &a.Distribution); err != nil {
		return nil, fmt.Errorf("decoding distribution: %w", err)
	}
	return &a, nil
}
