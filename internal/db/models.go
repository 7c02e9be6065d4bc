package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/justestif/go-commit-mood/internal/mood"
)

// User represents a Spotify user who has signed in to create playlists.
type User struct {
	ID             string
	DisplayName    string
	Email          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	LastPlaylistAt *time.Time // nullable
}

// Session represents an authenticated web session.
type Session struct {
	ID           string
	UserID       string
	AccessToken  string
	RefreshToken string
	TokenExpiry  time.Time
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// Analysis is a stored mood analysis of a repository's recent commits.
type Analysis struct {
	ID           uuid.UUID
	UserID       *string // nullable - set when a signed-in user ran it
	RepoOwner    string
	RepoName     string
	RepoURL      string
	Mood         mood.Mood
	Confidence   float64
	Trend        mood.Trend
	Distribution mood.Scores
	CommitCount  int
	PlaylistID   *string // nullable - Spotify playlist ID if created
	CreatedAt    time.Time
}

// AnalysisCommit is one scored commit of an analysis. Position 0 is the
// most recent commit.
type AnalysisCommit struct {
	AnalysisID  uuid.UUID
	Position    int
	SHA         string
	Message     string
	Author      string
	URL         string
	CommittedAt *time.Time // nullable
	Mood        mood.Mood
	Confidence  float64
	Scores      mood.Scores
}
