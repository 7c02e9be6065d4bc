// Package playlist turns a detected coding mood into a Spotify playlist.
package playlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/justestif/go-commit-mood/internal/mood"
	"github.com/justestif/go-commit-mood/internal/spotify"
)

// Defaults for playlist generation.
const (
	DefaultMaxTracks   = 20
	DefaultConcurrency = 4
	perTermLimit       = 10
)

// ErrNoTracks is returned when no search term produced any track.
var ErrNoTracks = errors.New("no tracks found for mood")

// TrackSearcher finds tracks for a free-text query.
type TrackSearcher interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]spotify.Track, error)
}

// PlaylistWriter creates playlists and fills them.
type PlaylistWriter interface {
	CreatePlaylist(ctx context.Context, name, description string, public bool) (*spotify.Playlist, error)
	AddTracksToPlaylist(ctx context.Context, playlistID string, trackIDs []string) error
}

// Request describes the playlist to build.
type Request struct {
	Mood        mood.Mood
	Confidence  float64
	CommitCount int
	Repo        string // "owner/name", optional
	Public      bool
}

// Result is a created playlist with its tracks.
type Result struct {
	Playlist *spotify.Playlist `json:"playlist"`
	Tracks   []spotify.Track   `json:"tracks"`
}

// Generator builds mood playlists.
type Generator struct {
	searcher    TrackSearcher
	writer      PlaylistWriter
	maxTracks   int
	concurrency int
	logger      *logrus.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithMaxTracks caps the number of tracks per playlist.
func WithMaxTracks(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxTracks = n
		}
	}
}

// WithConcurrency bounds the number of concurrent searches.
func WithConcurrency(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator creates a Generator. The spotify.Client satisfies both
// interfaces.
func NewGenerator(searcher TrackSearcher, writer PlaylistWriter, opts ...Option) *Generator {
	g := &Generator{
		searcher:    searcher,
		writer:      writer,
		maxTracks:   DefaultMaxTracks,
		concurrency: DefaultConcurrency,
		logger:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FindTracks searches every catalog term for m concurrently and returns up
// to the configured maximum of distinct tracks, in search term order.
// Failed searches are logged and skipped unless all of them fail.
func (g *Generator) FindTracks(ctx context.Context, m mood.Mood) ([]spotify.Track, error) {
	terms := mood.Describe(m).SearchTerms
	results := make([][]spotify.Track, len(terms))
	errs := make([]error, len(terms))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)

	for i, term := range terms {
		eg.Go(func() error {
			tracks, err := g.searcher.SearchTracks(ctx, term, perTermLimit)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				errs[i] = err
				return nil
			}
			results[i] = tracks
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	failed := 0
	for i, err := range errs {
		if err != nil {
			failed++
			g.logger.WithError(err).WithField("term", terms[i]).Warn("track search failed")
		}
	}
	if failed == len(terms) && failed > 0 {
		return nil, fmt.Errorf("searching tracks: %w", errs[0])
	}

	seen := make(map[string]struct{})
	var tracks []spotify.Track
	for _, batch := range results {
		for _, t := range batch {
			if len(tracks) >= g.maxTracks {
				return tracks, nil
			}
			if _, dup := seen[t.ID]; dup || t.ID == "" {
				continue
			}
			seen[t.ID] = struct{}{}
			tracks = append(tracks, t)
		}
	}

	if len(tracks) == 0 {
		return nil, ErrNoTracks
	}
	return tracks, nil
}

// Generate finds tracks for the requested mood and saves them as a new
// playlist.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	tracks, err := g.FindTracks(ctx, req.Mood)
	if err != nil {
		return nil, err
	}

	name, description := Describe(req)
	playlist, err := g.writer.CreatePlaylist(ctx, name, description, req.Public)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}
	if err := g.writer.AddTracksToPlaylist(ctx, playlist.ID, ids); err != nil {
		return nil, err
	}

	g.logger.WithFields(logrus.Fields{
		"playlist": playlist.ID,
		"mood":     req.Mood,
		"tracks":   len(tracks),
	}).Info("playlist created")

	return &Result{Playlist: playlist, Tracks: tracks}, nil
}

// Describe returns the playlist name and description for a request, such as
// "Tired Coding - Ambient & Chill".
func Describe(req Request) (name, description string) {
	d := mood.Describe(req.Mood)
	name = fmt.Sprintf("%s Coding - %s", req.Mood.Title(), d.Genre)

	description = fmt.Sprintf("%s %s energy music for a %s mood, detected from %d commits with confidence %.2f.",
		d.Emoji, d.Energy, req.Mood, req.CommitCount, req.Confidence)
	if req.Repo != "" {
		description = fmt.Sprintf("%s Repository: %s.", description, req.Repo)
	}
	return name, description
}
