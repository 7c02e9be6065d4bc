// Package config loads runtime settings from the environment, after
// applying an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// ErrMissingSpotifyCredentials is returned when playlist features are used
// without SPOTIFY_ID and SPOTIFY_SECRET.
var ErrMissingSpotifyCredentials = errors.New("please set SPOTIFY_ID and SPOTIFY_SECRET environment variables")

// Config holds every runtime setting.
type Config struct {
	Addr               string
	SpotifyID          string
	SpotifySecret      string
	SpotifyRedirectURL string
	GitHubToken        string
	GitHubRateLimit    int // Requests per second
	DatabaseURL        string
	LogLevel           string
	CommitWindow       int
	CommitFetchLimit   int
	LexiconPath        string // Optional YAML lexicon replacing the built-in one
}

// Load reads .env files (if present) and then the environment. Variables
// already set in the environment win over .env values.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg := Config{
		Addr:               envStr("COMMIT_MOOD_ADDR", "127.0.0.1:8080"),
		SpotifyID:          envStr("SPOTIFY_ID", ""),
		SpotifySecret:      envStr("SPOTIFY_SECRET", ""),
		SpotifyRedirectURL: envStr("SPOTIFY_REDIRECT_URL", "http://127.0.0.1:8080/callback"),
		GitHubToken:        envStr("GITHUB_TOKEN", ""),
		GitHubRateLimit:    envInt("GITHUB_RATE_LIMIT", 10),
		DatabaseURL:        envStr("DATABASE_URL", ""),
		LogLevel:           envStr("LOG_LEVEL", "info"),
		CommitWindow:       envInt("COMMIT_WINDOW", 5),
		CommitFetchLimit:   envInt("COMMIT_FETCH_LIMIT", 10),
		LexiconPath:        envStr("COMMIT_MOOD_LEXICON", ""),
	}
	return cfg, nil
}

// RequireSpotify checks that Spotify credentials are configured.
func (c Config) RequireSpotify() error {
	if c.SpotifyID == "" || c.SpotifySecret == "" {
		return ErrMissingSpotifyCredentials
	}
	return nil
}

// Level parses LogLevel, falling back to info.
func (c Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(strings.TrimSpace(c.LogLevel))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
