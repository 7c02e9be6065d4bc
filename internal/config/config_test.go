package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"COMMIT_MOOD_ADDR", "SPOTIFY_ID", "SPOTIFY_SECRET", "SPOTIFY_REDIRECT_URL",
	"GITHUB_TOKEN", "GITHUB_RATE_LIMIT", "DATABASE_URL", "LOG_LEVEL",
	"COMMIT_WINDOW", "COMMIT_FETCH_LIMIT", "COMMIT_MOOD_LEXICON",
}

// clearEnv blanks every key for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, Config{
		Addr:               "127.0.0.1:8080",
		SpotifyRedirectURL: "http://127.0.0.1:8080/callback",
		GitHubRateLimit:    10,
		LogLevel:           "info",
		CommitWindow:       5,
		CommitFetchLimit:   10,
	}, cfg)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("COMMIT_MOOD_ADDR", ":9000")
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("COMMIT_WINDOW", "8")
	t.Setenv("GITHUB_RATE_LIMIT", "not-a-number")
	t.Setenv("COMMIT_FETCH_LIMIT", "-3")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "ghp_test", cfg.GitHubToken)
	assert.Equal(t, 8, cfg.CommitWindow)
	assert.Equal(t, 10, cfg.GitHubRateLimit)
	assert.Equal(t, 10, cfg.CommitFetchLimit)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv only fills unset variables, so remove the blanks.
	for _, k := range []string{"SPOTIFY_ID", "DATABASE_URL"} {
		os.Unsetenv(k)
	}
	t.Setenv("SPOTIFY_SECRET", "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	content := "SPOTIFY_ID=file-id\nSPOTIFY_SECRET=file-secret\nDATABASE_URL=postgres://localhost/mood\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	t.Cleanup(func() {
		os.Unsetenv("SPOTIFY_ID")
		os.Unsetenv("DATABASE_URL")
	})

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-id", cfg.SpotifyID)
	assert.Equal(t, "from-env", cfg.SpotifySecret)
	assert.Equal(t, "postgres://localhost/mood", cfg.DatabaseURL)
	assert.NoError(t, cfg.RequireSpotify())
}

func TestRequireSpotify(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "both set", cfg: Config{SpotifyID: "id", SpotifySecret: "secret"}},
		{name: "id missing", cfg: Config{SpotifySecret: "secret"}, wantErr: true},
		{name: "secret missing", cfg: Config{SpotifyID: "id"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.RequireSpotify()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissingSpotifyCredentials)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, Config{LogLevel: "debug"}.Level())
	assert.Equal(t, logrus.WarnLevel, Config{LogLevel: " WARN "}.Level())
	assert.Equal(t, logrus.InfoLevel, Config{LogLevel: "chatty"}.Level())
}
