// Command commit-mood infers the mood of a GitHub repository from its recent
// commit messages and turns it into a Spotify playlist.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/justestif/go-commit-mood/internal/analysis"
	"github.com/justestif/go-commit-mood/internal/config"
	"github.com/justestif/go-commit-mood/internal/github"
	"github.com/justestif/go-commit-mood/internal/mood"
)

var (
	envFile     string
	logLevel    string
	lexiconPath string

	cfg    config.Config
	logger = logrus.New()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "commit-mood",
		Short:         "Read the mood of a repository from its commit messages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(envFile)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if lexiconPath != "" {
				cfg.LexiconPath = lexiconPath
			}
			setupLogger(cfg)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&lexiconPath, "lexicon", "", "YAML lexicon file (overrides COMMIT_MOOD_LEXICON)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(repoCmd())
	rootCmd.AddCommand(rateLimitCmd())
	rootCmd.AddCommand(moodsCmd())
	rootCmd.AddCommand(playlistCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(forgetCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.Config) {
	logger.SetOutput(os.Stderr)
	logger.SetLevel(cfg.Level())
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// newGitHubClient builds a rate-limited GitHub client for token. A nil
// limiter gives the client its own GITHUB_RATE_LIMIT budget.
func newGitHubClient(token string, limiter *rate.Limiter) (*github.Client, error) {
	if limiter == nil {
		limiter = github.NewLimiter(cfg.GitHubRateLimit)
	}
	return github.NewClient(token,
		github.WithLimiter(limiter),
		github.WithLogger(logger),
	)
}

// newAnalyzer wires the GitHub client into an analysis service. Per-request
// tokens get their own client, all sharing one rate limiter.
func newAnalyzer(opts ...analysis.Option) (*analysis.Service, error) {
	limiter := github.NewLimiter(cfg.GitHubRateLimit)
	client, err := newGitHubClient(cfg.GitHubToken, limiter)
	if err != nil {
		return nil, fmt.Errorf("creating GitHub client: %w", err)
	}

	lex, err := config.LoadLexicon(cfg.LexiconPath)
	if err != nil {
		return nil, err
	}
	scorer := mood.NewScorer(lex)

	factory := func(token string) (analysis.CommitSource, error) {
		c, err := newGitHubClient(token, limiter)
		if err != nil {
			return nil, err
		}
		return c, nil
	}

	base := []analysis.Option{
		analysis.WithSourceFactory(factory),
		analysis.WithAggregator(mood.NewAggregator(scorer)),
		analysis.WithWindow(cfg.CommitWindow),
		analysis.WithFetchLimit(cfg.CommitFetchLimit),
		analysis.WithLogger(logger),
	}
	return analysis.New(client, append(base, opts...)...), nil
}
