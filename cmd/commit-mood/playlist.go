package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/justestif/go-commit-mood/internal/analysis"
	"github.com/justestif/go-commit-mood/internal/auth"
	"github.com/justestif/go-commit-mood/internal/mood"
	"github.com/justestif/go-commit-mood/internal/playlist"
	spotifyclient "github.com/justestif/go-commit-mood/internal/spotify"
)

func newAuthenticator() (*auth.Authenticator, error) {
	if err := cfg.RequireSpotify(); err != nil {
		return nil, err
	}
	return auth.New(auth.Config{
		ClientID:     cfg.SpotifyID,
		ClientSecret: cfg.SpotifySecret,
		RedirectURL:  cfg.SpotifyRedirectURL,
	}, auth.WithOutput(os.Stderr), auth.WithLogger(logger))
}

func playlistCmd() *cobra.Command {
	var (
		moodName  string
		token     string
		window    int
		maxTracks int
		public    bool
	)

	cmd := &cobra.Command{
		Use:   "playlist [repo-url]",
		Short: "Create a Spotify playlist matching a repository's mood",
		Long: "Analyses the repository and creates a Spotify playlist for its overall mood.\n" +
			"With --mood the analysis is skipped.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if moodName == "" && len(args) == 0 {
				return fmt.Errorf("give a repository URL or --mood")
			}

			req := playlist.Request{Public: public}
			if moodName != "" {
				m, err := mood.ParseMood(moodName)
				if err != nil {
					return err
				}
				req.Mood = m
				req.Confidence = 1
			} else {
				analyzer, err := newAnalyzer()
				if err != nil {
					return err
				}
				report, err := analyzer.Analyze(ctx, analysis.Request{RepoURL: args[0], Token: token, Window: window})
				if err != nil {
					return err
				}
				req.Mood = report.Result.Mood
				req.Confidence = report.Result.Confidence
				req.CommitCount = len(report.Commits)
				req.Repo = report.Repo.FullName()
				fmt.Fprint(cmd.OutOrStdout(), analysis.FormatReport(report))
				fmt.Fprintln(cmd.OutOrStdout())
			}

			authenticator, err := newAuthenticator()
			if err != nil {
				return err
			}
			client, err := authenticator.Authenticate(ctx)
			if err != nil {
				return fmt.Errorf("authenticating with Spotify: %w", err)
			}

			sp := spotifyclient.New(client)
			gen := playlist.NewGenerator(sp, sp, playlist.WithMaxTracks(maxTracks), playlist.WithLogger(logger))

			result, err := gen.Generate(ctx, req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created %q with %d tracks\n", result.Playlist.Name, len(result.Tracks))
			if result.Playlist.URL != "" {
				fmt.Fprintln(out, result.Playlist.URL)
			}
			for i, t := range result.Tracks {
				fmt.Fprintf(out, "  %2d. %s - %s\n", i+1, t.Name, t.Artist)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&moodName, "mood", "m", "", "mood to build for, skipping analysis")
	cmd.Flags().StringVar(&token, "token", "", "GitHub token for this request (overrides GITHUB_TOKEN)")
	cmd.Flags().IntVarP(&window, "window", "n", 0, "number of recent commits to aggregate (default COMMIT_WINDOW)")
	cmd.Flags().IntVar(&maxTracks, "max-tracks", playlist.DefaultMaxTracks, "maximum tracks in the playlist")
	cmd.Flags().BoolVar(&public, "public", false, "make the playlist public")
	return cmd
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in to Spotify and cache the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			authenticator, err := newAuthenticator()
			if err != nil {
				return err
			}
			client, err := authenticator.Authenticate(cmd.Context())
			if err != nil {
				return err
			}

			profile, err := spotifyclient.New(client).CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			name := profile.DisplayName
			if name == "" {
				name = profile.ID
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (token cached at %s)\n", name, authenticator.TokenPath())
			return nil
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the cached Spotify token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			authenticator, err := newAuthenticator()
			if err != nil {
				return err
			}
			if err := authenticator.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}
