package main

import (
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/justestif/go-commit-mood/internal/analysis"
	"github.com/justestif/go-commit-mood/internal/auth"
	"github.com/justestif/go-commit-mood/internal/web"
	webfs "github.com/justestif/go-commit-mood/web"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = cfg.Addr
			}

			templates, err := fs.Sub(webfs.TemplatesFS, "templates")
			if err != nil {
				return fmt.Errorf("creating templates filesystem: %w", err)
			}
			static, err := fs.Sub(webfs.StaticFS, "static")
			if err != nil {
				return fmt.Errorf("creating static filesystem: %w", err)
			}

			deps := web.Dependencies{Logger: logger}
			var sessions web.SessionManager
			var analyzerOpts []analysis.Option

			if cfg.DatabaseURL != "" {
				database, store, err := openStore(ctx)
				if err != nil {
					return err
				}
				defer database.Close()

				analyzerOpts = append(analyzerOpts, analysis.WithStore(store))
				deps.Recorder = store
				deps.Health = database
				sessions = web.NewDBSessionStore(database, logger)
				logger.Info("persisting analyses and sessions to PostgreSQL")
			}

			analyzer, err := newAnalyzer(analyzerOpts...)
			if err != nil {
				return err
			}
			deps.Analyzer = analyzer

			if err := cfg.RequireSpotify(); err == nil {
				spotifyAuth, err := auth.NewSpotifyAuth(auth.Config{
					ClientID:     cfg.SpotifyID,
					ClientSecret: cfg.SpotifySecret,
					RedirectURL:  cfg.SpotifyRedirectURL,
				})
				if err != nil {
					return err
				}
				deps.Auth = spotifyAuth
			} else {
				logger.Warn("SPOTIFY_ID/SPOTIFY_SECRET not set, playlist creation disabled")
			}

			server, err := web.NewServer(web.ServerConfig{
				Addr:        addr,
				TemplatesFS: templates,
				StaticFS:    static,
				Sessions:    sessions,
				Deps:        deps,
			})
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}

			return server.Run()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides COMMIT_MOOD_ADDR)")
	return cmd
}
