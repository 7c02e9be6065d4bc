package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/justestif/go-commit-mood/internal/analysis"
	"github.com/justestif/go-commit-mood/internal/db"
	"github.com/justestif/go-commit-mood/internal/github"
)

// openStore connects to DATABASE_URL. The caller closes the returned DB.
func openStore(ctx context.Context) (*db.DB, *analysis.DBStore, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("this command needs DATABASE_URL")
	}
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, nil, err
	}
	return database, analysis.NewDBStore(database), nil
}

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <repo-url>",
		Short: "List stored analyses of a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			owner, name, err := github.ParseRepoURL(args[0])
			if err != nil {
				return err
			}

			database, store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			analyses, err := store.LatestForRepo(ctx, owner, name, limit)
			if err != nil {
				return err
			}
			if len(analyses) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No analyses stored for %s/%s\n", owner, name)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tWHEN\tMOOD\tCONFIDENCE\tTREND\tCOMMITS\tPLAYLIST")
			for _, a := range analyses {
				pl := "-"
				if a.PlaylistID != nil {
					pl = *a.PlaylistID
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%d\t%s\n",
					a.ID, a.CreatedAt.Local().Format("2006-01-02 15:04"), a.Mood, a.Confidence, a.Trend, a.CommitCount, pl)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "number of analyses to list")
	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <analysis-id>",
		Short: "Print a stored analysis with its commits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			database, store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			a, commits, err := store.Load(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Repository: %s/%s\n", a.RepoOwner, a.RepoName)
			fmt.Fprintf(out, "Analysed:   %s\n", a.CreatedAt.Local().Format("2006-01-02 15:04"))
			fmt.Fprintf(out, "Mood:       %s (confidence %.2f, trend %s)\n", a.Mood.Title(), a.Confidence, a.Trend)
			if a.PlaylistID != nil {
				fmt.Fprintf(out, "Playlist:   %s\n", *a.PlaylistID)
			}

			fmt.Fprintln(out)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SHA\tMOOD\tCONFIDENCE\tMESSAGE")
			for _, c := range commits {
				sha := c.SHA
				if len(sha) > 7 {
					sha = sha[:7]
				}
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n", sha, c.Mood, c.Confidence, c.Message)
			}
			return w.Flush()
		},
	}
}

func forgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forget <analysis-id>",
		Short: "Delete a stored analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			database, store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := store.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}
