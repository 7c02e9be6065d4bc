package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/justestif/go-commit-mood/internal/analysis"
	"github.com/justestif/go-commit-mood/internal/clustering"
	"github.com/justestif/go-commit-mood/internal/github"
	"github.com/justestif/go-commit-mood/internal/mood"
)

func analyzeCmd() *cobra.Command {
	var (
		token      string
		window     int
		asJSON     bool
		showPhases bool
		save       bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <repo-url>",
		Short: "Analyse the mood of a repository's recent commits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var opts []analysis.Option
			if save {
				database, store, err := openStore(ctx)
				if err != nil {
					return err
				}
				defer database.Close()
				opts = append(opts, analysis.WithStore(store))
			}

			analyzer, err := newAnalyzer(opts...)
			if err != nil {
				return err
			}

			report, err := analyzer.Analyze(ctx, analysis.Request{
				RepoURL: args[0],
				Token:   token,
				Window:  window,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			fmt.Fprint(out, analysis.FormatReport(report))
			if showPhases {
				fmt.Fprintln(out)
				fmt.Fprint(out, clustering.FormatPhaseSummary(report.Phases, report.Outliers))
			}
			if report.ID != "" {
				fmt.Fprintf(out, "\nSaved as %s\n", report.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "GitHub token for this request (overrides GITHUB_TOKEN)")
	cmd.Flags().IntVarP(&window, "window", "n", 0, "number of recent commits to aggregate (default COMMIT_WINDOW)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&showPhases, "phases", false, "also print mood phases across all fetched commits")
	cmd.Flags().BoolVar(&save, "save", false, "store the report in DATABASE_URL")
	return cmd
}

func repoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repo <repo-url>",
		Short: "Show repository metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, err := github.ParseRepoURL(args[0])
			if err != nil {
				return err
			}
			client, err := newGitHubClient(cfg.GitHubToken, nil)
			if err != nil {
				return err
			}

			repo, err := client.FetchRepository(cmd.Context(), owner, name)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Name:\t%s\n", repo.FullName)
			if repo.Description != "" {
				fmt.Fprintf(w, "Description:\t%s\n", repo.Description)
			}
			if repo.Language != "" {
				fmt.Fprintf(w, "Language:\t%s\n", repo.Language)
			}
			fmt.Fprintf(w, "Stars:\t%d\n", repo.Stars)
			fmt.Fprintf(w, "Forks:\t%d\n", repo.Forks)
			fmt.Fprintf(w, "URL:\t%s\n", repo.URL)
			return w.Flush()
		},
	}
}

func rateLimitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rate-limit",
		Short: "Show the remaining GitHub API quota",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newGitHubClient(cfg.GitHubToken, nil)
			if err != nil {
				return err
			}
			status, err := client.RateLimit(cmd.Context())
			if err != nil {
				return err
			}

			auth := "unauthenticated"
			if status.HasToken {
				auth = "token"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d/%d requests left (%s), resets %s\n",
				status.Remaining, status.Limit, auth, status.Reset.Local().Format("15:04:05"))
			return nil
		},
	}
}

func moodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "moods",
		Short: "List the moods and their music",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MOOD\tGENRE\tENERGY")
			for _, m := range mood.Moods {
				d := mood.Describe(m)
				fmt.Fprintf(w, "%s %s\t%s\t%s\n", d.Emoji, m.Title(), d.Genre, d.Energy)
			}
			return w.Flush()
		},
	}
}
