package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github-dashboard-api/internal/ai"
	"github-dashboard-api/internal/cache"
	"github-dashboard-api/internal/config"
	"github-dashboard-api/internal/dashboard"
	"github-dashboard-api/internal/github"
	"github-dashboard-api/internal/logging"
)

var (
	verbose bool
	noCache bool

	rootCmd = &cobra.Command{
		Use:           "ghdash",
		Short:         "Look up GitHub profiles from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	overviewCmd = &cobra.Command{
		Use:   "overview [username]",
		Short: "Show profile, stats, top languages and latest repositories",
		Args:  cobra.ExactArgs(1),
		RunE:  runOverview,
	}
	streakCmd = &cobra.Command{
		Use:   "streak [username]",
		Short: "Show the longest activity streak",
		Args:  cobra.ExactArgs(1),
		RunE:  runStreak,
	}
	summaryCmd = &cobra.Command{
		Use:   "summary [owner/repo]",
		Short: "Summarize a repository README",
		Args:  cobra.ExactArgs(1),
		RunE:  runSummary,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log cache and upstream activity to stderr")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "bypass the configured cache")
	rootCmd.AddCommand(overviewCmd, streakCmd, summaryCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.Error.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

// newService builds the same aggregation layer the server uses, without
// realtime notifications.
func newService(ctx context.Context) (*dashboard.Service, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := logging.Discard()
	if verbose {
		logger = logging.New("debug", cfg.LogFormat)
	}

	var store cache.Store = cache.NullStore{}
	if !noCache {
		store = cache.Open(ctx, cfg.Cache, logger)
	}

	gh := github.New(github.Config{
		Token:      cfg.GitHub.Token,
		APIURL:     cfg.GitHub.APIURL,
		GraphQLURL: cfg.GitHub.GraphQLURL,
		UserAgent:  cfg.GitHub.UserAgent,
	}, nil, logger)
	gen := ai.New(ai.Config{
		APIKey: cfg.Gemini.APIKey,
		APIURL: cfg.Gemini.APIURL,
		Model:  cfg.Gemini.Model,
	}, nil, logger)

	svc := dashboard.NewService(store, gh, gen, nil, logger)
	return svc, func() { _ = store.Close() }, nil
}

func runOverview(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := cmd.Context()
	svc, closeFn, err := newService(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	ov, err := svc.Overview(ctx, args[0])
	if err != nil {
		if errors.Is(err, dashboard.ErrNotFound) {
			return fmt.Errorf("user %q not found", args[0])
		}
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderOverview(ov))
	fmt.Fprintln(cmd.OutOrStdout(), renderElapsed(time.Since(start)))
	return nil
}

func runStreak(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, closeFn, err := newService(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	fmt.Fprintln(cmd.OutOrStdout(), renderStreak(args[0], svc.Streak(ctx, args[0])))
	return nil
}

func runSummary(cmd *cobra.Command, args []string) error {
	owner, repo, ok := strings.Cut(args[0], "/")
	if !ok || owner == "" || repo == "" {
		return fmt.Errorf("expected owner/repo, got %q", args[0])
	}
	ctx := cmd.Context()
	svc, closeFn, err := newService(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	res := svc.ReadmeSummary(ctx, owner, repo)
	if !res.OK() {
		return res.Err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(owner+"/"+repo, res.Text))
	return nil
}
