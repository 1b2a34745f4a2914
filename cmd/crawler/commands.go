package main

import (
	"context"
	"fmt"
	"os"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/bundcrawler/internal/app"
	"github.com/riskibarqy/bundcrawler/internal/config"
	"github.com/riskibarqy/bundcrawler/internal/observability"
	"github.com/riskibarqy/bundcrawler/internal/platform/logging"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitConfigError = 2
)

// exitError carries the process exit code out of a cobra RunE.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func execute(ctx context.Context, args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	fmt.Fprintln(os.Stderr, err)
	var exitErr *exitError
	if crerr.As(err, &exitErr) {
		return exitErr.code
	}
	return exitFailure
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "crawler",
		Short:         "crawler ingests one basketball-bund league into the store.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newHealthcheckCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "run [--dry-run]",
		Short: "Fetches league, schedule, standings and box scores and persists them.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCrawler(cmd.Context(), app.Options{DryRun: dryRun}, func(ctx context.Context, crawler *app.Crawler, logger *logging.Logger) error {
				result, err := crawler.Ingest.Run(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "ingest failed", "error", err)
					return &exitError{code: exitFailure, err: err}
				}
				logger.InfoContext(ctx, "ingest succeeded",
					"teams", result.Log.TeamsCount,
					"games", result.Log.GamesCount,
					"standings", result.Log.StandingsCount,
					"box_scores", result.Log.BoxScoresCount,
					"duration", result.Duration.String(),
				)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Keep all writes in memory instead of the store.")
	return cmd
}

func newHealthcheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "healthcheck",
		Short: "Exits non-zero when the league has no scrape within HEALTHCHECK_WINDOW.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCrawler(cmd.Context(), app.Options{}, func(ctx context.Context, crawler *app.Crawler, logger *logging.Logger) error {
				entries, err := crawler.Health.Check(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "healthcheck failed", "error", err)
					return &exitError{code: exitFailure, err: err}
				}
				logger.InfoContext(ctx, "healthcheck passed", "recent_scrapes", len(entries))
				return nil
			})
		},
	}
}

// withCrawler loads configuration, starts observability and assembles the
// crawler around fn.
func withCrawler(ctx context.Context, opts app.Options, fn func(context.Context, *app.Crawler, *logging.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return &exitError{code: exitConfigError, err: err}
	}

	logger := logging.NewJSON(cfg.LogLevel).Named(cfg.ServiceName).With(
		"env", cfg.AppEnv,
		"version", cfg.ServiceVersion,
	)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return &exitError{code: exitFailure, err: fmt.Errorf("init uptrace: %w", err)}
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("uptrace shutdown failed", "error", err)
		}
	}()

	stopProfiling, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Warn("pyroscope start failed, continuing without profiling", "error", err)
		stopProfiling = func() error { return nil }
	}
	defer func() { _ = stopProfiling() }()

	crawler, err := app.New(ctx, cfg, logger, opts)
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}
	defer func() {
		if err := crawler.Close(); err != nil {
			logger.Warn("close crawler failed", "error", err)
		}
	}()

	return fn(ctx, crawler, logger)
}
