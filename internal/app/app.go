package app

import (
	"context"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/bundcrawler/external/basketballbund"
	"github.com/riskibarqy/bundcrawler/internal/config"
	"github.com/riskibarqy/bundcrawler/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/bundcrawler/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/bundcrawler/internal/platform/logging"
	"github.com/riskibarqy/bundcrawler/internal/platform/ratelimit"
	"github.com/riskibarqy/bundcrawler/internal/platform/resilience"
	"github.com/riskibarqy/bundcrawler/internal/usecase"
)

// Options tune how the crawler is assembled.
type Options struct {
	// DryRun keeps every write in process memory instead of the store.
	DryRun bool
}

// Crawler is the assembled application for one league.
type Crawler struct {
	Ingest *usecase.IngestService
	Health *usecase.HealthService

	closers []func() error
}

// Close releases the store connection pool.
func (c *Crawler) Close() error {
	var firstErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type storeBundle struct {
	repos usecase.PersistenceRepositories
	close func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger, opts Options) (*Crawler, error) {
	if logger == nil {
		logger = logging.Default()
	}

	store, err := openStore(ctx, cfg, logger, opts)
	if err != nil {
		return nil, err
	}

	limiter := ratelimit.New(cfg.BundMinInterval)
	client := basketballbund.NewClient(basketballbund.ClientConfig{
		APIBaseURL:  cfg.BundAPIBaseURL,
		BoxScoreURL: cfg.BundBoxScoreURL,
		UserAgent:   cfg.BundUserAgent,
		LeagueID:    cfg.LeagueID,
		Timeout:     cfg.BundTimeout,
		Limiter:     limiter,
		Logger:      logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.BundCircuitEnabled,
			FailureThreshold: cfg.BundCircuitFailureCount,
			OpenTimeout:      cfg.BundCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.BundCircuitHalfOpenMaxReq,
		},
	})

	usecaseLogger := logger.Named("usecase").With("league_id", cfg.LeagueID)
	coordinator := usecase.NewPersistenceCoordinator(store.repos, resilience.RetryPolicy{
		MaxAttempts:  cfg.PersistMaxAttempts,
		InitialDelay: cfg.PersistRetryDelay,
		Multiplier:   2,
	}, usecaseLogger)

	ingest := usecase.NewIngestService(usecase.IngestDependencies{
		LeagueID: cfg.LeagueID,
		Fetcher:  usecase.NewLeagueFetcher(client, usecaseLogger),
		Collector: usecase.NewBoxScoreCollector(client, usecase.BoxScoreCollectorConfig{
			LeagueID: cfg.LeagueID,
			Workers:  cfg.BoxScoreWorkers,
		}, usecaseLogger),
		Coordinator: coordinator,
		BoxScoreURL: client.BoxScoreURL,
	}, usecaseLogger)

	health := usecase.NewHealthService(store.repos.Probe, store.repos.ScrapeLog, cfg.LeagueID, cfg.HealthcheckWindow, usecaseLogger)

	logger.Info("crawler assembled",
		"league_id", cfg.LeagueID,
		"api_base_url", cfg.BundAPIBaseURL,
		"min_interval", limiter.Interval().String(),
		"box_score_workers", cfg.BoxScoreWorkers,
		"dry_run", opts.DryRun,
	)

	return &Crawler{
		Ingest:  ingest,
		Health:  health,
		closers: []func() error{store.close},
	}, nil
}

func openStore(ctx context.Context, cfg config.Config, logger *logging.Logger, opts Options) (storeBundle, error) {
	if opts.DryRun {
		mem := memory.NewStore()
		return storeBundle{
			repos: usecase.PersistenceRepositories{
				Probe:     mem,
				Teams:     mem.Teams,
				Games:     mem.Games,
				Standings: mem.Standings,
				BoxScores: mem.BoxScores,
				ScrapeLog: mem.ScrapeLog,
			},
			close: func() error { return nil },
		}, nil
	}

	dsn := StoreDSN(cfg.StoreURL, cfg.StoreKey, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return storeBundle{}, fmt.Errorf("open store: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		// Persist probes again before every attempt.
		logger.Warn("store not reachable at startup", "dsn", redactDSN(dsn), "error", err)
	}

	store := postgres.NewStore(db)
	return storeBundle{
		repos: usecase.PersistenceRepositories{
			Probe:     store,
			Teams:     store.Teams,
			Games:     store.Games,
			Standings: store.Standings,
			BoxScores: store.BoxScores,
			ScrapeLog: store.ScrapeLog,
		},
		close: db.Close,
	}, nil
}
