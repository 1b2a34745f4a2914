package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/bundcrawler/internal/domain/boxscore"
	"github.com/riskibarqy/bundcrawler/internal/domain/game"
	"github.com/riskibarqy/bundcrawler/internal/domain/scrapelog"
	"github.com/riskibarqy/bundcrawler/internal/domain/standing"
	"github.com/riskibarqy/bundcrawler/internal/domain/team"
	"github.com/riskibarqy/bundcrawler/internal/platform/logging"
	"github.com/riskibarqy/bundcrawler/internal/platform/resilience"
)

// StoreProbe checks that the store is reachable before any write.
type StoreProbe interface {
	Ping(ctx context.Context) error
}

// PersistBatch is everything one run writes.
type PersistBatch struct {
	LeagueID  int
	ScrapedAt time.Time
	Teams     []team.Team
	Games     []game.Game
	Standings []standing.Standing
	BoxScores []boxscore.Entry
	Quarters  map[string]game.QuarterScores
}

type PersistenceRepositories struct {
	Probe     StoreProbe
	Teams     team.Repository
	Games     game.Repository
	Standings standing.Repository
	BoxScores boxscore.Repository
	ScrapeLog scrapelog.Repository
}

type PersistenceCoordinator struct {
	repos   PersistenceRepositories
	retrier *resilience.Retrier
	log     logging.Sink
	now     func() time.Time
}

// blockingSleep ignores ctx: a backoff already started runs to completion.
func blockingSleep(_ context.Context, d time.Duration) error {
	time.Sleep(d)
	return nil
}

func NewPersistenceCoordinator(repos PersistenceRepositories, policy resilience.RetryPolicy, log logging.Sink) *PersistenceCoordinator {
	return newPersistenceCoordinator(repos, policy, blockingSleep, log)
}

func newPersistenceCoordinator(
	repos PersistenceRepositories,
	policy resilience.RetryPolicy,
	sleep func(context.Context, time.Duration) error,
	log logging.Sink,
) *PersistenceCoordinator {
	return &PersistenceCoordinator{
		repos:   repos,
		retrier: resilience.NewRetrier(policy, sleep),
		log:     logging.OrDefault(log),
		now:     time.Now,
	}
}

// Persist writes batch, retrying the whole sequence with exponential backoff.
// It returns the scrape log row that was written on success. After the last
// attempt fails a failed scrape log is written best effort and the last error
// is returned marked ErrPersistence.
func (c *PersistenceCoordinator) Persist(ctx context.Context, batch PersistBatch) (scrapelog.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PersistenceCoordinator.Persist",
		attribute.Int("league_id", batch.LeagueID),
		attribute.Int("games", len(batch.Games)),
		attribute.Int("box_scores", len(batch.BoxScores)),
	)
	defer span.End()

	if batch.ScrapedAt.IsZero() {
		batch.ScrapedAt = c.now().UTC()
	}

	var written scrapelog.Entry
	err := c.retrier.Do(ctx, func(ctx context.Context, attempt int) error {
		entry, err := c.attempt(ctx, batch)
		if err != nil {
			return err
		}
		written = entry
		return nil
	}, func(attempt int, delay time.Duration, err error) {
		c.log.Warn("persist attempt failed, retrying",
			"attempt", attempt,
			"max_attempts", c.retrier.Policy().MaxAttempts,
			"retry_in", delay.String(),
			"error", err,
		)
	})
	if err == nil {
		c.log.Info("persist completed",
			"league_id", batch.LeagueID,
			"teams", written.TeamsCount,
			"games", written.GamesCount,
			"standings", written.StandingsCount,
			"box_scores", written.BoxScoresCount,
		)
		return written, nil
	}

	recordSpanError(span, err)
	c.log.Error("persist failed after retries", "attempts", c.retrier.Policy().MaxAttempts, "error", err)
	failed := scrapelog.Failed(batch.LeagueID, c.now().UTC(), err)
	if logErr := c.repos.ScrapeLog.Insert(ctx, failed); logErr != nil {
		c.log.Error("write failed scrape log", "error", logErr)
	}
	return failed, crerr.Mark(err, ErrPersistence)
}

func (c *PersistenceCoordinator) attempt(ctx context.Context, batch PersistBatch) (scrapelog.Entry, error) {
	if c.repos.Probe != nil {
		if err := c.repos.Probe.Ping(ctx); err != nil {
			return scrapelog.Entry{}, fmt.Errorf("ping store: %w", err)
		}
	}

	if len(batch.Teams) > 0 {
		if err := c.repos.Teams.UpsertTeams(ctx, batch.Teams); err != nil {
			return scrapelog.Entry{}, fmt.Errorf("upsert teams: %w", err)
		}
	}
	if len(batch.Games) > 0 {
		if err := c.repos.Games.UpsertGames(ctx, batch.Games); err != nil {
			return scrapelog.Entry{}, fmt.Errorf("upsert games: %w", err)
		}
	}
	if err := c.applyQuarterScores(ctx, batch.Quarters); err != nil {
		return scrapelog.Entry{}, err
	}
	if len(batch.Standings) > 0 {
		if err := c.repos.Standings.ReplaceByLeague(ctx, batch.LeagueID, batch.Standings); err != nil {
			return scrapelog.Entry{}, fmt.Errorf("replace standings: %w", err)
		}
	}

	boxScores, err := c.replaceBoxScores(ctx, batch.BoxScores)
	if err != nil {
		return scrapelog.Entry{}, err
	}

	entry := scrapelog.Entry{
		LeagueID:       batch.LeagueID,
		ScrapedAt:      batch.ScrapedAt,
		TeamsCount:     len(batch.Teams),
		GamesCount:     len(batch.Games),
		StandingsCount: len(batch.Standings),
		BoxScoresCount: boxScores,
		Status:         scrapelog.StatusSuccess,
	}
	if err := c.repos.ScrapeLog.Insert(ctx, entry); err != nil {
		return scrapelog.Entry{}, fmt.Errorf("insert scrape log: %w", err)
	}
	return entry, nil
}

func (c *PersistenceCoordinator) applyQuarterScores(ctx context.Context, quarters map[string]game.QuarterScores) error {
	if len(quarters) == 0 {
		return nil
	}
	ids := make([]string, 0, len(quarters))
	for id := range quarters {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		updated, err := c.repos.Games.UpdateQuarterScores(ctx, id, quarters[id])
		if err != nil {
			return fmt.Errorf("update quarter scores game=%s: %w", id, err)
		}
		if !updated {
			c.log.Warn("quarter scores not applied, game missing", "game_id", id)
		}
	}
	return nil
}

// replaceBoxScores swaps the stored rows of every touched game for rows, keeping
// minutes_played and player_slug of players that are still present.
func (c *PersistenceCoordinator) replaceBoxScores(ctx context.Context, rows []boxscore.Entry) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	rows = boxscore.Dedupe(rows)
	gameIDs := boxscore.GameIDs(rows)

	preserved, err := c.repos.BoxScores.ListPreserved(ctx, gameIDs)
	if err != nil {
		return 0, fmt.Errorf("read preserved box score fields: %w", err)
	}
	if err := c.repos.BoxScores.DeleteByGames(ctx, gameIDs); err != nil {
		return 0, fmt.Errorf("delete box scores: %w", err)
	}

	merged := boxscore.MergePreserved(rows, preserved)
	if err := c.repos.BoxScores.UpsertEntries(ctx, merged); err != nil {
		return 0, fmt.Errorf("upsert box scores: %w", err)
	}
	return len(merged), nil
}
