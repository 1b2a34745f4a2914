package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/bundcrawler/external/basketballbund"
	"github.com/riskibarqy/bundcrawler/internal/domain/boxscore"
	"github.com/riskibarqy/bundcrawler/internal/domain/game"
	"github.com/riskibarqy/bundcrawler/internal/platform/logging"
)

// BoxScoreSource downloads result pages. Implementations share one rate
// limiter across goroutines.
type BoxScoreSource interface {
	FetchBoxScoreHTML(ctx context.Context, gameID string) ([]byte, error)
}

type BoxScoreCollection struct {
	Entries []boxscore.Entry
	// Quarters holds the staged quarter score update per game id.
	Quarters map[string]game.QuarterScores
	Fetched  int
	Failed   int
}

type BoxScoreCollectorConfig struct {
	LeagueID int
	Workers  int
}

type BoxScoreCollector struct {
	source   BoxScoreSource
	leagueID int
	workers  int
	log      logging.Sink
	now      func() time.Time
}

func NewBoxScoreCollector(source BoxScoreSource, cfg BoxScoreCollectorConfig, log logging.Sink) *BoxScoreCollector {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &BoxScoreCollector{
		source:   source,
		leagueID: cfg.LeagueID,
		workers:  workers,
		log:      logging.OrDefault(log),
		now:      time.Now,
	}
}

type boxScoreOutcome struct {
	gameID   string
	entries  []boxscore.Entry
	quarters *game.QuarterScores
	failed   bool
}

// Collect fetches and extracts the result page of every match that has a
// result. A failed fetch skips that game only.
func (c *BoxScoreCollector) Collect(ctx context.Context, matches []basketballbund.Match) BoxScoreCollection {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoxScoreCollector.Collect")
	defer span.End()

	targets := make([]basketballbund.Match, 0, len(matches))
	for _, m := range matches {
		if m.HasResult() && m.ID() != "" {
			targets = append(targets, m)
		}
	}

	outcomes := make([]boxScoreOutcome, len(targets))
	if c.workers == 1 || len(targets) < 2 {
		for i, m := range targets {
			outcomes[i] = c.collectOne(ctx, m)
		}
	} else {
		c.collectParallel(ctx, targets, outcomes)
	}

	out := BoxScoreCollection{Quarters: make(map[string]game.QuarterScores)}
	for _, o := range outcomes {
		if o.failed {
			out.Failed++
			continue
		}
		out.Fetched++
		out.Entries = append(out.Entries, o.entries...)
		if o.quarters != nil {
			out.Quarters[o.gameID] = *o.quarters
		}
	}
	c.log.Info("box scores collected", "games", len(targets), "failed", out.Failed, "entries", len(out.Entries))
	return out
}

// collectParallel fans out over an ants pool. Each task owns one slot of
// outcomes, so no further locking is needed.
func (c *BoxScoreCollector) collectParallel(ctx context.Context, targets []basketballbund.Match, outcomes []boxScoreOutcome) {
	pool, err := ants.NewPool(c.workers)
	if err != nil {
		c.log.Warn("box score worker pool unavailable, fetching sequentially", "workers", c.workers, "error", err)
		for i, m := range targets {
			outcomes[i] = c.collectOne(ctx, m)
		}
		return
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, m := range targets {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			outcomes[i] = c.collectOne(ctx, m)
		}); err != nil {
			wg.Done()
			c.log.Warn("submit box score task failed", "game_id", m.ID(), "error", err)
			outcomes[i] = boxScoreOutcome{gameID: m.ID(), failed: true}
		}
	}
	wg.Wait()
}

func (c *BoxScoreCollector) collectOne(ctx context.Context, m basketballbund.Match) boxScoreOutcome {
	gameID := m.ID()
	html, err := c.source.FetchBoxScoreHTML(ctx, gameID)
	if err != nil {
		c.log.Error("fetch box score failed", "game_id", gameID, "error", err)
		return boxScoreOutcome{gameID: gameID, failed: true}
	}

	result := basketballbund.ExtractBoxScore(html, basketballbund.BoxScoreRef{
		GameID:     gameID,
		LeagueID:   c.leagueID,
		HomeTeamID: m.HomeTeam.ID(),
		AwayTeamID: m.GuestTeam.ID(),
		ScrapedAt:  c.now().UTC(),
	}, c.log)
	return boxScoreOutcome{gameID: gameID, entries: result.Entries, quarters: result.Quarters}
}
