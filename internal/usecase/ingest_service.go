package usecase

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/bundcrawler/internal/domain/scrapelog"
	"github.com/riskibarqy/bundcrawler/internal/platform/logging"
)

// IngestDependencies are the collaborators of one league ingest.
type IngestDependencies struct {
	LeagueID    int
	Fetcher     *LeagueFetcher
	Collector   *BoxScoreCollector
	Coordinator *PersistenceCoordinator
	// BoxScoreURL builds the stored result page link of a game.
	BoxScoreURL func(gameID string) string
}

// IngestResult summarizes a run.
type IngestResult struct {
	Log              scrapelog.Entry
	FetchFailures    int
	BoxScoreFailures int
	Duration         time.Duration
}

type IngestService struct {
	deps IngestDependencies
	log  logging.Sink
	now  func() time.Time
}

func NewIngestService(deps IngestDependencies, log logging.Sink) *IngestService {
	return &IngestService{deps: deps, log: logging.OrDefault(log), now: time.Now}
}

// Run performs fetch, transform, box-score collection and persistence for the
// configured league. Fetch failures only shrink what gets written; the
// returned error is non-nil only when persistence gave up.
func (s *IngestService) Run(ctx context.Context) (IngestResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestService.Run", attribute.Int("league_id", s.deps.LeagueID))
	defer span.End()

	started := s.now()
	scrapedAt := started.UTC()
	leagueID := s.deps.LeagueID
	s.log.Info("ingest started", "league_id", leagueID)

	snap := s.deps.Fetcher.Fetch(ctx)
	if len(snap.Competitions) > 0 {
		names := make([]string, 0, len(snap.Competitions))
		for _, c := range snap.Competitions {
			if name := strings.TrimSpace(c.Name); name != "" {
				names = append(names, name)
			}
		}
		s.log.Info("league details fetched", "league_id", leagueID, "competition", strings.Join(names, ", "))
	}

	teams := ExtractTeams(snap.Standings, snap.Matches, leagueID, s.log)
	games := TransformGames(snap.Matches, leagueID, s.deps.BoxScoreURL, s.log)
	standings := TransformStandings(snap.Standings, leagueID, scrapedAt)

	collected := s.deps.Collector.Collect(ctx, snap.Matches)
	boxScores := TransformBoxScores(collected.Entries, leagueID, scrapedAt, s.log)

	s.log.Info("ingest transformed",
		"teams", len(teams),
		"games", len(games),
		"standings", len(standings),
		"box_scores", len(boxScores),
		"quarter_scores", len(collected.Quarters),
	)

	entry, err := s.deps.Coordinator.Persist(ctx, PersistBatch{
		LeagueID:  leagueID,
		ScrapedAt: scrapedAt,
		Teams:     teams,
		Games:     games,
		Standings: standings,
		BoxScores: boxScores,
		Quarters:  collected.Quarters,
	})
	result := IngestResult{
		Log:              entry,
		FetchFailures:    snap.Failures,
		BoxScoreFailures: collected.Failed,
		Duration:         s.now().Sub(started),
	}
	if err != nil {
		recordSpanError(span, err)
		return result, err
	}

	s.log.Info("ingest finished",
		"league_id", leagueID,
		"duration", result.Duration.String(),
		"fetch_failures", result.FetchFailures,
		"box_score_failures", result.BoxScoreFailures,
	)
	return result, nil
}
