package usecase

import (
	"context"
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/bundcrawler/internal/domain/scrapelog"
	"github.com/riskibarqy/bundcrawler/internal/platform/logging"
)

const DefaultHealthWindow = 72 * time.Hour

type HealthService struct {
	probe    StoreProbe
	logs     scrapelog.Repository
	leagueID int
	window   time.Duration
	log      logging.Sink
	now      func() time.Time
}

func NewHealthService(probe StoreProbe, logs scrapelog.Repository, leagueID int, window time.Duration, log logging.Sink) *HealthService {
	if window <= 0 {
		window = DefaultHealthWindow
	}
	return &HealthService{
		probe:    probe,
		logs:     logs,
		leagueID: leagueID,
		window:   window,
		log:      logging.OrDefault(log),
		now:      time.Now,
	}
}

// Check returns the scrape log rows of the league written within the window.
// No rows is reported as ErrNotFound.
func (s *HealthService) Check(ctx context.Context) ([]scrapelog.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HealthService.Check")
	defer span.End()

	if s.probe != nil {
		if err := s.probe.Ping(ctx); err != nil {
			recordSpanError(span, err)
			return nil, crerr.Mark(fmt.Errorf("ping store: %w", err), ErrDependencyUnavailable)
		}
	}

	since := s.now().Add(-s.window).UTC()
	entries, err := s.logs.ListSince(ctx, s.leagueID, since)
	if err != nil {
		recordSpanError(span, err)
		return nil, crerr.Mark(fmt.Errorf("list scrape log since %s: %w", since.Format(time.RFC3339), err), ErrDependencyUnavailable)
	}
	if len(entries) == 0 {
		err := crerr.Mark(fmt.Errorf("no scrape for league=%d within %s", s.leagueID, s.window), ErrNotFound)
		recordSpanError(span, err)
		return nil, err
	}

	for _, e := range entries {
		s.log.Info("recent scrape",
			"scraped_at", e.ScrapedAt.Format(time.RFC3339),
			"status", string(e.Status),
			"teams", e.TeamsCount,
			"games", e.GamesCount,
			"standings", e.StandingsCount,
			"box_scores", e.BoxScoresCount,
		)
	}
	return entries, nil
}
