package usecase

import (
	"context"

	"github.com/riskibarqy/bundcrawler/external/basketballbund"
	"github.com/riskibarqy/bundcrawler/internal/platform/logging"
)

// LeagueSource is the JSON side of the federation API.
type LeagueSource interface {
	FetchCompetition(ctx context.Context) ([]basketballbund.Competition, error)
	FetchTable(ctx context.Context) ([]basketballbund.StandingEntry, error)
	FetchSchedule(ctx context.Context) ([]basketballbund.Match, error)
}

// LeagueSnapshot is whatever the three league endpoints returned in one run.
// A failed call leaves its part empty.
type LeagueSnapshot struct {
	Competitions []basketballbund.Competition
	Standings    []basketballbund.StandingEntry
	Matches      []basketballbund.Match
	Failures     int
}

type LeagueFetcher struct {
	source LeagueSource
	log    logging.Sink
}

func NewLeagueFetcher(source LeagueSource, log logging.Sink) *LeagueFetcher {
	return &LeagueFetcher{source: source, log: logging.OrDefault(log)}
}

// Fetch calls the competition, table and schedule endpoints in order. Each
// failure is logged and degrades to an empty part; Fetch itself never fails.
func (f *LeagueFetcher) Fetch(ctx context.Context) LeagueSnapshot {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueFetcher.Fetch")
	defer span.End()

	var snap LeagueSnapshot

	competitions, err := f.source.FetchCompetition(ctx)
	if err != nil {
		f.log.Error("fetch competition failed, continuing without league details", "error", err)
		snap.Failures++
	}
	snap.Competitions = competitions

	standings, err := f.source.FetchTable(ctx)
	if err != nil {
		f.log.Error("fetch table failed, continuing without standings", "error", err)
		snap.Failures++
	}
	snap.Standings = standings

	matches, err := f.source.FetchSchedule(ctx)
	if err != nil {
		f.log.Error("fetch schedule failed, continuing without games", "error", err)
		snap.Failures++
	}
	snap.Matches = matches

	return snap
}
