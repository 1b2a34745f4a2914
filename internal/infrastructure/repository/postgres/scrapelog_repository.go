package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/bundcrawler/internal/domain/scrapelog"
	qb "github.com/riskibarqy/bundcrawler/internal/platform/querybuilder"
)

type ScrapeLogRepository struct {
	db *sqlx.DB
}

func NewScrapeLogRepository(db *sqlx.DB) *ScrapeLogRepository {
	return &ScrapeLogRepository{db: db}
}

func (r *ScrapeLogRepository) Insert(ctx context.Context, entry scrapelog.Entry) error {
	query, args, err := qb.InsertModel("scrape_log", scrapeLogTableModel{
		LeagueID:       entry.LeagueID,
		ScrapedAt:      entry.ScrapedAt,
		TeamsCount:     entry.TeamsCount,
		GamesCount:     entry.GamesCount,
		StandingsCount: entry.StandingsCount,
		BoxScoresCount: entry.BoxScoresCount,
		Status:         string(entry.Status),
		ErrorMessage:   nullableString(entry.ErrorMessage),
	})
	if err != nil {
		return fmt.Errorf("build insert scrape log query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert scrape log: %w", annotatePoolerError(err))
	}
	return nil
}

func (r *ScrapeLogRepository) ListSince(ctx context.Context, leagueID int, since time.Time) ([]scrapelog.Entry, error) {
	query, args, err := qb.Select(
		"league_id", "scraped_at", "teams_count", "games_count", "standings_count",
		"box_scores_count", "status", "error_message",
	).From("scrape_log").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Gte("scraped_at", since),
		).
		OrderBy("scraped_at DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list scrape log query: %w", err)
	}

	var rows []scrapeLogTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list scrape log: %w", annotatePoolerError(err))
	}

	out := make([]scrapelog.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, scrapelog.Entry{
			LeagueID:       row.LeagueID,
			ScrapedAt:      row.ScrapedAt,
			TeamsCount:     row.TeamsCount,
			GamesCount:     row.GamesCount,
			StandingsCount: row.StandingsCount,
			BoxScoresCount: row.BoxScoresCount,
			Status:         scrapelog.Status(row.Status),
			ErrorMessage:   nullStringToPtr(row.ErrorMessage),
		})
	}
	return out, nil
}
