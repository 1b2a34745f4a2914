package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/bundcrawler/internal/domain/standing"
	qb "github.com/riskibarqy/bundcrawler/internal/platform/querybuilder"
)

type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

// ReplaceByLeague swaps the whole table of a league in one transaction.
func (r *StandingRepository) ReplaceByLeague(ctx context.Context, leagueID int, standings []standing.Standing) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace standings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.DeleteFrom("standings").
		Where(qb.Eq("league_id", leagueID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear standings query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear standings league=%d: %w", leagueID, annotatePoolerError(err))
	}

	rows := make([]standingTableModel, 0, len(standings))
	for _, item := range lastByKey(standings, func(s standing.Standing) string { return s.TeamID }) {
		rows = append(rows, standingTableModel{
			LeagueID:          leagueID,
			TeamID:            item.TeamID,
			TeamName:          item.TeamName,
			Position:          item.Position,
			GamesPlayed:       item.GamesPlayed,
			Wins:              item.Wins,
			Losses:            item.Losses,
			Points:            item.Points,
			PointsFor:         item.PointsFor,
			PointsAgainst:     item.PointsAgainst,
			ScoringDifference: item.ScoringDifference,
			ScrapedAt:         item.ScrapedAt,
		})
	}
	for _, batch := range chunks(rows, maxRowsPerInsert) {
		builder, err := qb.InsertModels("standings", batch)
		if err != nil {
			return fmt.Errorf("build insert standings query: %w", err)
		}
		query, args, err := builder.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert standings query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert standings league=%d: %w", leagueID, annotatePoolerError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace standings tx: %w", err)
	}
	return nil
}
