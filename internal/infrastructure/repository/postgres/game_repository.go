package postgres

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/bundcrawler/internal/domain/game"
	qb "github.com/riskibarqy/bundcrawler/internal/platform/querybuilder"
)

var gameUpdateColumns = []string{
	"league_id",
	"home_team_id",
	"away_team_id",
	"home_team_name",
	"away_team_name",
	"game_date",
	"game_time",
	"home_score",
	"away_score",
	"status",
	"box_score_url",
}

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) UpsertGames(ctx context.Context, games []game.Game) error {
	rows := make([]gameTableModel, 0, len(games))
	for _, item := range lastByKey(games, func(g game.Game) string { return g.ID }) {
		rows = append(rows, gameToRow(item))
	}

	for _, batch := range chunks(rows, maxRowsPerInsert) {
		builder, err := qb.InsertModels("games", batch)
		if err != nil {
			return fmt.Errorf("build upsert games query: %w", err)
		}
		query, args, err := builder.OnConflictUpdate([]string{"game_id"}, gameUpdateColumns...).ToSQL()
		if err != nil {
			return fmt.Errorf("build upsert games query: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert games: %w", annotatePoolerError(err))
		}
	}
	return nil
}

func (r *GameRepository) UpdateQuarterScores(ctx context.Context, gameID string, scores game.QuarterScores) (bool, error) {
	payload, err := sonic.MarshalString(scores)
	if err != nil {
		return false, fmt.Errorf("encode quarter scores game=%s: %w", gameID, err)
	}

	query, args, err := qb.Update("games").
		SetExpr("quarter_scores", "?::jsonb", payload).
		Where(qb.Eq("game_id", gameID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update quarter scores query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update quarter scores game=%s: %w", gameID, annotatePoolerError(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected quarter scores game=%s: %w", gameID, err)
	}
	return affected > 0, nil
}

func gameToRow(g game.Game) gameTableModel {
	return gameTableModel{
		GameID:       g.ID,
		LeagueID:     g.LeagueID,
		HomeTeamID:   g.HomeTeamID,
		AwayTeamID:   g.AwayTeamID,
		HomeTeamName: g.HomeTeamName,
		AwayTeamName: g.AwayTeamName,
		GameDate:     g.GameDate,
		GameTime:     g.GameTime,
		HomeScore:    nullableInt(g.HomeScore),
		AwayScore:    nullableInt(g.AwayScore),
		Status:       string(g.Status),
		BoxScoreURL:  g.BoxScoreURL,
	}
}
