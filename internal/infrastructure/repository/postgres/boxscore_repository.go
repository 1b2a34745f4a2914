package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/bundcrawler/internal/domain/boxscore"
	qb "github.com/riskibarqy/bundcrawler/internal/platform/querybuilder"
)

var (
	boxScoreKeyColumns    = []string{"game_id", "team_id", "player_first_name", "player_last_name"}
	boxScoreUpdateColumns = []string{
		"points",
		"free_throw_attempts",
		"free_throws_made",
		"two_pointers",
		"three_pointers",
		"fouls",
		"league_id",
		"minutes_played",
		"player_slug",
		"scraped_at",
	}
)

type BoxScoreRepository struct {
	db *sqlx.DB
}

func NewBoxScoreRepository(db *sqlx.DB) *BoxScoreRepository {
	return &BoxScoreRepository{db: db}
}

func (r *BoxScoreRepository) ListPreserved(ctx context.Context, gameIDs []string) (map[boxscore.Key]boxscore.Preserved, error) {
	out := make(map[boxscore.Key]boxscore.Preserved)
	if len(gameIDs) == 0 {
		return out, nil
	}

	query, args, err := qb.Select(
		"game_id", "team_id", "player_first_name", "player_last_name", "minutes_played", "player_slug",
	).From("box_scores").
		Where(
			qb.In("game_id", stringSliceToAny(gameIDs)),
			qb.Expr("(minutes_played IS NOT NULL OR player_slug IS NOT NULL)"),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list preserved box scores query: %w", err)
	}

	var rows []preservedTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list preserved box scores: %w", annotatePoolerError(err))
	}
	for _, row := range rows {
		key := boxscore.Key{
			GameID:    row.GameID,
			TeamID:    row.TeamID,
			FirstName: row.PlayerFirstName,
			LastName:  row.PlayerLastName,
		}
		out[key] = boxscore.Preserved{
			MinutesPlayed: nullStringToPtr(row.MinutesPlayed),
			PlayerSlug:    nullStringToPtr(row.PlayerSlug),
		}
	}
	return out, nil
}

func (r *BoxScoreRepository) DeleteByGames(ctx context.Context, gameIDs []string) error {
	if len(gameIDs) == 0 {
		return nil
	}
	for _, batch := range chunks(gameIDs, maxRowsPerInsert) {
		query, args, err := qb.DeleteFrom("box_scores").
			Where(qb.In("game_id", stringSliceToAny(batch))).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build delete box scores query: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete box scores: %w", annotatePoolerError(err))
		}
	}
	return nil
}

// UpsertEntries writes rows keyed by (game, team, first name, last name).
func (r *BoxScoreRepository) UpsertEntries(ctx context.Context, entries []boxscore.Entry) error {
	rows := make([]boxScoreTableModel, 0, len(entries))
	for _, e := range boxscore.Dedupe(entries) {
		rows = append(rows, boxScoreTableModel{
			GameID:            e.GameID,
			TeamID:            e.TeamID,
			PlayerLastName:    e.PlayerLastName,
			PlayerFirstName:   e.PlayerFirstName,
			Points:            e.Points,
			FreeThrowAttempts: e.FreeThrowAttempts,
			FreeThrowsMade:    e.FreeThrowsMade,
			TwoPointers:       e.TwoPointers,
			ThreePointers:     e.ThreePointers,
			Fouls:             e.Fouls,
			LeagueID:          e.LeagueID,
			MinutesPlayed:     nullableString(e.MinutesPlayed),
			PlayerSlug:        nullableString(e.PlayerSlug),
			ScrapedAt:         e.ScrapedAt,
		})
	}

	for _, batch := range chunks(rows, maxRowsPerInsert) {
		builder, err := qb.InsertModels("box_scores", batch)
		if err != nil {
			return fmt.Errorf("build upsert box scores query: %w", err)
		}
		query, args, err := builder.OnConflictUpdate(boxScoreKeyColumns, boxScoreUpdateColumns...).ToSQL()
		if err != nil {
			return fmt.Errorf("build upsert box scores query: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert box scores: %w", annotatePoolerError(err))
		}
	}
	return nil
}
