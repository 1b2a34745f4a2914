package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/bundcrawler/internal/domain/team"
	qb "github.com/riskibarqy/bundcrawler/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) UpsertTeams(ctx context.Context, teams []team.Team) error {
	rows := make([]teamTableModel, 0, len(teams))
	for _, item := range lastByKey(teams, func(t team.Team) string { return t.ID }) {
		rows = append(rows, teamTableModel{TeamID: item.ID, Name: item.Name, LeagueID: item.LeagueID})
	}

	for _, batch := range chunks(rows, maxRowsPerInsert) {
		builder, err := qb.InsertModels("teams", batch)
		if err != nil {
			return fmt.Errorf("build upsert teams query: %w", err)
		}
		query, args, err := builder.OnConflictUpdate([]string{"team_id"}, "name", "league_id").ToSQL()
		if err != nil {
			return fmt.Errorf("build upsert teams query: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert teams: %w", annotatePoolerError(err))
		}
	}
	return nil
}
