package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Store groups the repositories that share one connection pool.
type Store struct {
	db *sqlx.DB

	Teams     *TeamRepository
	Games     *GameRepository
	Standings *StandingRepository
	BoxScores *BoxScoreRepository
	ScrapeLog *ScrapeLogRepository
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{
		db:        db,
		Teams:     NewTeamRepository(db),
		Games:     NewGameRepository(db),
		Standings: NewStandingRepository(db),
		BoxScores: NewBoxScoreRepository(db),
		ScrapeLog: NewScrapeLogRepository(db),
	}
}

// Ping is the connectivity probe run before every persistence attempt.
func (s *Store) Ping(ctx context.Context) error {
	var one int
	if err := s.db.GetContext(ctx, &one, "SELECT 1"); err != nil {
		return fmt.Errorf("select 1: %w", annotatePoolerError(err))
	}
	return nil
}

// annotatePoolerError adds a configuration hint to statement errors caused by
// a transaction-mode pooler.
func annotatePoolerError(err error) error {
	if !isPoolerStatementError(err) {
		return err
	}
	return fmt.Errorf("%w (pooler reused a prepared statement; keep DB_DISABLE_PREPARED_BINARY_RESULT=true)", err)
}
