package memory

import (
	"context"
	"sync/atomic"
)

// Store bundles the in-memory repositories behind one connectivity probe.
type Store struct {
	Teams     *TeamRepository
	Games     *GameRepository
	Standings *StandingRepository
	BoxScores *BoxScoreRepository
	ScrapeLog *ScrapeLogRepository

	pingErr atomic.Pointer[error]
}

func NewStore() *Store {
	return &Store{
		Teams:     NewTeamRepository(nil),
		Games:     NewGameRepository(),
		Standings: NewStandingRepository(),
		BoxScores: NewBoxScoreRepository(nil),
		ScrapeLog: NewScrapeLogRepository(),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if errp := s.pingErr.Load(); errp != nil {
		return *errp
	}
	return nil
}

// SetPingError makes Ping fail with err until it is called again with nil.
func (s *Store) SetPingError(err error) {
	if err == nil {
		s.pingErr.Store(nil)
		return
	}
	s.pingErr.Store(&err)
}
