package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/bundcrawler/internal/domain/standing"
)

type StandingRepository struct {
	mu       sync.RWMutex
	byLeague map[int][]standing.Standing
}

func NewStandingRepository() *StandingRepository {
	return &StandingRepository{byLeague: make(map[int][]standing.Standing)}
}

func (r *StandingRepository) ReplaceByLeague(_ context.Context, leagueID int, items []standing.Standing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]standing.Standing, 0, len(items))
	out = append(out, items...)
	r.byLeague[leagueID] = out
	return nil
}

func (r *StandingRepository) ListByLeague(leagueID int) []standing.Standing {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.byLeague[leagueID]
	out := make([]standing.Standing, 0, len(items))
	return append(out, items...)
}
