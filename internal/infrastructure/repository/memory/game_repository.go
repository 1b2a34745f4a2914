package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/bundcrawler/internal/domain/game"
)

type GameRepository struct {
	mu       sync.RWMutex
	games    map[string]game.Game
	quarters map[string]game.QuarterScores
}

func NewGameRepository() *GameRepository {
	return &GameRepository{
		games:    make(map[string]game.Game),
		quarters: make(map[string]game.QuarterScores),
	}
}

// UpsertGames replaces game columns by id. Stored quarter scores are kept.
func (r *GameRepository) UpsertGames(_ context.Context, items []game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.games[item.ID] = item
	}
	return nil
}

func (r *GameRepository) UpdateQuarterScores(_ context.Context, gameID string, scores game.QuarterScores) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.games[gameID]; !ok {
		return false, nil
	}
	r.quarters[gameID] = scores
	return true, nil
}

func (r *GameRepository) Get(gameID string) (game.Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.games[gameID]
	return item, ok
}

func (r *GameRepository) QuarterScores(gameID string) (game.QuarterScores, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	scores, ok := r.quarters[gameID]
	return scores, ok
}

func (r *GameRepository) List() []game.Game {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0, len(r.games))
	for _, item := range r.games {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
