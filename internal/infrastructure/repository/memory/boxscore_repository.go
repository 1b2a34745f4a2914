package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/bundcrawler/internal/domain/boxscore"
)

// BoxScoreRepository keys rows by their composite identity, the same
// constraint the postgres table enforces.
type BoxScoreRepository struct {
	mu   sync.RWMutex
	rows map[boxscore.Key]boxscore.Entry
}

func NewBoxScoreRepository(seed []boxscore.Entry) *BoxScoreRepository {
	r := &BoxScoreRepository{rows: make(map[boxscore.Key]boxscore.Entry, len(seed))}
	for _, row := range seed {
		r.rows[row.Key()] = row
	}
	return r
}

func (r *BoxScoreRepository) ListPreserved(_ context.Context, gameIDs []string) (map[boxscore.Key]boxscore.Preserved, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := toSet(gameIDs)
	out := make(map[boxscore.Key]boxscore.Preserved)
	for key, row := range r.rows {
		if _, ok := wanted[key.GameID]; !ok {
			continue
		}
		out[key] = boxscore.Preserved{MinutesPlayed: row.MinutesPlayed, PlayerSlug: row.PlayerSlug}
	}
	return out, nil
}

func (r *BoxScoreRepository) DeleteByGames(_ context.Context, gameIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := toSet(gameIDs)
	for key := range r.rows {
		if _, ok := wanted[key.GameID]; ok {
			delete(r.rows, key)
		}
	}
	return nil
}

func (r *BoxScoreRepository) UpsertEntries(_ context.Context, entries []boxscore.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range entries {
		r.rows[row.Key()] = row
	}
	return nil
}

// ListByGame returns the rows of one game ordered by team then player name.
func (r *BoxScoreRepository) ListByGame(gameID string) []boxscore.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]boxscore.Entry, 0)
	for key, row := range r.rows {
		if key.GameID == gameID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Key(), out[j].Key()
		if a.TeamID != b.TeamID {
			return a.TeamID < b.TeamID
		}
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		return a.FirstName < b.FirstName
	})
	return out
}

func (r *BoxScoreRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}

func toSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}
