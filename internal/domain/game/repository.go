package game

import "context"

// Repository describes game persistence needs from use cases.
type Repository interface {
	UpsertGames(ctx context.Context, games []Game) error
	// UpdateQuarterScores reports false when no game with gameID exists.
	UpdateQuarterScores(ctx context.Context, gameID string, scores QuarterScores) (bool, error)
}
