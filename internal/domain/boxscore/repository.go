package boxscore

import "context"

// Repository exposes the delete-and-reinsert operations used per game.
type Repository interface {
	ListPreserved(ctx context.Context, gameIDs []string) (map[Key]Preserved, error)
	DeleteByGames(ctx context.Context, gameIDs []string) error
	UpsertEntries(ctx context.Context, entries []Entry) error
}
