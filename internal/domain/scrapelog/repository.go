package scrapelog

import (
	"context"
	"time"
)

type Repository interface {
	Insert(ctx context.Context, entry Entry) error
	ListSince(ctx context.Context, leagueID int, since time.Time) ([]Entry, error)
}
