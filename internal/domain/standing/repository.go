package standing

import "context"

type Repository interface {
	ReplaceByLeague(ctx context.Context, leagueID int, standings []Standing) error
}
