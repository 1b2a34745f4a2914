package boxscore

import "time"

// Entry is one player's line in a game's box score.
type Entry struct {
	GameID            string
	TeamID            string
	LeagueID          int
	PlayerLastName    string
	PlayerFirstName   string
	Points            int
	FreeThrowAttempts int
	FreeThrowsMade    int
	TwoPointers       int
	ThreePointers     int
	Fouls             int
	MinutesPlayed     *string
	PlayerSlug        *string
	ScrapedAt         time.Time
}

// Key identifies a box score row. Upstream has no row id, so the tuple is
// unique per game.
type Key struct {
	GameID    string
	TeamID    string
	FirstName string
	LastName  string
}

func (e Entry) Key() Key {
	return Key{
		GameID:    e.GameID,
		TeamID:    e.TeamID,
		FirstName: e.PlayerFirstName,
		LastName:  e.PlayerLastName,
	}
}

// Preserved carries the fields maintained outside the crawler.
type Preserved struct {
	MinutesPlayed *string
	PlayerSlug    *string
}

// MergePreserved copies preserved fields onto rows whose key matches. Rows
// without a match get both fields cleared. rows is not modified.
func MergePreserved(rows []Entry, preserved map[Key]Preserved) []Entry {
	out := make([]Entry, len(rows))
	for i, row := range rows {
		row.MinutesPlayed = nil
		row.PlayerSlug = nil
		if p, ok := preserved[row.Key()]; ok {
			row.MinutesPlayed = p.MinutesPlayed
			row.PlayerSlug = p.PlayerSlug
		}
		out[i] = row
	}
	return out
}

// Dedupe keeps the last row per key, in first-seen order.
func Dedupe(rows []Entry) []Entry {
	index := make(map[Key]int, len(rows))
	out := make([]Entry, 0, len(rows))
	for _, row := range rows {
		if i, ok := index[row.Key()]; ok {
			out[i] = row
			continue
		}
		index[row.Key()] = len(out)
		out = append(out, row)
	}
	return out
}

// GameIDs returns the distinct game ids of rows in first-seen order.
func GameIDs(rows []Entry) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0)
	for _, row := range rows {
		if _, ok := seen[row.GameID]; ok {
			continue
		}
		seen[row.GameID] = struct{}{}
		out = append(out, row.GameID)
	}
	return out
}
