package scrapelog

import "time"

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Entry is the audit row written once per run.
type Entry struct {
	LeagueID       int
	ScrapedAt      time.Time
	TeamsCount     int
	GamesCount     int
	StandingsCount int
	BoxScoresCount int
	Status         Status
	ErrorMessage   *string
}

func Failed(leagueID int, at time.Time, err error) Entry {
	msg := err.Error()
	return Entry{
		LeagueID:     leagueID,
		ScrapedAt:    at,
		Status:       StatusFailed,
		ErrorMessage: &msg,
	}
}
