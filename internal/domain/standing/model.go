package standing

import "time"

// Standing represents a league table row for one team.
type Standing struct {
	LeagueID          int
	TeamID            string
	TeamName          string
	Position          int
	GamesPlayed       int
	Wins              int
	Losses            int
	Points            int
	PointsFor         int
	PointsAgainst     int
	ScoringDifference int
	ScrapedAt         time.Time
}
