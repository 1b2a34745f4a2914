package game

import "fmt"

type Status string

const (
	StatusScheduled   Status = "scheduled"
	StatusLive        Status = "live"
	StatusProvisional Status = "provisional"
	StatusFinished    Status = "finished"
	StatusCancelled   Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusLive, StatusProvisional, StatusFinished, StatusCancelled:
		return true
	default:
		return false
	}
}

// Game is one scheduled or played match of a league.
type Game struct {
	ID           string
	LeagueID     int
	HomeTeamID   string
	AwayTeamID   string
	HomeTeamName string
	AwayTeamName string
	GameDate     string
	GameTime     string
	HomeScore    *int
	AwayScore    *int
	Status       Status
	BoxScoreURL  string
}

func (g Game) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("game id is required")
	}
	if (g.HomeScore == nil) != (g.AwayScore == nil) {
		return fmt.Errorf("game %s: home and away score must both be set or both be empty", g.ID)
	}
	if !g.Status.Valid() {
		return fmt.Errorf("game %s: invalid status %q", g.ID, g.Status)
	}
	return nil
}

// QuarterScores holds the running score after Q1, at halftime and after Q3.
// Any value may be missing when the source cell could not be parsed.
type QuarterScores struct {
	FirstQuarterHome *int `json:"first_quarter_home"`
	FirstQuarterAway *int `json:"first_quarter_away"`
	HalftimeHome     *int `json:"halftime_home"`
	HalftimeAway     *int `json:"halftime_away"`
	ThirdQuarterHome *int `json:"third_quarter_home"`
	ThirdQuarterAway *int `json:"third_quarter_away"`
}
