package team

import "fmt"

// Team is a club taking part in one league.
type Team struct {
	ID       string
	Name     string
	LeagueID int
}

func (t Team) Validate() error {
	if t.LeagueID <= 0 {
		return fmt.Errorf("team %q: league id is required", t.ID)
	}
	return nil
}
