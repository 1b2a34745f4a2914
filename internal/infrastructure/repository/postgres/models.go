package postgres

import (
	"database/sql"
	"time"
)

type teamTableModel struct {
	TeamID   string `db:"team_id"`
	Name     string `db:"name"`
	LeagueID int    `db:"league_id"`
}

// gameTableModel omits quarter_scores; that column is only written by
// UpdateQuarterScores so a game upsert never clears it.
type gameTableModel struct {
	GameID       string        `db:"game_id"`
	LeagueID     int           `db:"league_id"`
	HomeTeamID   string        `db:"home_team_id"`
	AwayTeamID   string        `db:"away_team_id"`
	HomeTeamName string        `db:"home_team_name"`
	AwayTeamName string        `db:"away_team_name"`
	GameDate     string        `db:"game_date"`
	GameTime     string        `db:"game_time"`
	HomeScore    sql.NullInt64 `db:"home_score"`
	AwayScore    sql.NullInt64 `db:"away_score"`
	Status       string        `db:"status"`
	BoxScoreURL  string        `db:"box_score_url"`
}

type standingTableModel struct {
	LeagueID          int       `db:"league_id"`
	TeamID            string    `db:"team_id"`
	TeamName          string    `db:"team_name"`
	Position          int       `db:"position"`
	GamesPlayed       int       `db:"games_played"`
	Wins              int       `db:"wins"`
	Losses            int       `db:"losses"`
	Points            int       `db:"points"`
	PointsFor         int       `db:"points_for"`
	PointsAgainst     int       `db:"points_against"`
	ScoringDifference int       `db:"scoring_difference"`
	ScrapedAt         time.Time `db:"scraped_at"`
}

type boxScoreTableModel struct {
	GameID            string         `db:"game_id"`
	TeamID            string         `db:"team_id"`
	PlayerLastName    string         `db:"player_last_name"`
	PlayerFirstName   string         `db:"player_first_name"`
	Points            int            `db:"points"`
	FreeThrowAttempts int            `db:"free_throw_attempts"`
	FreeThrowsMade    int            `db:"free_throws_made"`
	TwoPointers       int            `db:"two_pointers"`
	ThreePointers     int            `db:"three_pointers"`
	Fouls             int            `db:"fouls"`
	LeagueID          int            `db:"league_id"`
	MinutesPlayed     sql.NullString `db:"minutes_played"`
	PlayerSlug        sql.NullString `db:"player_slug"`
	ScrapedAt         time.Time      `db:"scraped_at"`
}

type preservedTableModel struct {
	GameID          string         `db:"game_id"`
	TeamID          string         `db:"team_id"`
	PlayerFirstName string         `db:"player_first_name"`
	PlayerLastName  string         `db:"player_last_name"`
	MinutesPlayed   sql.NullString `db:"minutes_played"`
	PlayerSlug      sql.NullString `db:"player_slug"`
}

type scrapeLogTableModel struct {
	LeagueID       int            `db:"league_id"`
	ScrapedAt      time.Time      `db:"scraped_at"`
	TeamsCount     int            `db:"teams_count"`
	GamesCount     int            `db:"games_count"`
	StandingsCount int            `db:"standings_count"`
	BoxScoresCount int            `db:"box_scores_count"`
	Status         string         `db:"status"`
	ErrorMessage   sql.NullString `db:"error_message"`
}
