package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/bundcrawler/external/basketballbund"
	"github.com/riskibarqy/bundcrawler/internal/domain/boxscore"
	"github.com/riskibarqy/bundcrawler/internal/domain/game"
)

func TestDeriveGameStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		result    *string
		confirmed bool
		cancelled bool
		want      game.Status
	}{
		{name: "confirmed result", result: strPtr("85:78"), confirmed: true, want: game.StatusFinished},
		{name: "unconfirmed result", result: strPtr("85:78"), want: game.StatusProvisional},
		{name: "cancelled wins over result", result: strPtr("85:78"), confirmed: true, cancelled: true, want: game.StatusCancelled},
		{name: "cancelled without result", cancelled: true, want: game.StatusCancelled},
		{name: "malformed unconfirmed", result: strPtr("85:78:1"), want: game.StatusLive},
		{name: "non numeric unconfirmed", result: strPtr("-:-"), want: game.StatusLive},
		{name: "malformed confirmed", result: strPtr("abc"), confirmed: true, want: game.StatusScheduled},
		{name: "empty result", result: strPtr(""), want: game.StatusScheduled},
		{name: "no result", want: game.StatusScheduled},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := DeriveGameStatus(tc.result, tc.confirmed, tc.cancelled); got != tc.want {
				t.Fatalf("DeriveGameStatus()=%s want %s", got, tc.want)
			}
		})
	}
}

func TestParseResult(t *testing.T) {
	t.Parallel()

	home, away := ParseResult(strPtr(" 85 : 78 "))
	require.NotNil(t, home)
	require.NotNil(t, away)
	assert.Equal(t, 85, *home)
	assert.Equal(t, 78, *away)

	for _, raw := range []string{"", "85", "85:78:1", "85:x", ":"} {
		home, away := ParseResult(strPtr(raw))
		assert.Nil(t, home, raw)
		assert.Nil(t, away, raw)
	}
	home, away = ParseResult(nil)
	assert.Nil(t, home)
	assert.Nil(t, away)
}

func TestTransformGames(t *testing.T) {
	t.Parallel()

	matches := []basketballbund.Match{
		{
			MatchID:     "2470193",
			HomeTeam:    &basketballbund.TeamRef{PermanentID: "101", Name: "TSV Neustadt"},
			GuestTeam:   &basketballbund.TeamRef{PermanentID: "202", Name: "BC Altstadt"},
			Result:      "85:78",
			Confirmed:   true,
			KickoffDate: "2025-10-04",
			KickoffTime: "18:00",
		},
		{MatchID: "2470194", HomeTeam: &basketballbund.TeamRef{PermanentID: "202"}},
		{MatchID: " ", Result: "1:0"},
	}
	sink := &recordingSink{}

	games := TransformGames(matches, 47950, func(id string) string { return "https://box/" + id }, sink)

	require.Len(t, games, 2)
	finished := games[0]
	assert.Equal(t, game.StatusFinished, finished.Status)
	assert.Equal(t, 85, *finished.HomeScore)
	assert.Equal(t, 78, *finished.AwayScore)
	assert.Equal(t, "https://box/2470193", finished.BoxScoreURL)
	assert.Equal(t, "TSV Neustadt", finished.HomeTeamName)
	assert.Equal(t, 47950, finished.LeagueID)
	require.NoError(t, finished.Validate())

	scheduled := games[1]
	assert.Equal(t, game.StatusScheduled, scheduled.Status)
	assert.Nil(t, scheduled.HomeScore)
	assert.Nil(t, scheduled.AwayScore)
	assert.Empty(t, scheduled.BoxScoreURL)
	assert.Empty(t, scheduled.AwayTeamID)

	assert.Len(t, sink.warnings(), 1)
}

func TestTransformStandings(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 10, 5, 8, 0, 0, 0, time.UTC)
	rows := TransformStandings([]basketballbund.StandingEntry{{
		Team:            &basketballbund.TeamRef{PermanentID: "101", Name: "TSV Neustadt"},
		Rank:            1,
		GamesPlayed:     5,
		Wins:            4,
		Losses:          1,
		LeaguePoints:    8,
		PointsFor:       410,
		PointsAgainst:   360,
		PointDifference: 50,
	}}, 47950, at)

	require.Len(t, rows, 1)
	assert.Equal(t, "101", rows[0].TeamID)
	assert.Equal(t, "TSV Neustadt", rows[0].TeamName)
	assert.Equal(t, 1, rows[0].Position)
	assert.Equal(t, 8, rows[0].Points)
	assert.Equal(t, 50, rows[0].ScoringDifference)
	assert.Equal(t, at, rows[0].ScrapedAt)
}

func TestExtractTeams_StandingsWinAndGamesFillGaps(t *testing.T) {
	t.Parallel()

	standings := []basketballbund.StandingEntry{
		{Team: &basketballbund.TeamRef{PermanentID: "101", Name: "TSV Neustadt"}},
		{Team: nil},
	}
	matches := []basketballbund.Match{
		{
			HomeTeam:  &basketballbund.TeamRef{PermanentID: "101", Name: "Neustadt (alt)"},
			GuestTeam: &basketballbund.TeamRef{PermanentID: "202", Name: "BC Altstadt"},
		},
		{
			HomeTeam:  &basketballbund.TeamRef{PermanentID: "202", Name: "Altstadt 2"},
			GuestTeam: &basketballbund.TeamRef{Name: "Unbekannt"},
		},
	}
	sink := &recordingSink{}

	teams := ExtractTeams(standings, matches, 47950, sink)

	require.Len(t, teams, 3)
	assert.Equal(t, "TSV Neustadt", teams[0].Name)
	assert.Equal(t, "BC Altstadt", teams[1].Name)
	assert.Equal(t, "", teams[2].ID)
	assert.Equal(t, "Unbekannt", teams[2].Name)
	for _, tm := range teams {
		assert.Equal(t, 47950, tm.LeagueID)
	}
	assert.Equal(t, []string{"team reference without permanent id"}, sink.warnings())
}

func TestExtractTeams_SkipsEmptyTeamObjects(t *testing.T) {
	t.Parallel()

	matches := []basketballbund.Match{{
		HomeTeam:  &basketballbund.TeamRef{},
		GuestTeam: &basketballbund.TeamRef{PermanentID: "7", Name: "X"},
	}}
	sink := &recordingSink{}

	teams := ExtractTeams(nil, matches, 1, sink)

	require.Len(t, teams, 1)
	assert.Equal(t, "7", teams[0].ID)
	assert.Equal(t, "X", teams[0].Name)
	assert.Empty(t, sink.warnings())
}

func TestTransformBoxScores_DropsRowsWithoutGame(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 10, 5, 8, 0, 0, 0, time.UTC)
	sink := &recordingSink{}
	rows := TransformBoxScores([]boxscore.Entry{
		{GameID: "2470193", TeamID: "101", PlayerLastName: "Doe", PlayerFirstName: "Jane"},
		{GameID: "", TeamID: "101", PlayerLastName: "Lost"},
	}, 47950, at, sink)

	require.Len(t, rows, 1)
	assert.Equal(t, 47950, rows[0].LeagueID)
	assert.Equal(t, at, rows[0].ScrapedAt)
	assert.Len(t, sink.warnings(), 1)
}
