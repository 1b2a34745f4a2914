package usecase

import (
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/bundcrawler/external/basketballbund"
	"github.com/riskibarqy/bundcrawler/internal/domain/boxscore"
	"github.com/riskibarqy/bundcrawler/internal/domain/game"
	"github.com/riskibarqy/bundcrawler/internal/domain/standing"
	"github.com/riskibarqy/bundcrawler/internal/domain/team"
	"github.com/riskibarqy/bundcrawler/internal/platform/logging"
)

// DeriveGameStatus maps the schedule flags onto a game status. Cancellation
// wins over everything. A parseable result is finished when confirmed and
// provisional otherwise, so live is only reachable for a result string that
// does not parse as two integers.
func DeriveGameStatus(result *string, confirmed, cancelled bool) game.Status {
	if cancelled {
		return game.StatusCancelled
	}
	if home, _ := ParseResult(result); home != nil {
		if confirmed {
			return game.StatusFinished
		}
		return game.StatusProvisional
	}
	if result != nil && *result != "" && !confirmed {
		return game.StatusLive
	}
	return game.StatusScheduled
}

// ParseResult parses "<home>:<away>". Both values are nil unless the text has
// exactly one separator and both sides are integers.
func ParseResult(result *string) (home, away *int) {
	if result == nil {
		return nil, nil
	}
	parts := strings.Split(*result, ":")
	if len(parts) != 2 {
		return nil, nil
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, nil
	}
	a, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, nil
	}
	return &h, &a
}

// TransformGames maps schedule rows onto games. Rows without a match id
// cannot be keyed and are dropped. boxScoreURL builds the result page link
// for games that have a result.
func TransformGames(matches []basketballbund.Match, leagueID int, boxScoreURL func(gameID string) string, log logging.Sink) []game.Game {
	log = logging.OrDefault(log)
	out := make([]game.Game, 0, len(matches))
	for _, m := range matches {
		id := m.ID()
		if id == "" {
			log.Warn("schedule row without match id dropped", "home_team", m.HomeTeam.DisplayName(), "away_team", m.GuestTeam.DisplayName())
			continue
		}

		result := m.ResultText()
		home, away := ParseResult(result)
		g := game.Game{
			ID:           id,
			LeagueID:     leagueID,
			HomeTeamID:   m.HomeTeam.ID(),
			AwayTeamID:   m.GuestTeam.ID(),
			HomeTeamName: m.HomeTeam.DisplayName(),
			AwayTeamName: m.GuestTeam.DisplayName(),
			GameDate:     m.KickoffDate,
			GameTime:     m.KickoffTime,
			HomeScore:    home,
			AwayScore:    away,
			Status:       DeriveGameStatus(result, m.Confirmed.Bool(), m.Cancelled.Bool()),
		}
		if m.HasResult() && boxScoreURL != nil {
			g.BoxScoreURL = boxScoreURL(id)
		}
		out = append(out, g)
	}
	return out
}

func TransformStandings(entries []basketballbund.StandingEntry, leagueID int, scrapedAt time.Time) []standing.Standing {
	out := make([]standing.Standing, 0, len(entries))
	for _, e := range entries {
		out = append(out, standing.Standing{
			LeagueID:          leagueID,
			TeamID:            e.Team.ID(),
			TeamName:          e.Team.DisplayName(),
			Position:          e.Rank.Int(),
			GamesPlayed:       e.GamesPlayed.Int(),
			Wins:              e.Wins.Int(),
			Losses:            e.Losses.Int(),
			Points:            e.LeaguePoints.Int(),
			PointsFor:         e.PointsFor.Int(),
			PointsAgainst:     e.PointsAgainst.Int(),
			ScoringDifference: e.PointDifference.Int(),
			ScrapedAt:         scrapedAt,
		})
	}
	return out
}

// ExtractTeams collects every team referenced by the table and the schedule.
// Table entries are seen first and win on conflict. A team reference with an
// empty id is kept under the empty key and reported; one with neither id nor
// name is skipped.
func ExtractTeams(entries []basketballbund.StandingEntry, matches []basketballbund.Match, leagueID int, log logging.Sink) []team.Team {
	log = logging.OrDefault(log)
	index := make(map[string]int)
	out := make([]team.Team, 0)
	add := func(ref *basketballbund.TeamRef, overwrite bool) {
		if ref == nil {
			return
		}
		id := ref.ID()
		if id == "" && strings.TrimSpace(ref.Name) == "" {
			return
		}
		t := team.Team{ID: id, Name: ref.Name, LeagueID: leagueID}
		if i, ok := index[id]; ok {
			if overwrite {
				out[i] = t
			}
			return
		}
		if id == "" {
			log.Warn("team reference without permanent id", "team_name", ref.Name)
		}
		index[id] = len(out)
		out = append(out, t)
	}

	for _, e := range entries {
		add(e.Team, true)
	}
	for _, m := range matches {
		add(m.HomeTeam, false)
		add(m.GuestTeam, false)
	}
	return out
}

// TransformBoxScores stamps league and scrape time onto extracted rows and
// drops rows that lost their game id.
func TransformBoxScores(entries []boxscore.Entry, leagueID int, scrapedAt time.Time, log logging.Sink) []boxscore.Entry {
	log = logging.OrDefault(log)
	out := make([]boxscore.Entry, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.GameID) == "" {
			log.Warn("box score entry without game id dropped", "player_last_name", e.PlayerLastName)
			continue
		}
		e.LeagueID = leagueID
		e.ScrapedAt = scrapedAt
		out = append(out, e)
	}
	return out
}
