package basketballbund

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sourcegraph/conc/panics"

	"github.com/riskibarqy/bundcrawler/internal/domain/boxscore"
	"github.com/riskibarqy/bundcrawler/internal/domain/game"
	"github.com/riskibarqy/bundcrawler/internal/platform/logging"
)

// Side tags the home and guest player forms on a result page.
type Side string

const (
	SideHome  Side = "heim"
	SideGuest Side = "gast"
)

const (
	playerFormPrefix  = "spielerstatistik"
	lastNameHeader    = "Nachname"
	totalsRowLabel    = "Gesamt"
	minPlayerCells    = 8
	minQuarterCells   = 9
	finalScoreColumn  = 5
	firstQuarterCol   = 6
	halftimeColumn    = 7
	thirdQuarterCol   = 8
	scorePairSplitter = ":"
)

var quarterHeaders = []string{"1.Viertel", "Halbzeit", "3.Viertel"}

// BoxScoreRef identifies the game a result page belongs to.
type BoxScoreRef struct {
	GameID     string
	LeagueID   int
	HomeTeamID string
	AwayTeamID string
	ScrapedAt  time.Time
}

type BoxScoreResult struct {
	Quarters *game.QuarterScores
	Entries  []boxscore.Entry
}

// ExtractBoxScore parses one result page. Missing forms, tables or rows
// degrade to an empty result and are logged; it never fails and recovers
// from panics raised while walking the document.
func ExtractBoxScore(html []byte, ref BoxScoreRef, log logging.Sink) BoxScoreResult {
	log = logging.OrDefault(log)

	var result BoxScoreResult
	var catcher panics.Catcher
	catcher.Try(func() {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
		if err != nil {
			log.Warn("parse box score page failed", "game_id", ref.GameID, "error", err)
			return
		}

		result.Quarters = extractQuarterScores(doc, ref, log)
		result.Entries = append(result.Entries, extractPlayers(doc, SideHome, ref.HomeTeamID, ref, log)...)
		result.Entries = append(result.Entries, extractPlayers(doc, SideGuest, ref.AwayTeamID, ref, log)...)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		log.Error("box score extraction panicked", "game_id", ref.GameID, "error", recovered.AsError())
		return BoxScoreResult{}
	}
	return result
}

func extractPlayers(doc *goquery.Document, side Side, teamID string, ref BoxScoreRef, log logging.Sink) []boxscore.Entry {
	formName := playerFormPrefix + string(side)
	form := doc.Find(`form[name="` + formName + `"]`).First()
	if form.Length() == 0 {
		log.Warn("player statistics form missing", "game_id", ref.GameID, "form", formName)
		return nil
	}

	var table *goquery.Selection
	form.Find("table.sportView").EachWithBreak(func(_ int, candidate *goquery.Selection) bool {
		rows := candidate.Find("tr")
		if rows.Length() < 2 {
			return true
		}
		header := rows.First().Find("td")
		if header.Length() >= minPlayerCells && cellText(header.First()) == lastNameHeader {
			table = candidate
			return false
		}
		return true
	})
	if table == nil {
		log.Warn("player statistics table missing", "game_id", ref.GameID, "form", formName)
		return nil
	}

	var out []boxscore.Entry
	table.Find("tr").Slice(1, goquery.ToEnd).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < minPlayerCells {
			return
		}
		lastName := cellText(cells.Eq(0))
		firstName := cellText(cells.Eq(1))
		if lastName == "" || firstName == "" || lastName == totalsRowLabel {
			return
		}

		out = append(out, boxscore.Entry{
			GameID:            ref.GameID,
			TeamID:            teamID,
			LeagueID:          ref.LeagueID,
			PlayerLastName:    lastName,
			PlayerFirstName:   firstName,
			Points:            permissiveInt(cellText(cells.Eq(2))),
			FreeThrowAttempts: permissiveInt(cellText(cells.Eq(3))),
			FreeThrowsMade:    permissiveInt(cellText(cells.Eq(4))),
			TwoPointers:       permissiveInt(cellText(cells.Eq(5))),
			ThreePointers:     permissiveInt(cellText(cells.Eq(6))),
			Fouls:             permissiveInt(cellText(cells.Eq(7))),
			ScrapedAt:         ref.ScrapedAt,
		})
	})
	return out
}

func extractQuarterScores(doc *goquery.Document, ref BoxScoreRef, log logging.Sink) *game.QuarterScores {
	var scores *game.QuarterScores
	doc.Find("table.sportView").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		if !hasQuarterHeaders(table) {
			return true
		}

		rows := table.Find("tr").FilterFunction(func(_ int, row *goquery.Selection) bool {
			return hasClassPrefix(row, "sportItem")
		})
		if rows.Length() == 0 {
			rows = table.Find("tr").FilterFunction(func(_ int, row *goquery.Selection) bool {
				return !hasClassContaining(row, "header")
			})
		}

		rows.EachWithBreak(func(_ int, row *goquery.Selection) bool {
			cells := row.Find("td").FilterFunction(func(_ int, cell *goquery.Selection) bool {
				return hasClassPrefix(cell, "sportItem")
			})
			if cells.Length() == 0 {
				cells = row.Find("td")
			}
			if cells.Length() < minQuarterCells {
				return true
			}

			q1Home, q1Away := ParseScorePair(cellText(cells.Eq(firstQuarterCol)))
			htHome, htAway := ParseScorePair(cellText(cells.Eq(halftimeColumn)))
			q3Home, q3Away := ParseScorePair(cellText(cells.Eq(thirdQuarterCol)))
			scores = &game.QuarterScores{
				FirstQuarterHome: q1Home,
				FirstQuarterAway: q1Away,
				HalftimeHome:     htHome,
				HalftimeAway:     htAway,
				ThirdQuarterHome: q3Home,
				ThirdQuarterAway: q3Away,
			}
			log.Info("quarter scores extracted", "game_id", ref.GameID, "final", cellText(cells.Eq(finalScoreColumn)))
			return false
		})
		return scores == nil
	})

	if scores == nil {
		log.Warn("quarter score table missing", "game_id", ref.GameID)
	}
	return scores
}

func hasQuarterHeaders(table *goquery.Selection) bool {
	seen := make(map[string]struct{})
	table.Find("td.sportViewHeader").Each(func(_ int, cell *goquery.Selection) {
		seen[normalizeHeader(cell.Text())] = struct{}{}
	})
	for _, want := range quarterHeaders {
		if _, ok := seen[want]; !ok {
			return false
		}
	}
	return true
}

// ParseScorePair splits "<home> : <away>". Both results are nil when text is
// empty or does not contain exactly one separator. A side that is not a
// number yields 0 for that side only.
func ParseScorePair(text string) (home, away *int) {
	if strings.TrimSpace(text) == "" || strings.Count(text, scorePairSplitter) != 1 {
		return nil, nil
	}
	parts := strings.SplitN(text, scorePairSplitter, 2)
	h := permissiveInt(parts[0])
	a := permissiveInt(parts[1])
	return &h, &a
}

// permissiveInt parses a cell value. Blank or unparsable text is 0.
func permissiveInt(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		return 0
	}
	return v
}

func cellText(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}

// normalizeHeader drops every kind of whitespace, including the non-breaking
// spaces the result pages put inside "1. Viertel".
func normalizeHeader(text string) string {
	return strings.Join(strings.Fields(text), "")
}

func hasClassPrefix(sel *goquery.Selection, prefix string) bool {
	for _, class := range strings.Fields(sel.AttrOr("class", "")) {
		if strings.HasPrefix(class, prefix) {
			return true
		}
	}
	return false
}

func hasClassContaining(sel *goquery.Selection, needle string) bool {
	for _, class := range strings.Fields(sel.AttrOr("class", "")) {
		if strings.Contains(strings.ToLower(class), needle) {
			return true
		}
	}
	return false
}
