package basketballbund

import (
	"bytes"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
)

var nullLiteral = []byte("null")

// FlexString decodes a JSON string, number or null into its text form.
// Upstream ids arrive as either strings or numbers.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, nullLiteral):
		*s = ""
	case b[0] == '"':
		var v string
		if err := sonic.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = FlexString(v)
	case b[0] == '{' || b[0] == '[':
		*s = ""
	default:
		*s = FlexString(b)
	}
	return nil
}

func (s FlexString) String() string {
	return string(s)
}

// FlexInt decodes numbers and numeric strings. Anything else becomes 0.
type FlexInt int

func (n *FlexInt) UnmarshalJSON(b []byte) error {
	var text FlexString
	if err := text.UnmarshalJSON(b); err != nil {
		*n = 0
		return nil
	}
	raw := strings.TrimSpace(string(text))
	if v, err := strconv.Atoi(raw); err == nil {
		*n = FlexInt(v)
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		*n = FlexInt(int(f))
		return nil
	}
	*n = 0
	return nil
}

func (n FlexInt) Int() int {
	return int(n)
}

// FlexBool accepts true/false, "true"/"false", "1"/"0" and numbers.
type FlexBool bool

func (v *FlexBool) UnmarshalJSON(b []byte) error {
	var text FlexString
	if err := text.UnmarshalJSON(b); err != nil {
		*v = false
		return nil
	}
	raw := strings.TrimSpace(string(text))
	if parsed, err := strconv.ParseBool(raw); err == nil {
		*v = FlexBool(parsed)
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		*v = f != 0
		return nil
	}
	*v = false
	return nil
}

func (v FlexBool) Bool() bool {
	return bool(v)
}

// TeamRef is the team object embedded in table entries and matches.
type TeamRef struct {
	PermanentID FlexString `json:"teamPermanentId"`
	Name        string     `json:"teamname"`
}

func (t *TeamRef) ID() string {
	if t == nil {
		return ""
	}
	return strings.TrimSpace(t.PermanentID.String())
}

func (t *TeamRef) DisplayName() string {
	if t == nil {
		return ""
	}
	return t.Name
}

// Match is one schedule row of /competition/spielplan.
type Match struct {
	MatchID     FlexString `json:"matchId"`
	HomeTeam    *TeamRef   `json:"homeTeam"`
	GuestTeam   *TeamRef   `json:"guestTeam"`
	Result      FlexString `json:"result"`
	Confirmed   FlexBool   `json:"ergebnisbestaetigt"`
	Cancelled   FlexBool   `json:"abgesagt"`
	KickoffDate string     `json:"kickoffDate"`
	KickoffTime string     `json:"kickoffTime"`
}

func (m Match) ID() string {
	return strings.TrimSpace(m.MatchID.String())
}

// ResultText returns the raw result, or nil when upstream sent none.
func (m Match) ResultText() *string {
	if m.Result == "" {
		return nil
	}
	v := m.Result.String()
	return &v
}

// HasResult reports whether the raw result carries the score separator.
// Only such matches have a box score page worth fetching.
func (m Match) HasResult() bool {
	return strings.Contains(m.Result.String(), ":")
}

// StandingEntry is one row of /competition/table.
type StandingEntry struct {
	Team            *TeamRef `json:"team"`
	Rank            FlexInt  `json:"rang"`
	GamesPlayed     FlexInt  `json:"anzspiele"`
	Wins            FlexInt  `json:"s"`
	Losses          FlexInt  `json:"n"`
	LeaguePoints    FlexInt  `json:"anzGewinnpunkte"`
	PointsFor       FlexInt  `json:"koerbe"`
	PointsAgainst   FlexInt  `json:"gegenKoerbe"`
	PointDifference FlexInt  `json:"korbdiff"`
}

// Competition is the subset of /competition/list the crawler reports on.
type Competition struct {
	LeagueID FlexString `json:"ligaId"`
	Name     string     `json:"liganame"`
	Season   FlexString `json:"seasonName"`
}

// competitionList accepts either one competition object or a list of them.
type competitionList []Competition

func (l *competitionList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, nullLiteral):
		*l = nil
	case b[0] == '[':
		var list []Competition
		if err := sonic.Unmarshal(b, &list); err != nil {
			return err
		}
		*l = list
	case b[0] == '{':
		var single Competition
		if err := sonic.Unmarshal(b, &single); err != nil {
			return err
		}
		*l = competitionList{single}
	default:
		*l = nil
	}
	return nil
}

type envelope[T any] struct {
	Status  FlexString `json:"status"`
	Message string     `json:"message"`
	Data    T          `json:"data"`
}

type tableData struct {
	Tabelle struct {
		Entries []StandingEntry `json:"entries"`
	} `json:"tabelle"`
}

type scheduleData struct {
	Matches []Match `json:"matches"`
}
