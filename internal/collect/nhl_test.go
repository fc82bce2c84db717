package collect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/TobiSchelling/sportspage/internal/sports"
)

// fixtureServer serves canned JSON bodies keyed by request path. "{{base}}"
// in a body is replaced by the server's own URL.
func fixtureServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(strings.ReplaceAll(body, "{{base}}", srv.URL)))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, sports.Eastern)
	if err != nil {
		panic(err)
	}
	return t
}

const nhlBoxJSON = `{
  "awayTeam": {"abbrev": "BOS", "sog": 30},
  "homeTeam": {"abbrev": "TOR", "sog": 25},
  "linescore": {"byPeriod": [{"away": 1, "home": 0}, {"away": 1, "home": 1}, {"away": 0, "home": 1}, {"away": 1, "home": 0}]},
  "playerByGameStats": {
    "awayTeam": {
      "forwards": [
        {"name": {"default": "D. Pastrnak"}, "goals": 2, "assists": 0},
        {"name": {"default": "B. Marchand"}, "goals": 0, "assists": 2},
        {"name": {"default": "C. Coyle"}, "goals": 0, "assists": 0}
      ],
      "defense": [{"name": {"default": "C. McAvoy"}, "goals": 1, "assists": 1}],
      "goalies": [{"name": {"default": "J. Swayman"}, "saves": 23, "shotsAgainst": 25}]
    },
    "homeTeam": {
      "forwards": [{"name": {"default": "A. Matthews"}, "goals": 1, "assists": 0}],
      "defense": [],
      "goalies": [{"name": {"default": "J. Woll"}, "saves": 0, "shotsAgainst": 0}]
    }
  }
}`

func TestNHLBoxScore(t *testing.T) {
	var resp nhlBoxResponse
	if err := json.Unmarshal([]byte(nhlBoxJSON), &resp); err != nil {
		t.Fatal(err)
	}
	box := nhlBoxScore(resp)

	if box.Kind != sports.KindHockey {
		t.Fatalf("expected hockey box, got %q", box.Kind)
	}
	p := box.Period
	if p.LineScore == nil || len(p.LineScore.Away) != 4 {
		t.Fatalf("expected 4-period line score, got %+v", p.LineScore)
	}
	if p.Shots == nil || p.Shots.Away != 30 || p.Shots.Home != 25 {
		t.Errorf("unexpected shots %+v", p.Shots)
	}
	if len(p.Goalies) != 2 {
		t.Fatalf("expected 2 goalies, got %d", len(p.Goalies))
	}
	if p.Goalies[0].SavePct != 92.0 {
		t.Errorf("expected save pct 92.0, got %v", p.Goalies[0].SavePct)
	}
	if p.Goalies[1].SavePct != 0 {
		t.Errorf("expected 0 save pct with no shots, got %v", p.Goalies[1].SavePct)
	}

	// Points desc, then goals desc: Pastrnak (2G) ahead of McAvoy (1G) and Marchand (0G).
	want := []string{"D. Pastrnak", "C. McAvoy", "B. Marchand", "A. Matthews"}
	if len(p.Scorers) != len(want) {
		t.Fatalf("expected %d scorers, got %d", len(want), len(p.Scorers))
	}
	for i, name := range want {
		if p.Scorers[i].Name != name {
			t.Errorf("scorer %d: expected %s, got %s", i, name, p.Scorers[i].Name)
		}
	}
	if p.Scorers[0].Rebounds != nil {
		t.Error("hockey scorer should not carry basketball fields")
	}
}

func TestNHLBoxScoreOmitsEmptyLines(t *testing.T) {
	var resp nhlBoxResponse
	err := json.Unmarshal([]byte(`{"linescore": {"byPeriod": [{"away": 0, "home": 0}, {"away": 0, "home": 0}, {"away": 0, "home": 0}]}}`), &resp)
	if err != nil {
		t.Fatal(err)
	}
	box := nhlBoxScore(resp)
	if box.Period.LineScore != nil {
		t.Error("expected all-zero line score to be omitted")
	}
	if box.Period.Shots != nil {
		t.Error("expected zero shots to be omitted")
	}
}

func TestNHLStatus(t *testing.T) {
	tests := []struct {
		state  string
		period int
		ptype  string
		want   string
	}{
		{"OFF", 3, "REG", "Final"},
		{"FINAL", 4, "OT", "Final/OT"},
		{"OFF", 5, "SO", "Final/SO"},
		{"LIVE", 2, "REG", "LIVE"},
	}
	for _, tt := range tests {
		g := nhlGame{GameState: tt.state, Period: tt.period}
		g.PeriodDescriptor.PeriodType = tt.ptype
		if got := nhlStatus(g); got != tt.want {
			t.Errorf("nhlStatus(%s, %d, %s) = %q, want %q", tt.state, tt.period, tt.ptype, got, tt.want)
		}
	}
}

func TestNHLStandingsGamesBehind(t *testing.T) {
	var resp nhlStandingsResponse
	err := json.Unmarshal([]byte(`{"standings": [
	  {"divisionName": "Atlantic", "divisionSequence": 2, "teamAbbrev": {"default": "TOR"}, "points": 47, "gamesPlayed": 30, "streakCode": "L", "streakCount": 1},
	  {"divisionName": "Atlantic", "divisionSequence": 1, "teamAbbrev": {"default": "FLA"}, "points": 50, "gamesPlayed": 30, "streakCode": "W", "streakCount": 3},
	  {"divisionName": "Pacific", "divisionSequence": 1, "teamAbbrev": {"default": "VGK"}, "points": 40, "gamesPlayed": 0}
	]}`), &resp)
	if err != nil {
		t.Fatal(err)
	}
	st := nhlStandings(resp)

	atl := st["Atlantic"]
	if len(atl) != 2 || atl[0].Team != "FLA" {
		t.Fatalf("expected FLA to lead Atlantic, got %+v", atl)
	}
	if atl[1].GamesBehind != 1.5 {
		t.Errorf("expected TOR 1.5 games behind, got %v", atl[1].GamesBehind)
	}
	if atl[0].Streak != "W3" {
		t.Errorf("expected streak W3, got %q", atl[0].Streak)
	}
	if atl[0].WinPct != 0.833 {
		t.Errorf("expected points pct 0.833, got %v", atl[0].WinPct)
	}
	if len(st["Pacific"]) != 1 {
		t.Error("expected Pacific division")
	}
}

func TestNHLFetch(t *testing.T) {
	srv := fixtureServer(t, map[string]string{
		"/score/2025-01-14": `{"games": [
		  {"id": 2024020700, "gameState": "OFF", "period": 4, "periodDescriptor": {"periodType": "OT"},
		   "awayTeam": {"abbrev": "BOS", "name": {"default": "Bruins"}, "score": 3},
		   "homeTeam": {"abbrev": "TOR", "name": {"default": "Maple Leafs"}, "score": 2}},
		  {"id": 2024020701, "gameState": "FUT",
		   "awayTeam": {"abbrev": "NYR"}, "homeTeam": {"abbrev": "NJD"}}
		]}`,
		"/gamecenter/2024020700/boxscore": nhlBoxJSON,
		"/standings/now": `{"standings": []}`,
		"/skater-stats-leaders/current": `{
		  "goals": [{"firstName": {"default": "Sam"}, "lastName": {"default": "Reinhart"}, "teamAbbrev": "FLA", "value": 30}],
		  "assists": [], "points": []}`,
		"/goalie-stats-leaders/current": `{"savePctg": [{"firstName": {"default": "Connor"}, "lastName": {"default": "Hellebuyck"}, "teamAbbrev": "WPG", "value": 0.92567}]}`,
		"/scoreboard/now": `{"gamesByDate": [
		  {"date": "2025-01-14", "games": [{"gameState": "OFF", "awayTeam": {"abbrev": "BOS"}, "homeTeam": {"abbrev": "TOR"}}]},
		  {"date": "2025-01-15", "games": [{"gameState": "FUT", "startTimeUTC": "2025-01-16T00:00:00Z",
		     "tvBroadcasts": [{"network": "TNT"}],
		     "awayTeam": {"abbrev": "NYR", "name": {"default": "Rangers"}, "record": "20-18-3"},
		     "homeTeam": {"abbrev": "NJD", "name": {"default": "Devils"}, "record": "25-15-4"}}]},
		  {"date": "2025-01-19", "games": [{"gameState": "FUT", "awayTeam": {"abbrev": "CHI"}, "homeTeam": {"abbrev": "DAL"}}]}
		]}`,
	})

	c := NewNHLClient(srv.URL, 5*time.Second)
	data, err := c.Fetch(context.Background(), day("2025-01-14"))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if data.Yesterday.Date != "2025-01-14" {
		t.Errorf("unexpected date %q", data.Yesterday.Date)
	}
	if len(data.Yesterday.Games) != 1 {
		t.Fatalf("expected 1 finished game, got %d", len(data.Yesterday.Games))
	}
	g := data.Yesterday.Games[0]
	if g.Status != "Final/OT" || g.AwayTeam.Score != 3 || g.BoxScore == nil {
		t.Errorf("unexpected game %+v", g)
	}

	if got := data.Leaders["goals"]; len(got) != 1 || got[0].Player != "Sam Reinhart" {
		t.Errorf("unexpected goal leaders %+v", got)
	}
	if got := data.Leaders["save_percentage"]; len(got) != 1 || got[0].Value.Num != 0.926 {
		t.Errorf("unexpected save pct leaders %+v", got)
	}

	if len(data.Schedule) != 1 {
		t.Fatalf("expected 1 schedule day in window, got %d", len(data.Schedule))
	}
	sg := data.Schedule[0].Games[0]
	if sg.TimeLabel != "07:00 PM ET" || sg.Broadcast != "TNT" || sg.AwayRecord != "20-18-3" {
		t.Errorf("unexpected scheduled game %+v", sg)
	}
	if data.Schedule[0].DayLabel != "Wed" {
		t.Errorf("expected day label Wed, got %q", data.Schedule[0].DayLabel)
	}
}

func TestNHLFetchAllSectionsFail(t *testing.T) {
	srv := fixtureServer(t, map[string]string{})
	c := NewNHLClient(srv.URL, 5*time.Second)
	_, err := c.Fetch(context.Background(), day("2025-01-14"))
	if err == nil {
		t.Fatal("expected error when every section fails")
	}
}

func TestNHLFetchPartialFailureKeepsLeague(t *testing.T) {
	srv := fixtureServer(t, map[string]string{
		"/standings/now": `{"standings": [{"divisionName": "Central", "divisionSequence": 1, "teamAbbrev": {"default": "WPG"}, "points": 60, "gamesPlayed": 40}]}`,
	})
	c := NewNHLClient(srv.URL, 5*time.Second)
	data, err := c.Fetch(context.Background(), day("2025-01-14"))
	if err != nil {
		t.Fatalf("expected partial success, got %v", err)
	}
	if len(data.Standings["Central"]) != 1 {
		t.Error("expected standings to survive other section failures")
	}
	if data.Yesterday.Games == nil || len(data.Yesterday.Games) != 0 {
		t.Error("expected empty, non-nil games")
	}
}
