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

func TestEPLFetchRequiresAPIKey(t *testing.T) {
	t.Setenv("SPORTSPAGE_TEST_FD_KEY", "")
	c := NewEPLClient("http://127.0.0.1:0", "SPORTSPAGE_TEST_FD_KEY", 2021, time.Second)
	if c.IsConfigured() {
		t.Fatal("expected client without key to be unconfigured")
	}
	_, err := c.Fetch(context.Background(), day("2025-01-14"))
	if err == nil || !strings.Contains(err.Error(), "SPORTSPAGE_TEST_FD_KEY") {
		t.Fatalf("expected missing key error naming the variable, got %v", err)
	}
}

func TestEPLBoxScoreSplitsGoalsByTeam(t *testing.T) {
	var d fdMatchDetail
	err := json.Unmarshal([]byte(`{
	  "homeTeam": {"id": 57, "name": "Arsenal FC"},
	  "awayTeam": {"id": 61, "name": "Chelsea FC"},
	  "goals": [
	    {"minute": 23, "team": {"id": 57}, "scorer": {"name": "Bukayo Saka"}, "assist": {"name": "Martin Ødegaard"}},
	    {"minute": 45, "injuryTime": 2, "team": {"id": 61}, "scorer": {"name": "Cole Palmer"}, "assist": null},
	    {"minute": 88, "team": {"id": 57}, "scorer": {"name": "Kai Havertz"}}
	  ]
	}`), &d)
	if err != nil {
		t.Fatal(err)
	}
	box := eplBoxScore(d)

	if box.Kind != sports.KindSoccer {
		t.Fatalf("expected soccer box, got %q", box.Kind)
	}
	if len(box.Soccer.HomeGoals) != 2 || len(box.Soccer.AwayGoals) != 1 {
		t.Fatalf("unexpected goal split %+v", box.Soccer)
	}
	if box.Soccer.HomeGoals[0].Assist != "Martin Ødegaard" {
		t.Errorf("expected assist, got %+v", box.Soccer.HomeGoals[0])
	}
	away := box.Soccer.AwayGoals[0]
	if away.Minute != 47 || away.Assist != "" {
		t.Errorf("expected 47th minute unassisted goal, got %+v", away)
	}
}

func TestEPLBoxScoreNoGoals(t *testing.T) {
	box := eplBoxScore(fdMatchDetail{})
	if box.Soccer.HomeGoals == nil || box.Soccer.AwayGoals == nil {
		t.Error("expected empty, non-nil goal lists")
	}
}

func TestEPLFetch(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Auth-Token")
		switch r.URL.Path {
		case "/competitions/2021/matches":
			if r.URL.Query().Get("dateFrom") == "2025-01-14" {
				w.Write([]byte(`{"matches": [
				  {"id": 1, "status": "FINISHED", "utcDate": "2025-01-14T20:00:00Z",
				   "homeTeam": {"id": 57, "name": "Arsenal FC"}, "awayTeam": {"id": 61, "name": "Chelsea FC"},
				   "score": {"fullTime": {"home": 2, "away": 1}, "halfTime": {"home": 1, "away": 1}}},
				  {"id": 2, "status": "POSTPONED", "homeTeam": {"name": "Everton FC"}, "awayTeam": {"name": "Fulham FC"},
				   "score": {"fullTime": {"home": null, "away": null}, "halfTime": {"home": null, "away": null}}}
				]}`))
				return
			}
			w.Write([]byte(`{"matches": [
			  {"id": 3, "status": "TIMED", "utcDate": "2025-01-18T15:00:00Z",
			   "homeTeam": {"name": "Liverpool FC"}, "awayTeam": {"name": "Brentford FC"}},
			  {"id": 4, "status": "TIMED", "utcDate": "2025-01-16T01:00:00Z",
			   "homeTeam": {"name": "Some New FC", "tla": "SNF"}, "awayTeam": {"name": "Fulham FC"}}
			]}`))
		case "/matches/1":
			w.Write([]byte(`{"homeTeam": {"id": 57}, "awayTeam": {"id": 61}, "goals": []}`))
		case "/competitions/2021/standings":
			w.Write([]byte(`{"standings": [
			  {"type": "HOME", "table": []},
			  {"type": "TOTAL", "table": [{"position": 1, "team": {"name": "Liverpool FC"}, "playedGames": 20, "won": 15,
			    "draw": 4, "lost": 1, "goalsFor": 48, "goalsAgainst": 17, "goalDifference": 31, "points": 49, "form": "W,W,D"}]}
			]}`))
		case "/competitions/2021/scorers":
			w.Write([]byte(`{"scorers": [
			  {"player": {"name": "Mohamed Salah"}, "team": {"name": "Liverpool FC"}, "goals": 18, "assists": 13},
			  {"player": {"name": "Erling Haaland"}, "team": {"name": "Manchester City FC"}, "goals": 16, "assists": null}
			]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	t.Setenv("SPORTSPAGE_TEST_FD_KEY", "secret")
	c := NewEPLClient(srv.URL, "SPORTSPAGE_TEST_FD_KEY", 2021, 5*time.Second)
	data, err := c.Fetch(context.Background(), day("2025-01-14"))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotToken != "secret" {
		t.Errorf("expected X-Auth-Token header, got %q", gotToken)
	}

	if len(data.Yesterday.Games) != 1 {
		t.Fatalf("expected 1 finished match, got %d", len(data.Yesterday.Games))
	}
	g := data.Yesterday.Games[0]
	if g.HomeTeam.Abbr != "ARS" || g.HalfTimeScore != "1-1" || g.Status != "Final" {
		t.Errorf("unexpected match %+v", g)
	}
	if g.BoxScore == nil || g.BoxScore.Kind != sports.KindSoccer {
		t.Errorf("expected soccer box score, got %+v", g.BoxScore)
	}

	table := data.Standings["Premier League"]
	if len(table) != 1 || table[0].Team != "LIV" || table[0].GoalDiff != 31 {
		t.Errorf("expected TOTAL table, got %+v", table)
	}

	if len(data.Leaders["goals"]) != 2 || len(data.Leaders["assists"]) != 1 {
		t.Errorf("unexpected leaders %+v", data.Leaders)
	}

	if len(data.Schedule) != 2 {
		t.Fatalf("expected 2 schedule days, got %d", len(data.Schedule))
	}
	first := data.Schedule[0]
	if first.Date != "2025-01-15" || first.Games[0].Home != "SNF" || first.Games[0].TimeLabel != "08:00 PM ET" {
		t.Errorf("expected evening ET kickoff grouped on Jan 15, got %+v", first)
	}
	if data.Schedule[1].Date != "2025-01-18" {
		t.Errorf("expected second day 2025-01-18, got %s", data.Schedule[1].Date)
	}
}
