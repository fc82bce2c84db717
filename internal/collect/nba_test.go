package collect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/TobiSchelling/sportspage/internal/sports"
)

const nbaSummaryJSON = `{
  "header": {"competitions": [{"competitors": [
    {"homeAway": "home", "linescores": [{"displayValue": "30"}, {"displayValue": "25"}, {"displayValue": "28"}, {"displayValue": "27"}]},
    {"homeAway": "away", "linescores": [{"displayValue": "22"}, {"displayValue": "31"}, {"displayValue": "20"}, {"displayValue": "29"}]}
  ]}]},
  "boxscore": {"players": [
    {"team": {"abbreviation": "BOS"}, "statistics": [{
      "labels": ["MIN", "FG", "3PT", "REB", "AST", "PTS"],
      "athletes": [
        {"athlete": {"displayName": "Jayson Tatum"}, "stats": ["38", "12-22", "4-9", "10", "6", "34"]},
        {"athlete": {"displayName": "Bench Guy"}, "stats": ["2", "0-1", "0-0", "0", "0", "0"]},
        {"athlete": {"displayName": "DNP"}, "stats": []}
      ]
    }]},
    {"team": {"abbreviation": "NYK"}, "statistics": [{
      "labels": ["MIN", "FG", "3PT", "REB", "AST", "PTS"],
      "athletes": [{"athlete": {"displayName": "Jalen Brunson"}, "stats": ["36", "14-25", "3-7", "4", "8", "40"]}]
    }]}
  ]}
}`

func TestNBABoxScore(t *testing.T) {
	var sum espnSummary
	if err := json.Unmarshal([]byte(nbaSummaryJSON), &sum); err != nil {
		t.Fatal(err)
	}
	box := nbaBoxScore(sum)

	if box.Kind != sports.KindBasketball {
		t.Fatalf("expected basketball box, got %q", box.Kind)
	}
	p := box.Period
	if p.LineScore == nil || p.LineScore.Home[0] != 30 || p.LineScore.Away[1] != 31 {
		t.Fatalf("unexpected line score %+v", p.LineScore)
	}
	if p.Shots != nil || p.Goalies != nil {
		t.Error("basketball box should have no shots or goalies")
	}
	if len(p.Scorers) != 2 {
		t.Fatalf("expected 2 scorers with points, got %d", len(p.Scorers))
	}
	top := p.Scorers[0]
	if top.Name != "Jalen Brunson" || *top.Points != 40 || *top.FGM != 14 || *top.FGA != 25 {
		t.Errorf("unexpected top scorer %+v", top)
	}
	if *p.Scorers[1].FG3M != 4 || *p.Scorers[1].FG3A != 9 || *p.Scorers[1].Rebounds != 10 {
		t.Errorf("unexpected splits %+v", p.Scorers[1])
	}
	if top.Goals != nil {
		t.Error("basketball scorer should not carry goals")
	}
}

func TestNBAStandings(t *testing.T) {
	var st espnStandings
	err := json.Unmarshal([]byte(`{"children": [
	  {"name": "Eastern Conference", "standings": {"entries": [
	    {"team": {"abbreviation": "NYK", "displayName": "New York Knicks"}, "stats": [
	      {"name": "wins", "value": 30}, {"name": "losses", "value": 15}, {"name": "winPercent", "value": 0.6667},
	      {"name": "gamesBehind", "value": 3, "displayValue": "3"}, {"name": "streak", "value": 2, "displayValue": "W2"}]},
	    {"team": {"abbreviation": "CLE", "displayName": "Cleveland Cavaliers"}, "stats": [
	      {"name": "wins", "value": 35}, {"name": "losses", "value": 10}, {"name": "winPercent", "value": 0.7778},
	      {"name": "gamesBehind", "value": 0, "displayValue": "-"}]}
	  ]}},
	  {"name": "Western Conference", "standings": {"entries": []}},
	  {"name": "Exhibition", "standings": {"entries": [{"team": {"abbreviation": "XXX"}}]}}
	]}`), &st)
	if err != nil {
		t.Fatal(err)
	}
	got := nbaStandings(st)

	if len(got) != 2 {
		t.Fatalf("expected only Eastern/Western, got %d groups", len(got))
	}
	east := got["Eastern"]
	if east[0].Team != "CLE" || east[0].Rank != 1 || east[0].GamesBack != "-" {
		t.Errorf("expected CLE first with '-' games back, got %+v", east[0])
	}
	if east[1].Team != "NYK" || east[1].GamesBack != "3" || east[1].Streak != "W2" {
		t.Errorf("unexpected second row %+v", east[1])
	}
	if east[1].WinPct != 0.667 {
		t.Errorf("expected win pct rounded to 0.667, got %v", east[1].WinPct)
	}
}

func TestNBALeadersResolveRefsOnce(t *testing.T) {
	var athleteHits atomic.Int32
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sports/basketball/leagues/nba/seasons/2025/types/2/leaders":
			w.Write([]byte(`{"categories": [
			  {"name": "pointsPerGame", "leaders": [{"value": 27.6667, "athlete": {"$ref": "` + srv.URL + `/athletes/1"}, "team": {"$ref": "` + srv.URL + `/teams/5"}}]},
			  {"name": "assistsPerGame", "leaders": [{"value": 9.04, "athlete": {"$ref": "` + srv.URL + `/athletes/1"}, "team": {"$ref": "` + srv.URL + `/teams/5"}}]},
			  {"name": "blocksPerGame", "leaders": [{"value": 3.1}]}
			]}`))
		case "/athletes/1":
			athleteHits.Add(1)
			w.Write([]byte(`{"displayName": "Luka Doncic"}`))
		case "/teams/5":
			w.Write([]byte(`{"abbreviation": "LAL"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewNBAClient(srv.URL, srv.URL, 5*time.Second)
	leaders, err := c.leaders(context.Background(), 2025)
	if err != nil {
		t.Fatalf("leaders: %v", err)
	}

	pts := leaders["points"]
	if len(pts) != 1 || pts[0].Player != "Luka Doncic" || pts[0].Team != "LAL" {
		t.Fatalf("unexpected points leaders %+v", pts)
	}
	if pts[0].Value.Num != 27.7 {
		t.Errorf("expected 27.7, got %v", pts[0].Value.Num)
	}
	if len(leaders["rebounds"]) != 0 {
		t.Error("expected empty rebounds list")
	}
	if _, ok := leaders["blocks"]; ok {
		t.Error("unexpected category from unmapped leader list")
	}
	if athleteHits.Load() != 1 {
		t.Errorf("expected athlete ref fetched once, got %d", athleteHits.Load())
	}
}

func TestNBAFetchScoresAndSchedule(t *testing.T) {
	scoreboards := map[string]string{
		"20250114": `{"events": [
		  {"id": "401", "status": {"type": {"completed": true}}, "competitions": [{"competitors": [
		    {"homeAway": "home", "score": "110", "team": {"abbreviation": "NYK", "displayName": "New York Knicks"}},
		    {"homeAway": "away", "score": "102", "team": {"abbreviation": "BOS", "displayName": "Boston Celtics"}}
		  ]}]},
		  {"id": "402", "status": {"type": {"completed": false}}, "competitions": [{"competitors": []}]}
		]}`,
		"20250115": `{"events": [
		  {"id": "403", "date": "2025-01-16T00:30Z", "status": {"type": {"completed": false}}, "competitions": [{
		    "broadcasts": [{"names": ["ESPN"]}],
		    "competitors": [
		      {"homeAway": "home", "team": {"abbreviation": "LAL", "displayName": "Los Angeles Lakers"}, "records": [{"summary": "25-14"}]},
		      {"homeAway": "away", "team": {"abbreviation": "MIA", "displayName": "Miami Heat"}, "records": [{"summary": "20-19"}]}
		    ]}]}
		]}`,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/site/v2/sports/basketball/nba/scoreboard":
			body, ok := scoreboards[r.URL.Query().Get("dates")]
			if !ok {
				body = `{"events": []}`
			}
			w.Write([]byte(body))
		case "/site/v2/sports/basketball/nba/summary":
			w.Write([]byte(nbaSummaryJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewNBAClient(srv.URL, srv.URL, 5*time.Second)
	data, err := c.Fetch(context.Background(), day("2025-01-14"))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if len(data.Yesterday.Games) != 1 {
		t.Fatalf("expected 1 completed game, got %d", len(data.Yesterday.Games))
	}
	g := data.Yesterday.Games[0]
	if g.HomeTeam.Score != 110 || g.AwayTeam.Abbr != "BOS" || g.BoxScore == nil || g.BoxScore.Kind != sports.KindBasketball {
		t.Errorf("unexpected game %+v", g)
	}

	if len(data.Schedule) != 1 {
		t.Fatalf("expected 1 schedule day, got %d", len(data.Schedule))
	}
	sg := data.Schedule[0].Games[0]
	if sg.TimeLabel != "07:30 PM ET" || sg.Broadcast != "ESPN" || sg.HomeRecord != "25-14" {
		t.Errorf("unexpected scheduled game %+v", sg)
	}
}
