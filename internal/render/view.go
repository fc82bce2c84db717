package render

import (
	"html/template"
	"sort"
	"strings"

	"github.com/TobiSchelling/sportspage/internal/prefs"
	"github.com/TobiSchelling/sportspage/internal/sports"
)

const defaultTitle = "The Sports Page"

var leagueNames = map[string]string{
	sports.MLB: "MLB",
	sports.NHL: "NHL",
	sports.NBA: "NBA",
	sports.EPL: "Premier League",
}

type pageView struct {
	Title         string
	DateLabel     string
	Generated     string
	Note          template.HTML
	Interactive   bool
	ShowBoxScores bool
	Toggles       []toggleView
	Leagues       []leagueView
	Error         string
	ErrorDetail   string
}

type toggleView struct {
	Key     string
	Name    string
	Visible bool
}

type leagueView struct {
	Key       string
	Name      string
	Error     string
	Date      string
	Games     []gameView
	Standings []standingsSection
	Leaders   []leaderCategory
	Schedule  []sports.DayEntry
	Headlines []sports.Headline
}

type gameView struct {
	Away     sports.TeamRef
	Home     sports.TeamRef
	Status   string
	HalfTime string
	Box      *boxView
}

func basePage(opts Options) pageView {
	page := pageView{Title: opts.Title, Interactive: opts.Interactive}
	if page.Title == "" {
		page.Title = defaultTitle
	}
	if note := strings.TrimSpace(opts.Note); note != "" {
		page.Note = renderMarkdown(note)
	}
	return page
}

func buildPage(doc *sports.Document, p prefs.Preferences, opts Options) pageView {
	page := basePage(opts)
	page.DateLabel = doc.DateLabel
	if !doc.GeneratedAt.IsZero() {
		page.Generated = doc.GeneratedAt.In(sports.Eastern).Format("Jan 2, 2006 3:04 PM") + " ET"
	}
	page.ShowBoxScores = p.ShowBoxScores

	for _, key := range leagueKeys(doc.Leagues) {
		visible := p.LeagueVisible(key)
		page.Toggles = append(page.Toggles, toggleView{Key: key, Name: leagueName(key), Visible: visible})
		if !visible {
			continue
		}
		page.Leagues = append(page.Leagues, buildLeague(key, doc.Leagues[key], p.ShowBoxScores))
	}
	return page
}

// leagueKeys returns the fixed league order followed by any other keys
// alphabetically.
func leagueKeys(leagues map[string]*sports.LeagueData) []string {
	var keys []string
	known := map[string]bool{}
	for _, key := range sports.LeagueOrder {
		known[key] = true
		if _, ok := leagues[key]; ok {
			keys = append(keys, key)
		}
	}
	var extra []string
	for key := range leagues {
		if !known[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

func leagueName(key string) string {
	if name, ok := leagueNames[key]; ok {
		return name
	}
	return strings.ToUpper(key)
}

// buildLeague converts one league. A failed league carries only its error;
// none of its data fields are read.
func buildLeague(key string, data *sports.LeagueData, showBoxScores bool) leagueView {
	lv := leagueView{Key: key, Name: leagueName(key)}
	if data.Failed() {
		lv.Error = "Data unavailable"
		if data != nil {
			lv.Error = data.Error
		}
		return lv
	}

	lv.Date = data.Yesterday.Date
	for _, g := range data.Yesterday.Games {
		gv := gameView{Away: g.AwayTeam, Home: g.HomeTeam, Status: g.Status, HalfTime: g.HalfTimeScore}
		if showBoxScores {
			gv.Box = buildBox(key, g)
		}
		lv.Games = append(lv.Games, gv)
	}
	lv.Standings = buildStandings(key, data.Standings)
	lv.Leaders = buildLeaders(key, data.Leaders)
	lv.Schedule = data.Schedule
	lv.Headlines = data.Headlines
	return lv
}
