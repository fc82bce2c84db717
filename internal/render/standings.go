package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/TobiSchelling/sportspage/internal/sports"
)

type standingsSection struct {
	Title   string
	Headers []string
	Tables  []standingsTable
}

type standingsTable struct {
	Name string
	Rows []standingsRow
}

type standingsRow struct {
	Team     string
	TeamName string
	Cells    []string
}

type column struct {
	header string
	value  func(sports.TeamStanding) string
}

// parent groups standings tables under a heading by name substring.
type parent struct {
	title   string
	members []string
}

// standingsLayout is how one league's standings are laid out.
type standingsLayout struct {
	columns []column
	parents []parent
	// order lists flat table names in display order; others follow by name.
	order []string
}

func itoa(f func(sports.TeamStanding) int) func(sports.TeamStanding) string {
	return func(t sports.TeamStanding) string { return strconv.Itoa(f(t)) }
}

func signed(v int) string {
	if v > 0 {
		return "+" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}

// pct formats a winning percentage the baseball way: .667, 1.000.
func pct(v float64) string {
	s := fmt.Sprintf("%.3f", v)
	return strings.TrimPrefix(s, "0")
}

func gamesBehind(v float64) string {
	if v == 0 {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

var (
	colWins   = column{"W", itoa(func(t sports.TeamStanding) int { return t.Wins })}
	colLosses = column{"L", itoa(func(t sports.TeamStanding) int { return t.Losses })}
	colStreak = column{"STRK", func(t sports.TeamStanding) string { return dash(t.Streak) }}
)

var standingsLayouts = map[string]standingsLayout{
	sports.NHL: {
		columns: []column{
			{"GP", itoa(func(t sports.TeamStanding) int { return t.GamesPlayed })},
			colWins,
			colLosses,
			{"OTL", itoa(func(t sports.TeamStanding) int { return t.OTLosses })},
			{"PTS", itoa(func(t sports.TeamStanding) int { return t.Points })},
			{"P%", func(t sports.TeamStanding) string { return pct(t.WinPct) }},
			{"GB", func(t sports.TeamStanding) string { return gamesBehind(t.GamesBehind) }},
			colStreak,
		},
		parents: []parent{
			{"Eastern Conference", []string{"Atlantic", "Metropolitan"}},
			{"Western Conference", []string{"Central", "Pacific"}},
		},
	},
	sports.NBA: {
		columns: []column{
			colWins,
			colLosses,
			{"PCT", func(t sports.TeamStanding) string { return pct(t.WinPct) }},
			{"GB", func(t sports.TeamStanding) string { return dash(t.GamesBack) }},
			colStreak,
		},
		order: []string{"Eastern", "Western"},
	},
	sports.MLB: {
		columns: []column{
			colWins,
			colLosses,
			{"PCT", func(t sports.TeamStanding) string { return dash(t.Pct) }},
			{"GB", func(t sports.TeamStanding) string { return dash(t.GB) }},
			{"HOME", itoa(func(t sports.TeamStanding) int { return t.HomeWins })},
			{"AWAY", itoa(func(t sports.TeamStanding) int { return t.AwayWins })},
			colStreak,
		},
		parents: []parent{
			{"American League", []string{"AL East", "AL Central", "AL West"}},
			{"National League", []string{"NL East", "NL Central", "NL West"}},
		},
	},
	sports.EPL: {
		columns: []column{
			{"P", itoa(func(t sports.TeamStanding) int { return t.Played })},
			colWins,
			{"D", itoa(func(t sports.TeamStanding) int { return t.Draws })},
			colLosses,
			{"GF", itoa(func(t sports.TeamStanding) int { return t.GoalsFor })},
			{"GA", itoa(func(t sports.TeamStanding) int { return t.GoalsAgainst })},
			{"GD", func(t sports.TeamStanding) string { return signed(t.GoalDiff) }},
			{"PTS", itoa(func(t sports.TeamStanding) int { return t.Points })},
			{"FORM", func(t sports.TeamStanding) string { return dash(strings.ReplaceAll(t.Form, ",", "")) }},
		},
		order: []string{"Premier League"},
	},
}

var fallbackLayout = standingsLayout{columns: []column{colWins, colLosses}}

// buildStandings lays out a league's standings groups.
func buildStandings(league string, groups map[string][]sports.TeamStanding) []standingsSection {
	if len(groups) == 0 {
		return nil
	}
	layout, ok := standingsLayouts[league]
	if !ok {
		layout = fallbackLayout
	}

	headers := make([]string, len(layout.columns))
	for i, c := range layout.columns {
		headers[i] = c.header
	}
	table := func(name string) standingsTable {
		t := standingsTable{Name: name}
		for _, team := range groups[name] {
			row := standingsRow{Team: team.Team, TeamName: team.TeamName}
			for _, c := range layout.columns {
				row.Cells = append(row.Cells, c.value(team))
			}
			t.Rows = append(t.Rows, row)
		}
		return t
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	used := map[string]bool{}

	var sections []standingsSection
	for _, p := range layout.parents {
		s := standingsSection{Title: p.title, Headers: headers}
		for _, member := range p.members {
			for _, name := range names {
				if !used[name] && strings.Contains(name, member) {
					used[name] = true
					s.Tables = append(s.Tables, table(name))
				}
			}
		}
		if len(s.Tables) > 0 {
			sections = append(sections, s)
		}
	}

	flat := standingsSection{Headers: headers}
	for _, name := range layout.order {
		if _, ok := groups[name]; ok && !used[name] {
			used[name] = true
			flat.Tables = append(flat.Tables, table(name))
		}
	}
	for _, name := range names {
		if !used[name] {
			flat.Tables = append(flat.Tables, table(name))
		}
	}
	if len(flat.Tables) > 0 {
		sections = append(sections, flat)
	}
	return sections
}
