package render

import (
	"sort"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/TobiSchelling/sportspage/internal/sports"
)

type leaderCategory struct {
	Key     string
	Label   string
	Entries []leaderRow
}

type leaderRow struct {
	Rank   int
	Player string
	Team   string
	Value  string
}

type categoryInfo struct {
	key   string
	label string
	// perGame categories are averages shown with one decimal.
	perGame bool
	// decimals overrides the default formatting when non-zero.
	decimals int
}

var leaderCategories = map[string][]categoryInfo{
	sports.NHL: {
		{key: "goals", label: "Goals"},
		{key: "assists", label: "Assists"},
		{key: "points", label: "Points"},
		{key: "save_percentage", label: "Save Percentage", decimals: 3},
	},
	sports.NBA: {
		{key: "points", label: "Points Per Game", perGame: true},
		{key: "rebounds", label: "Rebounds Per Game", perGame: true},
		{key: "assists", label: "Assists Per Game", perGame: true},
	},
	sports.MLB: {
		{key: "batting_avg", label: "Batting Average"},
		{key: "home_runs", label: "Home Runs"},
		{key: "rbi", label: "RBI"},
		{key: "wins", label: "Wins"},
		{key: "era", label: "ERA"},
		{key: "strikeouts", label: "Strikeouts"},
	},
	sports.EPL: {
		{key: "goals", label: "Goals"},
		{key: "assists", label: "Assists"},
	},
}

// buildLeaders orders a league's leader categories by the fixed table,
// then appends unknown categories by key. Empty categories are skipped.
func buildLeaders(league string, leaders map[string][]sports.LeaderEntry) []leaderCategory {
	known := leaderCategories[league]
	seen := map[string]bool{}
	var out []leaderCategory

	add := func(info categoryInfo) {
		entries := leaders[info.key]
		if len(entries) == 0 {
			return
		}
		c := leaderCategory{Key: info.key, Label: info.label}
		for _, e := range entries {
			c.Entries = append(c.Entries, leaderRow{
				Rank:   e.Rank,
				Player: e.Player,
				Team:   e.Team,
				Value:  formatLeaderValue(e.Value, info),
			})
		}
		out = append(out, c)
	}

	for _, info := range known {
		seen[info.key] = true
		add(info)
	}

	var extra []string
	for key := range leaders {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		add(categoryInfo{key: key, label: categoryLabel(key)})
	}
	return out
}

// categoryLabel capitalizes the first letter of a raw category key and
// leaves the rest alone: "shots_blocked" is "Shots_blocked".
func categoryLabel(key string) string {
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError {
		return key
	}
	return cases.Upper(language.English).String(string(r)) + key[size:]
}

// formatLeaderValue prints text values verbatim, per-game averages with
// one decimal and whole numbers without a fraction.
func formatLeaderValue(v sports.StatValue, info categoryInfo) string {
	if v.IsText {
		return v.Text
	}
	f := v.Num
	switch {
	case info.perGame:
		return strconv.FormatFloat(f, 'f', 1, 64)
	case info.decimals > 0:
		return strconv.FormatFloat(f, 'f', info.decimals, 64)
	case f == float64(int64(f)):
		return strconv.FormatInt(int64(f), 10)
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}
