package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/TobiSchelling/sportspage/internal/sports"
)

// Box views, one per rendering path.
const (
	boxPeriod   = "period"
	boxBaseball = "baseball"
	boxSoccer   = "soccer"
)

type boxView struct {
	Kind     string
	Period   *periodView
	Baseball *baseballView
	Soccer   *soccerView
}

type periodView struct {
	Labels      []string
	Lines       []lineRow
	Shots       *sports.Shots
	AwayAbbr    string
	HomeAbbr    string
	StatHeaders []string
	Scorers     []scorerRow
	Goalies     []goalieRow
}

type lineRow struct {
	Team  string
	Cells []int
	Total int
}

type scorerRow struct {
	Team  string
	Name  string
	Stats []string
}

type goalieRow struct {
	Team  string
	Name  string
	Saves string
	Pct   string
}

type baseballView struct {
	Innings []string
	Lines   []inningRow
	Teams   []baseballTeam
	Notes   []string
}

type inningRow struct {
	Team   string
	Cells  []string
	Runs   int
	Hits   int
	Errors int
}

type baseballTeam struct {
	Abbr     string
	Batting  []sports.Batter
	Pitching []pitcherRow
}

type pitcherRow struct {
	Label string
	sports.Pitcher
}

type soccerView struct {
	Home  soccerSide
	Away  soccerSide
	Empty bool
}

type soccerSide struct {
	Team  string
	Goals []string
}

// buildBox picks the rendering path from the box score's kind.
func buildBox(league string, g sports.Game) *boxView {
	b := g.BoxScore
	if b == nil {
		return nil
	}
	switch b.Kind {
	case sports.KindSoccer:
		if b.Soccer == nil {
			return nil
		}
		return &boxView{Kind: boxSoccer, Soccer: soccerBox(g, b.Soccer)}
	case sports.KindBaseball:
		if b.Baseball == nil {
			return nil
		}
		return &boxView{Kind: boxBaseball, Baseball: baseballBox(g, b.Baseball)}
	case sports.KindHockey, sports.KindBasketball:
		if b.Period == nil {
			return nil
		}
		return &boxView{Kind: boxPeriod, Period: periodBox(g, b.Kind, b.Period)}
	}
	return nil
}

func periodBox(g sports.Game, kind sports.BoxScoreKind, p *sports.PeriodBox) *periodView {
	v := &periodView{AwayAbbr: g.AwayTeam.Abbr, HomeAbbr: g.HomeTeam.Abbr}

	if ls := p.LineScore; ls != nil && sports.HasLineData(ls.Away, ls.Home) {
		n := max(len(ls.Away), len(ls.Home))
		for i := 0; i < n; i++ {
			v.Labels = append(v.Labels, periodLabel(kind, i, n, g.Status))
		}
		v.Lines = []lineRow{
			{Team: g.AwayTeam.Abbr, Cells: padInts(ls.Away, n), Total: g.AwayTeam.Score},
			{Team: g.HomeTeam.Abbr, Cells: padInts(ls.Home, n), Total: g.HomeTeam.Score},
		}
	}

	if s := p.Shots; s != nil && (s.Away > 0 || s.Home > 0) {
		v.Shots = s
	}

	if kind == sports.KindBasketball {
		splits := false
		for _, s := range p.Scorers {
			if s.FGM != nil || s.FG3M != nil {
				splits = true
				break
			}
		}
		v.StatHeaders = []string{"PTS", "REB", "AST"}
		if splits {
			v.StatHeaders = append(v.StatHeaders, "FG", "3PT")
		}
		for _, s := range p.Scorers {
			stats := []string{intOr(s.Points), intOr(s.Rebounds), intOr(s.Assists)}
			if splits {
				stats = append(stats, madeOf(s.FGM, s.FGA), madeOf(s.FG3M, s.FG3A))
			}
			v.Scorers = append(v.Scorers, scorerRow{Team: s.Team, Name: s.Name, Stats: stats})
		}
	} else {
		v.StatHeaders = []string{"G", "A", "P"}
		for _, s := range p.Scorers {
			stats := []string{intOr(s.Goals), intOr(s.Assists), intOr(s.Points)}
			v.Scorers = append(v.Scorers, scorerRow{Team: s.Team, Name: s.Name, Stats: stats})
		}
	}

	for _, gl := range p.Goalies {
		v.Goalies = append(v.Goalies, goalieRow{
			Team:  gl.Team,
			Name:  gl.Name,
			Saves: fmt.Sprintf("%d/%d", gl.Saves, gl.Shots),
			Pct:   fmt.Sprintf("%.1f%%", gl.SavePct),
		})
	}
	return v
}

// periodLabel names column i of n. Hockey plays three periods then OT,
// OT2... with a final SO column for shootouts; basketball plays four
// quarters then OT, 2OT...
func periodLabel(kind sports.BoxScoreKind, i, n int, status string) string {
	regulation := 4
	if kind == sports.KindHockey {
		regulation = 3
	}
	if i < regulation {
		return strconv.Itoa(i + 1)
	}
	extra := i - regulation + 1
	if kind == sports.KindHockey {
		if i == n-1 && strings.Contains(status, "SO") {
			return "SO"
		}
		if extra == 1 {
			return "OT"
		}
		return "OT" + strconv.Itoa(extra)
	}
	if extra == 1 {
		return "OT"
	}
	return strconv.Itoa(extra) + "OT"
}

func baseballBox(g sports.Game, b *sports.BaseballBox) *baseballView {
	v := &baseballView{}

	if ls := b.LineScore; ls != nil && sports.HasLineData(ls.Away.Innings, ls.Home.Innings) {
		n := max(len(ls.Away.Innings), len(ls.Home.Innings), 9)
		for i := 0; i < n; i++ {
			v.Innings = append(v.Innings, strconv.Itoa(i+1))
		}
		away := inningLine(g.AwayTeam.Abbr, ls.Away, n)
		home := inningLine(g.HomeTeam.Abbr, ls.Home, n)
		// The home side skips the bottom of the last inning when ahead.
		if h := len(ls.Home.Innings); h > 0 && h == len(ls.Away.Innings)-1 {
			home.Cells[h] = "X"
		}
		v.Lines = []inningRow{away, home}
	}

	v.Teams = []baseballTeam{
		{Abbr: g.AwayTeam.Abbr, Batting: b.AwayBatting, Pitching: pitcherRows(b.AwayPitching)},
		{Abbr: g.HomeTeam.Abbr, Batting: b.HomeBatting, Pitching: pitcherRows(b.HomePitching)},
	}

	notes := b.GameNotes
	for _, n := range []struct {
		label string
		items []string
	}{
		{"HR", notes.HomeRuns},
		{"2B", notes.Doubles},
		{"3B", notes.Triples},
		{"SB", notes.StolenBases},
	} {
		if len(n.items) > 0 {
			v.Notes = append(v.Notes, n.label+": "+strings.Join(n.items, ", "))
		}
	}
	if notes.DoublePlays > 0 {
		v.Notes = append(v.Notes, "DP: "+strconv.Itoa(notes.DoublePlays))
	}
	return v
}

func inningLine(team string, line sports.InningLine, n int) inningRow {
	cells := make([]string, n)
	for i, runs := range line.Innings {
		cells[i] = strconv.Itoa(runs)
	}
	return inningRow{Team: team, Cells: cells, Runs: line.Runs, Hits: line.Hits, Errors: line.Errors}
}

func pitcherRows(pitchers []sports.Pitcher) []pitcherRow {
	rows := make([]pitcherRow, 0, len(pitchers))
	for _, p := range pitchers {
		rows = append(rows, pitcherRow{Label: p.Name + pitcherSuffix(p), Pitcher: p})
	}
	return rows
}

// pitcherSuffix returns " (W, 12-4)" for a decision with a record,
// " (S)" for one without, and nothing otherwise.
func pitcherSuffix(p sports.Pitcher) string {
	switch {
	case p.Result == "":
		return ""
	case p.Record != "":
		return " (" + p.Result + ", " + p.Record + ")"
	default:
		return " (" + p.Result + ")"
	}
}

func soccerBox(g sports.Game, s *sports.SoccerBox) *soccerView {
	return &soccerView{
		Home:  soccerSide{Team: g.HomeTeam.Abbr, Goals: goalLines(s.HomeGoals)},
		Away:  soccerSide{Team: g.AwayTeam.Abbr, Goals: goalLines(s.AwayGoals)},
		Empty: len(s.HomeGoals) == 0 && len(s.AwayGoals) == 0,
	}
}

func goalLines(goals []sports.GoalEvent) []string {
	lines := make([]string, 0, len(goals))
	for _, g := range goals {
		line := fmt.Sprintf("%s %d'", g.Scorer, g.Minute)
		if g.Assist != "" {
			line += " (" + g.Assist + ")"
		}
		lines = append(lines, line)
	}
	return lines
}

func padInts(vals []int, n int) []int {
	out := make([]int, n)
	copy(out, vals)
	return out
}

func intOr(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func madeOf(made, attempted *int) string {
	if made == nil || attempted == nil {
		return ""
	}
	return fmt.Sprintf("%d-%d", *made, *attempted)
}
