package collect

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/TobiSchelling/sportspage/internal/sports"
)

// MLBClient reads statsapi.mlb.com.
type MLBClient struct {
	api     *apiClient
	baseURL string
}

// NewMLBClient creates a new MLB client.
func NewMLBClient(baseURL string, timeout time.Duration) *MLBClient {
	return &MLBClient{api: newAPIClient(timeout, nil), baseURL: baseURL}
}

type mlbName struct {
	Name     string `json:"name"`
	FullName string `json:"fullName"`
}

type mlbScheduleGame struct {
	GamePk   int    `json:"gamePk"`
	GameDate string `json:"gameDate"`
	Status   struct {
		DetailedState     string `json:"detailedState"`
		AbstractGameState string `json:"abstractGameState"`
	} `json:"status"`
	Teams struct {
		Away mlbScheduleTeam `json:"away"`
		Home mlbScheduleTeam `json:"home"`
	} `json:"teams"`
	Broadcasts []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"broadcasts"`
}

type mlbScheduleTeam struct {
	Team         mlbName `json:"team"`
	Score        int     `json:"score"`
	LeagueRecord struct {
		Wins   int `json:"wins"`
		Losses int `json:"losses"`
	} `json:"leagueRecord"`
}

type mlbSchedule struct {
	Dates []struct {
		Date  string            `json:"date"`
		Games []mlbScheduleGame `json:"games"`
	} `json:"dates"`
}

type mlbPlayer struct {
	Person       mlbName `json:"person"`
	BattingOrder string  `json:"battingOrder"`
	Position     struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"position"`
	Stats struct {
		Batting  mlbBatting  `json:"batting"`
		Pitching mlbPitching `json:"pitching"`
	} `json:"stats"`
	SeasonStats struct {
		Batting  mlbBatting  `json:"batting"`
		Pitching mlbPitching `json:"pitching"`
	} `json:"seasonStats"`
	GameStatus struct {
		IsWinner bool `json:"isWinner"`
		IsLoser  bool `json:"isLoser"`
	} `json:"gameStatus"`
}

type mlbBatting struct {
	AtBats      int    `json:"atBats"`
	Runs        int    `json:"runs"`
	Hits        int    `json:"hits"`
	RBI         int    `json:"rbi"`
	BaseOnBalls int    `json:"baseOnBalls"`
	StrikeOuts  int    `json:"strikeOuts"`
	Avg         string `json:"avg"`
}

type mlbPitching struct {
	InningsPitched  string `json:"inningsPitched"`
	Hits            int    `json:"hits"`
	Runs            int    `json:"runs"`
	EarnedRuns      int    `json:"earnedRuns"`
	BaseOnBalls     int    `json:"baseOnBalls"`
	StrikeOuts      int    `json:"strikeOuts"`
	NumberOfPitches int    `json:"numberOfPitches"`
	Wins            int    `json:"wins"`
	Losses          int    `json:"losses"`
	Saves           int    `json:"saves"`
	Holds           int    `json:"holds"`
	ERA             string `json:"era"`
}

type mlbBoxTeam struct {
	Players  map[string]mlbPlayer `json:"players"`
	Pitchers []int                `json:"pitchers"`
}

type mlbBoxResponse struct {
	Teams struct {
		Away mlbBoxTeam `json:"away"`
		Home mlbBoxTeam `json:"home"`
	} `json:"teams"`
}

type mlbLineTotals struct {
	Runs   int `json:"runs"`
	Hits   int `json:"hits"`
	Errors int `json:"errors"`
}

type mlbLinescore struct {
	Innings []struct {
		Away struct {
			Runs int `json:"runs"`
		} `json:"away"`
		Home struct {
			Runs *int `json:"runs"` // absent when the bottom half was not played
		} `json:"home"`
	} `json:"innings"`
	Teams struct {
		Away mlbLineTotals `json:"away"`
		Home mlbLineTotals `json:"home"`
	} `json:"teams"`
}

type mlbPlayByPlay struct {
	AllPlays []struct {
		Result struct {
			Event       string `json:"event"`
			Description string `json:"description"`
			RBI         int    `json:"rbi"`
		} `json:"result"`
		Matchup struct {
			Batter mlbName `json:"batter"`
		} `json:"matchup"`
		Runners []struct {
			Movement struct {
				IsOut bool `json:"isOut"`
			} `json:"movement"`
			Details struct {
				Event  string  `json:"event"`
				Runner mlbName `json:"runner"`
			} `json:"details"`
		} `json:"runners"`
	} `json:"allPlays"`
}

type mlbStandings struct {
	Records []struct {
		Division    mlbName `json:"division"`
		TeamRecords []struct {
			Team              mlbName `json:"team"`
			Wins              int     `json:"wins"`
			Losses            int     `json:"losses"`
			WinningPercentage string  `json:"winningPercentage"`
			GamesBack         string  `json:"gamesBack"`
			Streak            struct {
				StreakCode string `json:"streakCode"`
			} `json:"streak"`
			Records struct {
				SplitRecords []struct {
					Type string `json:"type"`
					Wins int    `json:"wins"`
				} `json:"splitRecords"`
			} `json:"records"`
		} `json:"teamRecords"`
	} `json:"records"`
}

type mlbLeaders struct {
	LeagueLeaders []struct {
		LeaderCategory string `json:"leaderCategory"`
		Leaders        []struct {
			Rank   int     `json:"rank"`
			Value  string  `json:"value"`
			Person mlbName `json:"person"`
			Team   mlbName `json:"team"`
		} `json:"leaders"`
	} `json:"leagueLeaders"`
}

// mlbLeaderCategories maps document keys to statsapi leader categories.
var mlbLeaderCategories = []struct{ key, category string }{
	{"batting_avg", "battingAverage"},
	{"home_runs", "homeRuns"},
	{"rbi", "runsBattedIn"},
	{"wins", "wins"},
	{"era", "earnedRunAverage"},
	{"strikeouts", "strikeouts"},
}

func (c *MLBClient) scheduleURL(day time.Time, hydrate string) string {
	url := fmt.Sprintf("%s/schedule?sportId=1&date=%s", c.baseURL, sports.ISODate(day))
	if hydrate != "" {
		url += "&hydrate=" + hydrate
	}
	return url
}

// Fetch gathers yesterday's MLB games, standings, leaders and schedule.
func (c *MLBClient) Fetch(ctx context.Context, yesterday time.Time) (*sports.LeagueData, error) {
	data := newLeagueData(sports.ISODate(yesterday))
	season := yesterday.Year()
	s := &sections{league: "MLB"}

	s.run("scores", func() error {
		var sched mlbSchedule
		if err := c.api.getJSON(ctx, c.scheduleURL(yesterday, "linescore"), &sched); err != nil {
			return err
		}
		games := mlbFinishedGames(sched)
		for i := range games {
			box, err := c.boxScore(ctx, games[i].GameID)
			if err != nil {
				log.Printf("MLB box score %s: %v", games[i].GameID, err)
				continue
			}
			games[i].BoxScore = box
		}
		data.Yesterday.Games = games
		return nil
	})

	s.run("standings", func() error {
		var resp mlbStandings
		url := fmt.Sprintf("%s/standings?leagueId=103,104&season=%d&hydrate=division", c.baseURL, season)
		if err := c.api.getJSON(ctx, url, &resp); err != nil {
			return err
		}
		data.Standings = mlbStandingsTable(resp)
		return nil
	})

	s.run("leaders", func() error {
		leaders := map[string][]sports.LeaderEntry{}
		failed := 0
		var lastErr error
		for _, cat := range mlbLeaderCategories {
			var resp mlbLeaders
			url := fmt.Sprintf("%s/stats/leaders?leaderCategories=%s&season=%d&limit=10&playerPool=qualified",
				c.baseURL, cat.category, season)
			if err := c.api.getJSON(ctx, url, &resp); err != nil {
				log.Printf("MLB leaders %s: %v", cat.key, err)
				leaders[cat.key] = []sports.LeaderEntry{}
				lastErr = err
				failed++
				continue
			}
			leaders[cat.key] = mlbLeaderEntries(resp, cat.category)
		}
		if failed == len(mlbLeaderCategories) {
			return lastErr
		}
		data.Leaders = leaders
		return nil
	})

	s.run("schedule", func() error {
		schedule := []sports.DayEntry{}
		failed := 0
		var lastErr error
		today := yesterday.AddDate(0, 0, 1)
		for i := 0; i < 3; i++ {
			day := today.AddDate(0, 0, i)
			var sched mlbSchedule
			if err := c.api.getJSON(ctx, c.scheduleURL(day, "broadcasts"), &sched); err != nil {
				lastErr = err
				failed++
				continue
			}
			if entry, ok := mlbScheduleDay(sched, day); ok {
				schedule = append(schedule, entry)
			}
		}
		if failed == 3 {
			return lastErr
		}
		data.Schedule = schedule
		return nil
	})

	return data, s.err()
}

// boxScore combines the boxscore, linescore and play-by-play feeds. Only the
// boxscore is required.
func (c *MLBClient) boxScore(ctx context.Context, gamePk string) (*sports.BoxScore, error) {
	var box mlbBoxResponse
	if err := c.api.getJSON(ctx, fmt.Sprintf("%s/game/%s/boxscore", c.baseURL, gamePk), &box); err != nil {
		return nil, err
	}

	var line *mlbLinescore
	var ls mlbLinescore
	if err := c.api.getJSON(ctx, fmt.Sprintf("%s/game/%s/linescore", c.baseURL, gamePk), &ls); err != nil {
		log.Printf("MLB linescore %s: %v", gamePk, err)
	} else {
		line = &ls
	}

	var notes sports.GameNotes
	var pbp mlbPlayByPlay
	if err := c.api.getJSON(ctx, fmt.Sprintf("%s/game/%s/playByPlay", c.baseURL, gamePk), &pbp); err != nil {
		log.Printf("MLB play-by-play %s: %v", gamePk, err)
	} else {
		notes = mlbGameNotes(pbp)
	}

	return mlbBoxScore(box, line, notes), nil
}

func mlbFinishedGames(sched mlbSchedule) []sports.Game {
	games := []sports.Game{}
	for _, d := range sched.Dates {
		for _, g := range d.Games {
			if g.Status.DetailedState != "Final" {
				continue
			}
			games = append(games, sports.Game{
				GameID: strconv.Itoa(g.GamePk),
				AwayTeam: sports.TeamRef{
					Name:  g.Teams.Away.Team.Name,
					Abbr:  mlbTeamAbbr(g.Teams.Away.Team.Name),
					Score: g.Teams.Away.Score,
				},
				HomeTeam: sports.TeamRef{
					Name:  g.Teams.Home.Team.Name,
					Abbr:  mlbTeamAbbr(g.Teams.Home.Team.Name),
					Score: g.Teams.Home.Score,
				},
				Status: "Final",
			})
		}
	}
	return games
}

func mlbBoxScore(box mlbBoxResponse, line *mlbLinescore, notes sports.GameNotes) *sports.BoxScore {
	bb := sports.BaseballBox{
		AwayBatting:  mlbBatters(box.Teams.Away),
		HomeBatting:  mlbBatters(box.Teams.Home),
		AwayPitching: mlbPitchers(box.Teams.Away),
		HomePitching: mlbPitchers(box.Teams.Home),
		GameNotes:    notes,
	}

	if line != nil {
		var away, home []int
		for _, inn := range line.Innings {
			away = append(away, inn.Away.Runs)
			if inn.Home.Runs != nil {
				home = append(home, *inn.Home.Runs)
			}
		}
		if sports.HasLineData(away, home) {
			bb.LineScore = &sports.InningLineScore{
				Away: sports.InningLine{Innings: away, Runs: line.Teams.Away.Runs, Hits: line.Teams.Away.Hits, Errors: line.Teams.Away.Errors},
				Home: sports.InningLine{Innings: home, Runs: line.Teams.Home.Runs, Hits: line.Teams.Home.Hits, Errors: line.Teams.Home.Errors},
			}
		}
	}

	return sports.NewBaseballBox(bb)
}

// mlbBatters returns the team's batters in batting order. Substitutes share
// their slot's hundreds digit and sort right after the starter.
func mlbBatters(team mlbBoxTeam) []sports.Batter {
	type slot struct {
		order  int
		player mlbPlayer
	}
	var slots []slot
	for _, p := range team.Players {
		if p.BattingOrder == "" {
			continue
		}
		order, err := strconv.Atoi(p.BattingOrder)
		if err != nil || order == 0 {
			continue
		}
		slots = append(slots, slot{order, p})
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].order < slots[j].order })

	batters := []sports.Batter{}
	for _, s := range slots {
		b := s.player.Stats.Batting
		avg := s.player.SeasonStats.Batting.Avg
		if avg == "" {
			avg = b.Avg
		}
		if avg == "" {
			avg = ".000"
		}
		batters = append(batters, sports.Batter{
			Name:     s.player.Person.FullName,
			Position: s.player.Position.Abbreviation,
			AB:       b.AtBats,
			R:        b.Runs,
			H:        b.Hits,
			RBI:      b.RBI,
			BB:       b.BaseOnBalls,
			SO:       b.StrikeOuts,
			AVG:      avg,
		})
	}
	return batters
}

// mlbPitchers returns the pitchers who appeared, in appearance order.
func mlbPitchers(team mlbBoxTeam) []sports.Pitcher {
	ids := team.Pitchers
	if len(ids) == 0 {
		for key := range team.Players {
			if id, err := strconv.Atoi(strings.TrimPrefix(key, "ID")); err == nil {
				ids = append(ids, id)
			}
		}
		sort.Ints(ids)
	}

	pitchers := []sports.Pitcher{}
	for _, id := range ids {
		p, ok := team.Players[fmt.Sprintf("ID%d", id)]
		if !ok {
			continue
		}
		st := p.Stats.Pitching
		if st.InningsPitched == "" {
			continue
		}

		result := ""
		switch {
		case p.GameStatus.IsWinner || st.Wins > 0:
			result = "W"
		case p.GameStatus.IsLoser || st.Losses > 0:
			result = "L"
		case st.Saves > 0:
			result = "S"
		case st.Holds > 0:
			result = "H"
		}

		season := p.SeasonStats.Pitching
		record := ""
		if result == "W" || result == "L" {
			record = fmt.Sprintf("%d-%d", season.Wins, season.Losses)
		}
		era := season.ERA
		if era == "" {
			era = "0.00"
		}

		pitchers = append(pitchers, sports.Pitcher{
			Name:   p.Person.FullName,
			Result: result,
			Record: record,
			IP:     st.InningsPitched,
			H:      st.Hits,
			R:      st.Runs,
			ER:     st.EarnedRuns,
			BB:     st.BaseOnBalls,
			SO:     st.StrikeOuts,
			NP:     st.NumberOfPitches,
			ERA:    era,
		})
	}
	return pitchers
}

func mlbGameNotes(pbp mlbPlayByPlay) sports.GameNotes {
	notes := sports.GameNotes{
		HomeRuns:    []string{},
		Doubles:     []string{},
		Triples:     []string{},
		StolenBases: []string{},
	}
	seenSB := map[string]bool{}

	for _, play := range pbp.AllPlays {
		event := play.Result.Event
		batter := play.Matchup.Batter.FullName

		switch {
		case strings.Contains(event, "Home Run"):
			rbi := play.Result.RBI
			if rbi == 0 {
				rbi = 1
			}
			notes.HomeRuns = append(notes.HomeRuns, fmt.Sprintf("%s (%d)", batter, rbi))
		case event == "Double":
			notes.Doubles = append(notes.Doubles, batter)
		case event == "Triple":
			notes.Triples = append(notes.Triples, batter)
		case strings.Contains(event, "Stolen Base"):
			for _, r := range play.Runners {
				name := r.Details.Runner.FullName
				if r.Movement.IsOut || name == "" || seenSB[name] {
					continue
				}
				seenSB[name] = true
				notes.StolenBases = append(notes.StolenBases, name)
			}
		case strings.Contains(event, "Double Play") || strings.Contains(event, "DP"):
			notes.DoublePlays++
		}
	}
	return notes
}

func mlbStandingsTable(resp mlbStandings) map[string][]sports.TeamStanding {
	standings := map[string][]sports.TeamStanding{}
	for _, rec := range resp.Records {
		div := rec.Division.Name
		if div == "" {
			div = "Unknown"
		}
		div = strings.Replace(div, "American League ", "AL ", 1)
		div = strings.Replace(div, "National League ", "NL ", 1)

		teams := []sports.TeamStanding{}
		for _, tr := range rec.TeamRecords {
			var homeWins, awayWins int
			for _, split := range tr.Records.SplitRecords {
				switch split.Type {
				case "home":
					homeWins = split.Wins
				case "away":
					awayWins = split.Wins
				}
			}
			streak := tr.Streak.StreakCode
			if streak == "" {
				streak = "-"
			}
			gb := tr.GamesBack
			if gb == "" {
				gb = "-"
			}
			teams = append(teams, sports.TeamStanding{
				Rank:     len(teams) + 1,
				Team:     mlbTeamAbbr(tr.Team.Name),
				TeamName: tr.Team.Name,
				Wins:     tr.Wins,
				Losses:   tr.Losses,
				Pct:      tr.WinningPercentage,
				GB:       gb,
				HomeWins: homeWins,
				AwayWins: awayWins,
				Streak:   streak,
			})
		}
		standings[div] = teams
	}
	return standings
}

func mlbLeaderEntries(resp mlbLeaders, category string) []sports.LeaderEntry {
	entries := []sports.LeaderEntry{}
	for _, cat := range resp.LeagueLeaders {
		if cat.LeaderCategory != category {
			continue
		}
		for i, l := range cat.Leaders {
			if i >= 10 {
				break
			}
			entries = append(entries, sports.LeaderEntry{
				Rank:   l.Rank,
				Player: l.Person.FullName,
				Team:   mlbTeamAbbr(l.Team.Name),
				Value:  sports.Text(l.Value),
			})
		}
		break
	}
	return entries
}

func mlbScheduleDay(sched mlbSchedule, day time.Time) (sports.DayEntry, bool) {
	var games []sports.ScheduledGame
	for _, d := range sched.Dates {
		for _, g := range d.Games {
			if g.Status.DetailedState == "Final" {
				continue
			}
			away, home := g.Teams.Away, g.Teams.Home
			sg := sports.ScheduledGame{
				Away:       mlbTeamAbbr(away.Team.Name),
				AwayName:   away.Team.Name,
				AwayRecord: fmt.Sprintf("%d-%d", away.LeagueRecord.Wins, away.LeagueRecord.Losses),
				Home:       mlbTeamAbbr(home.Team.Name),
				HomeName:   home.Team.Name,
				HomeRecord: fmt.Sprintf("%d-%d", home.LeagueRecord.Wins, home.LeagueRecord.Losses),
			}
			if start, err := time.Parse(time.RFC3339, g.GameDate); err == nil {
				sg.Time = start.In(sports.Eastern).Format("15:04")
				sg.TimeLabel = sports.TimeLabel(start)
			} else {
				sg.TimeLabel = nameOr(g.Status.AbstractGameState, "TBD")
			}
			for _, b := range g.Broadcasts {
				if b.Type == "TV" {
					sg.Broadcast = b.Name
					break
				}
			}
			games = append(games, sg)
		}
	}
	if len(games) == 0 {
		return sports.DayEntry{}, false
	}
	return sports.DayEntry{
		Date:     sports.ISODate(day),
		DayLabel: sports.DayLabel(day),
		Games:    games,
	}, true
}
