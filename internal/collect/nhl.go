package collect

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/TobiSchelling/sportspage/internal/sports"
)

// NHLClient reads the NHL web API (api-web.nhle.com).
type NHLClient struct {
	api     *apiClient
	baseURL string
}

// NewNHLClient creates a new NHL client.
func NewNHLClient(baseURL string, timeout time.Duration) *NHLClient {
	return &NHLClient{api: newAPIClient(timeout, nil), baseURL: baseURL}
}

type localized struct {
	Default string `json:"default"`
}

type nhlTeam struct {
	ID     int       `json:"id"`
	Abbrev string    `json:"abbrev"`
	Name   localized `json:"name"`
	Score  int       `json:"score"`
	Record string    `json:"record"`
	SOG    int       `json:"sog"`
}

type nhlGame struct {
	ID               int     `json:"id"`
	GameState        string  `json:"gameState"`
	Period           int     `json:"period"`
	StartTimeUTC     string  `json:"startTimeUTC"`
	AwayTeam         nhlTeam `json:"awayTeam"`
	HomeTeam         nhlTeam `json:"homeTeam"`
	PeriodDescriptor struct {
		PeriodType string `json:"periodType"`
	} `json:"periodDescriptor"`
	TVBroadcasts []struct {
		Network string `json:"network"`
	} `json:"tvBroadcasts"`
}

type nhlScoreResponse struct {
	Games []nhlGame `json:"games"`
}

type nhlScoreboardResponse struct {
	GamesByDate []struct {
		Date  string    `json:"date"`
		Games []nhlGame `json:"games"`
	} `json:"gamesByDate"`
}

type nhlSkater struct {
	Name    localized `json:"name"`
	Goals   int       `json:"goals"`
	Assists int       `json:"assists"`
}

type nhlGoalie struct {
	Name         localized `json:"name"`
	Saves        int       `json:"saves"`
	ShotsAgainst int       `json:"shotsAgainst"`
}

type nhlTeamStats struct {
	Forwards []nhlSkater `json:"forwards"`
	Defense  []nhlSkater `json:"defense"`
	Goalies  []nhlGoalie `json:"goalies"`
}

type nhlBoxResponse struct {
	AwayTeam  nhlTeam `json:"awayTeam"`
	HomeTeam  nhlTeam `json:"homeTeam"`
	Linescore struct {
		ByPeriod []struct {
			Away int `json:"away"`
			Home int `json:"home"`
		} `json:"byPeriod"`
	} `json:"linescore"`
	PlayerByGameStats struct {
		AwayTeam nhlTeamStats `json:"awayTeam"`
		HomeTeam nhlTeamStats `json:"homeTeam"`
	} `json:"playerByGameStats"`
}

type nhlStandingsResponse struct {
	Standings []struct {
		DivisionName     string    `json:"divisionName"`
		DivisionSequence int       `json:"divisionSequence"`
		TeamAbbrev       localized `json:"teamAbbrev"`
		TeamName         localized `json:"teamName"`
		Wins             int       `json:"wins"`
		Losses           int       `json:"losses"`
		OTLosses         int       `json:"otLosses"`
		Points           int       `json:"points"`
		GamesPlayed      int       `json:"gamesPlayed"`
		StreakCode       string    `json:"streakCode"`
		StreakCount      int       `json:"streakCount"`
	} `json:"standings"`
}

type nhlLeader struct {
	FirstName  localized `json:"firstName"`
	LastName   localized `json:"lastName"`
	TeamAbbrev string    `json:"teamAbbrev"`
	Value      float64   `json:"value"`
}

// Fetch gathers yesterday's NHL games, standings, leaders and schedule.
func (c *NHLClient) Fetch(ctx context.Context, yesterday time.Time) (*sports.LeagueData, error) {
	date := sports.ISODate(yesterday)
	data := newLeagueData(date)
	s := &sections{league: "NHL"}

	s.run("scores", func() error {
		var resp nhlScoreResponse
		if err := c.api.getJSON(ctx, fmt.Sprintf("%s/score/%s", c.baseURL, date), &resp); err != nil {
			return err
		}
		games := nhlFinishedGames(resp.Games)
		for i := range games {
			box, err := c.boxScore(ctx, games[i].GameID)
			if err != nil {
				log.Printf("NHL box score %s: %v", games[i].GameID, err)
				continue
			}
			games[i].BoxScore = box
		}
		data.Yesterday.Games = games
		return nil
	})

	s.run("standings", func() error {
		var resp nhlStandingsResponse
		if err := c.api.getJSON(ctx, c.baseURL+"/standings/now", &resp); err != nil {
			return err
		}
		data.Standings = nhlStandings(resp)
		return nil
	})

	s.run("leaders", func() error {
		var skaters map[string][]nhlLeader
		url := c.baseURL + "/skater-stats-leaders/current?categories=goals,assists,points&limit=10"
		if err := c.api.getJSON(ctx, url, &skaters); err != nil {
			return err
		}
		var goalies map[string][]nhlLeader
		url = c.baseURL + "/goalie-stats-leaders/current?categories=savePctg&limit=10"
		if err := c.api.getJSON(ctx, url, &goalies); err != nil {
			log.Printf("NHL goalie leaders: %v", err)
		}
		data.Leaders = nhlLeaders(skaters, goalies)
		return nil
	})

	s.run("schedule", func() error {
		var resp nhlScoreboardResponse
		if err := c.api.getJSON(ctx, c.baseURL+"/scoreboard/now", &resp); err != nil {
			return err
		}
		data.Schedule = nhlSchedule(resp, yesterday.AddDate(0, 0, 1), 3)
		return nil
	})

	return data, s.err()
}

func (c *NHLClient) boxScore(ctx context.Context, gameID string) (*sports.BoxScore, error) {
	var resp nhlBoxResponse
	if err := c.api.getJSON(ctx, fmt.Sprintf("%s/gamecenter/%s/boxscore", c.baseURL, gameID), &resp); err != nil {
		return nil, err
	}
	return nhlBoxScore(resp), nil
}

func nhlFinished(state string) bool {
	return state == "OFF" || state == "FINAL"
}

func nhlFinishedGames(raw []nhlGame) []sports.Game {
	games := []sports.Game{}
	for _, g := range raw {
		if !nhlFinished(g.GameState) {
			continue
		}
		periods := g.Period
		if periods == 0 {
			periods = 3
		}
		games = append(games, sports.Game{
			GameID:   strconv.Itoa(g.ID),
			AwayTeam: nhlTeamRef(g.AwayTeam),
			HomeTeam: nhlTeamRef(g.HomeTeam),
			Status:   nhlStatus(g),
			Periods:  periods,
		})
	}
	return games
}

func nhlTeamRef(t nhlTeam) sports.TeamRef {
	abbr := t.Abbrev
	if abbr == "" {
		abbr = "UNK"
	}
	name := t.Name.Default
	if name == "" {
		name = "Unknown"
	}
	return sports.TeamRef{Name: name, Abbr: abbr, Score: t.Score}
}

func nhlStatus(g nhlGame) string {
	if !nhlFinished(g.GameState) {
		return g.GameState
	}
	if g.Period > 3 {
		switch g.PeriodDescriptor.PeriodType {
		case "OT":
			return "Final/OT"
		case "SO":
			return "Final/SO"
		}
	}
	return "Final"
}

func nhlBoxScore(resp nhlBoxResponse) *sports.BoxScore {
	var box sports.PeriodBox

	var away, home []int
	for _, p := range resp.Linescore.ByPeriod {
		away = append(away, p.Away)
		home = append(home, p.Home)
	}
	if sports.HasLineData(away, home) {
		box.LineScore = &sports.LineScore{Away: away, Home: home}
	}
	if resp.AwayTeam.SOG != 0 || resp.HomeTeam.SOG != 0 {
		box.Shots = &sports.Shots{Away: resp.AwayTeam.SOG, Home: resp.HomeTeam.SOG}
	}

	sides := []struct {
		abbr  string
		stats nhlTeamStats
	}{
		{resp.AwayTeam.Abbrev, resp.PlayerByGameStats.AwayTeam},
		{resp.HomeTeam.Abbrev, resp.PlayerByGameStats.HomeTeam},
	}

	for _, side := range sides {
		for _, g := range side.stats.Goalies {
			box.Goalies = append(box.Goalies, sports.Goalie{
				Team:    side.abbr,
				Name:    g.Name.Default,
				Saves:   g.Saves,
				Shots:   g.ShotsAgainst,
				SavePct: sports.SavePercentage(g.Saves, g.ShotsAgainst),
			})
		}
	}

	var scorers []sports.Scorer
	for _, side := range sides {
		skaters := append(append([]nhlSkater{}, side.stats.Forwards...), side.stats.Defense...)
		for _, p := range skaters {
			points := p.Goals + p.Assists
			if points == 0 {
				continue
			}
			scorers = append(scorers, sports.Scorer{
				Team:    side.abbr,
				Name:    p.Name.Default,
				Goals:   sports.IntPtr(p.Goals),
				Assists: sports.IntPtr(p.Assists),
				Points:  sports.IntPtr(points),
			})
		}
	}
	sort.SliceStable(scorers, func(i, j int) bool {
		if *scorers[i].Points != *scorers[j].Points {
			return *scorers[i].Points > *scorers[j].Points
		}
		return *scorers[i].Goals > *scorers[j].Goals
	})
	if len(scorers) > 6 {
		scorers = scorers[:6]
	}
	box.Scorers = scorers

	return sports.NewHockeyBox(box)
}

func nhlStandings(resp nhlStandingsResponse) map[string][]sports.TeamStanding {
	standings := map[string][]sports.TeamStanding{}
	for _, e := range resp.Standings {
		div := e.DivisionName
		if div == "" {
			div = "Unknown Division"
		}
		streak := e.StreakCode
		if e.StreakCode != "" && e.StreakCount != 0 {
			streak = fmt.Sprintf("%s%d", e.StreakCode, e.StreakCount)
		}
		gp := e.GamesPlayed
		if gp == 0 {
			gp = 1
		}
		standings[div] = append(standings[div], sports.TeamStanding{
			Rank:        e.DivisionSequence,
			Team:        e.TeamAbbrev.Default,
			TeamName:    e.TeamName.Default,
			Wins:        e.Wins,
			Losses:      e.Losses,
			OTLosses:    e.OTLosses,
			Points:      e.Points,
			GamesPlayed: e.GamesPlayed,
			WinPct:      sports.Round3(float64(e.Points) / float64(gp*2)),
			Streak:      streak,
		})
	}

	for _, teams := range standings {
		sort.SliceStable(teams, func(i, j int) bool { return teams[i].Rank < teams[j].Rank })
		leader := teams[0].Points
		for i := range teams {
			teams[i].GamesBehind = sports.Round1(float64(leader-teams[i].Points) / 2)
		}
	}
	return standings
}

func nhlLeaders(skaters, goalies map[string][]nhlLeader) map[string][]sports.LeaderEntry {
	leaders := map[string][]sports.LeaderEntry{}
	add := func(key string, list []nhlLeader, round func(float64) float64) {
		entries := []sports.LeaderEntry{}
		for i, l := range list {
			if i >= 10 {
				break
			}
			entries = append(entries, sports.LeaderEntry{
				Rank:   i + 1,
				Player: l.FirstName.Default + " " + l.LastName.Default,
				Team:   l.TeamAbbrev,
				Value:  sports.Number(round(l.Value)),
			})
		}
		leaders[key] = entries
	}
	noop := func(v float64) float64 { return v }

	add("goals", skaters["goals"], noop)
	add("assists", skaters["assists"], noop)
	add("points", skaters["points"], noop)
	add("save_percentage", goalies["savePctg"], sports.Round3)
	return leaders
}

func nhlSchedule(resp nhlScoreboardResponse, today time.Time, days int) []sports.DayEntry {
	first := sports.ISODate(today)
	last := sports.ISODate(today.AddDate(0, 0, days-1))

	schedule := []sports.DayEntry{}
	for _, day := range resp.GamesByDate {
		if day.Date == "" || day.Date < first || day.Date > last {
			continue
		}
		dayTime, err := time.ParseInLocation("2006-01-02", day.Date, sports.Eastern)
		if err != nil {
			continue
		}

		var games []sports.ScheduledGame
		for _, g := range day.Games {
			if nhlFinished(g.GameState) {
				continue
			}
			sg := sports.ScheduledGame{
				Away:       g.AwayTeam.Abbrev,
				AwayName:   nameOr(g.AwayTeam.Name.Default, g.AwayTeam.Abbrev),
				AwayRecord: g.AwayTeam.Record,
				Home:       g.HomeTeam.Abbrev,
				HomeName:   nameOr(g.HomeTeam.Name.Default, g.HomeTeam.Abbrev),
				HomeRecord: g.HomeTeam.Record,
			}
			if start, err := time.Parse(time.RFC3339, g.StartTimeUTC); err == nil {
				sg.Time = start.In(sports.Eastern).Format("15:04")
				sg.TimeLabel = sports.TimeLabel(start)
			} else {
				sg.TimeLabel = "TBD"
			}
			if len(g.TVBroadcasts) > 0 {
				sg.Broadcast = g.TVBroadcasts[0].Network
			}
			games = append(games, sg)
		}
		if len(games) > 0 {
			schedule = append(schedule, sports.DayEntry{
				Date:     day.Date,
				DayLabel: sports.DayLabel(dayTime),
				Games:    games,
			})
		}
	}
	return schedule
}

func nameOr(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}
