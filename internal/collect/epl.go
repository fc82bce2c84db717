package collect

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/TobiSchelling/sportspage/internal/sports"
)

// EPLClient reads the football-data.org v4 API for the Premier League.
type EPLClient struct {
	api           *apiClient
	baseURL       string
	keyEnv        string
	apiKey        string
	competitionID int
}

// NewEPLClient creates a new EPL client. The API key is read from keyEnv.
func NewEPLClient(baseURL, keyEnv string, competitionID int, timeout time.Duration) *EPLClient {
	key := os.Getenv(keyEnv)
	return &EPLClient{
		api:           newAPIClient(timeout, map[string]string{"X-Auth-Token": key}),
		baseURL:       baseURL,
		keyEnv:        keyEnv,
		apiKey:        key,
		competitionID: competitionID,
	}
}

// IsConfigured returns whether the API key is available.
func (c *EPLClient) IsConfigured() bool {
	return c.apiKey != ""
}

type fdTeam struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	TLA  string `json:"tla"`
}

type fdScore struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type fdMatch struct {
	ID       int    `json:"id"`
	UTCDate  string `json:"utcDate"`
	Status   string `json:"status"`
	HomeTeam fdTeam `json:"homeTeam"`
	AwayTeam fdTeam `json:"awayTeam"`
	Score    struct {
		FullTime fdScore `json:"fullTime"`
		HalfTime fdScore `json:"halfTime"`
	} `json:"score"`
}

type fdMatches struct {
	Matches []fdMatch `json:"matches"`
}

type fdPerson struct {
	Name string `json:"name"`
}

type fdMatchDetail struct {
	HomeTeam fdTeam `json:"homeTeam"`
	AwayTeam fdTeam `json:"awayTeam"`
	Goals    []struct {
		Minute     int       `json:"minute"`
		InjuryTime *int      `json:"injuryTime"`
		Team       fdTeam    `json:"team"`
		Scorer     fdPerson  `json:"scorer"`
		Assist     *fdPerson `json:"assist"`
	} `json:"goals"`
}

type fdStandings struct {
	Standings []struct {
		Type  string `json:"type"`
		Table []struct {
			Position       int    `json:"position"`
			Team           fdTeam `json:"team"`
			PlayedGames    int    `json:"playedGames"`
			Won            int    `json:"won"`
			Draw           int    `json:"draw"`
			Lost           int    `json:"lost"`
			GoalsFor       int    `json:"goalsFor"`
			GoalsAgainst   int    `json:"goalsAgainst"`
			GoalDifference int    `json:"goalDifference"`
			Points         int    `json:"points"`
			Form           string `json:"form"`
		} `json:"table"`
	} `json:"standings"`
}

type fdScorers struct {
	Scorers []struct {
		Player  fdPerson `json:"player"`
		Team    fdTeam   `json:"team"`
		Goals   int      `json:"goals"`
		Assists *int     `json:"assists"`
	} `json:"scorers"`
}

func (c *EPLClient) matchesURL(from, to time.Time) string {
	return fmt.Sprintf("%s/competitions/%d/matches?dateFrom=%s&dateTo=%s",
		c.baseURL, c.competitionID, sports.ISODate(from), sports.ISODate(to))
}

// Fetch gathers yesterday's EPL matches, the table, scorers and the week ahead.
func (c *EPLClient) Fetch(ctx context.Context, yesterday time.Time) (*sports.LeagueData, error) {
	if !c.IsConfigured() {
		return nil, fmt.Errorf("%s environment variable not set", c.keyEnv)
	}

	data := newLeagueData(sports.ISODate(yesterday))
	s := &sections{league: "EPL"}

	s.run("scores", func() error {
		var resp fdMatches
		if err := c.api.getJSON(ctx, c.matchesURL(yesterday, yesterday), &resp); err != nil {
			return err
		}
		games := []sports.Game{}
		for _, m := range resp.Matches {
			if m.Status != "FINISHED" && m.Status != "IN_PLAY" {
				continue
			}
			g := eplGame(m)
			var detail fdMatchDetail
			if err := c.api.getJSON(ctx, fmt.Sprintf("%s/matches/%d", c.baseURL, m.ID), &detail); err != nil {
				log.Printf("EPL match %d details: %v", m.ID, err)
			} else {
				g.BoxScore = eplBoxScore(detail)
			}
			games = append(games, g)
		}
		data.Yesterday.Games = games
		return nil
	})

	s.run("standings", func() error {
		var resp fdStandings
		url := fmt.Sprintf("%s/competitions/%d/standings", c.baseURL, c.competitionID)
		if err := c.api.getJSON(ctx, url, &resp); err != nil {
			return err
		}
		data.Standings = eplStandings(resp)
		return nil
	})

	s.run("leaders", func() error {
		var resp fdScorers
		url := fmt.Sprintf("%s/competitions/%d/scorers?limit=10", c.baseURL, c.competitionID)
		if err := c.api.getJSON(ctx, url, &resp); err != nil {
			return err
		}
		data.Leaders = eplLeaders(resp)
		return nil
	})

	s.run("schedule", func() error {
		var resp fdMatches
		if err := c.api.getJSON(ctx, c.matchesURL(yesterday.AddDate(0, 0, 1), yesterday.AddDate(0, 0, 7)), &resp); err != nil {
			return err
		}
		data.Schedule = eplSchedule(resp)
		return nil
	})

	return data, s.err()
}

func intOr0(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func eplGame(m fdMatch) sports.Game {
	status := m.Status
	switch status {
	case "FINISHED":
		status = "Final"
	case "IN_PLAY":
		status = "In Play"
	}
	halfTime := "0-0"
	if m.Score.HalfTime.Home != nil {
		halfTime = fmt.Sprintf("%d-%d", intOr0(m.Score.HalfTime.Home), intOr0(m.Score.HalfTime.Away))
	}
	return sports.Game{
		GameID: fmt.Sprint(m.ID),
		HomeTeam: sports.TeamRef{
			Name:  m.HomeTeam.Name,
			Abbr:  eplTeamAbbr(m.HomeTeam.Name, m.HomeTeam.TLA),
			Score: intOr0(m.Score.FullTime.Home),
		},
		AwayTeam: sports.TeamRef{
			Name:  m.AwayTeam.Name,
			Abbr:  eplTeamAbbr(m.AwayTeam.Name, m.AwayTeam.TLA),
			Score: intOr0(m.Score.FullTime.Away),
		},
		Status:        status,
		HalfTimeScore: halfTime,
	}
}

// eplBoxScore splits the match's goal events by scoring team.
func eplBoxScore(d fdMatchDetail) *sports.BoxScore {
	var box sports.SoccerBox
	for _, g := range d.Goals {
		ev := sports.GoalEvent{Scorer: g.Scorer.Name, Minute: g.Minute + intOr0(g.InjuryTime)}
		if g.Assist != nil {
			ev.Assist = g.Assist.Name
		}
		if g.Team.ID == d.HomeTeam.ID {
			box.HomeGoals = append(box.HomeGoals, ev)
		} else {
			box.AwayGoals = append(box.AwayGoals, ev)
		}
	}
	return sports.NewSoccerBox(box)
}

func eplStandings(resp fdStandings) map[string][]sports.TeamStanding {
	if len(resp.Standings) == 0 {
		return map[string][]sports.TeamStanding{}
	}
	table := resp.Standings[0]
	for _, st := range resp.Standings {
		if st.Type == "TOTAL" {
			table = st
			break
		}
	}

	teams := []sports.TeamStanding{}
	for _, row := range table.Table {
		teams = append(teams, sports.TeamStanding{
			Rank:         row.Position,
			Team:         eplTeamAbbr(row.Team.Name, row.Team.TLA),
			TeamName:     row.Team.Name,
			Played:       row.PlayedGames,
			Wins:         row.Won,
			Draws:        row.Draw,
			Losses:       row.Lost,
			GoalsFor:     row.GoalsFor,
			GoalsAgainst: row.GoalsAgainst,
			GoalDiff:     row.GoalDifference,
			Points:       row.Points,
			Form:         row.Form,
		})
	}
	return map[string][]sports.TeamStanding{"Premier League": teams}
}

func eplLeaders(resp fdScorers) map[string][]sports.LeaderEntry {
	goals := []sports.LeaderEntry{}
	type assister struct {
		player, team string
		assists      int
	}
	var assisters []assister

	for i, s := range resp.Scorers {
		if i >= 10 {
			break
		}
		team := eplTeamAbbr(s.Team.Name, s.Team.TLA)
		goals = append(goals, sports.LeaderEntry{
			Rank:   i + 1,
			Player: s.Player.Name,
			Team:   team,
			Value:  sports.Number(float64(s.Goals)),
		})
		if s.Assists != nil && *s.Assists > 0 {
			assisters = append(assisters, assister{s.Player.Name, team, *s.Assists})
		}
	}

	// The scorers endpoint is ordered by goals, so this list is only the
	// assists among the top scorers.
	sort.SliceStable(assisters, func(i, j int) bool { return assisters[i].assists > assisters[j].assists })
	assists := []sports.LeaderEntry{}
	for i, a := range assisters {
		assists = append(assists, sports.LeaderEntry{
			Rank:   i + 1,
			Player: a.player,
			Team:   a.team,
			Value:  sports.Number(float64(a.assists)),
		})
	}

	return map[string][]sports.LeaderEntry{"goals": goals, "assists": assists}
}

// eplSchedule groups upcoming matches by their Eastern calendar date.
func eplSchedule(resp fdMatches) []sports.DayEntry {
	byDate := map[string][]sports.ScheduledGame{}
	days := map[string]time.Time{}

	for _, m := range resp.Matches {
		start, err := time.Parse(time.RFC3339, m.UTCDate)
		if err != nil {
			continue
		}
		et := start.In(sports.Eastern)
		date := sports.ISODate(et)
		days[date] = et
		byDate[date] = append(byDate[date], sports.ScheduledGame{
			Time:      et.Format("15:04"),
			TimeLabel: sports.TimeLabel(start),
			Home:      eplTeamAbbr(m.HomeTeam.Name, m.HomeTeam.TLA),
			HomeName:  m.HomeTeam.Name,
			Away:      eplTeamAbbr(m.AwayTeam.Name, m.AwayTeam.TLA),
			AwayName:  m.AwayTeam.Name,
		})
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	schedule := []sports.DayEntry{}
	for _, d := range dates {
		schedule = append(schedule, sports.DayEntry{
			Date:     d,
			DayLabel: sports.DayLabel(days[d]),
			Games:    byDate[d],
		})
	}
	return schedule
}
