package collect

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/TobiSchelling/sportspage/internal/sports"
)

// NBAClient reads the ESPN site and core APIs for basketball.
type NBAClient struct {
	api     *apiClient
	siteURL string
	coreURL string
}

// NewNBAClient creates a new NBA client. siteURL is the ESPN "apis" root,
// coreURL the core API root.
func NewNBAClient(siteURL, coreURL string, timeout time.Duration) *NBAClient {
	return &NBAClient{api: newAPIClient(timeout, nil), siteURL: siteURL, coreURL: coreURL}
}

type espnTeam struct {
	Abbreviation string `json:"abbreviation"`
	DisplayName  string `json:"displayName"`
}

type espnCompetitor struct {
	HomeAway string   `json:"homeAway"`
	Score    flexInt  `json:"score"`
	Team     espnTeam `json:"team"`
	Records  []struct {
		Summary string `json:"summary"`
	} `json:"records"`
	Linescores []struct {
		Value        flexFloat `json:"value"`
		DisplayValue string    `json:"displayValue"`
	} `json:"linescores"`
}

type espnEvent struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Status struct {
		Type struct {
			Completed   bool   `json:"completed"`
			ShortDetail string `json:"shortDetail"`
		} `json:"type"`
	} `json:"status"`
	Competitions []struct {
		Competitors []espnCompetitor `json:"competitors"`
		Broadcasts  []struct {
			Names []string `json:"names"`
		} `json:"broadcasts"`
	} `json:"competitions"`
}

type espnScoreboard struct {
	Events []espnEvent `json:"events"`
}

type espnSummary struct {
	Header struct {
		Competitions []struct {
			Competitors []espnCompetitor `json:"competitors"`
		} `json:"competitions"`
	} `json:"header"`
	Boxscore struct {
		Players []struct {
			Team       espnTeam `json:"team"`
			Statistics []struct {
				Labels   []string `json:"labels"`
				Athletes []struct {
					Athlete struct {
						DisplayName string `json:"displayName"`
					} `json:"athlete"`
					Stats []string `json:"stats"`
				} `json:"athletes"`
			} `json:"statistics"`
		} `json:"players"`
	} `json:"boxscore"`
}

type espnStandings struct {
	Children []struct {
		Name      string `json:"name"`
		Standings struct {
			Entries []struct {
				Team  espnTeam `json:"team"`
				Stats []struct {
					Name         string    `json:"name"`
					Value        flexFloat `json:"value"`
					DisplayValue string    `json:"displayValue"`
				} `json:"stats"`
			} `json:"entries"`
		} `json:"standings"`
	} `json:"children"`
}

type espnRef struct {
	Ref string `json:"$ref"`
}

type espnLeaders struct {
	Categories []struct {
		Name    string `json:"name"`
		Leaders []struct {
			Value   float64 `json:"value"`
			Athlete espnRef `json:"athlete"`
			Team    espnRef `json:"team"`
		} `json:"leaders"`
	} `json:"categories"`
}

var nbaLeaderCategories = map[string]string{
	"pointsPerGame":   "points",
	"reboundsPerGame": "rebounds",
	"assistsPerGame":  "assists",
}

func (c *NBAClient) scoreboardURL(day time.Time) string {
	return fmt.Sprintf("%s/site/v2/sports/basketball/nba/scoreboard?dates=%s", c.siteURL, day.Format("20060102"))
}

// Fetch gathers yesterday's NBA games, standings, leaders and schedule.
func (c *NBAClient) Fetch(ctx context.Context, yesterday time.Time) (*sports.LeagueData, error) {
	data := newLeagueData(sports.ISODate(yesterday))
	s := &sections{league: "NBA"}

	s.run("scores", func() error {
		var sb espnScoreboard
		if err := c.api.getJSON(ctx, c.scoreboardURL(yesterday), &sb); err != nil {
			return err
		}
		games := nbaFinishedGames(sb)
		for i := range games {
			var sum espnSummary
			url := fmt.Sprintf("%s/site/v2/sports/basketball/nba/summary?event=%s", c.siteURL, games[i].GameID)
			if err := c.api.getJSON(ctx, url, &sum); err != nil {
				log.Printf("NBA box score %s: %v", games[i].GameID, err)
				continue
			}
			games[i].BoxScore = nbaBoxScore(sum)
		}
		data.Yesterday.Games = games
		return nil
	})

	s.run("standings", func() error {
		var st espnStandings
		if err := c.api.getJSON(ctx, c.siteURL+"/v2/sports/basketball/nba/standings", &st); err != nil {
			return err
		}
		data.Standings = nbaStandings(st)
		return nil
	})

	s.run("leaders", func() error {
		leaders, err := c.leaders(ctx, sports.SplitSeasonYear(yesterday))
		if err != nil {
			return err
		}
		data.Leaders = leaders
		return nil
	})

	s.run("schedule", func() error {
		schedule := []sports.DayEntry{}
		var lastErr error
		failed := 0
		today := yesterday.AddDate(0, 0, 1)
		for i := 0; i < 3; i++ {
			day := today.AddDate(0, 0, i)
			var sb espnScoreboard
			if err := c.api.getJSON(ctx, c.scoreboardURL(day), &sb); err != nil {
				lastErr = err
				failed++
				continue
			}
			if entry, ok := espnScheduleDay(sb, day); ok {
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

// leaders reads the core API leader board and resolves athlete/team refs.
// Refs are cached so a player leading several categories costs one lookup.
func (c *NBAClient) leaders(ctx context.Context, season int) (map[string][]sports.LeaderEntry, error) {
	url := fmt.Sprintf("%s/sports/basketball/leagues/nba/seasons/%d/types/2/leaders", c.coreURL, season)
	var resp espnLeaders
	if err := c.api.getJSON(ctx, url, &resp); err != nil {
		return nil, err
	}

	cache := map[string]string{}
	resolve := func(ref espnRef, field, fallback string) string {
		if ref.Ref == "" {
			return fallback
		}
		key := field + " " + ref.Ref
		if v, ok := cache[key]; ok {
			return v
		}
		var obj map[string]any
		v := fallback
		if err := c.api.getJSON(ctx, ref.Ref, &obj); err == nil {
			if s, ok := obj[field].(string); ok && s != "" {
				v = s
			}
		}
		cache[key] = v
		return v
	}

	leaders := map[string][]sports.LeaderEntry{
		"points":   {},
		"rebounds": {},
		"assists":  {},
	}
	for _, cat := range resp.Categories {
		key, ok := nbaLeaderCategories[cat.Name]
		if !ok {
			continue
		}
		for i, l := range cat.Leaders {
			if i >= 10 {
				break
			}
			leaders[key] = append(leaders[key], sports.LeaderEntry{
				Rank:   i + 1,
				Player: resolve(l.Athlete, "displayName", "Unknown"),
				Team:   resolve(l.Team, "abbreviation", "UNK"),
				Value:  sports.Number(sports.Round1(l.Value)),
			})
		}
	}
	return leaders, nil
}

// homeAway splits a competitor pair.
func homeAway(cs []espnCompetitor) (home, away *espnCompetitor) {
	for i := range cs {
		if cs[i].HomeAway == "home" {
			home = &cs[i]
		} else {
			away = &cs[i]
		}
	}
	return home, away
}

func espnTeamRef(c *espnCompetitor) sports.TeamRef {
	return sports.TeamRef{
		Name:  nameOr(c.Team.DisplayName, "Unknown"),
		Abbr:  nameOr(c.Team.Abbreviation, "UNK"),
		Score: int(c.Score),
	}
}

func nbaFinishedGames(sb espnScoreboard) []sports.Game {
	games := []sports.Game{}
	for _, ev := range sb.Events {
		if !ev.Status.Type.Completed || len(ev.Competitions) == 0 {
			continue
		}
		home, away := homeAway(ev.Competitions[0].Competitors)
		if home == nil || away == nil {
			continue
		}
		games = append(games, sports.Game{
			GameID:   ev.ID,
			AwayTeam: espnTeamRef(away),
			HomeTeam: espnTeamRef(home),
			Status:   "Final",
			Periods:  4,
		})
	}
	return games
}

func nbaBoxScore(sum espnSummary) *sports.BoxScore {
	var box sports.PeriodBox

	var away, home []int
	for _, comp := range sum.Header.Competitions {
		for _, c := range comp.Competitors {
			var quarters []int
			for _, ls := range c.Linescores {
				q := int(ls.Value)
				if ls.DisplayValue != "" {
					q = atoi(ls.DisplayValue)
				}
				quarters = append(quarters, q)
			}
			if c.HomeAway == "home" {
				home = quarters
			} else {
				away = quarters
			}
		}
	}
	if sports.HasLineData(away, home) {
		box.LineScore = &sports.LineScore{Away: away, Home: home}
	}

	var scorers []sports.Scorer
	for _, team := range sum.Boxscore.Players {
		abbr := nameOr(team.Team.Abbreviation, "UNK")
		for _, group := range team.Statistics {
			for _, a := range group.Athletes {
				if len(a.Stats) == 0 {
					continue
				}
				stat := map[string]string{}
				for i, label := range group.Labels {
					if i < len(a.Stats) {
						stat[label] = a.Stats[i]
					}
				}
				points := atoi(stat["PTS"])
				if points <= 0 {
					continue
				}
				fgm, fga := splitMade(stat["FG"])
				fg3m, fg3a := splitMade(stat["3PT"])
				scorers = append(scorers, sports.Scorer{
					Team:     abbr,
					Name:     nameOr(a.Athlete.DisplayName, "Unknown"),
					Points:   sports.IntPtr(points),
					Rebounds: sports.IntPtr(atoi(stat["REB"])),
					Assists:  sports.IntPtr(atoi(stat["AST"])),
					FGM:      sports.IntPtr(fgm),
					FGA:      sports.IntPtr(fga),
					FG3M:     sports.IntPtr(fg3m),
					FG3A:     sports.IntPtr(fg3a),
				})
			}
		}
	}
	sort.SliceStable(scorers, func(i, j int) bool { return *scorers[i].Points > *scorers[j].Points })
	if len(scorers) > 6 {
		scorers = scorers[:6]
	}
	box.Scorers = scorers

	return sports.NewBasketballBox(box)
}

func nbaStandings(st espnStandings) map[string][]sports.TeamStanding {
	standings := map[string][]sports.TeamStanding{"Eastern": {}, "Western": {}}
	for _, group := range st.Children {
		var conf string
		switch {
		case strings.Contains(group.Name, "Eastern"):
			conf = "Eastern"
		case strings.Contains(group.Name, "Western"):
			conf = "Western"
		default:
			continue
		}

		for _, e := range group.Standings.Entries {
			values := map[string]float64{}
			display := map[string]string{}
			for _, s := range e.Stats {
				values[s.Name] = float64(s.Value)
				display[s.Name] = s.DisplayValue
			}
			gb := "-"
			if values["gamesBehind"] != 0 {
				gb = display["gamesBehind"]
				if gb == "" {
					gb = fmt.Sprintf("%.1f", values["gamesBehind"])
				}
			}
			standings[conf] = append(standings[conf], sports.TeamStanding{
				Team:      nameOr(e.Team.Abbreviation, "UNK"),
				TeamName:  nameOr(e.Team.DisplayName, "Unknown"),
				Wins:      int(values["wins"]),
				Losses:    int(values["losses"]),
				WinPct:    sports.Round3(values["winPercent"]),
				GamesBack: gb,
				Streak:    nameOr(display["streak"], "-"),
			})
		}
	}

	for _, teams := range standings {
		sort.SliceStable(teams, func(i, j int) bool { return teams[i].WinPct > teams[j].WinPct })
		for i := range teams {
			teams[i].Rank = i + 1
		}
	}
	return standings
}

// parseESPNTime accepts ESPN's minute-precision timestamps ("2025-01-02T00:30Z").
func parseESPNTime(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04Z07:00", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

func espnScheduleDay(sb espnScoreboard, day time.Time) (sports.DayEntry, bool) {
	var games []sports.ScheduledGame
	for _, ev := range sb.Events {
		if ev.Status.Type.Completed || len(ev.Competitions) == 0 {
			continue
		}
		comp := ev.Competitions[0]
		home, away := homeAway(comp.Competitors)
		if home == nil || away == nil {
			continue
		}
		sg := sports.ScheduledGame{
			Away:     nameOr(away.Team.Abbreviation, "UNK"),
			AwayName: nameOr(away.Team.DisplayName, "Unknown"),
			Home:     nameOr(home.Team.Abbreviation, "UNK"),
			HomeName: nameOr(home.Team.DisplayName, "Unknown"),
		}
		if len(away.Records) > 0 {
			sg.AwayRecord = away.Records[0].Summary
		}
		if len(home.Records) > 0 {
			sg.HomeRecord = home.Records[0].Summary
		}
		if start, err := parseESPNTime(ev.Date); err == nil {
			sg.Time = start.In(sports.Eastern).Format("15:04")
			sg.TimeLabel = sports.TimeLabel(start)
		} else {
			sg.TimeLabel = nameOr(ev.Status.Type.ShortDetail, "TBD")
		}
		if len(comp.Broadcasts) > 0 && len(comp.Broadcasts[0].Names) > 0 {
			sg.Broadcast = comp.Broadcasts[0].Names[0]
		}
		games = append(games, sg)
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
