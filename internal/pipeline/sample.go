package pipeline

import (
	"time"

	"github.com/TobiSchelling/sportspage/internal/sports"
)

// SampleDocument builds a small but complete document covering every
// box-score shape, for previewing the page without network access.
func SampleDocument(now time.Time) *sports.Document {
	now = now.In(sports.Eastern)
	yesterday := sports.YesterdayOf(now, sports.Eastern)
	doc := sports.NewDocument(now, yesterday)
	date := sports.ISODate(yesterday)

	doc.Leagues[sports.MLB] = sampleMLB(date, now)
	doc.Leagues[sports.NHL] = sampleNHL(date, now)
	doc.Leagues[sports.NBA] = sampleNBA(date, now)
	doc.Leagues[sports.EPL] = sampleEPL(date, now)
	return doc
}

func sampleDay(t time.Time, games ...sports.ScheduledGame) sports.DayEntry {
	if games == nil {
		games = []sports.ScheduledGame{}
	}
	return sports.DayEntry{Date: sports.ISODate(t), DayLabel: sports.DayLabel(t), Games: games}
}

func sampleGame(clock, away, home, broadcast string) sports.ScheduledGame {
	t, _ := time.Parse("15:04", clock)
	return sports.ScheduledGame{
		Time:      clock,
		TimeLabel: t.Format("03:04 PM") + " ET",
		Away:      away,
		Home:      home,
		Broadcast: broadcast,
	}
}

func leaders(category string, entries ...sports.LeaderEntry) map[string][]sports.LeaderEntry {
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return map[string][]sports.LeaderEntry{category: entries}
}

func sampleNHL(date string, now time.Time) *sports.LeagueData {
	ip := sports.IntPtr
	game := sports.Game{
		GameID:   "2025020123",
		AwayTeam: sports.TeamRef{Name: "Boston Bruins", Abbr: "BOS", Score: 3},
		HomeTeam: sports.TeamRef{Name: "New York Rangers", Abbr: "NYR", Score: 4},
		Status:   "Final/OT",
		Periods:  4,
		BoxScore: sports.NewHockeyBox(sports.PeriodBox{
			LineScore: &sports.LineScore{Away: []int{1, 1, 1, 0}, Home: []int{0, 2, 1, 1}},
			Shots:     &sports.Shots{Away: 32, Home: 28},
			Scorers: []sports.Scorer{
				{Team: "NYR", Name: "A. Panarin", Goals: ip(2), Assists: ip(1), Points: ip(3)},
				{Team: "BOS", Name: "D. Pastrnak", Goals: ip(1), Assists: ip(1), Points: ip(2)},
			},
			Goalies: []sports.Goalie{
				{Team: "BOS", Name: "J. Swayman", Saves: 24, Shots: 28, SavePct: sports.SavePercentage(24, 28)},
				{Team: "NYR", Name: "I. Shesterkin", Saves: 29, Shots: 32, SavePct: sports.SavePercentage(29, 32)},
			},
		}),
	}
	return &sports.LeagueData{
		Standings: map[string][]sports.TeamStanding{
			"Atlantic Division": {
				{Rank: 1, Team: "BOS", TeamName: "Boston Bruins", Wins: 28, Losses: 12, OTLosses: 3, Points: 59, GamesPlayed: 43, WinPct: 0.686, Streak: "L1"},
				{Rank: 2, Team: "TOR", TeamName: "Toronto Maple Leafs", Wins: 27, Losses: 13, OTLosses: 2, Points: 56, GamesPlayed: 42, WinPct: 0.667, GamesBehind: 1.5, Streak: "W1"},
			},
			"Pacific Division": {
				{Rank: 1, Team: "VGK", TeamName: "Vegas Golden Knights", Wins: 30, Losses: 10, OTLosses: 2, Points: 62, GamesPlayed: 42, WinPct: 0.738, Streak: "W4"},
				{Rank: 2, Team: "EDM", TeamName: "Edmonton Oilers", Wins: 28, Losses: 12, OTLosses: 2, Points: 58, GamesPlayed: 42, WinPct: 0.690, GamesBehind: 2, Streak: "W1"},
			},
		},
		Yesterday: sports.Yesterday{Date: date, Games: []sports.Game{game}},
		Leaders: leaders("points",
			sports.LeaderEntry{Player: "Connor McDavid", Team: "EDM", Value: sports.Number(84)},
			sports.LeaderEntry{Player: "Nathan MacKinnon", Team: "COL", Value: sports.Number(76)},
		),
		Schedule: []sports.DayEntry{
			sampleDay(now, sampleGame("19:00", "BOS", "TBL", "ESPN+")),
			sampleDay(now.AddDate(0, 0, 1)),
		},
	}
}

func sampleNBA(date string, now time.Time) *sports.LeagueData {
	ip := sports.IntPtr
	game := sports.Game{
		GameID:   "401585001",
		AwayTeam: sports.TeamRef{Name: "Boston Celtics", Abbr: "BOS", Score: 112},
		HomeTeam: sports.TeamRef{Name: "Milwaukee Bucks", Abbr: "MIL", Score: 108},
		Status:   "Final",
		BoxScore: sports.NewBasketballBox(sports.PeriodBox{
			LineScore: &sports.LineScore{Away: []int{28, 30, 26, 28}, Home: []int{25, 27, 30, 26}},
			Scorers: []sports.Scorer{
				{Team: "BOS", Name: "J. Tatum", Points: ip(34), Rebounds: ip(9), Assists: ip(6), FGM: ip(12), FGA: ip(22), FG3M: ip(4), FG3A: ip(9)},
				{Team: "MIL", Name: "G. Antetokounmpo", Points: ip(31), Rebounds: ip(12), Assists: ip(7)},
			},
		}),
	}
	return &sports.LeagueData{
		Standings: map[string][]sports.TeamStanding{
			"Eastern": {
				{Rank: 1, Team: "BOS", TeamName: "Boston Celtics", Wins: 40, Losses: 12, WinPct: 0.769, GamesBack: "-", Streak: "W3"},
				{Rank: 2, Team: "MIL", TeamName: "Milwaukee Bucks", Wins: 35, Losses: 17, WinPct: 0.673, GamesBack: "5.0", Streak: "L1"},
			},
			"Western": {
				{Rank: 1, Team: "OKC", TeamName: "Oklahoma City Thunder", Wins: 38, Losses: 14, WinPct: 0.731, GamesBack: "-", Streak: "W2"},
			},
		},
		Yesterday: sports.Yesterday{Date: date, Games: []sports.Game{game}},
		Leaders: leaders("points",
			sports.LeaderEntry{Player: "Luka Doncic", Team: "DAL", Value: sports.Number(33.9)},
			sports.LeaderEntry{Player: "Joel Embiid", Team: "PHI", Value: sports.Number(27.7)},
		),
		Schedule: []sports.DayEntry{
			sampleDay(now, sampleGame("19:30", "MIL", "BOS", "TNT")),
		},
	}
}

func sampleMLB(date string, now time.Time) *sports.LeagueData {
	game := sports.Game{
		GameID:   "745612",
		AwayTeam: sports.TeamRef{Name: "New York Yankees", Abbr: "NYY", Score: 5},
		HomeTeam: sports.TeamRef{Name: "Boston Red Sox", Abbr: "BOS", Score: 3},
		Status:   "Final",
		BoxScore: sports.NewBaseballBox(sports.BaseballBox{
			LineScore: &sports.InningLineScore{
				Away: sports.InningLine{Innings: []int{0, 2, 0, 0, 1, 0, 2, 0, 0}, Runs: 5, Hits: 9, Errors: 0},
				Home: sports.InningLine{Innings: []int{1, 0, 0, 0, 0, 2, 0, 0, 0}, Runs: 3, Hits: 7, Errors: 1},
			},
			AwayBatting: []sports.Batter{
				{Name: "A. Judge", Position: "RF", AB: 4, R: 2, H: 2, RBI: 3, BB: 1, SO: 1, AVG: ".301"},
			},
			HomeBatting: []sports.Batter{
				{Name: "R. Devers", Position: "3B", AB: 4, R: 1, H: 1, RBI: 2, SO: 2, AVG: ".276"},
			},
			AwayPitching: []sports.Pitcher{
				{Name: "G. Cole", Result: "W", Record: "12-4", IP: "7.0", H: 5, R: 3, ER: 3, BB: 1, SO: 9, NP: 104, ERA: "3.12"},
				{Name: "C. Holmes", Result: "S", IP: "1.0", SO: 2, NP: 14, ERA: "2.40"},
			},
			HomePitching: []sports.Pitcher{
				{Name: "B. Bello", Result: "L", Record: "8-9", IP: "6.2", H: 7, R: 4, ER: 4, BB: 2, SO: 5, NP: 98, ERA: "4.21"},
			},
			GameNotes: sports.GameNotes{HomeRuns: []string{"A. Judge (38)"}, Doubles: []string{"R. Devers"}, DoublePlays: 1},
		}),
	}
	return &sports.LeagueData{
		Standings: map[string][]sports.TeamStanding{
			"AL East": {
				{Rank: 1, Team: "NYY", TeamName: "New York Yankees", Wins: 85, Losses: 60, Pct: ".586", GB: "-", Streak: "W2"},
				{Rank: 2, Team: "BOS", TeamName: "Boston Red Sox", Wins: 78, Losses: 67, Pct: ".538", GB: "7.0", Streak: "L1"},
			},
			"NL West": {
				{Rank: 1, Team: "LAD", TeamName: "Los Angeles Dodgers", Wins: 88, Losses: 57, Pct: ".607", GB: "-", Streak: "W5"},
			},
		},
		Yesterday: sports.Yesterday{Date: date, Games: []sports.Game{game}},
		Leaders: leaders("home_runs",
			sports.LeaderEntry{Player: "Aaron Judge", Team: "NYY", Value: sports.Text("38")},
			sports.LeaderEntry{Player: "Shohei Ohtani", Team: "LAD", Value: sports.Text("36")},
		),
		Schedule: []sports.DayEntry{
			sampleDay(now, sampleGame("19:10", "NYY", "BOS", "NESN")),
		},
	}
}

func sampleEPL(date string, now time.Time) *sports.LeagueData {
	game := sports.Game{
		GameID:        "12345",
		AwayTeam:      sports.TeamRef{Name: "Liverpool FC", Abbr: "LIV", Score: 1},
		HomeTeam:      sports.TeamRef{Name: "Manchester City FC", Abbr: "MCI", Score: 2},
		Status:        "Final",
		HalfTimeScore: "1-0",
		BoxScore: sports.NewSoccerBox(sports.SoccerBox{
			HomeGoals: []sports.GoalEvent{
				{Scorer: "Erling Haaland", Minute: 23, Assist: "Kevin De Bruyne"},
				{Scorer: "Phil Foden", Minute: 71},
			},
			AwayGoals: []sports.GoalEvent{{Scorer: "Mohamed Salah", Minute: 58}},
		}),
	}
	return &sports.LeagueData{
		Standings: map[string][]sports.TeamStanding{
			"Premier League": {
				{Rank: 1, Team: "LIV", TeamName: "Liverpool FC", Played: 20, Wins: 15, Draws: 3, Losses: 2, GoalsFor: 45, GoalsAgainst: 19, GoalDiff: 26, Points: 48, Form: "W,W,D,W,L"},
				{Rank: 2, Team: "MCI", TeamName: "Manchester City FC", Played: 20, Wins: 15, Draws: 3, Losses: 2, GoalsFor: 50, GoalsAgainst: 20, GoalDiff: 30, Points: 48, Form: "W,W,D,W,W"},
			},
		},
		Yesterday: sports.Yesterday{Date: date, Games: []sports.Game{game}},
		Leaders: leaders("goals",
			sports.LeaderEntry{Player: "Erling Haaland", Team: "MCI", Value: sports.Number(19)},
			sports.LeaderEntry{Player: "Mohamed Salah", Team: "LIV", Value: sports.Number(16)},
		),
		Schedule: []sports.DayEntry{
			sampleDay(now, sampleGame("12:30", "AVL", "TOT", "")),
			sampleDay(now.AddDate(0, 0, 2), sampleGame("15:00", "MCI", "LIV", "")),
		},
	}
}
