package sports

import "time"

// League keys used in the document and in preferences.
const (
	MLB = "mlb"
	NHL = "nhl"
	NBA = "nba"
	EPL = "epl"
)

// LeagueOrder is the order leagues are fetched and displayed in.
var LeagueOrder = []string{MLB, NHL, NBA, EPL}

// Document is the single persisted artifact produced by a fetch run.
type Document struct {
	DateLabel   string                 `json:"date_label"`
	GeneratedAt time.Time              `json:"generated_at"`
	Leagues     map[string]*LeagueData `json:"leagues"`
}

// LeagueData holds everything fetched for one league. When Error is set the
// other fields carry no meaning.
type LeagueData struct {
	Standings map[string][]TeamStanding `json:"standings"`
	Yesterday Yesterday                 `json:"yesterday"`
	Leaders   map[string][]LeaderEntry  `json:"leaders"`
	Schedule  []DayEntry                `json:"schedule"`
	Headlines []Headline                `json:"headlines,omitempty"`
	Error     string                    `json:"error,omitempty"`
}

// ErrorLeague returns the empty structure recorded for a league whose fetch failed.
func ErrorLeague(msg string) *LeagueData {
	return &LeagueData{
		Error:     msg,
		Standings: map[string][]TeamStanding{},
		Yesterday: Yesterday{Games: []Game{}},
		Leaders:   map[string][]LeaderEntry{},
		Schedule:  []DayEntry{},
	}
}

// Failed reports whether the league fetch failed.
func (l *LeagueData) Failed() bool {
	return l == nil || l.Error != ""
}

// Yesterday holds the finished games of the previous day.
type Yesterday struct {
	Date  string `json:"date"`
	Games []Game `json:"games"`
}

// Game is one finished game.
type Game struct {
	GameID        string    `json:"game_id,omitempty"`
	AwayTeam      TeamRef   `json:"away_team"`
	HomeTeam      TeamRef   `json:"home_team"`
	Status        string    `json:"status"`
	Periods       int       `json:"periods,omitempty"`
	HalfTimeScore string    `json:"half_time_score,omitempty"`
	BoxScore      *BoxScore `json:"box_score,omitempty"`
}

// TeamRef identifies a team in a game along with its final score.
type TeamRef struct {
	Name  string `json:"name"`
	Abbr  string `json:"abbr"`
	Score int    `json:"score"`
}

// TeamStanding is one row of a standings table. Only the fields relevant to
// the league are populated.
type TeamStanding struct {
	Rank     int    `json:"rank"`
	Team     string `json:"team"`
	TeamName string `json:"team_name"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Streak   string `json:"streak,omitempty"`

	// Hockey
	OTLosses    int     `json:"ot_losses,omitempty"`
	Points      int     `json:"points,omitempty"`
	GamesPlayed int     `json:"games_played,omitempty"`
	GamesBehind float64 `json:"games_behind,omitempty"`

	// Basketball (WinPct is also the hockey points percentage)
	WinPct    float64 `json:"win_pct,omitempty"`
	GamesBack string  `json:"games_back,omitempty"`

	// Soccer
	Played       int    `json:"played,omitempty"`
	Draws        int    `json:"draws,omitempty"`
	GoalsFor     int    `json:"goals_for,omitempty"`
	GoalsAgainst int    `json:"goals_against,omitempty"`
	GoalDiff     int    `json:"goal_diff,omitempty"`
	Form         string `json:"form,omitempty"`

	// Baseball
	Pct      string `json:"pct,omitempty"`
	GB       string `json:"gb,omitempty"`
	HomeWins int    `json:"home_wins,omitempty"`
	AwayWins int    `json:"away_wins,omitempty"`
}

// LeaderEntry is one ranked player in a leader category.
type LeaderEntry struct {
	Rank   int       `json:"rank"`
	Player string    `json:"player"`
	Team   string    `json:"team"`
	Value  StatValue `json:"value"`
}

// DayEntry groups upcoming games by date.
type DayEntry struct {
	Date     string          `json:"date"`
	DayLabel string          `json:"day_label"`
	Games    []ScheduledGame `json:"games"`
}

// ScheduledGame is an upcoming game.
type ScheduledGame struct {
	Time       string `json:"time"`
	TimeLabel  string `json:"time_label"`
	Away       string `json:"away"`
	AwayName   string `json:"away_name,omitempty"`
	AwayRecord string `json:"away_record,omitempty"`
	Home       string `json:"home"`
	HomeName   string `json:"home_name,omitempty"`
	HomeRecord string `json:"home_record,omitempty"`
	Broadcast  string `json:"broadcast,omitempty"`
}

// Headline is a league news item pulled from an RSS feed.
type Headline struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Source    string `json:"source,omitempty"`
	Published string `json:"published,omitempty"`
	Excerpt   string `json:"excerpt,omitempty"`
}
