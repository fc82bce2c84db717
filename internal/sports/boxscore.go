package sports

import (
	"encoding/json"
	"fmt"
)

// BoxScoreKind tags which payload a BoxScore carries.
type BoxScoreKind string

const (
	KindHockey     BoxScoreKind = "hockey"
	KindBasketball BoxScoreKind = "basketball"
	KindBaseball   BoxScoreKind = "baseball"
	KindSoccer     BoxScoreKind = "soccer"
)

// BoxScore is per-game detail. Exactly one payload is set, matching Kind.
// Hockey and basketball share the PeriodBox payload.
type BoxScore struct {
	Kind     BoxScoreKind
	Period   *PeriodBox
	Baseball *BaseballBox
	Soccer   *SoccerBox
}

// PeriodBox is the hockey/basketball shape.
type PeriodBox struct {
	LineScore *LineScore `json:"line_score,omitempty"`
	Shots     *Shots     `json:"shots,omitempty"`
	Scorers   []Scorer   `json:"scorers"`
	Goalies   []Goalie   `json:"goalies,omitempty"`
}

// LineScore holds per-period points for each side.
type LineScore struct {
	Away []int `json:"away"`
	Home []int `json:"home"`
}

// Shots holds shots on goal for each side.
type Shots struct {
	Away int `json:"away"`
	Home int `json:"home"`
}

// Scorer is a player line. Which stat fields are set depends on the sport:
// hockey sets Goals/Assists/Points, basketball sets Points/Rebounds/Assists
// and optionally the shooting splits.
type Scorer struct {
	Team     string `json:"team"`
	Name     string `json:"name"`
	Goals    *int   `json:"goals,omitempty"`
	Assists  *int   `json:"assists,omitempty"`
	Points   *int   `json:"points,omitempty"`
	Rebounds *int   `json:"rebounds,omitempty"`
	FGM      *int   `json:"fgm,omitempty"`
	FGA      *int   `json:"fga,omitempty"`
	FG3M     *int   `json:"fg3m,omitempty"`
	FG3A     *int   `json:"fg3a,omitempty"`
}

// Goalie is a goaltender line. SavePct is a percentage with one decimal.
type Goalie struct {
	Team    string  `json:"team"`
	Name    string  `json:"name"`
	Saves   int     `json:"saves"`
	Shots   int     `json:"shots"`
	SavePct float64 `json:"save_pct"`
}

// BaseballBox is the baseball shape.
type BaseballBox struct {
	LineScore    *InningLineScore `json:"line_score,omitempty"`
	AwayBatting  []Batter         `json:"away_batting"`
	HomeBatting  []Batter         `json:"home_batting"`
	AwayPitching []Pitcher        `json:"away_pitching"`
	HomePitching []Pitcher        `json:"home_pitching"`
	GameNotes    GameNotes        `json:"game_notes"`
}

// InningLineScore holds both teams' inning lines.
type InningLineScore struct {
	Away InningLine `json:"away"`
	Home InningLine `json:"home"`
}

// InningLine is runs by inning plus R/H/E totals.
type InningLine struct {
	Innings []int `json:"innings"`
	Runs    int   `json:"runs"`
	Hits    int   `json:"hits"`
	Errors  int   `json:"errors"`
}

// Batter is one batting line.
type Batter struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	AB       int    `json:"ab"`
	R        int    `json:"r"`
	H        int    `json:"h"`
	RBI      int    `json:"rbi"`
	BB       int    `json:"bb"`
	SO       int    `json:"so"`
	AVG      string `json:"avg"`
}

// Pitcher is one pitching line. Result is W, L, S, H or empty; Record is the
// season record, only set for W and L.
type Pitcher struct {
	Name   string `json:"name"`
	Result string `json:"result"`
	Record string `json:"record"`
	IP     string `json:"ip"`
	H      int    `json:"h"`
	R      int    `json:"r"`
	ER     int    `json:"er"`
	BB     int    `json:"bb"`
	SO     int    `json:"so"`
	NP     int    `json:"np"`
	ERA    string `json:"era"`
}

// GameNotes lists notable plays.
type GameNotes struct {
	HomeRuns    []string `json:"hr"`
	Doubles     []string `json:"2b"`
	Triples     []string `json:"3b"`
	StolenBases []string `json:"sb"`
	DoublePlays int      `json:"dp"`
}

// SoccerBox is the soccer shape.
type SoccerBox struct {
	HomeGoals []GoalEvent `json:"home_goals"`
	AwayGoals []GoalEvent `json:"away_goals"`
}

// GoalEvent is one goal.
type GoalEvent struct {
	Scorer string `json:"scorer"`
	Minute int    `json:"minute"`
	Assist string `json:"assist,omitempty"`
}

// NewHockeyBox returns a hockey box score.
func NewHockeyBox(p PeriodBox) *BoxScore {
	if p.Scorers == nil {
		p.Scorers = []Scorer{}
	}
	return &BoxScore{Kind: KindHockey, Period: &p}
}

// NewBasketballBox returns a basketball box score.
func NewBasketballBox(p PeriodBox) *BoxScore {
	if p.Scorers == nil {
		p.Scorers = []Scorer{}
	}
	return &BoxScore{Kind: KindBasketball, Period: &p}
}

// NewBaseballBox returns a baseball box score.
func NewBaseballBox(b BaseballBox) *BoxScore {
	b.AwayBatting = nonNil(b.AwayBatting)
	b.HomeBatting = nonNil(b.HomeBatting)
	b.AwayPitching = nonNil(b.AwayPitching)
	b.HomePitching = nonNil(b.HomePitching)
	b.GameNotes.HomeRuns = nonNil(b.GameNotes.HomeRuns)
	b.GameNotes.Doubles = nonNil(b.GameNotes.Doubles)
	b.GameNotes.Triples = nonNil(b.GameNotes.Triples)
	b.GameNotes.StolenBases = nonNil(b.GameNotes.StolenBases)
	return &BoxScore{Kind: KindBaseball, Baseball: &b}
}

// NewSoccerBox returns a soccer box score.
func NewSoccerBox(s SoccerBox) *BoxScore {
	s.HomeGoals = nonNil(s.HomeGoals)
	s.AwayGoals = nonNil(s.AwayGoals)
	return &BoxScore{Kind: KindSoccer, Soccer: &s}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// MarshalJSON writes the payload fields alongside a "kind" tag.
func (b BoxScore) MarshalJSON() ([]byte, error) {
	switch b.Kind {
	case KindHockey, KindBasketball:
		if b.Period == nil {
			return nil, fmt.Errorf("box score %s: missing period payload", b.Kind)
		}
		return json.Marshal(struct {
			Kind BoxScoreKind `json:"kind"`
			*PeriodBox
		}{b.Kind, b.Period})
	case KindBaseball:
		if b.Baseball == nil {
			return nil, fmt.Errorf("box score %s: missing baseball payload", b.Kind)
		}
		return json.Marshal(struct {
			Kind BoxScoreKind `json:"kind"`
			*BaseballBox
		}{b.Kind, b.Baseball})
	case KindSoccer:
		if b.Soccer == nil {
			return nil, fmt.Errorf("box score %s: missing soccer payload", b.Kind)
		}
		return json.Marshal(struct {
			Kind BoxScoreKind `json:"kind"`
			*SoccerBox
		}{b.Kind, b.Soccer})
	}
	return nil, fmt.Errorf("unknown box score kind %q", b.Kind)
}

// UnmarshalJSON reads a tagged box score. Artifacts written without a kind
// tag are classified by field presence: goal lists first, then batting
// lines, then the period line-score shape.
func (b *BoxScore) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decoding box score: %w", err)
	}

	kind := BoxScoreKind("")
	if raw, ok := fields["kind"]; ok {
		if err := json.Unmarshal(raw, &kind); err != nil {
			return fmt.Errorf("decoding box score kind: %w", err)
		}
	}
	switch kind {
	case KindHockey, KindBasketball, KindBaseball, KindSoccer:
	default:
		kind = inferKind(fields)
	}

	*b = BoxScore{Kind: kind}
	switch kind {
	case KindSoccer:
		var s SoccerBox
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding soccer box score: %w", err)
		}
		b.Soccer = NewSoccerBox(s).Soccer
	case KindBaseball:
		var bb BaseballBox
		if err := json.Unmarshal(data, &bb); err != nil {
			return fmt.Errorf("decoding baseball box score: %w", err)
		}
		b.Baseball = NewBaseballBox(bb).Baseball
	default:
		var p PeriodBox
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("decoding %s box score: %w", kind, err)
		}
		if p.Scorers == nil {
			p.Scorers = []Scorer{}
		}
		b.Period = &p
	}
	return nil
}

func inferKind(fields map[string]json.RawMessage) BoxScoreKind {
	if _, ok := fields["home_goals"]; ok {
		return KindSoccer
	}
	if _, ok := fields["away_goals"]; ok {
		return KindSoccer
	}
	if _, ok := fields["away_batting"]; ok {
		return KindBaseball
	}
	_, hasShots := fields["shots"]
	_, hasGoalies := fields["goalies"]
	if hasShots || hasGoalies {
		return KindHockey
	}
	return KindBasketball
}
