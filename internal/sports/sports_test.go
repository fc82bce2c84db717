package sports

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestBoxScoreKindTagIsAuthoritative(t *testing.T) {
	// A hockey payload that happens to carry no shots or goalies would be
	// inferred as basketball; the tag decides.
	raw := `{"kind":"hockey","scorers":[{"team":"BOS","name":"D. Pastrnak","goals":2,"assists":1,"points":3}]}`
	var box BoxScore
	if err := json.Unmarshal([]byte(raw), &box); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if box.Kind != KindHockey {
		t.Errorf("Kind = %q, want hockey", box.Kind)
	}
	if box.Period == nil || len(box.Period.Scorers) != 1 {
		t.Fatalf("Period = %+v, want one scorer", box.Period)
	}
	if g := box.Period.Scorers[0].Goals; g == nil || *g != 2 {
		t.Errorf("Goals = %v, want 2", g)
	}
}

func TestBoxScoreInferenceWithoutKind(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want BoxScoreKind
	}{
		{"soccer wins over batting", `{"home_goals":[],"away_batting":[]}`, KindSoccer},
		{"away goals only", `{"away_goals":[{"scorer":"Saka","minute":12}]}`, KindSoccer},
		{"baseball", `{"away_batting":[],"home_batting":[],"line_score":{"away":{"innings":[0]},"home":{"innings":[1]}}}`, KindBaseball},
		{"hockey by goalies", `{"scorers":[],"goalies":[]}`, KindHockey},
		{"hockey by shots", `{"scorers":[],"shots":{"away":30,"home":28}}`, KindHockey},
		{"basketball", `{"scorers":[],"line_score":{"away":[20,25],"home":[22,30]}}`, KindBasketball},
		{"unknown kind falls back", `{"kind":"cricket","home_goals":[]}`, KindSoccer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var box BoxScore
			if err := json.Unmarshal([]byte(tt.raw), &box); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if box.Kind != tt.want {
				t.Errorf("Kind = %q, want %q", box.Kind, tt.want)
			}
		})
	}
}

func TestBoxScoreMarshalWritesKindAndEmptyLists(t *testing.T) {
	data, err := json.Marshal(NewSoccerBox(SoccerBox{}))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got := string(data)
	for _, want := range []string{`"kind":"soccer"`, `"home_goals":[]`, `"away_goals":[]`} {
		if !strings.Contains(got, want) {
			t.Errorf("%s missing %s", got, want)
		}
	}

	data, err = json.Marshal(NewBaseballBox(BaseballBox{}))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"hr":[]`) {
		t.Errorf("baseball notes should serialize empty lists: %s", data)
	}
}

func TestBoxScoreMarshalRejectsMissingPayload(t *testing.T) {
	if _, err := json.Marshal(BoxScore{Kind: KindBaseball}); err == nil {
		t.Error("expected error for baseball kind without payload")
	}
	if _, err := json.Marshal(BoxScore{Kind: "cricket"}); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestSavePercentage(t *testing.T) {
	if got := SavePercentage(0, 0); got != 0 {
		t.Errorf("SavePercentage(0, 0) = %v, want 0", got)
	}
	if got := SavePercentage(28, 30); got != 93.3 {
		t.Errorf("SavePercentage(28, 30) = %v, want 93.3", got)
	}
}

func TestHasLineData(t *testing.T) {
	if HasLineData([]int{0, 0, 0}, []int{0, 0, 0}) {
		t.Error("all-zero line should report no data")
	}
	if HasLineData(nil, nil) {
		t.Error("empty lines should report no data")
	}
	if !HasLineData([]int{0, 1, 0}, []int{0, 0, 0}) {
		t.Error("a scored period should report data")
	}
}

func TestYesterdayUsesEasternDate(t *testing.T) {
	// 03:00 UTC on the 14th is still the 13th in New York.
	now := time.Date(2026, 3, 14, 3, 0, 0, 0, time.UTC)
	got := YesterdayOf(now, nil)
	if ISODate(got) != "2026-03-12" {
		t.Errorf("YesterdayOf = %s, want 2026-03-12", ISODate(got))
	}
	if got.Location() != Eastern {
		t.Errorf("Location = %v, want Eastern", got.Location())
	}
}

func TestYesterdayAcrossMonthBoundary(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, Eastern)
	if got := ISODate(YesterdayOf(now, Eastern)); got != "2026-02-28" {
		t.Errorf("YesterdayOf = %s, want 2026-02-28", got)
	}
}

func TestLabels(t *testing.T) {
	day := time.Date(2026, 3, 5, 0, 0, 0, 0, Eastern)
	if got := DateLabel(day); got != "Thursday, March 05, 2026" {
		t.Errorf("DateLabel = %q", got)
	}
	if got := DayLabel(day); got != "Thu" {
		t.Errorf("DayLabel = %q", got)
	}
	start := time.Date(2026, 3, 5, 23, 5, 0, 0, time.UTC)
	if got := TimeLabel(start); got != "06:05 PM ET" {
		t.Errorf("TimeLabel = %q, want 06:05 PM ET", got)
	}
}

func TestSeasonYears(t *testing.T) {
	tests := []struct {
		month     time.Month
		split     int
		startYear int
	}{
		{time.January, 2026, 2025},
		{time.July, 2026, 2025},
		{time.August, 2026, 2026},
		{time.October, 2027, 2026},
	}
	for _, tt := range tests {
		d := time.Date(2026, tt.month, 15, 0, 0, 0, 0, Eastern)
		if got := SplitSeasonYear(d); got != tt.split {
			t.Errorf("SplitSeasonYear(%s) = %d, want %d", tt.month, got, tt.split)
		}
		if got := StartSeasonYear(d); got != tt.startYear {
			t.Errorf("StartSeasonYear(%s) = %d, want %d", tt.month, got, tt.startYear)
		}
	}
}

func TestStatValueJSON(t *testing.T) {
	var values []StatValue
	if err := json.Unmarshal([]byte(`[27.7, ".331", null, 40]`), &values); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if values[0].IsText || values[0].Num != 27.7 {
		t.Errorf("values[0] = %+v, want number 27.7", values[0])
	}
	if !values[1].IsText || values[1].String() != ".331" {
		t.Errorf("values[1] = %+v, want text .331", values[1])
	}
	if values[2].IsText || values[2].Num != 0 {
		t.Errorf("null should decode to zero, got %+v", values[2])
	}
	if values[3].String() != "40" {
		t.Errorf("values[3].String() = %q, want 40", values[3].String())
	}

	out, err := json.Marshal(values)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != `[27.7,".331",0,40]` {
		t.Errorf("Marshal = %s", out)
	}
}

func TestParseDocumentReplacesNullLeagues(t *testing.T) {
	raw := `{"date_label":"Friday, March 13, 2026","generated_at":"2026-03-14T07:00:00Z","leagues":{"nhl":null,"nba":{"error":"timeout"}}}`
	doc, err := ParseDocument([]byte(raw))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	nhl := doc.Leagues[NHL]
	if nhl == nil || !nhl.Failed() {
		t.Fatalf("nhl = %+v, want error placeholder", nhl)
	}
	if !doc.Leagues[NBA].Failed() || doc.Leagues[NBA].GameCount() != 0 {
		t.Error("failed league should report zero games")
	}
}

func TestParseDocumentRejectsGarbage(t *testing.T) {
	if _, err := ParseDocument([]byte("not json")); err == nil {
		t.Error("expected error for malformed document")
	}
}

func TestNewDocument(t *testing.T) {
	now := time.Date(2026, 3, 14, 7, 0, 0, 0, Eastern)
	doc := NewDocument(now, YesterdayOf(now, Eastern))
	if doc.DateLabel != "Friday, March 13, 2026" {
		t.Errorf("DateLabel = %q", doc.DateLabel)
	}
	if doc.Leagues == nil {
		t.Error("Leagues should be initialized")
	}
}
