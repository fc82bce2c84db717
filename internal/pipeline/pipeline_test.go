package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/TobiSchelling/sportspage/internal/collect"
	"github.com/TobiSchelling/sportspage/internal/config"
	"github.com/TobiSchelling/sportspage/internal/database"
	"github.com/TobiSchelling/sportspage/internal/sports"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Output.DataDir = t.TempDir()
	cfg.Fetch.TimeoutSeconds = 5
	return cfg
}

func okSource(key string, games int) collect.Source {
	return collect.Source{Key: key, Fetch: func(_ context.Context, yesterday time.Time) (*sports.LeagueData, error) {
		data := sports.ErrorLeague("")
		data.Yesterday.Date = sports.ISODate(yesterday)
		for i := 0; i < games; i++ {
			data.Yesterday.Games = append(data.Yesterday.Games, sports.Game{Status: "Final"})
		}
		return data, nil
	}}
}

func testSources() []collect.Source {
	return []collect.Source{
		okSource("mlb", 3),
		{Key: "nhl", Fetch: func(context.Context, time.Time) (*sports.LeagueData, error) {
			return nil, errors.New("upstream returned 503")
		}},
		{Key: "nba", Fetch: func(context.Context, time.Time) (*sports.LeagueData, error) {
			panic("index out of range")
		}},
		okSource("epl", 0),
	}
}

// 03:00 Eastern on Saturday, March 14, 2026.
var runTime = time.Date(2026, 3, 14, 7, 0, 0, 0, time.UTC)

func checkAssembled(t *testing.T, doc *sports.Document, results []LeagueResult) {
	t.Helper()
	if doc.DateLabel != "Friday, March 13, 2026" {
		t.Errorf("expected yesterday's label, got %q", doc.DateLabel)
	}
	if len(doc.Leagues) != 4 {
		t.Fatalf("expected 4 leagues, got %d", len(doc.Leagues))
	}
	if doc.Leagues["mlb"].Failed() || len(doc.Leagues["mlb"].Yesterday.Games) != 3 {
		t.Errorf("unexpected mlb data: %+v", doc.Leagues["mlb"])
	}
	if doc.Leagues["mlb"].Yesterday.Date != "2026-03-13" {
		t.Errorf("expected yesterday passed to adapter, got %q", doc.Leagues["mlb"].Yesterday.Date)
	}
	if !strings.Contains(doc.Leagues["nhl"].Error, "503") {
		t.Errorf("expected nhl error recorded, got %q", doc.Leagues["nhl"].Error)
	}
	if !strings.Contains(doc.Leagues["nba"].Error, "panicked") {
		t.Errorf("expected nba panic recorded, got %q", doc.Leagues["nba"].Error)
	}
	if doc.Leagues["epl"].Failed() {
		t.Error("expected epl with no games to succeed")
	}

	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, key := range []string{"mlb", "nhl", "nba", "epl"} {
		if results[i].Key != key {
			t.Errorf("result %d: expected %s, got %s", i, key, results[i].Key)
		}
	}
	if results[1].Err == nil || results[2].Err == nil || results[0].Err != nil {
		t.Errorf("unexpected result errors: %+v", results)
	}
}

func TestAssembleParallel(t *testing.T) {
	p := NewWithSources(testConfig(t), nil, testSources())
	doc, results := p.Assemble(context.Background(), runTime)
	checkAssembled(t, doc, results)
}

func TestAssembleSequential(t *testing.T) {
	cfg := testConfig(t)
	cfg.Fetch.Parallel = false
	p := NewWithSources(cfg, nil, testSources())
	doc, results := p.Assemble(context.Background(), runTime)
	checkAssembled(t, doc, results)
}

func TestAssembleTimeout(t *testing.T) {
	cfg := testConfig(t)
	cfg.Fetch.TimeoutSeconds = 1
	slow := collect.Source{Key: "nhl", Fetch: func(ctx context.Context, _ time.Time) (*sports.LeagueData, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	p := NewWithSources(cfg, nil, []collect.Source{slow})
	doc, _ := p.Assemble(context.Background(), runTime)
	if !strings.Contains(doc.Leagues["nhl"].Error, "deadline") {
		t.Errorf("expected deadline error, got %q", doc.Leagues["nhl"].Error)
	}
}

func TestRunWritesArtifactAndRecords(t *testing.T) {
	cfg := testConfig(t)
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	p := NewWithSources(cfg, db, testSources())
	p.now = func() time.Time { return runTime }

	r, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if r.Failed() != 2 {
		t.Errorf("expected 2 failed leagues, got %d", r.Failed())
	}
	if len(r.Steps) != 3 {
		t.Errorf("expected 3 steps, got %d", len(r.Steps))
	}

	doc, err := ReadArtifact(cfg.ArtifactPath())
	if err != nil {
		t.Fatalf("ReadArtifact: %v", err)
	}
	if doc.DateLabel != "Friday, March 13, 2026" || len(doc.Leagues) != 4 {
		t.Errorf("unexpected artifact: %+v", doc)
	}

	last, err := db.GetLastRun()
	if err != nil || last == nil {
		t.Fatalf("expected recorded run, got %v %v", last, err)
	}
	if last.ID != r.RunID || last.ErrorCount != 2 || last.LeagueCount != 4 {
		t.Errorf("unexpected run row: %+v", last)
	}
	rows, _ := db.GetLeagueResults(r.RunID)
	if len(rows) != 4 {
		t.Errorf("expected 4 league rows, got %d", len(rows))
	}
}

func TestWriteArtifactReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sports_data.json")
	first := sports.NewDocument(runTime, runTime)
	first.Leagues["nhl"] = sports.ErrorLeague("old")
	if err := WriteArtifact(path, first); err != nil {
		t.Fatalf("first write: %v", err)
	}

	second := sports.NewDocument(runTime, runTime)
	second.Leagues["mlb"] = sports.ErrorLeague("new")
	if err := WriteArtifact(path, second); err != nil {
		t.Fatalf("second write: %v", err)
	}

	doc, err := ReadArtifact(path)
	if err != nil {
		t.Fatalf("ReadArtifact: %v", err)
	}
	if _, ok := doc.Leagues["nhl"]; ok {
		t.Error("expected previous artifact fully replaced")
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected no temp files left behind, got %d entries", len(entries))
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n  \"date_label\"") {
		t.Error("expected two-space indented JSON")
	}
}

func TestReadArtifactMissing(t *testing.T) {
	_, err := ReadArtifact(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestSampleDocumentRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.json")
	if err := WriteArtifact(path, SampleDocument(runTime)); err != nil {
		t.Fatalf("WriteArtifact: %v", err)
	}
	doc, err := ReadArtifact(path)
	if err != nil {
		t.Fatalf("ReadArtifact: %v", err)
	}

	want := map[string]sports.BoxScoreKind{
		"mlb": sports.KindBaseball,
		"nhl": sports.KindHockey,
		"nba": sports.KindBasketball,
		"epl": sports.KindSoccer,
	}
	for key, kind := range want {
		games := doc.Leagues[key].Yesterday.Games
		if len(games) == 0 || games[0].BoxScore == nil {
			t.Fatalf("%s: expected a game with a box score", key)
		}
		if games[0].BoxScore.Kind != kind {
			t.Errorf("%s: expected %s, got %s", key, kind, games[0].BoxScore.Kind)
		}
	}

	pitcher := doc.Leagues["mlb"].Yesterday.Games[0].BoxScore.Baseball.AwayPitching[0]
	if pitcher.Result != "W" || pitcher.Record != "12-4" {
		t.Errorf("unexpected winning pitcher: %+v", pitcher)
	}
}
