package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TobiSchelling/sportspage/internal/collect"
	"github.com/TobiSchelling/sportspage/internal/config"
	"github.com/TobiSchelling/sportspage/internal/database"
	"github.com/TobiSchelling/sportspage/internal/sports"
)

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// LeagueResult is the outcome of one league fetch.
type LeagueResult struct {
	Key       string
	Err       error
	Games     int
	Headlines int
	Duration  time.Duration
}

// Result holds the results of a full pipeline run.
type Result struct {
	RunID        string
	Document     *sports.Document
	ArtifactPath string
	Leagues      []LeagueResult
	Steps        []StepResult
}

// Failed returns the number of leagues whose fetch failed.
func (r *Result) Failed() int {
	n := 0
	for _, l := range r.Leagues {
		if l.Err != nil {
			n++
		}
	}
	return n
}

// Pipeline fetches every enabled league and writes the document artifact.
type Pipeline struct {
	cfg     *config.Config
	db      *database.DB
	sources []collect.Source
	now     func() time.Time
}

// New creates a pipeline over the leagues enabled in cfg. db may be nil, in
// which case runs are not recorded.
func New(cfg *config.Config, db *database.DB) *Pipeline {
	return NewWithSources(cfg, db, collect.Sources(cfg))
}

// NewWithSources creates a pipeline over an explicit set of sources.
func NewWithSources(cfg *config.Config, db *database.DB, sources []collect.Source) *Pipeline {
	return &Pipeline{cfg: cfg, db: db, sources: sources, now: time.Now}
}

// Run fetches all leagues, writes the artifact and records the run.
// Per-league failures are carried in the document; the returned error is
// set only when the artifact could not be written.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	loc := p.cfg.Location()
	started := p.now().In(loc)
	r := &Result{RunID: uuid.NewString(), ArtifactPath: p.cfg.ArtifactPath()}

	// Step 1: Fetch
	log.Printf("Step 1/3: Fetching %d leagues...", len(p.sources))
	r.Document, r.Leagues = p.Assemble(ctx, started)
	r.Steps = append(r.Steps, StepResult{
		Name:    "Fetch",
		Summary: fmt.Sprintf("%d leagues fetched, %d failed", len(r.Leagues), r.Failed()),
	})

	// Step 2: Write
	log.Println("Step 2/3: Writing artifact...")
	if err := WriteArtifact(r.ArtifactPath, r.Document); err != nil {
		r.Steps = append(r.Steps, StepResult{Name: "Write", Err: err})
		return r, err
	}
	r.Steps = append(r.Steps, StepResult{Name: "Write", Summary: "Wrote " + r.ArtifactPath})

	// Step 3: Record
	if p.db == nil {
		return r, nil
	}
	log.Println("Step 3/3: Recording run...")
	finished := p.now().In(loc)
	if err := p.record(r, started, finished); err != nil {
		r.Steps = append(r.Steps, StepResult{Name: "Record", Err: err})
		return r, nil
	}
	r.Steps = append(r.Steps, StepResult{Name: "Record", Summary: "Run " + r.RunID})
	return r, nil
}

// Assemble runs every source and collects the results into a document.
// Each source runs under its own timeout; an error or panic becomes that
// league's error entry.
func (p *Pipeline) Assemble(ctx context.Context, now time.Time) (*sports.Document, []LeagueResult) {
	loc := p.cfg.Location()
	yesterday := sports.YesterdayOf(now, loc)
	doc := sports.NewDocument(now.In(loc), yesterday)

	results := make([]LeagueResult, len(p.sources))
	var mu sync.Mutex
	runOne := func(i int, src collect.Source) {
		start := time.Now()
		data, err := p.fetchLeague(ctx, src, yesterday)
		if err != nil {
			log.Printf("✗ %s fetch failed: %v", src.Key, err)
			data = sports.ErrorLeague(err.Error())
		} else {
			log.Printf("✓ %s fetched: %d games", src.Key, data.GameCount())
		}

		mu.Lock()
		doc.Leagues[src.Key] = data
		mu.Unlock()
		results[i] = LeagueResult{
			Key:       src.Key,
			Err:       err,
			Games:     data.GameCount(),
			Headlines: len(data.Headlines),
			Duration:  time.Since(start),
		}
	}

	if !p.cfg.Fetch.Parallel {
		for i, src := range p.sources {
			runOne(i, src)
		}
		return doc, results
	}

	var wg sync.WaitGroup
	for i, src := range p.sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runOne(i, src)
		}()
	}
	wg.Wait()
	return doc, results
}

func (p *Pipeline) fetchLeague(ctx context.Context, src collect.Source, yesterday time.Time) (data *sports.LeagueData, err error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.FetchTimeout())
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			data, err = nil, fmt.Errorf("%s adapter panicked: %v", src.Key, rec)
		}
	}()

	data, err = src.Fetch(ctx, yesterday)
	if err == nil && data == nil {
		err = fmt.Errorf("%s adapter returned no data", src.Key)
	}
	return data, err
}

func (p *Pipeline) record(r *Result, started, finished time.Time) error {
	artifact := r.ArtifactPath
	run := database.FetchRun{
		ID:           r.RunID,
		StartedAt:    started.Format(time.RFC3339),
		FinishedAt:   finished.Format(time.RFC3339),
		DateLabel:    r.Document.DateLabel,
		ArtifactPath: &artifact,
		LeagueCount:  len(r.Leagues),
		ErrorCount:   r.Failed(),
	}
	rows := make([]database.LeagueResult, 0, len(r.Leagues))
	for _, l := range r.Leagues {
		row := database.LeagueResult{
			League:     l.Key,
			Status:     database.StatusOK,
			Games:      l.Games,
			Headlines:  l.Headlines,
			DurationMS: l.Duration.Milliseconds(),
		}
		if l.Err != nil {
			msg := l.Err.Error()
			row.Status = database.StatusError
			row.Error = &msg
		}
		rows = append(rows, row)
	}
	if err := p.db.InsertRun(run, rows); err != nil {
		return err
	}
	if keep := p.cfg.Output.KeepRuns; keep > 0 {
		if n, err := p.db.PruneRuns(keep); err != nil {
			log.Printf("pruning run history: %v", err)
		} else if n > 0 {
			log.Printf("pruned %d old runs", n)
		}
	}
	return nil
}

// WriteArtifact replaces the artifact at path with doc. The document is
// written to a temporary file in the same directory and renamed into place,
// so readers see either the old or the new artifact in full.
func WriteArtifact(path string, doc *sports.Document) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating artifact directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding sports document: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".sports_data-*.json")
	if err != nil {
		return fmt.Errorf("creating temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp artifact: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("setting artifact mode: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing artifact: %w", err)
	}
	return nil
}

// ReadArtifact loads the document at path.
func ReadArtifact(path string) (*sports.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading artifact: %w", err)
	}
	return sports.ParseDocument(data)
}
