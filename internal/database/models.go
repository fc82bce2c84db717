package database

// Run status values for a league result.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// FetchRun is one recorded fetch pipeline run.
type FetchRun struct {
	ID           string
	StartedAt    string
	FinishedAt   string
	DateLabel    string
	ArtifactPath *string
	LeagueCount  int
	ErrorCount   int
}

// LeagueResult is the outcome of one league within a run.
type LeagueResult struct {
	RunID      string
	League     string
	Status     string
	Error      *string
	Games      int
	Headlines  int
	DurationMS int64
}

// Stats contains aggregate database statistics.
type Stats struct {
	Runs          int
	FailedLeagues int
	GamesRecorded int
	Settings      int
}
