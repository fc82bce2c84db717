package database

import "database/sql"

// migration is one schema step, applied in its own transaction.
type migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations run in order; versions must increase.
var migrations = []migration{
	{
		Version:     1,
		Description: "settings and fetch run history",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS fetch_runs (
    id TEXT PRIMARY KEY,
    started_at TEXT NOT NULL,
    finished_at TEXT NOT NULL,
    date_label TEXT NOT NULL,
    artifact_path TEXT,
    league_count INTEGER DEFAULT 0,
    error_count INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS league_results (
    run_id TEXT NOT NULL REFERENCES fetch_runs(id) ON DELETE CASCADE,
    league TEXT NOT NULL,
    status TEXT NOT NULL,
    error TEXT,
    games INTEGER DEFAULT 0,
    duration_ms INTEGER DEFAULT 0,
    PRIMARY KEY (run_id, league)
);

CREATE INDEX IF NOT EXISTS idx_fetch_runs_started ON fetch_runs(started_at);
`)
			return err
		},
	},
	{
		Version:     2,
		Description: "headline counts per league result",
		Up: func(tx *sql.Tx) error {
			var n int
			err := tx.QueryRow(
				"SELECT COUNT(*) FROM pragma_table_info('league_results') WHERE name = 'headlines'",
			).Scan(&n)
			if err != nil || n > 0 {
				return err
			}
			_, err = tx.Exec("ALTER TABLE league_results ADD COLUMN headlines INTEGER DEFAULT 0")
			return err
		},
	},
}

// latestVersion returns the highest migration version number.
func latestVersion() int {
	return migrations[len(migrations)-1].Version
}
