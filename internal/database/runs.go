package database

import (
	"database/sql"
	"errors"
	"fmt"
)

// InsertRun records a fetch run and its per-league results in one transaction.
func (db *DB) InsertRun(run FetchRun, results []LeagueResult) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin insert run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO fetch_runs (id, started_at, finished_at, date_label, artifact_path, league_count, error_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt, run.FinishedAt, run.DateLabel, run.ArtifactPath, run.LeagueCount, run.ErrorCount)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}

	for _, r := range results {
		_, err := tx.Exec(`
			INSERT INTO league_results (run_id, league, status, error, games, headlines, duration_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, run.ID, r.League, r.Status, r.Error, r.Games, r.Headlines, r.DurationMS)
		if err != nil {
			return fmt.Errorf("inserting %s result: %w", r.League, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", run.ID, err)
	}
	return nil
}

// GetLastRun returns the most recent run, or nil if none has been recorded.
func (db *DB) GetLastRun() (*FetchRun, error) {
	var r FetchRun
	err := db.conn.QueryRow(`
		SELECT id, started_at, finished_at, date_label, artifact_path, league_count, error_count
		FROM fetch_runs ORDER BY started_at DESC LIMIT 1
	`).Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.DateLabel, &r.ArtifactPath, &r.LeagueCount, &r.ErrorCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading last run: %w", err)
	}
	return &r, nil
}

// GetLeagueResults returns the league results of a run in league order.
func (db *DB) GetLeagueResults(runID string) ([]LeagueResult, error) {
	rows, err := db.conn.Query(`
		SELECT run_id, league, status, error, games, headlines, duration_ms
		FROM league_results WHERE run_id = ? ORDER BY league
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying league results: %w", err)
	}
	defer rows.Close()

	var results []LeagueResult
	for rows.Next() {
		var r LeagueResult
		if err := rows.Scan(&r.RunID, &r.League, &r.Status, &r.Error, &r.Games, &r.Headlines, &r.DurationMS); err != nil {
			return nil, fmt.Errorf("scanning league result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// PruneRuns deletes all but the newest keep runs along with their results.
func (db *DB) PruneRuns(keep int) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin prune: %w", err)
	}
	defer tx.Rollback()

	const stale = `SELECT id FROM fetch_runs WHERE id NOT IN (
		SELECT id FROM fetch_runs ORDER BY started_at DESC LIMIT ?)`
	if _, err := tx.Exec("DELETE FROM league_results WHERE run_id IN ("+stale+")", keep); err != nil {
		return 0, fmt.Errorf("pruning league results: %w", err)
	}
	res, err := tx.Exec("DELETE FROM fetch_runs WHERE id IN ("+stale+")", keep)
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	n, _ := res.RowsAffected()
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit prune: %w", err)
	}
	return n, nil
}

// GetStats returns aggregate database statistics.
func (db *DB) GetStats() (*Stats, error) {
	var s Stats
	queries := []struct {
		sql  string
		dest *int
	}{
		{"SELECT COUNT(*) FROM fetch_runs", &s.Runs},
		{"SELECT COUNT(*) FROM league_results WHERE status = 'error'", &s.FailedLeagues},
		{"SELECT COALESCE(SUM(games), 0) FROM league_results", &s.GamesRecorded},
		{"SELECT COUNT(*) FROM settings", &s.Settings},
	}
	for _, q := range queries {
		if err := db.conn.QueryRow(q.sql).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("stats query: %w", err)
		}
	}
	return &s, nil
}
