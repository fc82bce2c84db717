package database

import (
	"database/sql"
	"errors"
	"fmt"
)

// GetSetting returns the stored value for key and whether it was present.
func (db *DB) GetSetting(key string) (string, bool, error) {
	var value string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading setting %s: %w", key, err)
	}
	return value, true, nil
}

// PutSetting stores value under key, replacing any previous value.
func (db *DB) PutSetting(key, value string) error {
	return putSetting(db.conn, key, value)
}

// UpdateSetting reads the current value, passes it to fn and stores the
// result, all in one transaction. An error from fn aborts without writing.
func (db *DB) UpdateSetting(key string, fn func(current string, ok bool) (string, error)) (string, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return "", fmt.Errorf("begin update %s: %w", key, err)
	}
	defer tx.Rollback()

	var current string
	ok := true
	err = tx.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		ok = false
	} else if err != nil {
		return "", fmt.Errorf("reading setting %s: %w", key, err)
	}

	next, err := fn(current, ok)
	if err != nil {
		return "", err
	}
	if err := putSetting(tx, key, next); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit update %s: %w", key, err)
	}
	return next, nil
}

// DeleteSetting removes key. Missing keys are not an error.
func (db *DB) DeleteSetting(key string) error {
	if _, err := db.conn.Exec("DELETE FROM settings WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting setting %s: %w", key, err)
	}
	return nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func putSetting(ex execer, key, value string) error {
	_, err := ex.Exec(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("writing setting %s: %w", key, err)
	}
	return nil
}
