package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Tiliavir/cedolino/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS work_entries (
	date       TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLiteStore keeps one row per date with the entry as a JSON payload.
// ISO dates sort lexically, so ranges are plain BETWEEN queries.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("%w creating directory: %w", ErrStorage, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w opening %s: %w", ErrStorage, path, err)
	}
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{"PRAGMA busy_timeout = 5000", "PRAGMA journal_mode = WAL"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: %s: %w", ErrStorage, pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w creating schema: %w", ErrStorage, err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, day time.Time) (model.WorkEntry, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM work_entries WHERE date = ?`, dateKey(day)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.WorkEntry{}, ErrNotFound
	}
	if err != nil {
		return model.WorkEntry{}, fmt.Errorf("%w querying %s: %w", ErrStorage, dateKey(day), err)
	}
	return decode(dateKey(day), payload)
}

func (s *SQLiteStore) Put(ctx context.Context, e model.WorkEntry) error {
	if err := validate(e); err != nil {
		return err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("%w marshalling JSON: %w", ErrStorage, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO work_entries (date, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		e.Date, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("%w writing %s: %w", ErrStorage, e.Date, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, day time.Time) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM work_entries WHERE date = ?`, dateKey(day))
	if err != nil {
		return fmt.Errorf("%w deleting %s: %w", ErrStorage, dateKey(day), err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Range(ctx context.Context, from, to time.Time) ([]model.WorkEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, payload FROM work_entries WHERE date BETWEEN ? AND ? ORDER BY date`,
		dateKey(from), dateKey(to))
	if err != nil {
		return nil, fmt.Errorf("%w querying range: %w", ErrStorage, err)
	}
	defer rows.Close()

	var entries []model.WorkEntry
	for rows.Next() {
		var date, payload string
		if err := rows.Scan(&date, &payload); err != nil {
			return nil, fmt.Errorf("%w scanning row: %w", ErrStorage, err)
		}
		e, err := decode(date, payload)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w iterating rows: %w", ErrStorage, err)
	}
	return entries, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func decode(date, payload string) (model.WorkEntry, error) {
	var e model.WorkEntry
	if err := json.Unmarshal([]byte(payload), &e); err != nil {
		return model.WorkEntry{}, fmt.Errorf("%w: corrupt payload for %s: %w", ErrStorage, date, err)
	}
	return e, nil
}
