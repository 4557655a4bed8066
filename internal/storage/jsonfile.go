package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Tiliavir/cedolino/internal/model"
	"github.com/Tiliavir/cedolino/internal/timecalc"
)

// JSONStore keeps one JSON file per day under base/YYYY/MM/DD.json.
type JSONStore struct {
	base string
}

// NewJSONStore returns a JSONStore rooted at base. The directory is created
// on first write.
func NewJSONStore(base string) *JSONStore {
	return &JSONStore{base: base}
}

// dayFilePath returns the path for the given date's JSON file.
func (s *JSONStore) dayFilePath(t time.Time) string {
	return filepath.Join(s.base, t.Format("2006"), t.Format("01"), t.Format("02")+".json")
}

// Get loads the entry for day. A file that fails to parse is moved aside to
// a .corrupt backup and reported as an error.
func (s *JSONStore) Get(_ context.Context, day time.Time) (model.WorkEntry, error) {
	path := s.dayFilePath(day)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return model.WorkEntry{}, ErrNotFound
	}
	if err != nil {
		return model.WorkEntry{}, fmt.Errorf("%w reading %s: %w", ErrStorage, path, err)
	}

	var e model.WorkEntry
	if err := json.Unmarshal(data, &e); err != nil {
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return model.WorkEntry{}, fmt.Errorf("%w: corrupt JSON in %s (backed up to %s): %w", ErrStorage, path, backupPath, err)
	}
	return e, nil
}

// Put atomically writes the entry's day file.
func (s *JSONStore) Put(_ context.Context, e model.WorkEntry) error {
	if err := validate(e); err != nil {
		return err
	}
	day, _ := e.Day()
	path := s.dayFilePath(day)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("%w creating directories: %w", ErrStorage, err)
	}

	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("%w marshalling JSON: %w", ErrStorage, err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("%w writing temp file: %w", ErrStorage, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w renaming temp file: %w", ErrStorage, err)
	}
	return nil
}

// Delete removes the day file.
func (s *JSONStore) Delete(_ context.Context, day time.Time) error {
	path := s.dayFilePath(day)
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w removing %s: %w", ErrStorage, path, err)
	}
	return nil
}

// Range loads every existing day file in [from, to] inclusive.
func (s *JSONStore) Range(ctx context.Context, from, to time.Time) ([]model.WorkEntry, error) {
	var entries []model.WorkEntry
	for d := timecalc.DateOnly(from); !d.After(timecalc.DateOnly(to)); d = d.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e, err := s.Get(ctx, d)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Close is a no-op; every call opens and closes its own file.
func (s *JSONStore) Close() error { return nil }
