// Package storage persists WorkEntries, one per calendar date.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Tiliavir/cedolino/internal/model"
)

var (
	// ErrNotFound is returned when no entry exists for a date.
	ErrNotFound = errors.New("entry not found")
	// ErrStorage wraps every I/O or encoding failure of a backend.
	ErrStorage = errors.New("storage error")
	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Store is a date-keyed repository of work entries. Dates are compared as
// calendar days; time of day and location are ignored.
type Store interface {
	// Get returns the entry for day or ErrNotFound.
	Get(ctx context.Context, day time.Time) (model.WorkEntry, error)
	// Put creates or replaces the entry for entry.Date.
	Put(ctx context.Context, entry model.WorkEntry) error
	// Delete removes the entry for day or returns ErrNotFound.
	Delete(ctx context.Context, day time.Time) error
	// Range returns the entries in [from, to] inclusive, sorted by date.
	Range(ctx context.Context, from, to time.Time) ([]model.WorkEntry, error)
	Close() error
}

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Open returns the named backend rooted at dataDir.
func Open(backend, dataDir string) (Store, error) {
	switch backend {
	case BackendJSON, "":
		return NewJSONStore(filepath.Join(dataDir, "entries")), nil
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dataDir, "cedolino.db"))
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}

// Load returns the entry for day, or an empty entry when none is stored yet.
func Load(ctx context.Context, s Store, day time.Time) (model.WorkEntry, error) {
	e, err := s.Get(ctx, day)
	if errors.Is(err, ErrNotFound) {
		return model.NewWorkEntry(day), nil
	}
	return e, err
}

// Update loads the entry for day (empty if missing), applies fn and stores
// the result. Nothing is written when fn fails.
func Update(ctx context.Context, s Store, day time.Time, fn func(*model.WorkEntry) error) (model.WorkEntry, error) {
	e, err := Load(ctx, s, day)
	if err != nil {
		return model.WorkEntry{}, err
	}
	if err := fn(&e); err != nil {
		return model.WorkEntry{}, err
	}
	if err := s.Put(ctx, e); err != nil {
		return model.WorkEntry{}, err
	}
	return e, nil
}

// FindOpen searches the entries of the last week, most recent first, for an
// open work interval. It returns the entry and the interval index, or
// ErrNotFound. Looking back covers a shift left open across midnight.
func FindOpen(ctx context.Context, s Store, now time.Time) (model.WorkEntry, int, error) {
	for i := 0; i < 7; i++ {
		e, err := s.Get(ctx, now.AddDate(0, 0, -i))
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return model.WorkEntry{}, -1, err
		}
		if idx := e.OpenInterval(); idx >= 0 {
			return e, idx, nil
		}
	}
	return model.WorkEntry{}, -1, ErrNotFound
}

func dateKey(day time.Time) string {
	return day.Format(model.DateLayout)
}

func validate(e model.WorkEntry) error {
	if _, err := e.Day(); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}
