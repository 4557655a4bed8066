package cmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Tiliavir/cedolino/internal/model"
	"github.com/Tiliavir/cedolino/internal/storage"
)

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{30, "30s"},
		{59, "59s"},
		{60, "1m 0s"},
		{90, "1m 30s"},
		{3600, "1h 0m 0s"},
		{3661, "1h 1m 1s"},
		{7322, "2h 2m 2s"},
	}
	for _, tt := range tests {
		got := formatElapsed(tt.seconds)
		if got != tt.want {
			t.Errorf("formatElapsed(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestPunchTime(t *testing.T) {
	now := time.Date(2025, 6, 30, 17, 42, 31, 0, time.UTC)

	got, err := punchTime("", now)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2025, 6, 30, 17, 42, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("punchTime(now) = %v, want %v", got, want)
	}

	got, err = punchTime("08:15", now)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2025, 6, 30, 8, 15, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("punchTime(08:15) = %v, want %v", got, want)
	}

	if _, err := punchTime("8.15", now); err == nil {
		t.Error("expected error for malformed --at")
	}
}

func TestIntervalStartAcrossMidnight(t *testing.T) {
	e := model.WorkEntry{Date: "2025-06-30"}
	since := intervalStart(e, model.Interval{Start: "22:00"}, time.UTC)
	now := time.Date(2025, 7, 1, 2, 0, 0, 0, time.UTC)
	if got := formatElapsed(int64(now.Sub(since).Seconds())); got != "4h 0m 0s" {
		t.Errorf("elapsed = %q, want 4h 0m 0s", got)
	}
}

func TestAppendNote(t *testing.T) {
	n := appendNote(nil, "first")
	if *n != "first" {
		t.Errorf("appendNote(nil) = %q", *n)
	}
	n = appendNote(n, "second")
	if *n != "first\nsecond" {
		t.Errorf("appendNote = %q", *n)
	}
}

func openEntry(t *testing.T, date, start string) (storage.Store, model.WorkEntry) {
	t.Helper()
	s := storage.NewJSONStore(t.TempDir())
	e := model.WorkEntry{Date: date, Work: []model.Interval{{Start: start}}}
	if err := s.Put(context.Background(), e); err != nil {
		t.Fatal(err)
	}
	return s, e
}

func TestCloseIntervalWrapsMidnight(t *testing.T) {
	s, e := openEntry(t, "2025-07-28", "22:00")
	stop := time.Date(2025, 7, 29, 6, 30, 0, 0, time.Local)

	got, err := closeInterval(context.Background(), s, e, 0, stop)
	if err != nil {
		t.Fatal(err)
	}
	if got.Date != "2025-07-28" || got.Work[0].End != "06:30" {
		t.Errorf("closed interval = %s %+v, want 2025-07-28 22:00-06:30", got.Date, got.Work[0])
	}
}

func TestCloseIntervalRejectsLongShift(t *testing.T) {
	s, e := openEntry(t, "2025-07-28", "08:00")

	for _, stop := range []time.Time{
		time.Date(2025, 7, 29, 8, 0, 0, 0, time.Local),
		time.Date(2025, 7, 31, 9, 0, 0, 0, time.Local),
	} {
		_, err := closeInterval(context.Background(), s, e, 0, stop)
		if !errors.Is(err, errShiftTooLong) {
			t.Errorf("closeInterval at %v: err = %v, want errShiftTooLong", stop, err)
		}
	}

	stored, err := s.Get(context.Background(), time.Date(2025, 7, 28, 0, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatal(err)
	}
	if !stored.Work[0].Open() {
		t.Errorf("interval = %+v, want it still open", stored.Work[0])
	}
}

func TestCloseIntervalRejectsStopBeforeStart(t *testing.T) {
	s, e := openEntry(t, "2025-07-28", "08:00")
	stop := time.Date(2025, 7, 28, 7, 30, 0, 0, time.Local)
	if _, err := closeInterval(context.Background(), s, e, 0, stop); err == nil {
		t.Error("expected error for a stop before the start")
	}
}
