package msgraph

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Tiliavir/cedolino/internal/model"
	"github.com/Tiliavir/cedolino/internal/storage"
	"github.com/Tiliavir/cedolino/internal/timecalc"
)

// SourceOutlook marks entries created by an Outlook import.
const SourceOutlook = "outlook"

// SyncResult holds counters for a sync operation.
type SyncResult struct {
	Imported int
	Skipped  int
	Ignored  int
	Errors   int
}

// SyncOptions configures a sync run.
type SyncOptions struct {
	Store           storage.Store
	From            time.Time
	To              time.Time
	DryRun          bool
	Timezone        string
	WorkCategory    string
	StandbyCategory string
	// Out receives one progress line per event. Nil discards them.
	Out io.Writer
}

// EventKind is what an event becomes on import.
type EventKind int

const (
	EventIgnored EventKind = iota
	EventWork
	EventStandby
)

// parseGraphTime parses a Graph API dateTime string in the given timezone.
// Graph returns times like "2025-06-30T09:00:00.0000000" without a zone suffix
// when a Prefer: outlook.timezone header is set.
func parseGraphTime(dt, tz string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, dt); err == nil {
		return t, nil
	}

	loc := time.UTC
	if tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, dt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse graph time %q", dt)
}

// Classify decides what an event becomes. Cancelled, private and free events
// are never imported. All-day events only count as standby.
func Classify(event CalendarEvent, workCategory, standbyCategory string) EventKind {
	switch {
	case event.IsCancelled,
		event.Sensitivity == "private",
		event.ShowAs == "free",
		event.Start.DateTime == "" || event.End.DateTime == "":
		return EventIgnored
	case event.HasCategory(standbyCategory):
		return EventStandby
	case event.IsAllDay:
		return EventIgnored
	case event.HasCategory(workCategory):
		return EventWork
	}
	return EventIgnored
}

// MapEventToInterval converts a timed event into a work interval on the day
// it starts. An event ending after midnight becomes a wrapping interval.
func MapEventToInterval(event CalendarEvent, timezone string) (time.Time, model.Interval, error) {
	start, end, err := eventTimes(event, timezone)
	if err != nil {
		return time.Time{}, model.Interval{}, err
	}
	if !end.After(start) {
		return time.Time{}, model.Interval{}, fmt.Errorf("event ends before it starts")
	}
	if end.Sub(start) >= 24*time.Hour {
		return time.Time{}, model.Interval{}, fmt.Errorf("event lasts %s, longer than a day", end.Sub(start))
	}
	iv := model.Interval{Start: timecalc.Clock(start), End: timecalc.Clock(end)}
	return timecalc.DateOnly(start), iv, nil
}

// StandbyDays returns the days a standby event covers. An all-day event
// covers [start, end) by date; a timed event covers the day it starts.
func StandbyDays(event CalendarEvent, timezone string) ([]time.Time, error) {
	start, end, err := eventTimes(event, timezone)
	if err != nil {
		return nil, err
	}
	first := timecalc.DateOnly(start)
	if !event.IsAllDay {
		return []time.Time{first}, nil
	}
	var days []time.Time
	for d := first; d.Before(timecalc.DateOnly(end)); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	if len(days) == 0 {
		days = append(days, first)
	}
	return days, nil
}

func eventTimes(event CalendarEvent, timezone string) (time.Time, time.Time, error) {
	start, err := parseGraphTime(event.Start.DateTime, timezone)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing start time: %w", err)
	}
	end, err := parseGraphTime(event.End.DateTime, timezone)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing end time: %w", err)
	}
	return start, end, nil
}

type syncer struct {
	ctx    context.Context
	opts   SyncOptions
	out    io.Writer
	result SyncResult
}

// SyncEvents merges events into the stored work entries. Work events add an
// interval unless an identical one exists; standby events set the standby
// flag. Re-running a sync changes nothing. Manual data on the same day is
// kept as is.
func SyncEvents(ctx context.Context, events []CalendarEvent, opts SyncOptions) (SyncResult, error) {
	if opts.Store == nil {
		return SyncResult{}, errors.New("sync: no store")
	}
	s := &syncer{ctx: ctx, opts: opts, out: opts.Out}
	if s.out == nil {
		s.out = io.Discard
	}

	for _, event := range events {
		if err := ctx.Err(); err != nil {
			return s.result, err
		}
		switch Classify(event, opts.WorkCategory, opts.StandbyCategory) {
		case EventWork:
			day, iv, err := MapEventToInterval(event, opts.Timezone)
			if err != nil {
				s.fail(event.Subject, err)
				continue
			}
			if !s.inRange(day) {
				s.result.Ignored++
				continue
			}
			label := fmt.Sprintf("%s %s (%s–%s)", day.Format(model.DateLayout), event.Subject, iv.Start, iv.End)
			s.apply(day, label, func(e *model.WorkEntry) bool {
				for _, w := range e.Work {
					if w.Start == iv.Start && w.End == iv.End {
						return false
					}
				}
				e.Work = append(e.Work, iv)
				return true
			})
		case EventStandby:
			days, err := StandbyDays(event, opts.Timezone)
			if err != nil {
				s.fail(event.Subject, err)
				continue
			}
			for _, day := range days {
				if !s.inRange(day) {
					continue
				}
				label := fmt.Sprintf("%s standby (%s)", day.Format(model.DateLayout), event.Subject)
				s.apply(day, label, func(e *model.WorkEntry) bool {
					if e.Standby {
						return false
					}
					e.Standby = true
					return true
				})
			}
		default:
			s.result.Ignored++
		}
	}
	return s.result, nil
}

func (s *syncer) inRange(day time.Time) bool {
	if s.opts.From.IsZero() || s.opts.To.IsZero() {
		return true
	}
	return timecalc.InRange(day, s.opts.From, s.opts.To)
}

func (s *syncer) fail(subject string, err error) {
	fmt.Fprintf(s.out, "  ! Error importing %q: %v\n", subject, err)
	s.result.Errors++
}

// apply loads the day's entry, lets change modify it and stores it unless
// change reports that nothing was needed.
func (s *syncer) apply(day time.Time, label string, change func(*model.WorkEntry) bool) {
	e, err := s.opts.Store.Get(s.ctx, day)
	if errors.Is(err, storage.ErrNotFound) {
		e = model.NewWorkEntry(day)
		e.Source = SourceOutlook
	} else if err != nil {
		s.fail(label, err)
		return
	}

	if !change(&e) {
		fmt.Fprintf(s.out, "  – Skipped:  %s (already exists)\n", label)
		s.result.Skipped++
		return
	}
	if !s.opts.DryRun {
		if err := s.opts.Store.Put(s.ctx, e); err != nil {
			s.fail(label, err)
			return
		}
	}
	fmt.Fprintf(s.out, "  ✓ Imported: %s\n", label)
	s.result.Imported++
}
