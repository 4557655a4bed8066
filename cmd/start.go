package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/cedolino/internal/model"
	"github.com/Tiliavir/cedolino/internal/storage"
	"github.com/Tiliavir/cedolino/internal/timecalc"
)

var startAt string

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Punch in: open a work interval on today's entry",
	Args:  cobra.NoArgs,
	RunE:  runStart,
}

func init() {
	startCmd.Flags().StringVar(&startAt, "at", "", "Punch-in time (HH:MM) instead of now")
}

func runStart(cmd *cobra.Command, args []string) error {
	now, err := punchTime(startAt, time.Now())
	if err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()

	// An interval left open is closed first.
	open, idx, err := storage.FindOpen(ctx, a.entries, now)
	switch {
	case err == nil:
		fmt.Fprintf(os.Stderr, "Warning: closing the interval opened at %s on %s\n", open.Work[idx].Start, open.Date)
		if _, err := closeInterval(ctx, a.entries, open, idx, now); err != nil {
			return err
		}
	case !errors.Is(err, storage.ErrNotFound):
		return err
	}

	clock := timecalc.Clock(now)
	e, err := storage.Update(ctx, a.entries, now, func(e *model.WorkEntry) error {
		if e.IsFixed() {
			return fmt.Errorf("%s is recorded as %s; clear it with 'cedolino entry set %s --fixed none' first", e.Date, e.Fixed.Type, e.Date)
		}
		e.Work = append(e.Work, model.Interval{Start: clock})
		return nil
	})
	if err != nil {
		return err
	}
	a.log.Info("punched in", zap.String("date", e.Date), zap.String("at", clock))
	fmt.Printf("Punched in at %s on %s\n", clock, e.Date)
	return nil
}

// punchTime returns now, or today at the given HH:MM.
func punchTime(at string, now time.Time) (time.Time, error) {
	if at == "" {
		return now.Truncate(time.Minute), nil
	}
	m, ok := timecalc.ParseClock(at)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid --at value %q (want HH:MM)", at)
	}
	return timecalc.StartOfDay(now).Add(time.Duration(m) * time.Minute), nil
}

// intervalStart returns the wall-clock time an interval of e started.
func intervalStart(e model.WorkEntry, iv model.Interval, loc *time.Location) time.Time {
	day, err := e.Day()
	if err != nil {
		return time.Time{}
	}
	m, _ := timecalc.ParseClock(iv.Start)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, m, 0, 0, loc)
}

// errShiftTooLong is returned when an open interval would be closed 24 hours
// or more after it started; a day entry cannot hold it.
var errShiftTooLong = errors.New("interval open for 24 hours or more")

// closeInterval ends the open interval idx of e at stop. An interval opened
// before midnight stays on its start day and wraps, up to 24 hours.
func closeInterval(ctx context.Context, s storage.Store, e model.WorkEntry, idx int, stop time.Time) (model.WorkEntry, error) {
	day, err := e.Day()
	if err != nil {
		return model.WorkEntry{}, err
	}
	if idx < 0 || idx >= len(e.Work) {
		return model.WorkEntry{}, fmt.Errorf("no interval %d on %s", idx, e.Date)
	}
	since := intervalStart(e, e.Work[idx], stop.Location())
	switch elapsed := stop.Sub(since); {
	case elapsed <= 0:
		return model.WorkEntry{}, fmt.Errorf("stop time %s is not after the start %s on %s",
			stop.Format("2006-01-02 15:04"), e.Work[idx].Start, e.Date)
	case elapsed >= 24*time.Hour:
		return model.WorkEntry{}, fmt.Errorf("%w: started %s on %s; record it with 'cedolino entry set %s --work ...'",
			errShiftTooLong, e.Work[idx].Start, e.Date, e.Date)
	}
	return storage.Update(ctx, s, day, func(x *model.WorkEntry) error {
		if idx >= len(x.Work) || !x.Work[idx].Open() {
			return fmt.Errorf("interval %d on %s is no longer open", idx, x.Date)
		}
		x.Work[idx].End = timecalc.Clock(stop)
		return nil
	})
}
