package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/cedolino/internal/model"
	"github.com/Tiliavir/cedolino/internal/storage"
)

var (
	stopAt   string
	stopNote string
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Punch out: close the open work interval",
	Args:  cobra.NoArgs,
	RunE:  runStop,
}

func init() {
	stopCmd.Flags().StringVar(&stopAt, "at", "", "Punch-out time (HH:MM) instead of now")
	stopCmd.Flags().StringVar(&stopNote, "note", "", "Append a note to the entry")
}

func runStop(cmd *cobra.Command, args []string) error {
	now, err := punchTime(stopAt, time.Now())
	if err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()

	open, idx, err := storage.FindOpen(ctx, a.entries, now)
	if errors.Is(err, storage.ErrNotFound) {
		return errors.New("no open interval to close")
	}
	if err != nil {
		return err
	}

	since := intervalStart(open, open.Work[idx], now.Location())
	e, err := closeInterval(ctx, a.entries, open, idx, now)
	if err != nil {
		return err
	}
	if stopNote != "" {
		day, _ := e.Day()
		if e, err = storage.Update(ctx, a.entries, day, func(x *model.WorkEntry) error {
			x.Note = appendNote(x.Note, stopNote)
			return nil
		}); err != nil {
			return err
		}
	}

	iv := e.Work[idx]
	a.log.Info("punched out", zap.String("date", e.Date), zap.String("start", iv.Start), zap.String("end", iv.End))
	fmt.Printf("Punched out at %s (%s–%s on %s). Elapsed: %s\n",
		iv.End, iv.Start, iv.End, e.Date, formatElapsed(int64(now.Sub(since).Seconds())))
	return nil
}

func appendNote(note *string, add string) *string {
	if note == nil || *note == "" {
		return &add
	}
	merged := *note + "\n" + add
	return &merged
}

func formatElapsed(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
