package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/cedolino/internal/storage"
	"github.com/Tiliavir/cedolino/internal/timecalc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the open interval and today's earnings so far",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	now := time.Now().Truncate(time.Minute)
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()

	open, idx, err := storage.FindOpen(ctx, a.entries, now)
	switch {
	case err == nil:
		since := intervalStart(open, open.Work[idx], now.Location())
		fmt.Println("Punched in:")
		fmt.Printf("  Since: %s %s\n", open.Date, open.Work[idx].Start)
		fmt.Printf("  Elapsed: %s\n", formatElapsed(int64(now.Sub(since).Seconds())))
	case errors.Is(err, storage.ErrNotFound):
		fmt.Println("Not punched in.")
	default:
		return err
	}

	today, err := storage.Load(ctx, a.entries, now)
	if err != nil {
		return err
	}
	// Count the running interval as if it were closed now.
	if i := today.OpenInterval(); i >= 0 {
		today.Work[i].End = timecalc.Clock(now)
	}

	s, h, err := a.rules(now.Year())
	if err != nil {
		return err
	}
	b, err := a.calc.Daily(today, s, h)
	if err != nil {
		return err
	}
	fmt.Println()
	printBreakdown(os.Stdout, b)
	return nil
}
