package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/cedolino/internal/storage"
	"github.com/Tiliavir/cedolino/internal/timecalc"
)

var dayCmd = &cobra.Command{
	Use:   "day [YYYY-MM-DD]",
	Short: "Show the earnings breakdown of a day (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDay,
}

func runDay(cmd *cobra.Command, args []string) error {
	day := timecalc.DateOnly(time.Now())
	if len(args) == 1 {
		d, err := timecalc.ParseDate(args[0])
		if err != nil {
			return err
		}
		day = d
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	e, err := storage.Load(cmd.Context(), a.entries, day)
	if err != nil {
		return err
	}
	s, h, err := a.rules(day.Year())
	if err != nil {
		return err
	}
	b, err := a.calc.Daily(e, s, h)
	if err != nil {
		return err
	}
	printBreakdown(os.Stdout, b)
	return nil
}
