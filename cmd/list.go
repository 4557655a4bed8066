package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/cedolino/internal/model"
	"github.com/Tiliavir/cedolino/internal/timecalc"
)

var listMonth string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the entries of a month",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listMonth, "month", "", "Month to list (YYYY-MM, default: current month)")
}

func runList(cmd *cobra.Command, args []string) error {
	year, month, err := resolveMonth(listMonth, time.Now())
	if err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	from, to := timecalc.MonthRange(year, month)
	entries, err := a.entries.Range(cmd.Context(), from, to)
	if err != nil {
		return err
	}
	printList(os.Stdout, entries)
	return nil
}

// printList prints one block per entry.
func printList(w io.Writer, entries []model.WorkEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No entries found.")
		return
	}
	for _, e := range entries {
		if e.Fixed != nil {
			fmt.Fprintf(w, "%s  %s (%s)\n", e.Date, e.Fixed.Type, money(e.Fixed.Earnings))
			continue
		}
		worked := timecalc.SumIntervals(e.Work)
		fmt.Fprintf(w, "%s  %s", e.Date, timecalc.FormatHours(worked))
		if e.Standby {
			fmt.Fprintf(w, "  standby")
			if n := len(e.Interventions); n > 0 {
				fmt.Fprintf(w, " (%d interventions)", n)
			}
		}
		fmt.Fprintln(w)
		if len(e.Work) > 0 {
			fmt.Fprintf(w, "  work:   %s\n", formatIntervals(e.Work))
		}
		if len(e.Travel) > 0 {
			fmt.Fprintf(w, "  travel: %s\n", formatTravel(e.Travel))
		}
		if e.Note != nil && *e.Note != "" {
			fmt.Fprintf(w, "  note:   %s\n", *e.Note)
		}
	}
}
