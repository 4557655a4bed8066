package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/cedolino/internal/model"
	"github.com/Tiliavir/cedolino/internal/timecalc"
)

var (
	exportMonth  string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the raw entries of a month to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportMonth, "month", "", "Month to export (YYYY-MM, default: current month)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json")
}

func runExport(cmd *cobra.Command, args []string) error {
	year, month, err := resolveMonth(exportMonth, time.Now())
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

	switch exportFormat {
	case "json":
		if entries == nil {
			entries = []model.WorkEntry{}
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		fmt.Println(string(data))
	case "csv", "":
		printCSV(os.Stdout, entries)
	default:
		return fmt.Errorf("unknown format %q (want csv or json)", exportFormat)
	}
	return nil
}

// printCSV writes one row per interval. Fixed days get a single row.
func printCSV(w io.Writer, entries []model.WorkEntry) {
	fmt.Fprintln(w, "date,kind,start,end,minutes,standby,note")
	row := func(e model.WorkEntry, kind, start, end string, minutes int) {
		note := ""
		if e.Note != nil {
			note = *e.Note
		}
		fmt.Fprintln(w, strings.Join([]string{
			csvEscape(e.Date),
			csvEscape(kind),
			csvEscape(start),
			csvEscape(end),
			strconv.Itoa(minutes),
			strconv.FormatBool(e.Standby),
			csvEscape(note),
		}, ","))
	}
	for _, e := range entries {
		if e.Fixed != nil {
			row(e, "fixed:"+string(e.Fixed.Type), "", "", 0)
			continue
		}
		for _, iv := range e.Work {
			row(e, "work", iv.Start, iv.End, timecalc.ElapsedMinutes(iv.Start, iv.End))
		}
		for _, t := range e.Travel {
			row(e, "travel:"+string(t.Kind), t.Start, t.End, timecalc.ElapsedMinutes(t.Start, t.End))
		}
		for _, in := range e.Interventions {
			for _, iv := range in.Work {
				row(e, "intervention", iv.Start, iv.End, timecalc.ElapsedMinutes(iv.Start, iv.End))
			}
			for _, t := range in.Travel {
				row(e, "intervention-travel:"+string(t.Kind), t.Start, t.End, timecalc.ElapsedMinutes(t.Start, t.End))
			}
		}
		if len(e.Work)+len(e.Travel)+len(e.Interventions) == 0 {
			row(e, "day", "", "", 0)
		}
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
