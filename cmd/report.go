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

	"github.com/Tiliavir/cedolino/internal/earnings"
	"github.com/Tiliavir/cedolino/internal/model"
	"github.com/Tiliavir/cedolino/internal/timecalc"
)

var (
	reportMonth  string
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the monthly earnings summary and net estimate",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportMonth, "month", "", "Month to report (YYYY-MM, default: current month)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

// resolveMonth parses --month, defaulting to the month of now.
func resolveMonth(flag string, now time.Time) (int, time.Month, error) {
	if flag == "" {
		return now.Year(), now.Month(), nil
	}
	return timecalc.ParseMonth(flag)
}

func runReport(cmd *cobra.Command, args []string) error {
	year, month, err := resolveMonth(reportMonth, time.Now())
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
	s, h, err := a.rules(year)
	if err != nil {
		return err
	}
	sum, err := a.calc.Month(entries, s, h, year, month)
	if err != nil {
		return err
	}

	switch reportFormat {
	case "csv":
		return writeReportCSV(os.Stdout, sum)
	case "json":
		data, err := json.MarshalIndent(sum, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "md", "":
		writeReportMD(os.Stdout, sum, fmt.Sprintf("%04d-%02d", year, month))
	default:
		return fmt.Errorf("unknown format %q (want md, csv or json)", reportFormat)
	}
	return nil
}

func writeReportMD(w io.Writer, sum earnings.Summary, label string) {
	fmt.Fprintf(w, "Month %s (%s → %s)\n", label, sum.From, sum.To)
	fmt.Fprintln(w, "------------------------------------------------------------")
	fmt.Fprintf(w, "%-11s%-10s%9s%9s%14s\n", "Date", "Day", "Work", "Overtime", "Total")
	for _, b := range sum.Days {
		day := b.DayClass.String()
		if b.FixedType != "" {
			day = string(b.FixedType)
		}
		fmt.Fprintf(w, "%-11s%-10s%9s%9s%14s\n", b.Date, day,
			timecalc.FormatHours(b.WorkMinutes), timecalc.FormatHours(b.OvertimeMinutes), money(b.Total))
	}
	fmt.Fprintln(w, "------------------------------------------------------------")
	t := sum.Totals
	fmt.Fprintf(w, "%-20s%14s\n", "Regular", money(t.Regular))
	fmt.Fprintf(w, "%-20s%14s\n", "Overtime", money(t.Overtime))
	fmt.Fprintf(w, "%-20s%14s\n", "Travel", money(t.Travel))
	fmt.Fprintf(w, "%-20s%14s\n", "Standby", money(t.Standby))
	fmt.Fprintf(w, "%-20s%14s\n", "Meals", money(t.Meal))
	fmt.Fprintf(w, "%-20s%14s\n", "Fixed days", money(t.Fixed))
	fmt.Fprintf(w, "%-20s%14s\n", "Gross", money(t.Gross))
	if n := sum.Net; n != nil {
		fmt.Fprintf(w, "%-20s%14s\n", fmt.Sprintf("Deductions %s", percent(n.EffectiveRate)), money(n.Deductions))
		fmt.Fprintf(w, "%-20s%14s\n", "Net (estimate)", money(n.Net))
	}
	fmt.Fprintln(w, "------------------------------------------------------------")

	c := sum.Counts
	fmt.Fprintf(w, "Worked days: %d (rest days: %d), standby days: %d, interventions: %d\n",
		c.WorkedDays, c.RestDaysWorked, c.StandbyDays, c.Interventions)
	for _, dt := range model.DayTypes {
		if n := c.FixedDays[dt]; n > 0 {
			fmt.Fprintf(w, "%s days: %d\n", dt, n)
		}
	}
	fmt.Fprintf(w, "Hours: work %s, travel %s, overtime %s; meal vouchers: %d\n",
		timecalc.FormatHours(c.WorkMinutes), timecalc.FormatHours(c.TravelMinutes),
		timecalc.FormatHours(c.OvertimeMinutes), c.MealVouchers)
}

func writeReportCSV(w io.Writer, sum earnings.Summary) error {
	rows := [][]string{{
		"date", "day", "work_minutes", "travel_minutes", "overtime_minutes",
		"regular", "overtime", "travel", "standby", "meal", "fixed", "total",
	}}
	for _, b := range sum.Days {
		rows = append(rows, []string{
			b.Date, b.DayClass.String(),
			strconv.Itoa(b.WorkMinutes), strconv.Itoa(b.TravelMinutes), strconv.Itoa(b.OvertimeMinutes),
			b.RegularPay.StringFixed(2), b.OvertimePay.StringFixed(2), b.TravelPay.StringFixed(2),
			b.StandbyPay.StringFixed(2), b.MealPay.StringFixed(2), b.FixedEarnings.StringFixed(2),
			b.Total.StringFixed(2),
		})
	}
	t, c := sum.Totals, sum.Counts
	rows = append(rows, []string{
		"total", "",
		strconv.Itoa(c.WorkMinutes), strconv.Itoa(c.TravelMinutes), strconv.Itoa(c.OvertimeMinutes),
		t.Regular.StringFixed(2), t.Overtime.StringFixed(2), t.Travel.StringFixed(2),
		t.Standby.StringFixed(2), t.Meal.StringFixed(2), t.Fixed.StringFixed(2),
		t.Gross.StringFixed(2),
	})
	for _, r := range rows {
		for i, f := range r {
			r[i] = csvEscape(f)
		}
		if _, err := fmt.Fprintln(w, strings.Join(r, ",")); err != nil {
			return err
		}
	}
	return nil
}
