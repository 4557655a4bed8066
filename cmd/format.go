package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Tiliavir/cedolino/internal/earnings"
	"github.com/Tiliavir/cedolino/internal/model"
	"github.com/Tiliavir/cedolino/internal/timecalc"
)

// it formats amounts the way a pay slip shows them: 1.234,56 €.
var it = message.NewPrinter(language.Italian)

func money(d decimal.Decimal) string {
	return it.Sprintf("%.2f €", d.Round(2).InexactFloat64())
}

func percent(d decimal.Decimal) string {
	return it.Sprintf("%.1f%%", d.Mul(decimal.NewFromInt(100)).Round(1).InexactFloat64())
}

// dayLabel describes the kind of day a breakdown was computed for.
func dayLabel(b earnings.Breakdown) string {
	parts := []string{b.DayClass.String()}
	if b.RestDay {
		parts = append(parts, "rest day")
	}
	if b.FixedType != "" {
		parts = append(parts, string(b.FixedType))
	}
	return strings.Join(parts, ", ")
}

// printBreakdown writes one day's earnings as an aligned block.
func printBreakdown(w io.Writer, b earnings.Breakdown) {
	fmt.Fprintf(w, "%s (%s)\n", b.Date, dayLabel(b))
	if b.FixedType == "" {
		fmt.Fprintf(w, "  Work %s, travel %s, overtime %s\n",
			timecalc.FormatHours(b.WorkMinutes), timecalc.FormatHours(b.TravelMinutes), timecalc.FormatHours(b.OvertimeMinutes))
		if b.Interventions > 0 {
			fmt.Fprintf(w, "  Interventions: %d (%s)\n", b.Interventions, timecalc.FormatHours(b.InterventionMinutes))
		}
	}
	fmt.Fprintln(w, "  --------------------------")
	for _, c := range b.Components() {
		fmt.Fprintf(w, "  %-12s%14s\n", c.Name, money(c.Amount))
	}
	fmt.Fprintln(w, "  --------------------------")
	fmt.Fprintf(w, "  %-12s%14s\n", "total", money(b.Total))
}

// formatIntervals renders intervals as "08:00–12:00, 13:00–…".
func formatIntervals(ivs []model.Interval) string {
	parts := make([]string, 0, len(ivs))
	for _, iv := range ivs {
		end := iv.End
		if iv.Open() {
			end = "…"
		}
		parts = append(parts, iv.Start+"–"+end)
	}
	return strings.Join(parts, ", ")
}

func formatTravel(ts []model.TravelInterval) string {
	parts := make([]string, 0, len(ts))
	for _, t := range ts {
		parts = append(parts, fmt.Sprintf("%s %s–%s", t.Kind, t.Start, t.End))
	}
	return strings.Join(parts, ", ")
}
