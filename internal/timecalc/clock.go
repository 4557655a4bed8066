package timecalc

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Tiliavir/cedolino/internal/model"
)

// MinutesPerDay is the length of a calendar day in minutes.
const MinutesPerDay = 24 * 60

// ParseClock parses an "HH:MM" time of day into minutes since midnight.
// It reports false for anything outside 00:00–23:59.
func ParseClock(s string) (int, bool) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// FormatClock formats minutes since midnight as "HH:MM", wrapping past 24h.
func FormatClock(minutes int) string {
	minutes = ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Clock returns t's time of day as "HH:MM".
func Clock(t time.Time) string {
	return t.Format("15:04")
}

// ElapsedMinutes returns the minutes from start to end. An end before start
// crosses midnight. Malformed input yields 0, which callers treat as
// "omit this interval".
func ElapsedMinutes(start, end string) int {
	s, ok := ParseClock(start)
	if !ok {
		return 0
	}
	e, ok := ParseClock(end)
	if !ok {
		return 0
	}
	if e < s {
		e += MinutesPerDay
	}
	return e - s
}

// Span returns the interval as [from, to) minutes since the midnight that
// opens the entry's day; to may exceed MinutesPerDay for wrapping intervals.
// ok is false for malformed or zero-length intervals.
func Span(i model.Interval) (from, to int, ok bool) {
	from, ok = ParseClock(i.Start)
	if !ok {
		return 0, 0, false
	}
	d := ElapsedMinutes(i.Start, i.End)
	if d == 0 {
		return 0, 0, false
	}
	return from, from + d, true
}

// SumIntervals returns the total minutes across intervals.
func SumIntervals(intervals []model.Interval) int {
	total := 0
	for _, i := range intervals {
		total += ElapsedMinutes(i.Start, i.End)
	}
	return total
}

// SumTravel returns the total minutes across travel intervals.
func SumTravel(intervals []model.TravelInterval) int {
	total := 0
	for _, i := range intervals {
		total += ElapsedMinutes(i.Start, i.End)
	}
	return total
}

// MinutesToHours converts minutes to fractional hours without rounding.
func MinutesToHours(minutes int) float64 {
	return float64(minutes) / 60
}

// FormatHours formats minutes as "7h 30m" or "45m".
func FormatHours(minutes int) string {
	return FormatDuration(int64(minutes) * 60)
}
