package timecalc_test

import (
	"testing"
	"time"

	"github.com/Tiliavir/cedolino/internal/model"
	"github.com/Tiliavir/cedolino/internal/timecalc"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{45, "45s"},
		{60, "1m"},
		{90, "1m"},
		{3600, "1h 0m"},
		{3661, "1h 1m"},
		{5400, "1h 30m"},
	}
	for _, tt := range tests {
		got := timecalc.FormatDuration(tt.seconds)
		if got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"00:00", 0, true},
		{"08:30", 510, true},
		{"8:30", 510, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"12", 0, false},
		{"ab:cd", 0, false},
		{"", 0, false},
		{"12:5", 0, false},
	}
	for _, tt := range tests {
		got, ok := timecalc.ParseClock(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseClock(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestElapsedMinutes(t *testing.T) {
	tests := []struct {
		start, end string
		want       int
	}{
		{"08:00", "17:00", 540},
		{"22:00", "02:00", 240},
		{"23:30", "00:15", 45},
		{"10:00", "10:00", 0},
		{"bad", "10:00", 0},
		{"10:00", "", 0},
		{"10:00", "25:00", 0},
	}
	for _, tt := range tests {
		got := timecalc.ElapsedMinutes(tt.start, tt.end)
		if got != tt.want {
			t.Errorf("ElapsedMinutes(%q, %q) = %d, want %d", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestSumIntervals(t *testing.T) {
	intervals := []model.Interval{
		{Start: "08:00", End: "12:00"},
		{Start: "13:00", End: "17:30"},
		{Start: "nope", End: "18:00"},
		{Start: "23:00", End: "01:00"},
	}
	if got := timecalc.SumIntervals(intervals); got != 240+270+120 {
		t.Errorf("SumIntervals = %d, want %d", got, 630)
	}
	if got := timecalc.MinutesToHours(90); got != 1.5 {
		t.Errorf("MinutesToHours(90) = %v, want 1.5", got)
	}
}

func TestSpan(t *testing.T) {
	from, to, ok := timecalc.Span(model.Interval{Start: "21:00", End: "01:30"})
	if !ok || from != 1260 || to != 1530 {
		t.Errorf("Span = %d, %d, %v; want 1260, 1530, true", from, to, ok)
	}
	if _, _, ok := timecalc.Span(model.Interval{Start: "09:00"}); ok {
		t.Error("Span on open interval: expected ok=false")
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "00:00"},
		{510, "08:30"},
		{1440 + 60, "01:00"},
	}
	for _, tt := range tests {
		if got := timecalc.FormatClock(tt.minutes); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestMonthRange(t *testing.T) {
	tests := []struct {
		year     int
		month    time.Month
		wantLast string
	}{
		{2025, time.June, "2025-06-30"},
		{2025, time.December, "2025-12-31"},
		{2024, time.February, "2024-02-29"},
		{2025, time.February, "2025-02-28"},
	}
	for _, tt := range tests {
		first, last := timecalc.MonthRange(tt.year, tt.month)
		if first.Day() != 1 || first.Month() != tt.month {
			t.Errorf("MonthRange(%d, %s) first = %v", tt.year, tt.month, first)
		}
		if got := last.Format(model.DateLayout); got != tt.wantLast {
			t.Errorf("MonthRange(%d, %s) last = %s, want %s", tt.year, tt.month, got, tt.wantLast)
		}
	}
}

func TestInRangeIsClosed(t *testing.T) {
	from, to := timecalc.MonthRange(2025, time.June)
	for _, s := range []string{"2025-06-01", "2025-06-15", "2025-06-30"} {
		d, _ := timecalc.ParseDate(s)
		if !timecalc.InRange(d, from, to) {
			t.Errorf("InRange(%s) = false, want true", s)
		}
	}
	for _, s := range []string{"2025-05-31", "2025-07-01"} {
		d, _ := timecalc.ParseDate(s)
		if timecalc.InRange(d, from, to) {
			t.Errorf("InRange(%s) = true, want false", s)
		}
	}
	// A late-evening timestamp on the last day still counts.
	late := time.Date(2025, 6, 30, 23, 59, 0, 0, time.Local)
	if !timecalc.InRange(late, from, to) {
		t.Error("InRange(2025-06-30 23:59) = false, want true")
	}
}

func TestParseMonth(t *testing.T) {
	y, m, err := timecalc.ParseMonth("2025-06")
	if err != nil || y != 2025 || m != time.June {
		t.Errorf("ParseMonth = %d, %s, %v", y, m, err)
	}
	if _, _, err := timecalc.ParseMonth("June"); err == nil {
		t.Error("ParseMonth(June): expected error")
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	b := time.Date(2026, 2, 27, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	if !timecalc.SameDay(a, b) {
		t.Error("SameDay: expected same day for a and b")
	}
	if timecalc.SameDay(a, c) {
		t.Error("SameDay: expected different day for a and c")
	}
}
