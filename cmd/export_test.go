package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Tiliavir/cedolino/internal/model"
)

func TestCsvEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"with space", "with space"},
		{"with,comma", `"with,comma"`},
		{`with"quote`, `"with""quote"`},
		{"with\nnewline", "\"with\nnewline\""},
		{"with\rreturn", "\"with\rreturn\""},
		{"", ""},
	}
	for _, tt := range tests {
		got := csvEscape(tt.input)
		if got != tt.want {
			t.Errorf("csvEscape(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestPrintCSV(t *testing.T) {
	note := "cantiere, Milano"
	entries := []model.WorkEntry{
		{
			Date:   "2025-06-30",
			Work:   []model.Interval{{Start: "22:00", End: "02:00"}},
			Travel: []model.TravelInterval{{Interval: model.Interval{Start: "21:00", End: "22:00"}, Kind: model.TravelOutbound}},
			Note:   &note,
		},
		{Date: "2025-07-01", Fixed: &model.FixedDay{Type: model.DayVacation}},
	}

	var buf bytes.Buffer
	printCSV(&buf, entries)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	want := []string{
		"date,kind,start,end,minutes,standby,note",
		`2025-06-30,work,22:00,02:00,240,false,"cantiere, Milano"`,
		`2025-06-30,travel:outbound,21:00,22:00,60,false,"cantiere, Milano"`,
		"2025-07-01,fixed:vacation,,,0,false,",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}
