package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/cedolino/internal/calendar"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func TestClassify(t *testing.T) {
	holidays := calendar.ItalianNationalHolidays(2025)

	tests := []struct {
		date string
		want calendar.DayClass
	}{
		{"2025-07-28", calendar.Weekday},
		{"2025-07-26", calendar.Saturday},
		{"2025-07-27", calendar.Sunday},
		{"2025-08-15", calendar.Holiday},
		{"2025-06-02", calendar.Holiday},
		// Easter Monday is movable and absent from the fixed table.
		{"2025-04-21", calendar.Weekday},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, calendar.Classify(day(t, tt.date), holidays), tt.date)
	}
}

func TestIsRestDay(t *testing.T) {
	holidays := calendar.ItalianNationalHolidays(2025)

	assert.True(t, calendar.IsRestDay(day(t, "2025-07-27"), holidays, false), "Sunday")
	assert.False(t, calendar.IsRestDay(day(t, "2025-07-26"), holidays, false), "Saturday, not rest")
	assert.True(t, calendar.IsRestDay(day(t, "2025-07-26"), holidays, true), "Saturday as rest")
	assert.True(t, calendar.IsRestDay(day(t, "2025-12-25"), holidays, false), "Christmas")
	assert.False(t, calendar.IsRestDay(day(t, "2025-07-28"), holidays, true), "Monday")
}

func TestNewHolidays(t *testing.T) {
	h, err := calendar.NewHolidays("2025-04-21")
	require.NoError(t, err)
	assert.True(t, h.Contains(day(t, "2025-04-21")))

	merged := calendar.ItalianNationalHolidays(2025).Merge(h)
	assert.Equal(t, calendar.Holiday, calendar.Classify(day(t, "2025-04-21"), merged))
	assert.Len(t, merged.Dates(), 11)

	_, err = calendar.NewHolidays("21/04/2025")
	assert.Error(t, err)
}

func TestDayClassString(t *testing.T) {
	assert.Equal(t, "sunday", calendar.Sunday.String())
	assert.Equal(t, "DayClass(9)", calendar.DayClass(9).String())
}
