// Package calendar classifies days as weekdays, Saturdays, Sundays or public
// holidays and decides which of them count as rest days.
package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/Tiliavir/cedolino/internal/model"
)

// DayClass is the calendar classification of a date.
type DayClass int

const (
	Weekday DayClass = iota
	Saturday
	Sunday
	Holiday
)

func (c DayClass) String() string {
	switch c {
	case Weekday:
		return "weekday"
	case Saturday:
		return "saturday"
	case Sunday:
		return "sunday"
	case Holiday:
		return "holiday"
	}
	return fmt.Sprintf("DayClass(%d)", int(c))
}

// Holidays is a set of public holiday dates keyed by ISO date.
type Holidays map[string]struct{}

// NewHolidays builds a set from ISO dates, rejecting malformed ones.
func NewHolidays(dates ...string) (Holidays, error) {
	h := make(Holidays, len(dates))
	for _, d := range dates {
		if _, err := time.Parse(model.DateLayout, d); err != nil {
			return nil, fmt.Errorf("invalid holiday date %q: %w", d, err)
		}
		h[d] = struct{}{}
	}
	return h, nil
}

// Contains reports whether day is a holiday.
func (h Holidays) Contains(day time.Time) bool {
	_, ok := h[day.Format(model.DateLayout)]
	return ok
}

// Merge returns a new set holding the dates of h and other.
func (h Holidays) Merge(other Holidays) Holidays {
	out := make(Holidays, len(h)+len(other))
	for d := range h {
		out[d] = struct{}{}
	}
	for d := range other {
		out[d] = struct{}{}
	}
	return out
}

// Dates returns the holiday dates in ascending order.
func (h Holidays) Dates() []string {
	out := make([]string, 0, len(h))
	for d := range h {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// fixedNational are the Italian national holidays falling on the same date
// every year, as month-day pairs. Easter Monday moves and is not listed.
var fixedNational = [][2]int{
	{1, 1},   // Capodanno
	{1, 6},   // Epifania
	{4, 25},  // Festa della Liberazione
	{5, 1},   // Festa del Lavoro
	{6, 2},   // Festa della Repubblica
	{8, 15},  // Ferragosto
	{11, 1},  // Ognissanti
	{12, 8},  // Immacolata Concezione
	{12, 25}, // Natale
	{12, 26}, // Santo Stefano
}

// ItalianNationalHolidays returns the fixed-date national holidays of the
// given years.
func ItalianNationalHolidays(years ...int) Holidays {
	h := make(Holidays, len(fixedNational)*len(years))
	for _, y := range years {
		for _, md := range fixedNational {
			d := time.Date(y, time.Month(md[0]), md[1], 0, 0, 0, 0, time.UTC)
			h[d.Format(model.DateLayout)] = struct{}{}
		}
	}
	return h
}

// Classify returns the class of day. A holiday falling on a Sunday or
// Saturday is reported as Holiday.
func Classify(day time.Time, holidays Holidays) DayClass {
	if holidays.Contains(day) {
		return Holiday
	}
	switch day.Weekday() {
	case time.Sunday:
		return Sunday
	case time.Saturday:
		return Saturday
	}
	return Weekday
}

// IsRestDay reports whether day is a Sunday, a holiday, or a Saturday when
// saturdayAsRest is set.
func IsRestDay(day time.Time, holidays Holidays, saturdayAsRest bool) bool {
	switch Classify(day, holidays) {
	case Sunday, Holiday:
		return true
	case Saturday:
		return saturdayAsRest
	}
	return false
}
