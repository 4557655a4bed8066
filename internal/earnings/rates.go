package earnings

import (
	"github.com/shopspring/decimal"

	"github.com/Tiliavir/cedolino/internal/settings"
	"github.com/Tiliavir/cedolino/internal/timecalc"
)

// Band is a time-of-day band carrying its own overtime multiplier.
type Band int

const (
	// BandDay is 06:00–20:00.
	BandDay Band = iota
	// BandEvening is 20:00–22:00, paid at the "night until 22" rate.
	BandEvening
	// BandNight is 22:00–06:00.
	BandNight
)

func (b Band) String() string {
	switch b {
	case BandDay:
		return "day"
	case BandEvening:
		return "evening"
	case BandNight:
		return "night"
	}
	return "unknown"
}

// Band boundaries in minutes since midnight.
const (
	nightEnd     = 6 * 60
	eveningStart = 20 * 60
	nightStart   = 22 * 60
)

var boundaries = []int{nightEnd, eveningStart, nightStart, timecalc.MinutesPerDay}

// BandAt returns the band of a minute offset from the entry's midnight.
// Offsets past 24h wrap into the next day.
func BandAt(minute int) Band {
	m := ((minute % timecalc.MinutesPerDay) + timecalc.MinutesPerDay) % timecalc.MinutesPerDay
	switch {
	case m < nightEnd || m >= nightStart:
		return BandNight
	case m >= eveningStart:
		return BandEvening
	}
	return BandDay
}

// ResolveMultiplier returns the overtime multiplier for a minute of work.
// On rest days the holiday rates supersede the day/night split.
func ResolveMultiplier(minute int, restDay bool, rates settings.OvertimeRates) decimal.Decimal {
	band := BandAt(minute)
	if restDay {
		if band == BandDay {
			return rates.Holiday
		}
		return rates.NightHoliday
	}
	switch band {
	case BandEvening:
		return rates.NightUntil22
	case BandNight:
		return rates.NightAfter22
	}
	return rates.Day
}

// span is a half-open range of minutes from the entry's midnight.
type span struct {
	from, to int
}

func (s span) minutes() int {
	return s.to - s.from
}

// splitAtBands cuts s at every band boundary so that each piece lies in a
// single band.
func splitAtBands(s span) []span {
	var out []span
	for cur := s.from; cur < s.to; {
		next := nextBoundary(cur)
		if next > s.to {
			next = s.to
		}
		out = append(out, span{from: cur, to: next})
		cur = next
	}
	return out
}

func nextBoundary(minute int) int {
	day := minute / timecalc.MinutesPerDay * timecalc.MinutesPerDay
	off := minute - day
	for _, b := range boundaries {
		if off < b {
			return day + b
		}
	}
	return day + timecalc.MinutesPerDay
}
