package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO calendar date format used as the WorkEntry key.
const DateLayout = "2006-01-02"

// Interval is a time-of-day span encoded as "HH:MM" strings. End before Start
// means the span crosses midnight. An empty End marks an interval that is still
// open (punched in, not yet out); it contributes zero minutes until closed.
type Interval struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Open reports whether the interval has not been closed yet.
func (i Interval) Open() bool {
	return i.End == ""
}

// TravelKind tags a travel interval.
type TravelKind string

const (
	TravelOutbound TravelKind = "outbound"
	TravelReturn   TravelKind = "return"
	// TravelInternal is travel between two shifts of the same day.
	TravelInternal TravelKind = "internal"
)

// ParseTravelKind returns the TravelKind named by s.
func ParseTravelKind(s string) (TravelKind, error) {
	switch k := TravelKind(s); k {
	case TravelOutbound, TravelReturn, TravelInternal:
		return k, nil
	}
	return "", fmt.Errorf("unknown travel kind %q", s)
}

// UnmarshalText rejects unknown travel kinds.
func (k *TravelKind) UnmarshalText(text []byte) error {
	parsed, err := ParseTravelKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// TravelInterval is an Interval spent travelling.
type TravelInterval struct {
	Interval
	Kind TravelKind `json:"kind"`
}

// Intervention is one on-call response during a standby day.
type Intervention struct {
	ID     string           `json:"id"`
	Work   []Interval       `json:"work"`
	Travel []TravelInterval `json:"travel"`
	Note   *string          `json:"note,omitempty"`
}

// DayType classifies a fixed (non-worked) day.
type DayType string

const (
	DayVacation         DayType = "vacation"
	DaySick             DayType = "sick"
	DayLeave            DayType = "leave"
	DayCompensatoryRest DayType = "compensatory_rest"
	DayHoliday          DayType = "holiday"
)

// DayTypes lists every fixed day type in display order.
var DayTypes = []DayType{DayVacation, DaySick, DayLeave, DayCompensatoryRest, DayHoliday}

// ParseDayType returns the DayType named by s.
func ParseDayType(s string) (DayType, error) {
	for _, t := range DayTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown day type %q", s)
}

// UnmarshalText rejects unknown day types.
func (t *DayType) UnmarshalText(text []byte) error {
	parsed, err := ParseDayType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// FixedDay marks a day paid with a precomputed amount instead of worked hours.
type FixedDay struct {
	Type     DayType         `json:"type"`
	Earnings decimal.Decimal `json:"earnings"`
}

// Meal records what was received for one meal. A positive CashOverride
// replaces both the voucher and the cash amount.
type Meal struct {
	Voucher      bool            `json:"voucher"`
	Cash         decimal.Decimal `json:"cash"`
	CashOverride decimal.Decimal `json:"cash_override"`
}

// Meals holds the lunch and dinner allowances of a day.
type Meals struct {
	Lunch  Meal `json:"lunch"`
	Dinner Meal `json:"dinner"`
}

// WorkEntry is one calendar day's record. Date is unique per user.
type WorkEntry struct {
	Date          string           `json:"date"`
	Work          []Interval       `json:"work"`
	Travel        []TravelInterval `json:"travel"`
	Interventions []Intervention   `json:"interventions"`
	Standby       bool             `json:"standby"`
	// Fixed, when set, excludes the day from worked-hour accounting.
	Fixed           *FixedDay `json:"fixed,omitempty"`
	Meals           Meals     `json:"meals"`
	TravelAllowance bool      `json:"travel_allowance"`
	// TravelAllowancePercent scales the allowance (0-100). Nil pays it in full.
	TravelAllowancePercent *decimal.Decimal `json:"travel_allowance_percent,omitempty"`
	Note                   *string          `json:"note,omitempty"`
	Source                 string           `json:"source"`
}

// NewWorkEntry returns an empty entry for day.
func NewWorkEntry(day time.Time) WorkEntry {
	return WorkEntry{
		Date:          day.Format(DateLayout),
		Work:          []Interval{},
		Travel:        []TravelInterval{},
		Interventions: []Intervention{},
		Source:        "manual",
	}
}

// Day parses the entry date.
func (e WorkEntry) Day() (time.Time, error) {
	d, err := time.Parse(DateLayout, e.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid entry date %q: %w", e.Date, err)
	}
	return d, nil
}

// IsFixed reports whether the entry is a fixed day.
func (e WorkEntry) IsFixed() bool {
	return e.Fixed != nil
}

// OpenInterval returns the index of the last open work interval, or -1.
func (e WorkEntry) OpenInterval() int {
	for i := len(e.Work) - 1; i >= 0; i-- {
		if e.Work[i].Open() {
			return i
		}
	}
	return -1
}
