package earnings

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Tiliavir/cedolino/internal/calendar"
	"github.com/Tiliavir/cedolino/internal/model"
	"github.com/Tiliavir/cedolino/internal/settings"
	"github.com/Tiliavir/cedolino/internal/timecalc"
)

// Totals are per-category sums over a period.
type Totals struct {
	Regular  decimal.Decimal `json:"regular"`
	Overtime decimal.Decimal `json:"overtime"`
	Travel   decimal.Decimal `json:"travel"`
	Standby  decimal.Decimal `json:"standby"`
	Meal     decimal.Decimal `json:"meal"`
	Fixed    decimal.Decimal `json:"fixed"`
	Gross    decimal.Decimal `json:"gross"`
}

func (t *Totals) add(b Breakdown) {
	t.Regular = t.Regular.Add(b.RegularPay)
	t.Overtime = t.Overtime.Add(b.OvertimePay)
	t.Travel = t.Travel.Add(b.TravelPay)
	t.Standby = t.Standby.Add(b.StandbyPay)
	t.Meal = t.Meal.Add(b.MealPay)
	t.Fixed = t.Fixed.Add(b.FixedEarnings)
	t.Gross = t.Gross.Add(b.Total)
}

// Counts are day and minute counters over a period.
type Counts struct {
	WorkedDays          int                   `json:"worked_days"`
	RestDaysWorked      int                   `json:"rest_days_worked"`
	StandbyDays         int                   `json:"standby_days"`
	InterventionDays    int                   `json:"intervention_days"`
	Interventions       int                   `json:"interventions"`
	FixedDays           map[model.DayType]int `json:"fixed_days"`
	MealVouchers        int                   `json:"meal_vouchers"`
	WorkMinutes         int                   `json:"work_minutes"`
	TravelMinutes       int                   `json:"travel_minutes"`
	OvertimeMinutes     int                   `json:"overtime_minutes"`
	InterventionMinutes int                   `json:"intervention_minutes"`
}

// Summary aggregates daily breakdowns over a closed date range.
type Summary struct {
	From   string       `json:"from"`
	To     string       `json:"to"`
	Days   []Breakdown  `json:"days"`
	Totals Totals       `json:"totals"`
	Counts Counts       `json:"counts"`
	Net    *NetEstimate `json:"net,omitempty"`
}

// Aggregate sums the breakdowns of the entries dated within [from, to],
// both ends inclusive. Entries outside the range are ignored. When two
// entries share a date the later one in the slice wins.
func (c *Calculator) Aggregate(entries []model.WorkEntry, s settings.Settings, holidays calendar.Holidays, from, to time.Time) (Summary, error) {
	if err := s.Net.Method.Validate(); err != nil {
		return Summary{}, err
	}
	from, to = timecalc.DateOnly(from), timecalc.DateOnly(to)
	if to.Before(from) {
		return Summary{}, fmt.Errorf("invalid range: %s is after %s", from.Format(model.DateLayout), to.Format(model.DateLayout))
	}

	byDate := make(map[string]model.WorkEntry, len(entries))
	for _, e := range entries {
		day, err := e.Day()
		if err != nil {
			return Summary{}, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
		}
		if !timecalc.InRange(day, from, to) {
			continue
		}
		if _, dup := byDate[e.Date]; dup {
			c.log.Warn("duplicate entry for date, keeping the last one", zap.String("date", e.Date))
		}
		byDate[e.Date] = e
	}
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	sum := Summary{
		From:   from.Format(model.DateLayout),
		To:     to.Format(model.DateLayout),
		Days:   make([]Breakdown, 0, len(dates)),
		Counts: Counts{FixedDays: map[model.DayType]int{}},
	}
	for _, d := range dates {
		e := byDate[d]
		b, err := c.Daily(e, s, holidays)
		if err != nil {
			return Summary{}, fmt.Errorf("calculating %s: %w", d, err)
		}
		sum.Days = append(sum.Days, b)
		sum.Totals.add(b)
		count(&sum.Counts, e, b)
	}

	net, err := EstimateNet(sum.Totals.Gross, s)
	if err != nil {
		return Summary{}, err
	}
	sum.Net = &net
	return sum, nil
}

// Month aggregates the calendar month containing year/month, from its first
// to its last day inclusive.
func (c *Calculator) Month(entries []model.WorkEntry, s settings.Settings, holidays calendar.Holidays, year int, month time.Month) (Summary, error) {
	from, to := timecalc.MonthRange(year, month)
	return c.Aggregate(entries, s, holidays, from, to)
}

func count(n *Counts, e model.WorkEntry, b Breakdown) {
	if e.Fixed != nil {
		n.FixedDays[e.Fixed.Type]++
		return
	}
	if b.WorkMinutes > 0 {
		n.WorkedDays++
		if b.RestDay {
			n.RestDaysWorked++
		}
	}
	if e.Standby {
		n.StandbyDays++
		if b.Interventions > 0 {
			n.InterventionDays++
			n.Interventions += b.Interventions
		}
	}
	for _, m := range []model.Meal{e.Meals.Lunch, e.Meals.Dinner} {
		if m.Voucher && !m.CashOverride.IsPositive() {
			n.MealVouchers++
		}
	}
	n.WorkMinutes += b.WorkMinutes
	n.TravelMinutes += b.TravelMinutes
	n.OvertimeMinutes += b.OvertimeMinutes
	n.InterventionMinutes += b.InterventionMinutes
}
