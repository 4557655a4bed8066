package earnings

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Tiliavir/cedolino/internal/calendar"
	"github.com/Tiliavir/cedolino/internal/model"
	"github.com/Tiliavir/cedolino/internal/settings"
	"github.com/Tiliavir/cedolino/internal/timecalc"
)

// StandardDayMinutes is the CCNL standard working day.
const StandardDayMinutes = 8 * 60

// ErrInvalidEntry is returned for an entry whose date cannot be parsed.
var ErrInvalidEntry = errors.New("invalid work entry")

var (
	standardDay = decimal.NewFromInt(StandardDayMinutes)
	sixty       = decimal.NewFromInt(60)
	hundred     = decimal.NewFromInt(100)
	half        = decimal.RequireFromString("0.5")
)

// Breakdown is the earnings of a single day. Total is the exact sum of the
// six pay components; none of them is negative.
type Breakdown struct {
	Date      string            `json:"date"`
	DayClass  calendar.DayClass `json:"-"`
	RestDay   bool              `json:"rest_day"`
	FixedType model.DayType     `json:"fixed_type,omitempty"`

	RegularPay    decimal.Decimal `json:"regular_pay"`
	OvertimePay   decimal.Decimal `json:"overtime_pay"`
	TravelPay     decimal.Decimal `json:"travel_pay"`
	StandbyPay    decimal.Decimal `json:"standby_pay"`
	MealPay       decimal.Decimal `json:"meal_pay"`
	FixedEarnings decimal.Decimal `json:"fixed_earnings"`
	Total         decimal.Decimal `json:"total"`

	WorkMinutes         int `json:"work_minutes"`
	TravelMinutes       int `json:"travel_minutes"`
	CreditedMinutes     int `json:"credited_minutes"`
	OvertimeMinutes     int `json:"overtime_minutes"`
	InterventionMinutes int `json:"intervention_minutes"`
	Interventions       int `json:"interventions"`
}

// Component is one labelled, non-zero part of a Breakdown.
type Component struct {
	Name   string
	Amount decimal.Decimal
}

// Components returns the non-zero pay components in display order.
func (b Breakdown) Components() []Component {
	all := []Component{
		{"regular", b.RegularPay},
		{"overtime", b.OvertimePay},
		{"travel", b.TravelPay},
		{"standby", b.StandbyPay},
		{"meal", b.MealPay},
		{"fixed", b.FixedEarnings},
	}
	out := all[:0]
	for _, c := range all {
		if !c.Amount.IsZero() {
			out = append(out, c)
		}
	}
	return out
}

func (b *Breakdown) sum() {
	b.Total = b.RegularPay.
		Add(b.OvertimePay).
		Add(b.TravelPay).
		Add(b.StandbyPay).
		Add(b.MealPay).
		Add(b.FixedEarnings)
}

// Calculator computes earnings. It holds no settings or entry state; every
// call receives its inputs explicitly and is safe for concurrent use.
type Calculator struct {
	log *zap.Logger
}

// NewCalculator returns a Calculator logging anomalies to log. A nil logger
// discards them.
func NewCalculator(log *zap.Logger) *Calculator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Calculator{log: log}
}

// payAs says how minutes beyond the standard day are paid.
type payAs int

const (
	payOvertime payAs = iota
	payTravel
)

// piece is a chronologically placed interval credited towards the standard day.
type piece struct {
	span
	pay payAs
}

// Daily computes the earnings breakdown of one entry. Malformed intervals are
// skipped; only an invalid configuration or entry date is an error.
func (c *Calculator) Daily(entry model.WorkEntry, s settings.Settings, holidays calendar.Holidays) (Breakdown, error) {
	if err := s.Travel.Policy.Validate(); err != nil {
		return Breakdown{}, err
	}
	if err := s.Travel.AllowanceReduction.Validate(); err != nil {
		return Breakdown{}, err
	}
	day, err := entry.Day()
	if err != nil {
		return Breakdown{}, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	b := Breakdown{
		Date:     entry.Date,
		DayClass: calendar.Classify(day, holidays),
		RestDay:  calendar.IsRestDay(day, holidays, s.Standby.SaturdayAsRest),
	}

	if entry.Fixed != nil {
		b.FixedType = entry.Fixed.Type
		b.FixedEarnings = c.nonNegative(entry.Date, "fixed earnings", entry.Fixed.Earnings)
		b.sum()
		return b, nil
	}

	log := c.log.With(zap.String("date", entry.Date))
	var (
		credited  []piece
		separate  int // travel minutes paid outside the standard day
		allTravel int
	)

	addWork := func(i model.Interval) int {
		sp, ok := c.span(log, i)
		if !ok {
			return 0
		}
		credited = append(credited, piece{span: sp, pay: payOvertime})
		b.WorkMinutes += sp.minutes()
		return sp.minutes()
	}
	addTravel := func(t model.TravelInterval, intervention bool) {
		sp, ok := c.span(log, t.Interval)
		if !ok {
			return
		}
		allTravel += sp.minutes()
		b.TravelMinutes += sp.minutes()
		switch {
		case intervention && s.Standby.TravelWithBonus:
			credited = append(credited, piece{span: sp, pay: payOvertime})
		case s.Travel.Policy == settings.TravelProportionalCCNL:
			credited = append(credited, piece{span: sp, pay: payTravel})
		case s.Travel.Policy == settings.TravelMultiShiftOptimized && t.Kind == model.TravelInternal:
			credited = append(credited, piece{span: sp, pay: payOvertime})
		default:
			separate += sp.minutes()
		}
	}

	for _, w := range entry.Work {
		addWork(w)
	}
	for _, t := range entry.Travel {
		addTravel(t, false)
	}
	if entry.Standby {
		for _, iv := range entry.Interventions {
			for _, w := range iv.Work {
				b.InterventionMinutes += addWork(w)
			}
			for _, t := range iv.Travel {
				addTravel(t, true)
			}
		}
		b.Interventions = len(entry.Interventions)
	} else if len(entry.Interventions) > 0 {
		log.Debug("ignoring interventions on a day without standby", zap.Int("count", len(entry.Interventions)))
	}

	rates := s.Contract
	hourly := rates.HourlyRate

	// Proportional-day law: up to the standard day the daily rate scales
	// linearly; only minutes past it earn overtime or travel rates.
	sort.SliceStable(credited, func(i, j int) bool { return credited[i].from < credited[j].from })
	for _, p := range credited {
		b.CreditedMinutes += p.minutes()
	}
	base := b.CreditedMinutes
	if base > StandardDayMinutes {
		base = StandardDayMinutes
	}
	b.RegularPay = rates.DailyRate.Mul(decimal.NewFromInt(int64(base))).Div(standardDay)

	travelExcess := decimal.Zero
	remaining := StandardDayMinutes
	for _, p := range credited {
		if remaining >= p.minutes() {
			remaining -= p.minutes()
			continue
		}
		excess := span{from: p.from + remaining, to: p.to}
		remaining = 0
		for _, part := range splitAtBands(excess) {
			hours := decimal.NewFromInt(int64(part.minutes())).Div(sixty)
			switch p.pay {
			case payOvertime:
				mult := ResolveMultiplier(part.from, b.RestDay, rates.Overtime)
				b.OvertimePay = b.OvertimePay.Add(hourly.Mul(mult).Mul(hours))
				b.OvertimeMinutes += part.minutes()
			case payTravel:
				travelExcess = travelExcess.Add(hourly.Mul(s.Travel.Rate).Mul(hours))
			}
		}
	}

	b.TravelPay = travelExcess.
		Add(separateTravelPay(s, separate)).
		Add(travelAllowance(entry, s, b.WorkMinutes+allTravel))
	b.StandbyPay = standbyPay(entry, s, b.RestDay)
	b.MealPay = mealPay(entry.Meals.Lunch, s.Meals.Lunch).Add(mealPay(entry.Meals.Dinner, s.Meals.Dinner))

	b.RegularPay = c.nonNegative(entry.Date, "regular pay", b.RegularPay)
	b.OvertimePay = c.nonNegative(entry.Date, "overtime pay", b.OvertimePay)
	b.TravelPay = c.nonNegative(entry.Date, "travel pay", b.TravelPay)
	b.StandbyPay = c.nonNegative(entry.Date, "standby pay", b.StandbyPay)
	b.MealPay = c.nonNegative(entry.Date, "meal pay", b.MealPay)
	b.sum()
	return b, nil
}

// span converts an interval, logging and skipping malformed or empty ones.
func (c *Calculator) span(log *zap.Logger, i model.Interval) (span, bool) {
	from, to, ok := timecalc.Span(i)
	if !ok {
		if !i.Open() {
			log.Debug("skipping malformed or empty interval", zap.String("start", i.Start), zap.String("end", i.End))
		}
		return span{}, false
	}
	return span{from: from, to: to}, true
}

func (c *Calculator) nonNegative(date, what string, d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		c.log.Warn("clamping negative amount to zero",
			zap.String("date", date), zap.String("component", what), zap.String("amount", d.String()))
		return decimal.Zero
	}
	return d
}

// separateTravelPay pays travel minutes that were not credited to the
// standard day, according to the active policy.
func separateTravelPay(s settings.Settings, minutes int) decimal.Decimal {
	if minutes <= 0 {
		return decimal.Zero
	}
	hours := decimal.NewFromInt(int64(minutes)).Div(sixty)
	hourly := s.Contract.HourlyRate
	switch s.Travel.Policy {
	case settings.TravelFixedAllowance:
		return s.Travel.FixedAmount
	case settings.TravelHourly, settings.TravelMultiShiftOptimized:
		return hourly.Mul(s.Travel.Rate).Mul(hours)
	case settings.TravelPercentageBonus:
		bonus := decimal.NewFromInt(1).Add(s.Travel.BonusPercent.Div(hundred))
		return hourly.Mul(hours).Mul(bonus)
	}
	// Proportional CCNL credits all travel; nothing is left to pay here.
	return decimal.Zero
}

// travelAllowance returns the daily travel allowance (trasferta), scaled by
// the entry percentage and reduced by exactly one reduction rule.
func travelAllowance(entry model.WorkEntry, s settings.Settings, dayMinutes int) decimal.Decimal {
	if !entry.TravelAllowance {
		return decimal.Zero
	}
	pct := hundred
	if entry.TravelAllowancePercent != nil {
		pct = *entry.TravelAllowancePercent
	}
	amount := s.Travel.DailyAllowance.Mul(pct).Div(hundred)
	switch s.Travel.AllowanceReduction {
	case settings.AllowanceProportionalCCNL:
		if dayMinutes < StandardDayMinutes {
			amount = amount.Mul(decimal.NewFromInt(int64(dayMinutes))).Div(standardDay)
		}
	case settings.AllowanceHalfIfHalfDay:
		if dayMinutes < StandardDayMinutes {
			amount = amount.Mul(half)
		}
	}
	return amount
}

// standbyPay returns the on-call allowance for a standby day.
func standbyPay(entry model.WorkEntry, s settings.Settings, restDay bool) decimal.Decimal {
	if !entry.Standby {
		return decimal.Zero
	}
	called := len(entry.Interventions) > 0
	switch {
	case restDay && called:
		return s.Standby.FestiveAllowance
	case restDay:
		return s.Standby.FestiveIndemnity
	case called:
		return s.Standby.DailyAllowance
	}
	return s.Standby.DailyIndemnity
}

// mealPay returns what a meal is worth: the cash override when set,
// otherwise the default voucher (if used) plus any cash.
func mealPay(m model.Meal, voucher decimal.Decimal) decimal.Decimal {
	if m.CashOverride.IsPositive() {
		return m.CashOverride
	}
	total := m.Cash
	if m.Voucher {
		total = total.Add(voucher)
	}
	return total
}
