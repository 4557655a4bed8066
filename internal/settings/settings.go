// Package settings holds the contract configuration the earnings engine reads.
// Settings are loaded once, defaulted at the boundary and passed by value into
// every calculation.
package settings

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Tiliavir/cedolino/internal/calendar"
)

// Settings is the complete contract configuration.
type Settings struct {
	Contract Contract     `yaml:"contract"`
	Travel   Travel       `yaml:"travel"`
	Standby  Standby      `yaml:"standby"`
	Net      Net          `yaml:"net"`
	Meals    MealDefaults `yaml:"meals"`
	// Holidays adds dates (YYYY-MM-DD) to the fixed national holidays, e.g.
	// Easter Monday or the local patron saint.
	Holidays []string `yaml:"holidays" validate:"dive,datetime=2006-01-02"`
}

// Contract holds base pay and overtime multipliers.
type Contract struct {
	Name          string          `yaml:"name"`
	Level         string          `yaml:"level"`
	MonthlySalary decimal.Decimal `yaml:"monthly_salary" validate:"gte=0"`
	DailyRate     decimal.Decimal `yaml:"daily_rate" validate:"gt=0"`
	HourlyRate    decimal.Decimal `yaml:"hourly_rate" validate:"gt=0"`
	Overtime      OvertimeRates   `yaml:"overtime"`
}

// OvertimeRates are multipliers relative to the hourly rate (1.0 = base).
type OvertimeRates struct {
	Day          decimal.Decimal `yaml:"day" validate:"gte=1"`
	NightUntil22 decimal.Decimal `yaml:"night_until_22" validate:"gte=1"`
	NightAfter22 decimal.Decimal `yaml:"night_after_22" validate:"gte=1"`
	Holiday      decimal.Decimal `yaml:"holiday" validate:"gte=1"`
	NightHoliday decimal.Decimal `yaml:"night_holiday" validate:"gte=1"`
}

// Travel configures travel-time compensation and the daily travel allowance.
type Travel struct {
	Policy TravelPolicy `yaml:"policy"`
	// Rate multiplies the hourly rate for paid travel hours.
	Rate         decimal.Decimal `yaml:"rate" validate:"gte=0"`
	FixedAmount  decimal.Decimal `yaml:"fixed_amount" validate:"gte=0"`
	BonusPercent decimal.Decimal `yaml:"bonus_percent" validate:"gte=0,lte=100"`
	// DailyAllowance is the full-day travel allowance (trasferta).
	DailyAllowance     decimal.Decimal    `yaml:"daily_allowance" validate:"gte=0"`
	AllowanceReduction AllowanceReduction `yaml:"allowance_reduction"`
}

// Standby configures on-call pay.
type Standby struct {
	// DailyIndemnity is paid on a standby day without interventions.
	DailyIndemnity decimal.Decimal `yaml:"daily_indemnity" validate:"gte=0"`
	// DailyAllowance is paid on a standby day with at least one intervention.
	DailyAllowance   decimal.Decimal `yaml:"daily_allowance" validate:"gte=0"`
	FestiveIndemnity decimal.Decimal `yaml:"festive_indemnity" validate:"gte=0"`
	FestiveAllowance decimal.Decimal `yaml:"festive_allowance" validate:"gte=0"`
	// TravelWithBonus credits intervention travel as work time, earning
	// overtime multipliers instead of the travel policy.
	TravelWithBonus bool `yaml:"travel_with_bonus"`
	SaturdayAsRest  bool `yaml:"saturday_as_rest"`
}

// Net configures the net-of-tax estimate.
type Net struct {
	Method              NetMethod       `yaml:"method"`
	CustomDeductionRate decimal.Decimal `yaml:"custom_deduction_rate" validate:"gte=0,lte=1"`
	// UseActualAmount bases the rate on the month's gross instead of the
	// annualised monthly salary.
	UseActualAmount bool `yaml:"use_actual_amount"`
}

// MealDefaults are the voucher amounts used when a meal is flagged as voucher.
type MealDefaults struct {
	Lunch  decimal.Decimal `yaml:"lunch" validate:"gte=0"`
	Dinner decimal.Decimal `yaml:"dinner" validate:"gte=0"`
}

// Contract defaults (CCNL Metalmeccanico Industria, level C3 / 5th category).
var (
	DefaultMonthlySalary = decimal.RequireFromString("2839.07")
	DefaultDailyRate     = decimal.RequireFromString("109.19")
	DefaultHourlyRate    = decimal.RequireFromString("16.41")

	DefaultOvertimeDay          = decimal.RequireFromString("1.20")
	DefaultOvertimeNightUntil22 = decimal.RequireFromString("1.25")
	DefaultOvertimeNightAfter22 = decimal.RequireFromString("1.35")
	DefaultOvertimeHoliday      = decimal.RequireFromString("1.30")
	DefaultOvertimeNightHoliday = decimal.RequireFromString("1.50")

	DefaultTravelRate           = decimal.NewFromInt(1)
	DefaultTravelFixedAmount    = decimal.RequireFromString("15.00")
	DefaultTravelDailyAllowance = decimal.RequireFromString("46.48")

	DefaultStandbyDailyIndemnity   = decimal.RequireFromString("7.03")
	DefaultStandbyFestiveIndemnity = decimal.RequireFromString("10.63")
	DefaultStandbyDailyAllowance   = decimal.RequireFromString("12.00")
	DefaultStandbyFestiveAllowance = decimal.RequireFromString("18.00")

	DefaultMealVoucher = decimal.RequireFromString("5.29")
)

// Defaults returns Settings pre-filled with the contract defaults.
func Defaults() Settings {
	s := Settings{
		Contract: Contract{
			MonthlySalary: DefaultMonthlySalary,
			DailyRate:     DefaultDailyRate,
			HourlyRate:    DefaultHourlyRate,
			Overtime: OvertimeRates{
				Day:          DefaultOvertimeDay,
				NightUntil22: DefaultOvertimeNightUntil22,
				NightAfter22: DefaultOvertimeNightAfter22,
				Holiday:      DefaultOvertimeHoliday,
				NightHoliday: DefaultOvertimeNightHoliday,
			},
		},
		Travel: Travel{
			Rate:           DefaultTravelRate,
			FixedAmount:    DefaultTravelFixedAmount,
			DailyAllowance: DefaultTravelDailyAllowance,
		},
		Standby: Standby{
			DailyIndemnity:   DefaultStandbyDailyIndemnity,
			DailyAllowance:   DefaultStandbyDailyAllowance,
			FestiveIndemnity: DefaultStandbyFestiveIndemnity,
			FestiveAllowance: DefaultStandbyFestiveAllowance,
		},
		Meals: MealDefaults{
			Lunch:  DefaultMealVoucher,
			Dinner: DefaultMealVoucher,
		},
	}
	s.ApplyDefaults()
	return s
}

// ApplyDefaults fills blank names and enum values. Amounts are left alone:
// zero is a valid amount, and missing keys already keep their defaults
// because Parse decodes over Defaults.
func (s *Settings) ApplyDefaults() {
	if s.Contract.Name == "" {
		s.Contract.Name = "CCNL Metalmeccanico Industria"
	}
	if s.Travel.Policy == "" {
		s.Travel.Policy = TravelProportionalCCNL
	}
	if s.Travel.AllowanceReduction == "" {
		s.Travel.AllowanceReduction = AllowanceFull
	}
	if s.Net.Method == "" {
		s.Net.Method = NetIRPEF
	}
}

// Calendar returns the holiday set for the given years: the fixed national
// holidays plus the configured extra dates.
func (s Settings) Calendar(years ...int) (calendar.Holidays, error) {
	extra, err := calendar.NewHolidays(s.Holidays...)
	if err != nil {
		return nil, fmt.Errorf("settings holidays: %w", err)
	}
	return calendar.ItalianNationalHolidays(years...).Merge(extra), nil
}
