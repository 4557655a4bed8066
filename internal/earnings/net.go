package earnings

import (
	"github.com/shopspring/decimal"

	"github.com/Tiliavir/cedolino/internal/settings"
)

// INPSEmployeeRate is the employee share of social security contributions.
var INPSEmployeeRate = decimal.RequireFromString("0.0919")

type bracket struct {
	upTo decimal.Decimal // zero means unbounded
	rate decimal.Decimal
}

// irpefBrackets are the 2025 IRPEF brackets on annual taxable income.
var irpefBrackets = []bracket{
	{upTo: decimal.NewFromInt(28000), rate: decimal.RequireFromString("0.23")},
	{upTo: decimal.NewFromInt(50000), rate: decimal.RequireFromString("0.35")},
	{upTo: decimal.Zero, rate: decimal.RequireFromString("0.43")},
}

var twelve = decimal.NewFromInt(12)

// NetEstimate is an approximate net-of-tax amount.
type NetEstimate struct {
	Method        settings.NetMethod `json:"method"`
	Gross         decimal.Decimal    `json:"gross"`
	EffectiveRate decimal.Decimal    `json:"effective_rate"`
	Deductions    decimal.Decimal    `json:"deductions"`
	Net           decimal.Decimal    `json:"net"`
}

// EstimateNet applies an effective deduction rate to gross. With the IRPEF
// method the rate comes from contributions plus bracketed income tax on an
// annual base: the monthly salary times twelve, or gross times twelve when
// UseActualAmount is set. Annualising the salary keeps one month's overtime
// from inflating the base.
func EstimateNet(gross decimal.Decimal, s settings.Settings) (NetEstimate, error) {
	if err := s.Net.Method.Validate(); err != nil {
		return NetEstimate{}, err
	}
	var rate decimal.Decimal
	switch s.Net.Method {
	case settings.NetCustom:
		rate = s.Net.CustomDeductionRate
	case settings.NetIRPEF:
		annual := s.Contract.MonthlySalary.Mul(twelve)
		if s.Net.UseActualAmount {
			annual = gross.Mul(twelve)
		}
		rate = IRPEFEffectiveRate(annual)
	}
	deductions := gross.Mul(rate)
	return NetEstimate{
		Method:        s.Net.Method,
		Gross:         gross,
		EffectiveRate: rate,
		Deductions:    deductions,
		Net:           gross.Sub(deductions),
	}, nil
}

// IRPEFEffectiveRate returns (INPS + IRPEF) / annual for an annual gross.
func IRPEFEffectiveRate(annual decimal.Decimal) decimal.Decimal {
	if !annual.IsPositive() {
		return decimal.Zero
	}
	contributions := annual.Mul(INPSEmployeeRate)
	taxable := annual.Sub(contributions)
	return contributions.Add(IRPEF(taxable)).Div(annual)
}

// IRPEF returns the gross income tax on annual taxable income.
func IRPEF(taxable decimal.Decimal) decimal.Decimal {
	tax := decimal.Zero
	lower := decimal.Zero
	for _, b := range irpefBrackets {
		if !taxable.GreaterThan(lower) {
			break
		}
		top := taxable
		if !b.upTo.IsZero() && taxable.GreaterThan(b.upTo) {
			top = b.upTo
		}
		tax = tax.Add(top.Sub(lower).Mul(b.rate))
		lower = b.upTo
		if b.upTo.IsZero() {
			break
		}
	}
	return tax
}
