package settings

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTravelPolicy is returned for a travel policy outside the
	// closed set below.
	ErrUnknownTravelPolicy = errors.New("unknown travel policy")
	// ErrUnknownAllowanceReduction is returned for an unknown travel
	// allowance reduction.
	ErrUnknownAllowanceReduction = errors.New("unknown travel allowance reduction")
	// ErrUnknownNetMethod is returned for an unknown net estimation method.
	ErrUnknownNetMethod = errors.New("unknown net calculation method")
)

// TravelPolicy selects how travel hours are compensated. Exactly one policy
// is active at a time.
type TravelPolicy string

const (
	// TravelProportionalCCNL credits travel as work time towards the standard
	// day; only travel beyond it is paid at the travel rate.
	TravelProportionalCCNL TravelPolicy = "proportional_ccnl"
	// TravelFixedAllowance pays a flat amount on any day with travel.
	TravelFixedAllowance TravelPolicy = "fixed_allowance"
	// TravelHourly pays every travel hour at the travel rate.
	TravelHourly TravelPolicy = "hourly"
	// TravelMultiShiftOptimized credits travel between shifts as work and
	// pays outbound and return travel hourly.
	TravelMultiShiftOptimized TravelPolicy = "multi_shift_optimized"
	// TravelPercentageBonus pays travel hours at the hourly rate plus a
	// percentage bonus.
	TravelPercentageBonus TravelPolicy = "percentage_bonus"
)

// TravelPolicies lists every known policy.
var TravelPolicies = []TravelPolicy{
	TravelProportionalCCNL,
	TravelFixedAllowance,
	TravelHourly,
	TravelMultiShiftOptimized,
	TravelPercentageBonus,
}

// Validate reports ErrUnknownTravelPolicy for values outside TravelPolicies.
func (p TravelPolicy) Validate() error {
	for _, known := range TravelPolicies {
		if p == known {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownTravelPolicy, string(p))
}

// AllowanceReduction selects how the daily travel allowance shrinks on
// short days. The variants are mutually exclusive.
type AllowanceReduction string

const (
	AllowanceFull AllowanceReduction = "none"
	// AllowanceProportionalCCNL scales the allowance by the fraction of the
	// standard day worked, capped at 1.
	AllowanceProportionalCCNL AllowanceReduction = "proportional_ccnl"
	// AllowanceHalfIfHalfDay halves the allowance below the standard day.
	AllowanceHalfIfHalfDay AllowanceReduction = "half_if_half_day"
)

// Validate reports ErrUnknownAllowanceReduction for unknown values.
func (r AllowanceReduction) Validate() error {
	switch r {
	case AllowanceFull, AllowanceProportionalCCNL, AllowanceHalfIfHalfDay:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownAllowanceReduction, string(r))
}

// NetMethod selects how the net amount is estimated from gross.
type NetMethod string

const (
	NetIRPEF  NetMethod = "irpef"
	NetCustom NetMethod = "custom"
)

// Validate reports ErrUnknownNetMethod for unknown values.
func (m NetMethod) Validate() error {
	switch m {
	case NetIRPEF, NetCustom:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownNetMethod, string(m))
}
