package calculation

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Bracket is one row of the withholding table, expressed in UVT. Income
// above FromUVT pays (income - FromUVT) * Rate + OffsetUVT.
type Bracket struct {
	FromUVT   decimal.Decimal `json:"from_uvt"`
	Rate      decimal.Decimal `json:"rate"`
	OffsetUVT decimal.Decimal `json:"offset_uvt"`
}

// Rates is the full set of regulatory constants a calculation depends on.
// It is passed explicitly to Calculate; nothing is looked up globally.
type Rates struct {
	Version int `json:"version"`

	HealthEmployee  decimal.Decimal `json:"health_employee"`
	PensionEmployee decimal.Decimal `json:"pension_employee"`
	SolidarityFund  decimal.Decimal `json:"solidarity_fund"`

	HealthEmployer   decimal.Decimal `json:"health_employer"`
	PensionEmployer  decimal.Decimal `json:"pension_employer"`
	ARL              decimal.Decimal `json:"arl"`
	CompensationFund decimal.Decimal `json:"compensation_fund"`
	ICBF             decimal.Decimal `json:"icbf"`
	SENA             decimal.Decimal `json:"sena"`

	OvertimeRate decimal.Decimal `json:"overtime_rate"`
	UVT          decimal.Decimal `json:"uvt"`
	MinimumWage  decimal.Decimal `json:"minimum_wage"`
	// SolidarityThresholdWages is the number of minimum wages from which the
	// solidarity fund contribution applies.
	SolidarityThresholdWages decimal.Decimal `json:"solidarity_threshold_wages"`
	MonthlyHours             decimal.Decimal `json:"monthly_hours"`
	DailyHours               decimal.Decimal `json:"daily_hours"`

	Brackets []Bracket `json:"withholding_brackets"`
}

func DefaultBrackets() []Bracket {
	row := func(from, rate, offset string) Bracket {
		return Bracket{
			FromUVT:   decimal.RequireFromString(from),
			Rate:      decimal.RequireFromString(rate),
			OffsetUVT: decimal.RequireFromString(offset),
		}
	}
	return []Bracket{
		row("0", "0", "0"),
		row("95", "0.19", "0"),
		row("150", "0.28", "10.45"),
		row("360", "0.33", "69.25"),
		row("640", "0.35", "161.65"),
		row("945", "0.37", "268.40"),
		row("2300", "0.39", "769.75"),
	}
}

func DefaultRates() Rates {
	return Rates{
		Version:                  1,
		HealthEmployee:           decimal.RequireFromString("0.04"),
		PensionEmployee:          decimal.RequireFromString("0.04"),
		SolidarityFund:           decimal.RequireFromString("0.01"),
		HealthEmployer:           decimal.RequireFromString("0.085"),
		PensionEmployer:          decimal.RequireFromString("0.12"),
		ARL:                      decimal.RequireFromString("0.00522"),
		CompensationFund:         decimal.RequireFromString("0.04"),
		ICBF:                     decimal.RequireFromString("0.03"),
		SENA:                     decimal.RequireFromString("0.02"),
		OvertimeRate:             decimal.RequireFromString("1.25"),
		UVT:                      decimal.NewFromInt(42412),
		MinimumWage:              decimal.NewFromInt(1160000),
		SolidarityThresholdWages: decimal.NewFromInt(4),
		MonthlyHours:             decimal.NewFromInt(240),
		DailyHours:               decimal.NewFromInt(8),
		Brackets:                 DefaultBrackets(),
	}
}

var ErrInvalidRates = errors.New("invalid payroll rates")

// Validate checks that every percentage is a fraction in [0,1], the unit
// values are positive, and the brackets ascend from zero.
func (r Rates) Validate() error {
	fractions := map[string]decimal.Decimal{
		"health_employee":   r.HealthEmployee,
		"pension_employee":  r.PensionEmployee,
		"solidarity_fund":   r.SolidarityFund,
		"health_employer":   r.HealthEmployer,
		"pension_employer":  r.PensionEmployer,
		"arl":               r.ARL,
		"compensation_fund": r.CompensationFund,
		"icbf":              r.ICBF,
		"sena":              r.SENA,
	}
	for name, v := range fractions {
		if v.IsNegative() || v.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: %s must be between 0 and 1", ErrInvalidRates, name)
		}
	}

	positives := map[string]decimal.Decimal{
		"overtime_rate": r.OvertimeRate,
		"uvt":           r.UVT,
		"minimum_wage":  r.MinimumWage,
		"monthly_hours": r.MonthlyHours,
		"daily_hours":   r.DailyHours,
	}
	for name, v := range positives {
		if !v.IsPositive() {
			return fmt.Errorf("%w: %s must be greater than 0", ErrInvalidRates, name)
		}
	}
	if r.SolidarityThresholdWages.IsNegative() {
		return fmt.Errorf("%w: solidarity_threshold_wages must not be negative", ErrInvalidRates)
	}

	if len(r.Brackets) == 0 || !r.Brackets[0].FromUVT.IsZero() {
		return fmt.Errorf("%w: withholding brackets must start at 0 UVT", ErrInvalidRates)
	}
	for i, b := range r.Brackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) || b.OffsetUVT.IsNegative() {
			return fmt.Errorf("%w: withholding bracket %d is out of range", ErrInvalidRates, i)
		}
		if i > 0 && !b.FromUVT.GreaterThan(r.Brackets[i-1].FromUVT) {
			return fmt.Errorf("%w: withholding brackets must ascend", ErrInvalidRates)
		}
	}
	return nil
}
