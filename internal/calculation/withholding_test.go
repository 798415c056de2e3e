package calculation_test

import (
	"testing"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/calculation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestWithholdingUVT_Brackets(t *testing.T) {
	brackets := calculation.DefaultBrackets()

	tests := []struct {
		uvt  string
		want string
	}{
		{"0", "0"},
		{"94", "0"},
		{"95", "0"},
		{"96", "0.19"},
		{"150", "10.45"},
		{"360", "69.25"},
		{"640", "161.65"},
		{"945", "268.4"},
		{"2300", "769.75"},
		{"2400", "808.75"},
	}
	for _, tt := range tests {
		t.Run(tt.uvt, func(t *testing.T) {
			got := calculation.WithholdingUVT(d(tt.uvt), brackets)
			assert.True(t, d(tt.want).Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestWithholdingUVT_ContinuousAtBoundaries(t *testing.T) {
	brackets := calculation.DefaultBrackets()
	eps := d("0.0001")
	for _, b := range brackets[1:] {
		below := calculation.WithholdingUVT(b.FromUVT.Sub(eps), brackets)
		above := calculation.WithholdingUVT(b.FromUVT.Add(eps), brackets)
		assert.True(t, above.GreaterThanOrEqual(below), "jump at %s", b.FromUVT)
		assert.True(t, above.Sub(below).LessThan(d("0.001")), "discontinuity at %s", b.FromUVT)
	}
}

func TestWithholdingTax_NinetyFourVersusNinetySixUVT(t *testing.T) {
	rates := calculation.DefaultRates()

	at94 := calculation.WithholdingTax(rates.UVT.Mul(decimal.NewFromInt(94)), rates)
	at96 := calculation.WithholdingTax(rates.UVT.Mul(decimal.NewFromInt(96)), rates)

	assert.True(t, at94.IsZero())
	assert.True(t, at96.IsPositive())
	// 1 UVT over the threshold at 19%
	assert.True(t, d("8058.28").Equal(at96), at96.String())
}

func TestRates_Validate(t *testing.T) {
	assert.NoError(t, calculation.DefaultRates().Validate())

	r := calculation.DefaultRates()
	r.HealthEmployee = d("4")
	assert.ErrorIs(t, r.Validate(), calculation.ErrInvalidRates)

	r = calculation.DefaultRates()
	r.Brackets = []calculation.Bracket{
		{FromUVT: d("0")},
		{FromUVT: d("150"), Rate: d("0.28")},
		{FromUVT: d("95"), Rate: d("0.19")},
	}
	assert.ErrorIs(t, r.Validate(), calculation.ErrInvalidRates)

	r = calculation.DefaultRates()
	r.MonthlyHours = decimal.Zero
	assert.ErrorIs(t, r.Validate(), calculation.ErrInvalidRates)
}

func TestStandardPeriodDays(t *testing.T) {
	assert.Equal(t, 30, calculation.StandardPeriodDays(calculation.PeriodMonthly, 31))
	assert.Equal(t, 15, calculation.StandardPeriodDays(calculation.PeriodBiweekly, 14))
	assert.Equal(t, 7, calculation.StandardPeriodDays(calculation.PeriodWeekly, 7))
	assert.Equal(t, 10, calculation.StandardPeriodDays(calculation.PeriodSpecial, 10))
	assert.Equal(t, 30, calculation.StandardPeriodDays(calculation.PeriodSpecial, 45))
}
