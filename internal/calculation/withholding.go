package calculation

import "github.com/shopspring/decimal"

// WithholdingUVT applies the bracket table to an income already expressed
// in UVT and returns the tax in UVT.
func WithholdingUVT(incomeUVT decimal.Decimal, brackets []Bracket) decimal.Decimal {
	if !incomeUVT.IsPositive() || len(brackets) == 0 {
		return decimal.Zero
	}

	applied := brackets[0]
	for _, b := range brackets {
		if incomeUVT.GreaterThan(b.FromUVT) {
			applied = b
		}
	}

	tax := incomeUVT.Sub(applied.FromUVT).Mul(applied.Rate).Add(applied.OffsetUVT)
	if tax.IsNegative() {
		return decimal.Zero
	}
	return tax
}

// WithholdingTax converts a taxable amount to UVT, applies the table and
// converts the result back to currency, rounded to cents.
func WithholdingTax(taxable decimal.Decimal, rates Rates) decimal.Decimal {
	if !taxable.IsPositive() || !rates.UVT.IsPositive() {
		return decimal.Zero
	}
	incomeUVT := taxable.DivRound(rates.UVT, 8)
	return WithholdingUVT(incomeUVT, rates.Brackets).Mul(rates.UVT).Round(2)
}
