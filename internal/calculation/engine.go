// Package calculation turns an employee's base salary, attendance and the
// company's concept catalog into a gross-to-net payroll. It performs no I/O.
package calculation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/formula"
	"github.com/shopspring/decimal"
)

type ConceptType string

const (
	ConceptEarning   ConceptType = "earning"
	ConceptDeduction ConceptType = "deduction"
	ConceptTax       ConceptType = "tax"
	ConceptBenefit   ConceptType = "benefit"
)

type CalculationType string

const (
	CalcFixed      CalculationType = "fixed"
	CalcPercentage CalculationType = "percentage"
	CalcFormula    CalculationType = "formula"
)

type LineType string

const (
	LineEarning              LineType = "earning"
	LineBenefit              LineType = "benefit"
	LineDeduction            LineType = "deduction"
	LineTax                  LineType = "tax"
	LineEmployerContribution LineType = "employer_contribution"
)

const (
	PeriodMonthly  = "monthly"
	PeriodBiweekly = "biweekly"
	PeriodWeekly   = "weekly"
	PeriodSpecial  = "special"
)

// Variables every formula can reference besides concept codes. GROSS and
// IBC only exist once earnings are settled.
const (
	VarBaseSalary     = "BASE_SALARY"
	VarProrated       = "PRORATED_SALARY"
	VarDailySalary    = "DAILY_SALARY"
	VarHourlyRate     = "HOURLY_RATE"
	VarWorkedDays     = "WORKED_DAYS"
	VarWorkedHours    = "WORKED_HOURS"
	VarOvertimeHours  = "OVERTIME_HOURS"
	VarOvertimePay    = "OVERTIME_PAY"
	VarGross          = "GROSS"
	VarIBC            = "IBC"
	VarUVT            = "UVT"
	VarMinimumWage    = "MINIMUM_WAGE"
	CodeBasicSalary   = "BASIC_SALARY"
	CodeOvertime      = "OVERTIME"
	CodeHealth        = "HEALTH"
	CodePension       = "PENSION"
	CodeSolidarity    = "SOLIDARITY_FUND"
	CodeWithholding   = "WITHHOLDING_TAX"
	CodeEmpHealth     = "EMPLOYER_HEALTH"
	CodeEmpPension    = "EMPLOYER_PENSION"
	CodeARL           = "ARL"
	CodeCompensation  = "COMPENSATION_FUND"
	CodeICBF          = "ICBF"
	CodeSENA          = "SENA"
	commercialMonth   = 30
	percentDenom      = 100
	moneyDecimalPlace = 2
)

// BuiltinVariables lists the names formulas may use without a concept.
func BuiltinVariables() []string {
	return []string{
		VarBaseSalary, VarProrated, VarDailySalary, VarHourlyRate,
		VarWorkedDays, VarWorkedHours, VarOvertimeHours, VarOvertimePay,
		VarGross, VarIBC, VarUVT, VarMinimumWage,
		CodeHealth, CodePension, CodeSolidarity,
	}
}

var reservedCodes = func() map[string]struct{} {
	set := map[string]struct{}{}
	for _, code := range append(BuiltinVariables(),
		CodeBasicSalary, CodeOvertime, CodeWithholding,
		CodeEmpHealth, CodeEmpPension, CodeARL, CodeCompensation, CodeICBF, CodeSENA,
	) {
		set[code] = struct{}{}
	}
	return set
}()

// IsReservedCode reports whether code names a line or variable the engine
// produces itself.
func IsReservedCode(code string) bool {
	_, ok := reservedCodes[code]
	return ok
}

// Concept is the engine's view of a catalog entry.
type Concept struct {
	ID                    string
	Code                  string
	Name                  string
	Type                  ConceptType
	CalculationType       CalculationType
	Value                 decimal.Decimal // amount for fixed, percent for percentage
	PercentageBase        string
	Formula               *formula.Node
	IsTaxable             bool
	AffectsSocialSecurity bool
	Mandatory             bool
	Priority              int
}

type Input struct {
	BaseSalary    decimal.Decimal
	PeriodType    string
	PeriodDays    int // inclusive calendar length, used by special periods
	WorkedDays    decimal.Decimal
	WorkedHours   decimal.Decimal
	OvertimeHours decimal.Decimal
}

type Line struct {
	ConceptID string
	Code      string
	Name      string
	Type      LineType
	Amount    decimal.Decimal
	Quantity  decimal.Decimal
	Rate      decimal.Decimal
}

type Result struct {
	BaseSalary            decimal.Decimal
	ProratedSalary        decimal.Decimal
	HourlyRate            decimal.Decimal
	OvertimePay           decimal.Decimal
	WorkedDays            decimal.Decimal
	WorkedHours           decimal.Decimal
	RegularHours          decimal.Decimal
	OvertimeHours         decimal.Decimal
	SocialSecurityBase    decimal.Decimal
	TaxableBase           decimal.Decimal
	GrossSalary           decimal.Decimal
	TotalEarnings         decimal.Decimal
	TotalDeductions       decimal.Decimal
	TotalTaxes            decimal.Decimal
	NetSalary             decimal.Decimal
	EmployerContributions decimal.Decimal
	RatesVersion          int
	Lines                 []Line
}

var (
	ErrMissingBaseSalary = errors.New("employee has no base salary")
	ErrInvalidWorkedDays = errors.New("worked days out of range for the period")
	ErrNegativeHours     = errors.New("worked and overtime hours must not be negative")
)

// CalculationError names the concept whose amount could not be computed.
type CalculationError struct {
	Code string
	Err  error
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("concept %s: %v", e.Code, e.Err)
}

func (e *CalculationError) Unwrap() error { return e.Err }

// StandardPeriodDays is the number of paid days a full period represents.
// Months are commercial (30 days); special periods use their own length
// capped at a month.
func StandardPeriodDays(periodType string, periodDays int) int {
	switch periodType {
	case PeriodBiweekly:
		return 15
	case PeriodWeekly:
		return 7
	case PeriodSpecial:
		if periodDays <= 0 || periodDays > commercialMonth {
			return commercialMonth
		}
		return periodDays
	default:
		return commercialMonth
	}
}

func money(v decimal.Decimal) decimal.Decimal { return v.Round(moneyDecimalPlace) }

func percentOf(base, percent decimal.Decimal) decimal.Decimal {
	return base.Mul(percent).Div(decimal.NewFromInt(percentDenom))
}

type run struct {
	rates Rates
	// toMonthly scales a period amount to a commercial month, where the
	// withholding table and the solidarity threshold are defined.
	toMonthly decimal.Decimal
	vars      map[string]decimal.Decimal
	lines     []Line
	result    Result
}

// Calculate runs the gross-to-net pipeline:
//
//  1. prorate the base salary and price overtime;
//  2. apply earning and benefit concepts by priority;
//  3. compute statutory contributions on the social security base (IBC);
//  4. apply deduction and tax concepts by priority;
//  5. apply UVT withholding on gross minus exempt contributions, scaled
//     to a month for shorter periods.
//
// Every line is rounded to cents before it is summed, so
// net = gross - deductions - taxes holds exactly unless net is clamped at 0.
func Calculate(in Input, rates Rates, concepts []Concept) (Result, error) {
	if !in.BaseSalary.IsPositive() {
		return Result{}, ErrMissingBaseSalary
	}
	if err := rates.Validate(); err != nil {
		return Result{}, err
	}
	stdDays := decimal.NewFromInt(int64(StandardPeriodDays(in.PeriodType, in.PeriodDays)))
	if in.WorkedDays.IsNegative() || in.WorkedDays.GreaterThan(stdDays) {
		return Result{}, ErrInvalidWorkedDays
	}
	if in.WorkedHours.IsNegative() || in.OvertimeHours.IsNegative() {
		return Result{}, ErrNegativeHours
	}

	r := &run{
		rates:     rates,
		toMonthly: decimal.NewFromInt(commercialMonth).DivRound(stdDays, 8),
		vars:      map[string]decimal.Decimal{},
	}
	r.prepare(in)

	earnings, deductions := splitConcepts(concepts)

	grossFromConcepts := decimal.Zero
	ssFromConcepts := decimal.Zero
	nonTaxable := decimal.Zero
	for _, c := range earnings {
		amount, err := r.conceptAmount(c, VarProrated)
		if err != nil {
			return Result{}, err
		}
		lineType := LineEarning
		if c.Type == ConceptBenefit {
			lineType = LineBenefit
		}
		r.addConceptLine(c, lineType, amount)
		grossFromConcepts = grossFromConcepts.Add(amount)
		if c.AffectsSocialSecurity {
			ssFromConcepts = ssFromConcepts.Add(amount)
		}
		if !c.IsTaxable {
			nonTaxable = nonTaxable.Add(amount)
		}
	}

	res := &r.result
	res.TotalEarnings = res.ProratedSalary.Add(res.OvertimePay).Add(grossFromConcepts)
	res.GrossSalary = res.TotalEarnings
	res.SocialSecurityBase = res.ProratedSalary.Add(res.OvertimePay).Add(ssFromConcepts)
	r.vars[VarGross] = res.GrossSalary
	r.vars[VarIBC] = res.SocialSecurityBase

	health, pension, solidarity, employer := r.statutory()

	conceptDeductions := decimal.Zero
	conceptTaxes := decimal.Zero
	for _, c := range deductions {
		amount, err := r.conceptAmount(c, VarGross)
		if err != nil {
			return Result{}, err
		}
		if c.Type == ConceptTax {
			r.addConceptLine(c, LineTax, amount)
			conceptTaxes = conceptTaxes.Add(amount)
		} else {
			r.addConceptLine(c, LineDeduction, amount)
			conceptDeductions = conceptDeductions.Add(amount)
		}
	}

	taxable := res.GrossSalary.Sub(health).Sub(pension).Sub(nonTaxable)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	res.TaxableBase = taxable
	withholding := r.withholding(taxable)
	r.lines = append(r.lines, Line{
		Code:     CodeWithholding,
		Name:     "Retención en la fuente",
		Type:     LineTax,
		Amount:   withholding,
		Quantity: taxable.DivRound(rates.UVT, 2),
	})

	statutoryDeductions := health.Add(pension).Add(solidarity)
	res.TotalDeductions = statutoryDeductions.Add(conceptDeductions)
	res.TotalTaxes = withholding.Add(conceptTaxes)
	res.EmployerContributions = employer
	res.NetSalary = res.GrossSalary.Sub(res.TotalDeductions).Sub(res.TotalTaxes)
	if res.NetSalary.IsNegative() {
		res.NetSalary = decimal.Zero
	}
	res.RatesVersion = rates.Version
	res.Lines = r.lines
	return *res, nil
}

func (r *run) prepare(in Input) {
	res := &r.result
	res.BaseSalary = in.BaseSalary
	res.WorkedDays = in.WorkedDays
	res.OvertimeHours = in.OvertimeHours

	worked := in.WorkedHours
	if worked.IsZero() {
		worked = in.WorkedDays.Mul(r.rates.DailyHours).Add(in.OvertimeHours)
	}
	res.WorkedHours = worked
	res.RegularHours = worked.Sub(in.OvertimeHours)
	if res.RegularHours.IsNegative() {
		res.RegularHours = decimal.Zero
	}

	daily := in.BaseSalary.DivRound(decimal.NewFromInt(commercialMonth), 8)
	res.ProratedSalary = money(in.BaseSalary.Mul(in.WorkedDays).DivRound(decimal.NewFromInt(commercialMonth), 8))
	res.HourlyRate = in.BaseSalary.DivRound(r.rates.MonthlyHours, 8)
	res.OvertimePay = money(in.OvertimeHours.Mul(res.HourlyRate).Mul(r.rates.OvertimeRate))

	r.lines = append(r.lines, Line{
		Code:     CodeBasicSalary,
		Name:     "Salario básico",
		Type:     LineEarning,
		Amount:   res.ProratedSalary,
		Quantity: in.WorkedDays,
	})
	if res.OvertimePay.IsPositive() {
		r.lines = append(r.lines, Line{
			Code:     CodeOvertime,
			Name:     "Horas extra",
			Type:     LineEarning,
			Amount:   res.OvertimePay,
			Quantity: in.OvertimeHours,
			Rate:     r.rates.OvertimeRate,
		})
	}

	r.vars[VarBaseSalary] = in.BaseSalary
	r.vars[VarProrated] = res.ProratedSalary
	r.vars[VarDailySalary] = daily
	r.vars[VarHourlyRate] = res.HourlyRate
	r.vars[VarWorkedDays] = in.WorkedDays
	r.vars[VarWorkedHours] = worked
	r.vars[VarOvertimeHours] = in.OvertimeHours
	r.vars[VarOvertimePay] = res.OvertimePay
	r.vars[VarUVT] = r.rates.UVT
	r.vars[VarMinimumWage] = r.rates.MinimumWage
}

// statutory adds employee and employer social security lines computed on
// the IBC and returns their totals.
func (r *run) statutory() (health, pension, solidarity, employer decimal.Decimal) {
	ibc := r.result.SocialSecurityBase
	rates := r.rates

	health = money(ibc.Mul(rates.HealthEmployee))
	pension = money(ibc.Mul(rates.PensionEmployee))
	r.addStatutory(CodeHealth, "Aporte salud empleado", LineDeduction, health, rates.HealthEmployee)
	r.addStatutory(CodePension, "Aporte pensión empleado", LineDeduction, pension, rates.PensionEmployee)
	r.vars[CodeHealth] = health
	r.vars[CodePension] = pension

	solidarity = decimal.Zero
	threshold := rates.MinimumWage.Mul(rates.SolidarityThresholdWages)
	if rates.SolidarityFund.IsPositive() && ibc.Mul(r.toMonthly).GreaterThanOrEqual(threshold) {
		solidarity = money(ibc.Mul(rates.SolidarityFund))
		r.addStatutory(CodeSolidarity, "Fondo de solidaridad pensional", LineDeduction, solidarity, rates.SolidarityFund)
	}
	r.vars[CodeSolidarity] = solidarity

	contributions := []struct {
		code, name string
		rate       decimal.Decimal
	}{
		{CodeEmpHealth, "Salud empleador", rates.HealthEmployer},
		{CodeEmpPension, "Pensión empleador", rates.PensionEmployer},
		{CodeARL, "ARL", rates.ARL},
		{CodeCompensation, "Caja de compensación", rates.CompensationFund},
		{CodeICBF, "ICBF", rates.ICBF},
		{CodeSENA, "SENA", rates.SENA},
	}
	employer = decimal.Zero
	for _, e := range contributions {
		amount := money(ibc.Mul(e.rate))
		r.addStatutory(e.code, e.name, LineEmployerContribution, amount, e.rate)
		employer = employer.Add(amount)
	}
	return health, pension, solidarity, employer
}

// withholding applies the monthly table to the period's monthly equivalent
// and brings the tax back to the period.
func (r *run) withholding(taxable decimal.Decimal) decimal.Decimal {
	monthlyTax := WithholdingTax(taxable.Mul(r.toMonthly), r.rates)
	if r.toMonthly.Equal(decimal.NewFromInt(1)) {
		return monthlyTax
	}
	return money(monthlyTax.DivRound(r.toMonthly, 8))
}

func (r *run) addStatutory(code, name string, t LineType, amount, rate decimal.Decimal) {
	r.lines = append(r.lines, Line{
		Code:     code,
		Name:     name,
		Type:     t,
		Amount:   amount,
		Quantity: r.result.SocialSecurityBase,
		Rate:     rate,
	})
}

func (r *run) addConceptLine(c Concept, t LineType, amount decimal.Decimal) {
	line := Line{
		ConceptID: c.ID,
		Code:      c.Code,
		Name:      c.Name,
		Type:      t,
		Amount:    amount,
	}
	if c.CalculationType == CalcPercentage {
		line.Rate = c.Value
	}
	r.lines = append(r.lines, line)
	if !IsReservedCode(c.Code) {
		r.vars[c.Code] = amount
	}
}

func (r *run) conceptAmount(c Concept, defaultBase string) (decimal.Decimal, error) {
	var amount decimal.Decimal
	switch c.CalculationType {
	case CalcFixed:
		amount = c.Value
	case CalcPercentage:
		baseName := c.PercentageBase
		if baseName == "" {
			baseName = defaultBase
		}
		base, ok := r.vars[baseName]
		if !ok {
			return decimal.Zero, &CalculationError{Code: c.Code, Err: &formula.UnresolvedVariableError{Code: baseName}}
		}
		amount = percentOf(base, c.Value)
	case CalcFormula:
		v, err := formula.Eval(c.Formula, r.vars)
		if err != nil {
			return decimal.Zero, &CalculationError{Code: c.Code, Err: err}
		}
		amount = v
	default:
		return decimal.Zero, &CalculationError{Code: c.Code, Err: fmt.Errorf("unknown calculation type %q", c.CalculationType)}
	}

	if amount.IsNegative() {
		return decimal.Zero, &CalculationError{Code: c.Code, Err: errors.New("amount is negative")}
	}
	return money(amount), nil
}

// splitConcepts orders additions and subtractions by priority then code.
func splitConcepts(concepts []Concept) (earnings, deductions []Concept) {
	for _, c := range concepts {
		switch c.Type {
		case ConceptEarning, ConceptBenefit:
			earnings = append(earnings, c)
		case ConceptDeduction, ConceptTax:
			deductions = append(deductions, c)
		}
	}
	byPriority := func(list []Concept) {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Priority != list[j].Priority {
				return list[i].Priority < list[j].Priority
			}
			return list[i].Code < list[j].Code
		})
	}
	byPriority(earnings)
	byPriority(deductions)
	return earnings, deductions
}
