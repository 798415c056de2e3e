package report

import (
	"sort"
	"time"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/payroll"

	"github.com/shopspring/decimal"
)

const unassignedKey = "unassigned"

var (
	hundred = decimal.NewFromInt(100)

	statusOrder = []payroll.PayrollStatus{
		payroll.StatusDraft,
		payroll.StatusCalculated,
		payroll.StatusApproved,
		payroll.StatusPaid,
		payroll.StatusRejected,
		payroll.StatusCancelled,
	}
)

func zeroAggregate() Aggregate {
	return Aggregate{
		GrossSalary:           decimal.Zero,
		TotalDeductions:       decimal.Zero,
		TotalTaxes:            decimal.Zero,
		NetSalary:             decimal.Zero,
		EmployerContributions: decimal.Zero,
		AverageGross:          decimal.Zero,
		AverageNet:            decimal.Zero,
	}
}

func (a *Aggregate) add(r Row) {
	a.Count++
	a.GrossSalary = a.GrossSalary.Add(r.GrossSalary)
	a.TotalDeductions = a.TotalDeductions.Add(r.TotalDeductions)
	a.TotalTaxes = a.TotalTaxes.Add(r.TotalTaxes)
	a.NetSalary = a.NetSalary.Add(r.NetSalary)
	a.EmployerContributions = a.EmployerContributions.Add(r.EmployerContributions)
}

func (a *Aggregate) finish() {
	if a.Count == 0 {
		return
	}
	n := decimal.NewFromInt(a.Count)
	a.AverageGross = a.GrossSalary.Div(n).Round(2)
	a.AverageNet = a.NetSalary.Div(n).Round(2)
}

func aggregate(rows []Row) Aggregate {
	a := zeroAggregate()
	for _, r := range rows {
		a.add(r)
	}
	a.finish()
	return a
}

func departmentKey(r Row) (string, string) {
	if r.DepartmentID == nil {
		return unassignedKey, ""
	}
	return r.DepartmentID.String(), r.DepartmentName
}

func positionKey(r Row) (string, string) {
	if r.PositionID == nil {
		return unassignedKey, ""
	}
	return r.PositionID.String(), r.PositionName
}

// groupBy aggregates rows per key, sorted by name and then key.
func groupBy(rows []Row, key func(Row) (string, string)) []Group {
	index := map[string]int{}
	out := []Group{}
	for _, r := range rows {
		k, name := key(r)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Group{Key: k, Name: name, Aggregate: zeroAggregate()})
		}
		out[i].add(r)
	}
	for i := range out {
		out[i].finish()
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Summarize aggregates rows overall and per status, department and
// position. Every payroll status is present in ByStatus.
func Summarize(rows []Row) Summary {
	byStatus := make([]Group, 0, len(statusOrder))
	for _, st := range statusOrder {
		g := Group{Key: string(st), Name: string(st), Aggregate: zeroAggregate()}
		for _, r := range rows {
			if r.Status == string(st) {
				g.add(r)
			}
		}
		g.finish()
		byStatus = append(byStatus, g)
	}

	return Summary{
		Overall:      aggregate(rows),
		ByStatus:     byStatus,
		ByDepartment: groupBy(rows, departmentKey),
		ByPosition:   groupBy(rows, positionKey),
	}
}

func percentChange(prev, cur decimal.Decimal) *decimal.Decimal {
	if prev.IsZero() {
		return nil
	}
	p := cur.Sub(prev).Div(prev).Mul(hundred).Round(2)
	return &p
}

// Compare totals rows per period in start date order. Each period after the
// first carries its change against the one before it.
func Compare(rows []Row) []PeriodComparison {
	index := map[string]int{}
	out := []PeriodComparison{}
	for _, r := range rows {
		k := r.PeriodID.String()
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, PeriodComparison{
				PeriodID:    k,
				PeriodName:  r.PeriodName,
				StartDate:   r.PeriodStart,
				EndDate:     r.PeriodEnd,
				Aggregate:   zeroAggregate(),
				GrossChange: decimal.Zero,
				NetChange:   decimal.Zero,
			})
		}
		out[i].add(r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].PeriodID < out[j].PeriodID
	})

	for i := range out {
		out[i].finish()
		if i == 0 {
			continue
		}
		prev := out[i-1]
		out[i].GrossChange = out[i].GrossSalary.Sub(prev.GrossSalary)
		out[i].NetChange = out[i].NetSalary.Sub(prev.NetSalary)
		out[i].GrossChangePercent = percentChange(prev.GrossSalary, out[i].GrossSalary)
		out[i].NetChangePercent = percentChange(prev.NetSalary, out[i].NetSalary)
	}
	return out
}

// TrendStart is the first day of the month months-1 months before now.
func TrendStart(now time.Time, months int) time.Time {
	if months < 1 {
		months = DefaultAnalyticsMonths
	}
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, -(months - 1), 0)
}

// Trend buckets rows by the month their period starts in. It always
// returns one point per month ending at now's month.
func Trend(rows []Row, months int, now time.Time) []MonthlyPoint {
	if months < 1 {
		months = DefaultAnalyticsMonths
	}
	start := TrendStart(now, months)

	out := make([]MonthlyPoint, months)
	index := make(map[string]int, months)
	for i := range out {
		m := start.AddDate(0, i, 0).Format("2006-01")
		index[m] = i
		out[i] = MonthlyPoint{
			Month:                 m,
			GrossSalary:           decimal.Zero,
			NetSalary:             decimal.Zero,
			EmployerContributions: decimal.Zero,
		}
	}

	for _, r := range rows {
		i, ok := index[r.PeriodStart.Format("2006-01")]
		if !ok {
			continue
		}
		out[i].Count++
		out[i].GrossSalary = out[i].GrossSalary.Add(r.GrossSalary)
		out[i].NetSalary = out[i].NetSalary.Add(r.NetSalary)
		out[i].EmployerContributions = out[i].EmployerContributions.Add(r.EmployerContributions)
	}
	return out
}

// Shares splits gross salary cost per department. Percent is zero when
// nothing was paid at all.
func Shares(rows []Row) []DepartmentShare {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.GrossSalary)
	}

	groups := groupBy(rows, departmentKey)
	out := make([]DepartmentShare, 0, len(groups))
	for _, g := range groups {
		pct := decimal.Zero
		if !total.IsZero() {
			pct = g.GrossSalary.Div(total).Mul(hundred).Round(2)
		}
		out = append(out, DepartmentShare{
			DepartmentID:   g.Key,
			DepartmentName: g.Name,
			GrossSalary:    g.GrossSalary,
			Percent:        pct,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].GrossSalary.GreaterThan(out[j].GrossSalary)
	})
	return out
}
