package payslip_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/payslip"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	p := payslip.Payslip{
		CompanyName:     "Escuela Deportiva",
		PayrollNumber:   "NOM-000001",
		EmployeeName:    "maría PÉREZ",
		PeriodName:      "Enero 2024",
		StartDate:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		PayDate:         time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		BaseSalary:      decimal.NewFromInt(3000000),
		WorkedDays:      decimal.NewFromInt(30),
		GrossSalary:     decimal.NewFromInt(3000000),
		TotalDeductions: decimal.NewFromInt(240000),
		NetSalary:       decimal.NewFromInt(2760000),
		Lines: []payslip.Line{
			{Code: "BASIC_SALARY", Name: "Salario básico", Type: payslip.LineEarning, Quantity: decimal.NewFromInt(30), Amount: decimal.NewFromInt(3000000)},
			{Code: "HEALTH", Name: "Salud", Type: payslip.LineDeduction, Amount: decimal.NewFromInt(120000)},
			{Code: "PENSION", Name: "Pensión", Type: payslip.LineDeduction, Amount: decimal.NewFromInt(120000)},
			{Code: "EMPLOYER_PENSION", Name: "Pensión empleador", Type: payslip.LineEmployerContribution, Amount: decimal.NewFromInt(360000)},
		},
		GeneratedAt: time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC),
	}

	out, err := payslip.Render(p)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.True(t, bytes.Contains(out, []byte("%%EOF")))
}

func TestRender_NoLines(t *testing.T) {
	out, err := payslip.Render(payslip.Payslip{PayrollNumber: "NOM-000002"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "María Pérez", payslip.DisplayName("  maría PÉREZ "))
}
