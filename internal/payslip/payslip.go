// Package payslip renders a payroll into a printable A4 PDF.
package payslip

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const ContentType = "application/pdf"

const (
	LineEarning              = "earning"
	LineBenefit              = "benefit"
	LineDeduction            = "deduction"
	LineTax                  = "tax"
	LineEmployerContribution = "employer_contribution"
)

type Line struct {
	Code     string
	Name     string
	Type     string
	Quantity decimal.Decimal
	Rate     decimal.Decimal
	Amount   decimal.Decimal
}

type Payslip struct {
	CompanyName           string
	PayrollNumber         string
	Status                string
	EmployeeName          string
	EmployeeNumber        string
	DocumentNumber        string
	DepartmentName        string
	PositionName          string
	PeriodName            string
	StartDate             time.Time
	EndDate               time.Time
	PayDate               time.Time
	BaseSalary            decimal.Decimal
	WorkedDays            decimal.Decimal
	WorkedHours           decimal.Decimal
	OvertimeHours         decimal.Decimal
	GrossSalary           decimal.Decimal
	TotalDeductions       decimal.Decimal
	TotalTaxes            decimal.Decimal
	NetSalary             decimal.Decimal
	EmployerContributions decimal.Decimal
	Lines                 []Line
	GeneratedAt           time.Time
}

var (
	locale  = language.MustParse("es-CO")
	printer = message.NewPrinter(locale)
	titler  = cases.Title(locale)
)

// FormatMoney renders an amount with locale grouping and two decimals.
func FormatMoney(v decimal.Decimal) string {
	f, _ := v.Round(2).Float64()
	return "$ " + printer.Sprintf("%.2f", f)
}

// DisplayName title-cases a person's name.
func DisplayName(name string) string {
	return titler.String(strings.ToLower(strings.TrimSpace(name)))
}

type section struct {
	title string
	types []string
}

var sections = []section{
	{title: "Devengos", types: []string{LineEarning, LineBenefit}},
	{title: "Deducciones", types: []string{LineDeduction, LineTax}},
	{title: "Aportes del empleador", types: []string{LineEmployerContribution}},
}

func linesOf(lines []Line, types []string) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		for _, t := range types {
			if l.Type == t {
				out = append(out, l)
				break
			}
		}
	}
	return out
}

// Render builds the payslip PDF.
func Render(p Payslip) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if !p.GeneratedAt.IsZero() {
		pdf.SetCreationDate(p.GeneratedAt)
	}
	pdf.SetTitle(tr("Comprobante de nómina "+p.PayrollNumber), false)
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(p.CompanyName), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, tr("Comprobante de nómina "+p.PayrollNumber), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	info := [][2]string{
		{"Empleado", DisplayName(p.EmployeeName)},
		{"Documento", p.DocumentNumber},
		{"Código", p.EmployeeNumber},
		{"Departamento", p.DepartmentName},
		{"Cargo", p.PositionName},
		{"Periodo", fmt.Sprintf("%s (%s a %s)", p.PeriodName, p.StartDate.Format("2006-01-02"), p.EndDate.Format("2006-01-02"))},
		{"Fecha de pago", p.PayDate.Format("2006-01-02")},
		{"Salario base", FormatMoney(p.BaseSalary)},
		{"Días trabajados", p.WorkedDays.String()},
		{"Horas extra", p.OvertimeHours.String()},
	}
	for _, row := range info {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(45, 6, tr(row[0]), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, tr(row[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	for _, sec := range sections {
		lines := linesOf(p.Lines, sec.types)
		if len(lines) == 0 {
			continue
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 7, tr(sec.title), "", 1, "L", false, 0, "")

		pdf.SetFillColor(230, 230, 230)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(30, 6, tr("Código"), "1", 0, "L", true, 0, "")
		pdf.CellFormat(85, 6, "Concepto", "1", 0, "L", true, 0, "")
		pdf.CellFormat(25, 6, "Cantidad", "1", 0, "R", true, 0, "")
		pdf.CellFormat(40, 6, "Valor", "1", 1, "R", true, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		for _, l := range lines {
			pdf.CellFormat(30, 6, tr(l.Code), "1", 0, "L", false, 0, "")
			pdf.CellFormat(85, 6, tr(l.Name), "1", 0, "L", false, 0, "")
			qty := ""
			if !l.Quantity.IsZero() {
				qty = l.Quantity.String()
			}
			pdf.CellFormat(25, 6, qty, "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 6, tr(FormatMoney(l.Amount)), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(3)
	}

	totals := [][2]string{
		{"Total devengado", FormatMoney(p.GrossSalary)},
		{"Total deducciones", FormatMoney(p.TotalDeductions)},
		{"Total impuestos", FormatMoney(p.TotalTaxes)},
		{"Neto a pagar", FormatMoney(p.NetSalary)},
	}
	for i, row := range totals {
		style := ""
		if i == len(totals)-1 {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(140, 7, tr(row[0]), "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, tr(row[1]), "", 1, "R", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render payslip: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render payslip: %w", err)
	}
	return buf.Bytes(), nil
}
