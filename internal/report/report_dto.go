package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TypeSummary     = "summary"
	TypeDetailed    = "detailed"
	TypeComparative = "comparative"

	DefaultAnalyticsMonths = 12
	dateLayout             = "2006-01-02"
)

type ReportFilter struct {
	ReportType   string `form:"report_type" json:"report_type" binding:"omitempty,oneof=summary detailed comparative"`
	PeriodID     string `form:"period_id" json:"period_id,omitempty" binding:"omitempty,uuid"`
	DateFrom     string `form:"date_from" json:"date_from,omitempty" binding:"omitempty,datetime=2006-01-02"`
	DateTo       string `form:"date_to" json:"date_to,omitempty" binding:"omitempty,datetime=2006-01-02"`
	DepartmentID string `form:"department_id" json:"department_id,omitempty" binding:"omitempty,uuid"`
	PositionID   string `form:"position_id" json:"position_id,omitempty" binding:"omitempty,uuid"`
	Status       string `form:"status" json:"status,omitempty" binding:"omitempty,oneof=draft calculated approved paid rejected cancelled"`
}

type AnalyticsFilter struct {
	Months int `form:"months" binding:"omitempty,min=1,max=60"`
}

// Row is one payroll joined to the names a report needs.
type Row struct {
	PayrollID             uuid.UUID       `json:"payroll_id"`
	PayrollNumber         string          `json:"payroll_number"`
	EmployeeID            uuid.UUID       `json:"employee_id"`
	EmployeeName          string          `json:"employee_name"`
	DepartmentID          *uuid.UUID      `json:"department_id"`
	DepartmentName        string          `json:"department_name"`
	PositionID            *uuid.UUID      `json:"position_id"`
	PositionName          string          `json:"position_name"`
	PeriodID              uuid.UUID       `json:"period_id"`
	PeriodName            string          `json:"period_name"`
	PeriodStart           time.Time       `json:"period_start"`
	PeriodEnd             time.Time       `json:"period_end"`
	Status                string          `json:"status"`
	BaseSalary            decimal.Decimal `json:"base_salary"`
	GrossSalary           decimal.Decimal `json:"gross_salary"`
	TotalEarnings         decimal.Decimal `json:"total_earnings"`
	TotalDeductions       decimal.Decimal `json:"total_deductions"`
	TotalTaxes            decimal.Decimal `json:"total_taxes"`
	NetSalary             decimal.Decimal `json:"net_salary"`
	EmployerContributions decimal.Decimal `json:"employer_contributions"`
}

type Aggregate struct {
	Count                 int64           `json:"count"`
	GrossSalary           decimal.Decimal `json:"gross_salary"`
	TotalDeductions       decimal.Decimal `json:"total_deductions"`
	TotalTaxes            decimal.Decimal `json:"total_taxes"`
	NetSalary             decimal.Decimal `json:"net_salary"`
	EmployerContributions decimal.Decimal `json:"employer_contributions"`
	AverageGross          decimal.Decimal `json:"average_gross"`
	AverageNet            decimal.Decimal `json:"average_net"`
}

type Group struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Aggregate
}

type Summary struct {
	Overall      Aggregate `json:"overall"`
	ByStatus     []Group   `json:"by_status"`
	ByDepartment []Group   `json:"by_department"`
	ByPosition   []Group   `json:"by_position"`
}

type PeriodComparison struct {
	PeriodID   string    `json:"period_id"`
	PeriodName string    `json:"period_name"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Aggregate
	GrossChange        decimal.Decimal  `json:"gross_change"`
	NetChange          decimal.Decimal  `json:"net_change"`
	GrossChangePercent *decimal.Decimal `json:"gross_change_percent"`
	NetChangePercent   *decimal.Decimal `json:"net_change_percent"`
}

type MonthlyPoint struct {
	Month                 string          `json:"month"`
	Count                 int64           `json:"count"`
	GrossSalary           decimal.Decimal `json:"gross_salary"`
	NetSalary             decimal.Decimal `json:"net_salary"`
	EmployerContributions decimal.Decimal `json:"employer_contributions"`
}

type DepartmentShare struct {
	DepartmentID   string          `json:"department_id"`
	DepartmentName string          `json:"department_name"`
	GrossSalary    decimal.Decimal `json:"gross_salary"`
	Percent        decimal.Decimal `json:"percent"`
}

// Report is what Generate returns. Data holds a Summary, []Row or
// []PeriodComparison depending on ReportType.
type Report struct {
	ReportType  string       `json:"report_type"`
	Filter      ReportFilter `json:"filter"`
	GeneratedAt time.Time    `json:"generated_at"`
	Totals      Aggregate    `json:"totals"`
	Data        any          `json:"data"`
}

type Analytics struct {
	Months          int               `json:"months"`
	From            string            `json:"from"`
	Trend           []MonthlyPoint    `json:"monthly_trend"`
	DepartmentShare []DepartmentShare `json:"department_share"`
}
