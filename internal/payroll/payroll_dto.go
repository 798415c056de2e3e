package payroll

import (
	"time"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/calculation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CalculatePayrollRequest drives both POST /payrolls and POST
// /payrolls/calculate. Omitted worked days default to the full period.
type CalculatePayrollRequest struct {
	EmployeeID      string           `json:"employee_id" binding:"required,uuid"`
	PayrollPeriodID string           `json:"payroll_period_id" binding:"required,uuid"`
	WorkedDays      *decimal.Decimal `json:"worked_days"`
	WorkedHours     *decimal.Decimal `json:"worked_hours"`
	OvertimeHours   *decimal.Decimal `json:"overtime_hours"`
	ConceptCodes    []string         `json:"concept_codes" binding:"omitempty,dive,required,max=50"`
	Notes           string           `json:"notes" binding:"omitempty,max=1000"`
}

type UpdatePayrollRequest struct {
	Status          *string          `json:"status" binding:"omitempty,oneof=draft calculated approved paid rejected cancelled"`
	Notes           *string          `json:"notes" binding:"omitempty,max=1000"`
	WorkedDays      *decimal.Decimal `json:"worked_days"`
	WorkedHours     *decimal.Decimal `json:"worked_hours"`
	OvertimeHours   *decimal.Decimal `json:"overtime_hours"`
	ConceptCodes    []string         `json:"concept_codes" binding:"omitempty,dive,required,max=50"`
	Recalculate     bool             `json:"recalculate"`
	RejectionReason *string          `json:"rejection_reason" binding:"omitempty,max=1000"`
}

func (r UpdatePayrollRequest) editsFields() bool {
	return r.Notes != nil || r.WorkedDays != nil || r.WorkedHours != nil ||
		r.OvertimeHours != nil || r.ConceptCodes != nil || r.Recalculate
}

type RejectPayrollRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"omitempty,max=1000"`
}

type ListFilter struct {
	PeriodID     string `form:"period_id" binding:"omitempty,uuid"`
	EmployeeID   string `form:"employee_id" binding:"omitempty,uuid"`
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
	Status       string `form:"status" binding:"omitempty,oneof=draft calculated approved paid rejected cancelled"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	Limit        int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

type DetailResponse struct {
	ID          string          `json:"id"`
	ConceptID   *string         `json:"concept_id"`
	ConceptCode string          `json:"concept_code"`
	ConceptName string          `json:"concept_name"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

type Totals struct {
	GrossSalary           decimal.Decimal `json:"gross_salary"`
	TotalEarnings         decimal.Decimal `json:"total_earnings"`
	TotalDeductions       decimal.Decimal `json:"total_deductions"`
	TotalTaxes            decimal.Decimal `json:"total_taxes"`
	NetSalary             decimal.Decimal `json:"net_salary"`
	EmployerContributions decimal.Decimal `json:"employer_contributions"`
}

type BreakdownResponse struct {
	PayrollID             string           `json:"payroll_id"`
	PayrollNumber         string           `json:"payroll_number"`
	Earnings              []DetailResponse `json:"earnings"`
	Deductions            []DetailResponse `json:"deductions"`
	Taxes                 []DetailResponse `json:"taxes"`
	EmployerContributions []DetailResponse `json:"employer_contributions"`
	Totals                Totals           `json:"totals"`
}

type PayrollResponse struct {
	ID                    string             `json:"id"`
	PayrollNumber         string             `json:"payroll_number"`
	EmployeeID            string             `json:"employee_id"`
	PayrollPeriodID       string             `json:"payroll_period_id"`
	DepartmentID          *string            `json:"department_id"`
	PositionID            *string            `json:"position_id"`
	BaseSalary            decimal.Decimal    `json:"base_salary"`
	WorkedDays            decimal.Decimal    `json:"worked_days"`
	WorkedHours           decimal.Decimal    `json:"worked_hours"`
	RegularHours          decimal.Decimal    `json:"regular_hours"`
	OvertimeHours         decimal.Decimal    `json:"overtime_hours"`
	GrossSalary           decimal.Decimal    `json:"gross_salary"`
	TotalEarnings         decimal.Decimal    `json:"total_earnings"`
	TotalDeductions       decimal.Decimal    `json:"total_deductions"`
	TotalTaxes            decimal.Decimal    `json:"total_taxes"`
	NetSalary             decimal.Decimal    `json:"net_salary"`
	EmployerContributions decimal.Decimal    `json:"employer_contributions"`
	SocialSecurityBase    decimal.Decimal    `json:"social_security_base"`
	TaxableBase           decimal.Decimal    `json:"taxable_base"`
	RatesVersion          int                `json:"rates_version"`
	Status                string             `json:"status"`
	Notes                 string             `json:"notes,omitempty"`
	RejectionReason       string             `json:"rejection_reason,omitempty"`
	RejectedBy            *string            `json:"rejected_by,omitempty"`
	RejectedAt            *time.Time         `json:"rejected_at,omitempty"`
	ApprovedBy            *string            `json:"approved_by,omitempty"`
	ApprovedAt            *time.Time         `json:"approved_at,omitempty"`
	PaidAt                *time.Time         `json:"paid_at,omitempty"`
	PayslipURL            string             `json:"payslip_url,omitempty"`
	CalculatedAt          *time.Time         `json:"calculated_at,omitempty"`
	CreatedAt             time.Time          `json:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at"`
	Details               []DetailResponse   `json:"details,omitempty"`
	Breakdown             *BreakdownResponse `json:"breakdown,omitempty"`
}

func mapDetail(d PayrollDetail) DetailResponse {
	resp := DetailResponse{
		ID:          d.ID.String(),
		ConceptCode: d.ConceptCode,
		ConceptName: d.ConceptName,
		Type:        d.Type,
		Amount:      d.Amount,
		Quantity:    d.Quantity,
		Rate:        d.Rate,
	}
	if d.ConceptID != nil {
		id := d.ConceptID.String()
		resp.ConceptID = &id
	}
	return resp
}

func mapToResponse(p Payroll) PayrollResponse {
	resp := PayrollResponse{
		ID:                    p.ID.String(),
		PayrollNumber:         p.PayrollNumber,
		EmployeeID:            p.EmployeeID.String(),
		PayrollPeriodID:       p.PayrollPeriodID.String(),
		BaseSalary:            p.BaseSalary,
		WorkedDays:            p.WorkedDays,
		WorkedHours:           p.WorkedHours,
		RegularHours:          p.RegularHours,
		OvertimeHours:         p.OvertimeHours,
		GrossSalary:           p.GrossSalary,
		TotalEarnings:         p.TotalEarnings,
		TotalDeductions:       p.TotalDeductions,
		TotalTaxes:            p.TotalTaxes,
		NetSalary:             p.NetSalary,
		EmployerContributions: p.EmployerContributions,
		SocialSecurityBase:    p.SocialSecurityBase,
		TaxableBase:           p.TaxableBase,
		RatesVersion:          p.RatesVersion,
		Status:                string(p.Status),
		Notes:                 p.Notes,
		RejectionReason:       p.RejectionReason,
		RejectedAt:            p.RejectedAt,
		ApprovedAt:            p.ApprovedAt,
		PaidAt:                p.PaidAt,
		PayslipURL:            p.PayslipURL,
		CalculatedAt:          p.CalculatedAt,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
	resp.DepartmentID = uuidString(p.DepartmentID)
	resp.PositionID = uuidString(p.PositionID)
	resp.RejectedBy = uuidString(p.RejectedBy)
	resp.ApprovedBy = uuidString(p.ApprovedBy)

	if len(p.Details) > 0 {
		resp.Details = make([]DetailResponse, 0, len(p.Details))
		for _, d := range p.Details {
			resp.Details = append(resp.Details, mapDetail(d))
		}
	}
	return resp
}

func mapToListResponse(payrolls []Payroll) []PayrollResponse {
	resp := make([]PayrollResponse, 0, len(payrolls))
	for _, p := range payrolls {
		resp = append(resp, mapToResponse(p))
	}
	return resp
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// Breakdown groups a payroll's lines by how they affect net pay.
func Breakdown(p Payroll) BreakdownResponse {
	resp := BreakdownResponse{
		PayrollID:             p.ID.String(),
		PayrollNumber:         p.PayrollNumber,
		Earnings:              []DetailResponse{},
		Deductions:            []DetailResponse{},
		Taxes:                 []DetailResponse{},
		EmployerContributions: []DetailResponse{},
		Totals: Totals{
			GrossSalary:           p.GrossSalary,
			TotalEarnings:         p.TotalEarnings,
			TotalDeductions:       p.TotalDeductions,
			TotalTaxes:            p.TotalTaxes,
			NetSalary:             p.NetSalary,
			EmployerContributions: p.EmployerContributions,
		},
	}
	for _, d := range p.Details {
		line := mapDetail(d)
		switch calculation.LineType(d.Type) {
		case calculation.LineEarning, calculation.LineBenefit:
			resp.Earnings = append(resp.Earnings, line)
		case calculation.LineDeduction:
			resp.Deductions = append(resp.Deductions, line)
		case calculation.LineTax:
			resp.Taxes = append(resp.Taxes, line)
		case calculation.LineEmployerContribution:
			resp.EmployerContributions = append(resp.EmployerContributions, line)
		}
	}
	return resp
}
