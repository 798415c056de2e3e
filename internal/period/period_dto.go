package period

import (
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type CreatePeriodRequest struct {
	Name       string `json:"name" binding:"required,max=150"`
	PeriodType string `json:"period_type" binding:"required,oneof=monthly biweekly weekly special"`
	StartDate  string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate    string `json:"end_date" binding:"required,datetime=2006-01-02"`
	PayDate    string `json:"pay_date" binding:"required,datetime=2006-01-02"`
	Notes      string `json:"notes"`
}

// UpdatePeriodRequest only changes the fields that are present.
type UpdatePeriodRequest struct {
	Name       *string `json:"name" binding:"omitempty,max=150"`
	PeriodType *string `json:"period_type" binding:"omitempty,oneof=monthly biweekly weekly special"`
	StartDate  *string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate    *string `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	PayDate    *string `json:"pay_date" binding:"omitempty,datetime=2006-01-02"`
	Notes      *string `json:"notes"`
}

type ListFilter struct {
	Year       int    `form:"year" binding:"omitempty,gte=1900"`
	Status     string `form:"status" binding:"omitempty,oneof=draft open processing closed"`
	PeriodType string `form:"period_type" binding:"omitempty,oneof=monthly biweekly weekly special"`
	Page       int    `form:"page" binding:"omitempty,gte=1"`
	Limit      int    `form:"limit" binding:"omitempty,gte=1,lte=100"`
}

type PeriodResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	PeriodType   string  `json:"period_type"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	PayDate      string  `json:"pay_date"`
	Year         int     `json:"year"`
	Month        int     `json:"month"`
	PeriodNumber int     `json:"period_number"`
	Status       string  `json:"status"`
	Notes        string  `json:"notes,omitempty"`
	OpenedAt     *string `json:"opened_at"`
	ClosedAt     *string `json:"closed_at"`
	ClosedBy     *string `json:"closed_by"`
	CreatedAt    string  `json:"created_at"`
}

// StatusTotals is one row of the per-status payroll aggregate.
type StatusTotals struct {
	Status                string
	Count                 int64
	GrossSalary           decimal.Decimal
	TotalDeductions       decimal.Decimal
	TotalTaxes            decimal.Decimal
	NetSalary             decimal.Decimal
	EmployerContributions decimal.Decimal
}

type MoneyStats struct {
	Total   decimal.Decimal `json:"total"`
	Average decimal.Decimal `json:"average"`
}

type SummaryResponse struct {
	PeriodID              string           `json:"payroll_period_id"`
	Status                string           `json:"status"`
	PayrollCount          int64            `json:"payroll_count"`
	CountByStatus         map[string]int64 `json:"count_by_status"`
	GrossSalary           MoneyStats       `json:"gross_salary"`
	TotalDeductions       MoneyStats       `json:"total_deductions"`
	TotalTaxes            MoneyStats       `json:"total_taxes"`
	NetSalary             MoneyStats       `json:"net_salary"`
	EmployerContributions MoneyStats       `json:"employer_contributions"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}

func mapToResponse(p PayrollPeriod) PeriodResponse {
	resp := PeriodResponse{
		ID:           p.ID.String(),
		Name:         p.Name,
		PeriodType:   p.PeriodType,
		StartDate:    p.StartDate.Format(dateLayout),
		EndDate:      p.EndDate.Format(dateLayout),
		PayDate:      p.PayDate.Format(dateLayout),
		Year:         p.Year,
		Month:        p.Month,
		PeriodNumber: p.PeriodNumber,
		Status:       string(p.Status),
		Notes:        p.Notes,
		OpenedAt:     formatTime(p.OpenedAt),
		ClosedAt:     formatTime(p.ClosedAt),
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
	}
	if p.ClosedBy != nil {
		v := p.ClosedBy.String()
		resp.ClosedBy = &v
	}
	return resp
}

func mapToListResponse(periods []PayrollPeriod) []PeriodResponse {
	out := make([]PeriodResponse, 0, len(periods))
	for _, p := range periods {
		out = append(out, mapToResponse(p))
	}
	return out
}
