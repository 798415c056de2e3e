package payrollconfig

import (
	"time"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/calculation"

	"github.com/shopspring/decimal"
)

const (
	SourceDefault = "default"
	SourceCompany = "company"
)

// UpdateSettingsRequest only changes the fields that are present.
type UpdateSettingsRequest struct {
	HealthEmployee           *decimal.Decimal      `json:"health_employee"`
	PensionEmployee          *decimal.Decimal      `json:"pension_employee"`
	SolidarityFund           *decimal.Decimal      `json:"solidarity_fund"`
	HealthEmployer           *decimal.Decimal      `json:"health_employer"`
	PensionEmployer          *decimal.Decimal      `json:"pension_employer"`
	ARL                      *decimal.Decimal      `json:"arl"`
	CompensationFund         *decimal.Decimal      `json:"compensation_fund"`
	ICBF                     *decimal.Decimal      `json:"icbf"`
	SENA                     *decimal.Decimal      `json:"sena"`
	OvertimeRate             *decimal.Decimal      `json:"overtime_rate"`
	UVT                      *decimal.Decimal      `json:"uvt"`
	MinimumWage              *decimal.Decimal      `json:"minimum_wage"`
	SolidarityThresholdWages *decimal.Decimal      `json:"solidarity_threshold_wages"`
	MonthlyHours             *decimal.Decimal      `json:"monthly_hours"`
	DailyHours               *decimal.Decimal      `json:"daily_hours"`
	Brackets                 []calculation.Bracket `json:"withholding_brackets"`
	Notes                    string                `json:"notes" binding:"max=500"`
}

type SettingsResponse struct {
	Source    string            `json:"source"`
	Rates     calculation.Rates `json:"rates"`
	Notes     string            `json:"notes,omitempty"`
	CreatedBy *string           `json:"created_by,omitempty"`
	CreatedAt *string           `json:"created_at,omitempty"`
}

func (req UpdateSettingsRequest) apply(r calculation.Rates) calculation.Rates {
	set := func(dst *decimal.Decimal, v *decimal.Decimal) {
		if v != nil {
			*dst = *v
		}
	}
	set(&r.HealthEmployee, req.HealthEmployee)
	set(&r.PensionEmployee, req.PensionEmployee)
	set(&r.SolidarityFund, req.SolidarityFund)
	set(&r.HealthEmployer, req.HealthEmployer)
	set(&r.PensionEmployer, req.PensionEmployer)
	set(&r.ARL, req.ARL)
	set(&r.CompensationFund, req.CompensationFund)
	set(&r.ICBF, req.ICBF)
	set(&r.SENA, req.SENA)
	set(&r.OvertimeRate, req.OvertimeRate)
	set(&r.UVT, req.UVT)
	set(&r.MinimumWage, req.MinimumWage)
	set(&r.SolidarityThresholdWages, req.SolidarityThresholdWages)
	set(&r.MonthlyHours, req.MonthlyHours)
	set(&r.DailyHours, req.DailyHours)
	if len(req.Brackets) > 0 {
		r.Brackets = req.Brackets
	}
	return r
}

func mapToResponse(s PayrollSetting) SettingsResponse {
	resp := SettingsResponse{
		Source: SourceCompany,
		Rates:  s.ToRates(),
		Notes:  s.Notes,
	}
	if s.CreatedBy != nil {
		v := s.CreatedBy.String()
		resp.CreatedBy = &v
	}
	if !s.CreatedAt.IsZero() {
		v := s.CreatedAt.Format(time.RFC3339)
		resp.CreatedAt = &v
	}
	return resp
}
