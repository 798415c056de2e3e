package payrollconfig

import (
	"time"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/calculation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PayrollSetting is one immutable version of a company's rates. Updates
// insert a new version; the highest version is current.
type PayrollSetting struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_settings_version,priority:1"`
	Version   int       `gorm:"not null;uniqueIndex:uq_payroll_settings_version,priority:2"`

	HealthEmployee   decimal.Decimal `gorm:"type:numeric(9,6);not null"`
	PensionEmployee  decimal.Decimal `gorm:"type:numeric(9,6);not null"`
	SolidarityFund   decimal.Decimal `gorm:"type:numeric(9,6);not null"`
	HealthEmployer   decimal.Decimal `gorm:"type:numeric(9,6);not null"`
	PensionEmployer  decimal.Decimal `gorm:"type:numeric(9,6);not null"`
	ARL              decimal.Decimal `gorm:"column:arl;type:numeric(9,6);not null"`
	CompensationFund decimal.Decimal `gorm:"type:numeric(9,6);not null"`
	ICBF             decimal.Decimal `gorm:"column:icbf;type:numeric(9,6);not null"`
	SENA             decimal.Decimal `gorm:"column:sena;type:numeric(9,6);not null"`

	OvertimeRate             decimal.Decimal `gorm:"type:numeric(9,4);not null"`
	UVT                      decimal.Decimal `gorm:"column:uvt;type:numeric(18,2);not null"`
	MinimumWage              decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	SolidarityThresholdWages decimal.Decimal `gorm:"type:numeric(9,2);not null"`
	MonthlyHours             decimal.Decimal `gorm:"type:numeric(9,2);not null"`
	DailyHours               decimal.Decimal `gorm:"type:numeric(9,2);not null"`

	Brackets datatypes.JSONType[[]calculation.Bracket] `gorm:"column:withholding_brackets;type:jsonb;not null"`

	Notes     string     `gorm:"type:text"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
}

func (s PayrollSetting) ToRates() calculation.Rates {
	return calculation.Rates{
		Version:                  s.Version,
		HealthEmployee:           s.HealthEmployee,
		PensionEmployee:          s.PensionEmployee,
		SolidarityFund:           s.SolidarityFund,
		HealthEmployer:           s.HealthEmployer,
		PensionEmployer:          s.PensionEmployer,
		ARL:                      s.ARL,
		CompensationFund:         s.CompensationFund,
		ICBF:                     s.ICBF,
		SENA:                     s.SENA,
		OvertimeRate:             s.OvertimeRate,
		UVT:                      s.UVT,
		MinimumWage:              s.MinimumWage,
		SolidarityThresholdWages: s.SolidarityThresholdWages,
		MonthlyHours:             s.MonthlyHours,
		DailyHours:               s.DailyHours,
		Brackets:                 s.Brackets.Data(),
	}
}

func settingFromRates(companyID uuid.UUID, r calculation.Rates) PayrollSetting {
	return PayrollSetting{
		CompanyID:                companyID,
		Version:                  r.Version,
		HealthEmployee:           r.HealthEmployee,
		PensionEmployee:          r.PensionEmployee,
		SolidarityFund:           r.SolidarityFund,
		HealthEmployer:           r.HealthEmployer,
		PensionEmployer:          r.PensionEmployer,
		ARL:                      r.ARL,
		CompensationFund:         r.CompensationFund,
		ICBF:                     r.ICBF,
		SENA:                     r.SENA,
		OvertimeRate:             r.OvertimeRate,
		UVT:                      r.UVT,
		MinimumWage:              r.MinimumWage,
		SolidarityThresholdWages: r.SolidarityThresholdWages,
		MonthlyHours:             r.MonthlyHours,
		DailyHours:               r.DailyHours,
		Brackets:                 datatypes.NewJSONType(r.Brackets),
	}
}
