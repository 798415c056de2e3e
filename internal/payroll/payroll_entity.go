package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PayrollStatus string

const (
	StatusDraft      PayrollStatus = "draft"
	StatusCalculated PayrollStatus = "calculated"
	StatusApproved   PayrollStatus = "approved"
	StatusPaid       PayrollStatus = "paid"
	StatusRejected   PayrollStatus = "rejected"
	StatusCancelled  PayrollStatus = "cancelled"
)

const NumberPrefix = "NOM"

type Payroll struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CompanyID             uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_payrolls_employee_period,priority:1;uniqueIndex:uq_payrolls_number,priority:1"`
	PayrollNumber         string          `gorm:"size:30;not null;uniqueIndex:uq_payrolls_number,priority:2"`
	EmployeeID            uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_payrolls_employee_period,priority:2"`
	PayrollPeriodID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_payrolls_employee_period,priority:3;index"`
	DepartmentID          *uuid.UUID      `gorm:"type:uuid"`
	PositionID            *uuid.UUID      `gorm:"type:uuid"`
	BaseSalary            decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	WorkedDays            decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	WorkedHours           decimal.Decimal `gorm:"type:numeric(8,2);not null"`
	RegularHours          decimal.Decimal `gorm:"type:numeric(8,2);not null"`
	OvertimeHours         decimal.Decimal `gorm:"type:numeric(8,2);not null"`
	GrossSalary           decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	TotalEarnings         decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	TotalDeductions       decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	TotalTaxes            decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	NetSalary             decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	EmployerContributions decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	SocialSecurityBase    decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	TaxableBase           decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	RatesVersion          int             `gorm:"not null"`
	Status                PayrollStatus   `gorm:"size:20;not null;index"`
	Notes                 string          `gorm:"type:text"`
	RejectionReason       string          `gorm:"type:text"`
	RejectedBy            *uuid.UUID      `gorm:"type:uuid"`
	RejectedAt            *time.Time
	ApprovedBy            *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt            *time.Time
	PaidAt                *time.Time
	PayslipURL            string `gorm:"size:500"`
	CalculatedAt          *time.Time
	CreatedBy             *uuid.UUID `gorm:"type:uuid"`
	CreatedAt             time.Time
	UpdatedAt             time.Time

	Details []PayrollDetail `gorm:"foreignKey:PayrollID"`
}

// PayrollDetail is one applied concept. Statutory lines carry no concept id.
type PayrollDetail struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PayrollID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ConceptID   *uuid.UUID      `gorm:"column:payroll_concept_id;type:uuid;index"`
	ConceptCode string          `gorm:"size:50;not null"`
	ConceptName string          `gorm:"size:150;not null"`
	Type        string          `gorm:"size:30;not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Quantity    decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Rate        decimal.Decimal `gorm:"type:numeric(18,6);not null"`
	LineOrder   int             `gorm:"not null"`
	CreatedAt   time.Time
}

var allowedTransitions = map[PayrollStatus][]PayrollStatus{
	StatusDraft:      {StatusCalculated, StatusCancelled},
	StatusCalculated: {StatusApproved, StatusRejected, StatusDraft, StatusCancelled},
	StatusApproved:   {StatusPaid, StatusRejected},
	StatusRejected:   {StatusDraft},
}

// CanTransition reports whether a payroll may move from one status to
// another. Paid and cancelled payrolls are final.
func CanTransition(from, to PayrollStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func ValidStatus(s PayrollStatus) bool {
	switch s {
	case StatusDraft, StatusCalculated, StatusApproved, StatusPaid, StatusRejected, StatusCancelled:
		return true
	}
	return false
}
