package concept

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type ConceptStatus string

const (
	StatusActive   ConceptStatus = "active"
	StatusInactive ConceptStatus = "inactive"
)

type PayrollConcept struct {
	ID                    uuid.UUID        `gorm:"type:uuid;primaryKey"`
	CompanyID             uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_concepts_code,priority:1"`
	Code                  string           `gorm:"size:50;not null;uniqueIndex:uq_payroll_concepts_code,priority:2"`
	Name                  string           `gorm:"size:150;not null"`
	Description           string           `gorm:"type:text"`
	Type                  string           `gorm:"size:20;not null"`
	CalculationType       string           `gorm:"size:20;not null"`
	DefaultValue          *decimal.Decimal `gorm:"type:numeric(18,4)"`
	PercentageBase        string           `gorm:"size:50"`
	Formula               string           `gorm:"type:text"`
	FormulaAST            datatypes.JSON   `gorm:"column:formula_ast;type:jsonb"`
	IsTaxable             bool             `gorm:"not null"`
	AffectsSocialSecurity bool             `gorm:"not null"`
	IsMandatory           bool             `gorm:"not null"`
	DisplayOrder          int              `gorm:"not null;default:0"`
	PriorityOrder         int              `gorm:"not null;default:0"`
	Status                ConceptStatus    `gorm:"size:20;not null;default:active"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (c PayrollConcept) IsActive() bool {
	return c.Status == StatusActive
}
