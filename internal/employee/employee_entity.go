package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatusActive     = "active"
	StatusInactive   = "inactive"
	StatusTerminated = "terminated"
)

// Employee is owned by the HR core; payroll only reads it.
type Employee struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CompanyID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	DepartmentID     *uuid.UUID      `gorm:"type:uuid"`
	Department       *Department     `gorm:"foreignKey:DepartmentID;references:ID"`
	EmployeeNumber   string          `gorm:"size:50"`
	DocumentNumber   string          `gorm:"size:50"`
	FullName         string          `gorm:"size:255;not null"`
	Email            string          `gorm:"size:255"`
	EmploymentStatus string          `gorm:"size:20;not null;default:active"`
	EmploymentType   string          `gorm:"size:20"`
	BaseSalary       decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	HireDate         *time.Time      `gorm:"type:date"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (e Employee) IsActive() bool {
	return e.EmploymentStatus == StatusActive
}

type Department struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID      `gorm:"type:uuid;not null"`
	Name      string         `gorm:"size:255;not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type Position struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CompanyID    uuid.UUID      `gorm:"type:uuid;not null"`
	DepartmentID uuid.UUID      `gorm:"type:uuid;not null"`
	Name         string         `gorm:"size:255;not null"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// EmployeePosition is the assignment history; the open row (no end date)
// is the current position.
type EmployeePosition struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID  `gorm:"type:uuid;index;not null"`
	PositionID uuid.UUID  `gorm:"type:uuid;not null"`
	StartDate  time.Time  `gorm:"type:date;not null"`
	EndDate    *time.Time `gorm:"type:date"`
}
