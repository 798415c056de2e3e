package period

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type PeriodStatus string

const (
	StatusDraft      PeriodStatus = "draft"
	StatusOpen       PeriodStatus = "open"
	StatusProcessing PeriodStatus = "processing"
	StatusClosed     PeriodStatus = "closed"
)

const (
	TypeMonthly  = "monthly"
	TypeBiweekly = "biweekly"
	TypeWeekly   = "weekly"
	TypeSpecial  = "special"
)

type PayrollPeriod struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey"`
	CompanyID    uuid.UUID    `gorm:"type:uuid;not null;index"`
	Name         string       `gorm:"size:150;not null"`
	PeriodType   string       `gorm:"size:20;not null"`
	StartDate    time.Time    `gorm:"type:date;not null"`
	EndDate      time.Time    `gorm:"type:date;not null"`
	PayDate      time.Time    `gorm:"type:date;not null"`
	Year         int          `gorm:"not null"`
	Month        int          `gorm:"not null"`
	PeriodNumber int          `gorm:"not null"`
	Status       PeriodStatus `gorm:"size:20;not null"`
	Notes        string       `gorm:"type:text"`
	OpenedAt     *time.Time
	ClosedAt     *time.Time
	ClosedBy     *uuid.UUID `gorm:"type:uuid"`
	CreatedBy    *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Days is the inclusive calendar length of the period.
func (p PayrollPeriod) Days() int {
	return int(p.EndDate.Sub(p.StartDate).Hours()/24) + 1
}

// AcceptsPayrolls reports whether payrolls may be calculated in the period.
func (p PayrollPeriod) AcceptsPayrolls() bool {
	return p.Status == StatusOpen || p.Status == StatusProcessing
}

var allowedTransitions = map[PeriodStatus][]PeriodStatus{
	StatusDraft:      {StatusOpen},
	StatusOpen:       {StatusProcessing, StatusClosed},
	StatusProcessing: {StatusClosed},
	StatusClosed:     {StatusOpen},
}

func CanTransition(from, to PeriodStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Numbering derives year, month and period number from the start date.
// Weekly periods use the ISO week and its year.
func Numbering(periodType string, start time.Time) (year, month, number int) {
	year, month = start.Year(), int(start.Month())
	switch periodType {
	case TypeMonthly:
		number = month
	case TypeBiweekly:
		number = int(math.Ceil(float64(start.YearDay()) / 14))
	case TypeWeekly:
		year, number = start.ISOWeek()
	default:
		number = 1
	}
	return year, month, number
}
