package report

import (
	"context"
	"time"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/tenant"

	"gorm.io/gorm"
)

// Query narrows the rows a report reads. Zero values do not filter.
type Query struct {
	PeriodID     string
	DepartmentID string
	PositionID   string
	Statuses     []string
	From         *time.Time
	To           *time.Time
}

//go:generate mockgen -source=report_repo.go -destination=mock/report_repo_mock.go -package=mock
type Repository interface {
	Rows(ctx context.Context, companyID string, q Query) ([]Row, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Rows returns one row per payroll. Period bounds are compared against the
// period dates: From against the start, To against the end.
func (r *repository) Rows(ctx context.Context, companyID string, q Query) ([]Row, error) {
	db := r.db.WithContext(ctx).
		Table("payrolls AS p").
		Select(`p.id AS payroll_id,
			p.payroll_number,
			p.employee_id,
			COALESCE(e.full_name, '') AS employee_name,
			p.department_id,
			COALESCE(d.name, '') AS department_name,
			p.position_id,
			COALESCE(pos.name, '') AS position_name,
			p.payroll_period_id AS period_id,
			pp.name AS period_name,
			pp.start_date AS period_start,
			pp.end_date AS period_end,
			p.status,
			p.base_salary,
			p.gross_salary,
			p.total_earnings,
			p.total_deductions,
			p.total_taxes,
			p.net_salary,
			p.employer_contributions`).
		Joins("JOIN payroll_periods pp ON pp.id = p.payroll_period_id").
		Joins("LEFT JOIN employees e ON e.id = p.employee_id").
		Joins("LEFT JOIN departments d ON d.id = p.department_id").
		Joins("LEFT JOIN positions pos ON pos.id = p.position_id").
		Scopes(tenant.ScopeTable("p", companyID))

	if q.PeriodID != "" {
		db = db.Where("p.payroll_period_id = ?", q.PeriodID)
	}
	if q.DepartmentID != "" {
		db = db.Where("p.department_id = ?", q.DepartmentID)
	}
	if q.PositionID != "" {
		db = db.Where("p.position_id = ?", q.PositionID)
	}
	if len(q.Statuses) > 0 {
		db = db.Where("p.status IN ?", q.Statuses)
	}
	if q.From != nil {
		db = db.Where("pp.start_date >= ?", *q.From)
	}
	if q.To != nil {
		db = db.Where("pp.end_date <= ?", *q.To)
	}

	rows := []Row{}
	err := db.Order("pp.start_date ASC").
		Order("p.payroll_number ASC").
		Scan(&rows).Error
	return rows, err
}
