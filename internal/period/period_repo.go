package period

import (
	"context"
	"database/sql"
	"time"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/dbtx"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=period_repo.go -destination=mock/period_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *PayrollPeriod) error
	Update(ctx context.Context, p *PayrollPeriod) error
	Delete(ctx context.Context, companyID, id string) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollPeriod, error)
	List(ctx context.Context, companyID string, filter ListFilter) ([]PayrollPeriod, int64, error)
	// HasOverlap reports whether [start, end] intersects any other period,
	// both ends inclusive.
	HasOverlap(ctx context.Context, companyID string, start, end time.Time, excludeID *string) (bool, error)
	CountPayrolls(ctx context.Context, periodID string, status string) (int64, error)
	PayrollTotalsByStatus(ctx context.Context, companyID, periodID string) ([]StatusTotals, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, p *PayrollPeriod) error {
	return r.conn(ctx).Create(p).Error
}

func (r *repository) Update(ctx context.Context, p *PayrollPeriod) error {
	return r.conn(ctx).Save(p).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	res := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Delete(&PayrollPeriod{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollPeriod, error) {
	var p PayrollPeriod
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, companyID string, filter ListFilter) ([]PayrollPeriod, int64, error) {
	q := r.conn(ctx).Model(&PayrollPeriod{}).Scopes(tenant.Scope(companyID))
	if filter.Year > 0 {
		q = q.Where("year = ?", filter.Year)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.PeriodType != "" {
		q = q.Where("period_type = ?", filter.PeriodType)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []PayrollPeriod
	err := q.Order("start_date DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&out).Error
	return out, total, err
}

func (r *repository) HasOverlap(ctx context.Context, companyID string, start, end time.Time, excludeID *string) (bool, error) {
	q := r.conn(ctx).
		Model(&PayrollPeriod{}).
		Scopes(tenant.Scope(companyID)).
		Where("start_date <= ? AND end_date >= ?", end, start)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountPayrolls counts the period's payrolls, restricted to status when it
// is not empty.
func (r *repository) CountPayrolls(ctx context.Context, periodID string, status string) (int64, error) {
	q := r.conn(ctx).Table("payrolls").Where("payroll_period_id = ?", periodID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (r *repository) PayrollTotalsByStatus(ctx context.Context, companyID, periodID string) ([]StatusTotals, error) {
	var rows []StatusTotals
	err := r.conn(ctx).
		Table("payrolls").
		Select(`status,
			COUNT(*) AS count,
			COALESCE(SUM(gross_salary), 0) AS gross_salary,
			COALESCE(SUM(total_deductions), 0) AS total_deductions,
			COALESCE(SUM(total_taxes), 0) AS total_taxes,
			COALESCE(SUM(net_salary), 0) AS net_salary,
			COALESCE(SUM(employer_contributions), 0) AS employer_contributions`).
		Scopes(tenant.Scope(companyID)).
		Where("payroll_period_id = ?", periodID).
		Group("status").
		Scan(&rows).Error
	return rows, err
}
