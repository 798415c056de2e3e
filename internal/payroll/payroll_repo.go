package payroll

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/dbtx"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *Payroll) error
	Update(ctx context.Context, p *Payroll) error
	Delete(ctx context.Context, companyID, id string) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Payroll, error)
	// FindByEmployeeAndPeriod returns nil when the pair has no payroll yet.
	FindByEmployeeAndPeriod(ctx context.Context, companyID, employeeID, periodID string) (*Payroll, error)
	ReplaceDetails(ctx context.Context, payrollID string, details []PayrollDetail) error
	List(ctx context.Context, companyID string, filter ListFilter) ([]Payroll, int64, error)
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

func (r *repository) Create(ctx context.Context, p *Payroll) error {
	return r.conn(ctx).Omit("Details").Create(p).Error
}

func (r *repository) Update(ctx context.Context, p *Payroll) error {
	return r.conn(ctx).Omit("Details").Save(p).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	db := r.conn(ctx)
	if err := db.Where("payroll_id = ?", id).Delete(&PayrollDetail{}).Error; err != nil {
		return err
	}
	res := db.Scopes(tenant.Scope(companyID)).Where("id = ?", id).Delete(&Payroll{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Payroll, error) {
	var p Payroll
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Details", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_order ASC")
		}).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindByEmployeeAndPeriod(ctx context.Context, companyID, employeeID, periodID string) (*Payroll, error) {
	var p Payroll
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ? AND payroll_period_id = ?", employeeID, periodID).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ReplaceDetails drops the payroll's lines and writes details in their place.
func (r *repository) ReplaceDetails(ctx context.Context, payrollID string, details []PayrollDetail) error {
	db := r.conn(ctx)
	if err := db.Where("payroll_id = ?", payrollID).Delete(&PayrollDetail{}).Error; err != nil {
		return err
	}
	if len(details) == 0 {
		return nil
	}
	return db.Create(&details).Error
}

func (r *repository) List(ctx context.Context, companyID string, filter ListFilter) ([]Payroll, int64, error) {
	q := r.conn(ctx).Model(&Payroll{}).Scopes(tenant.Scope(companyID))
	if filter.PeriodID != "" {
		q = q.Where("payroll_period_id = ?", filter.PeriodID)
	}
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.DepartmentID != "" {
		q = q.Where("department_id = ?", filter.DepartmentID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []Payroll
	err := q.Order("created_at DESC").
		Order("payroll_number DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&out).Error
	return out, total, err
}
