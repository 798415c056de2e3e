package concept

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/dbtx"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=concept_repo.go -destination=mock/concept_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, c *PayrollConcept) error
	Update(ctx context.Context, c *PayrollConcept) error
	Delete(ctx context.Context, companyID, id string) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollConcept, error)
	CodeExists(ctx context.Context, companyID, code string, excludeID *string) (bool, error)
	List(ctx context.Context, companyID string, filter ListFilter) ([]PayrollConcept, error)
	ListActive(ctx context.Context, companyID string) ([]PayrollConcept, error)
	Codes(ctx context.Context, companyID string) ([]string, error)
	IsReferenced(ctx context.Context, id string) (bool, error)
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

func (r *repository) Create(ctx context.Context, c *PayrollConcept) error {
	return r.conn(ctx).Create(c).Error
}

func (r *repository) Update(ctx context.Context, c *PayrollConcept) error {
	return r.conn(ctx).Save(c).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	res := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Delete(&PayrollConcept{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollConcept, error) {
	var c PayrollConcept
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) CodeExists(ctx context.Context, companyID, code string, excludeID *string) (bool, error) {
	q := r.conn(ctx).
		Model(&PayrollConcept{}).
		Scopes(tenant.Scope(companyID)).
		Where("code = ?", code)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) List(ctx context.Context, companyID string, filter ListFilter) ([]PayrollConcept, error) {
	q := r.conn(ctx).Scopes(tenant.Scope(companyID))
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(code) LIKE ?)", like, like)
	}

	var out []PayrollConcept
	err := q.Order("priority_order ASC").Order("name ASC").Find(&out).Error
	return out, err
}

func (r *repository) ListActive(ctx context.Context, companyID string) ([]PayrollConcept, error) {
	var out []PayrollConcept
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("status = ?", StatusActive).
		Order("priority_order ASC").
		Order("name ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) Codes(ctx context.Context, companyID string) ([]string, error) {
	var codes []string
	err := r.conn(ctx).
		Model(&PayrollConcept{}).
		Scopes(tenant.Scope(companyID)).
		Pluck("code", &codes).Error
	return codes, err
}

func (r *repository) IsReferenced(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("payroll_details").
		Where("payroll_concept_id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
