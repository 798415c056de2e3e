package employee

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/dbtx"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Employee, error)
	CurrentPosition(ctx context.Context, companyID string, employeeID string) (Position, bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Employee, error) {
	var emp Employee
	err := dbtx.Conn(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		Preload("Department").
		First(&emp, "id = ?", id).Error
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return &emp, nil
}

func (r *repository) CurrentPosition(ctx context.Context, companyID string, employeeID string) (Position, bool, error) {
	var pos Position
	err := dbtx.Conn(ctx, r.db, r.tx).
		Model(&Position{}).
		Joins("JOIN employee_positions ON employee_positions.position_id = positions.id").
		Where("employee_positions.employee_id = ?", employeeID).
		Where("employee_positions.end_date IS NULL").
		Scopes(tenant.ScopeTable("positions", companyID)).
		Order("employee_positions.start_date DESC").
		Take(&pos).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Position{}, false, nil
	}
	if err != nil {
		return Position{}, false, err
	}
	return pos, true, nil
}
