package payrollconfig

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/dbtx"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payrollconfig_repo.go -destination=mock/payrollconfig_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// Latest returns nil when the company never saved its own rates.
	Latest(ctx context.Context, companyID string) (*PayrollSetting, error)
	List(ctx context.Context, companyID string) ([]PayrollSetting, error)
	Create(ctx context.Context, s *PayrollSetting) error
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

func (r *repository) Latest(ctx context.Context, companyID string) (*PayrollSetting, error) {
	var s PayrollSetting
	err := dbtx.Conn(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		Order("version DESC").
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) List(ctx context.Context, companyID string) ([]PayrollSetting, error) {
	var out []PayrollSetting
	err := dbtx.Conn(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		Order("version DESC").
		Find(&out).Error
	return out, err
}

func (r *repository) Create(ctx context.Context, s *PayrollSetting) error {
	return dbtx.Conn(ctx, r.db, r.tx).Create(s).Error
}
