package payrollconfig

import (
	"errors"

	payrollconfigerrors "github.com/Jkrlos982/wl-soccer-school-sub000/internal/payrollconfig/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return payrollconfigerrors.ErrVersionConflict
	}
	return err
}
