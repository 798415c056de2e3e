package concept

import (
	"errors"

	concepterrors "github.com/Jkrlos982/wl-soccer-school-sub000/internal/concept/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return concepterrors.ErrConceptNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return concepterrors.ErrConceptCodeExists
	}
	return err
}
