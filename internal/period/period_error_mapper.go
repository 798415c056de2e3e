package period

import (
	"errors"

	perioderrors "github.com/Jkrlos982/wl-soccer-school-sub000/internal/period/errors"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return perioderrors.ErrPeriodNotFound
	}
	return err
}
