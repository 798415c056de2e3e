package reporterrors

import (
	"net/http"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/apperror"
)

var ErrInvalidDateRange = apperror.New(
	apperror.CodeValidation,
	"date_from must not be after date_to",
	http.StatusUnprocessableEntity,
).WithDetails(map[string]string{"date_to": "must not be before date_from"})
