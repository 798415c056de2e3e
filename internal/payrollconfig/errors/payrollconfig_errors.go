package payrollconfigerrors

import (
	"net/http"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/apperror"
)

var (
	ErrInvalidRates = apperror.New(
		apperror.CodeValidation,
		"Payroll rates are invalid",
		http.StatusUnprocessableEntity,
	)
	ErrVersionConflict = apperror.New(
		apperror.CodeConflict,
		"Payroll settings were changed concurrently, retry the update",
		http.StatusConflict,
	)
)
