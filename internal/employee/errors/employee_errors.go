package employeeerrors

import (
	"net/http"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeInactive = apperror.New(
		apperror.CodeValidation,
		"Employee is not active",
		http.StatusUnprocessableEntity,
	)
	ErrMissingBaseSalary = apperror.New(
		"CALCULATION_ERROR",
		"Employee has no base salary",
		http.StatusUnprocessableEntity,
	)
)
