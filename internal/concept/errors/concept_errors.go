package concepterrors

import (
	"net/http"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/apperror"
)

var (
	ErrConceptNotFound = apperror.New(
		apperror.CodeNotFound,
		"Payroll concept not found",
		http.StatusNotFound,
	)
	ErrConceptCodeExists = apperror.New(
		apperror.CodeConflict,
		"A payroll concept with this code already exists",
		http.StatusConflict,
	)
	ErrMandatoryConcept = apperror.New(
		apperror.CodeValidation,
		"Mandatory concepts cannot be deactivated",
		http.StatusUnprocessableEntity,
	)
	ErrInactiveMandatory = apperror.New(
		apperror.CodeValidation,
		"Inactive concepts cannot be made mandatory",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidCode = apperror.New(
		apperror.CodeValidation,
		"Concept codes may only contain A-Z, 0-9 and underscores",
		http.StatusUnprocessableEntity,
	)
	ErrReservedCode = apperror.New(
		apperror.CodeValidation,
		"The code is reserved for a calculated payroll line",
		http.StatusUnprocessableEntity,
	)
	ErrConceptInUse = apperror.New(
		apperror.CodeValidation,
		"The concept is referenced by existing payroll details and cannot be deleted",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidFormula = apperror.New(
		apperror.CodeValidation,
		"The formula is invalid",
		http.StatusUnprocessableEntity,
	)
	ErrMissingVariables = apperror.New(
		apperror.CodeValidation,
		"The formula references unknown variables",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidPercentageBase = apperror.New(
		apperror.CodeValidation,
		"The percentage base is not a known variable or concept code",
		http.StatusUnprocessableEntity,
	)
)
