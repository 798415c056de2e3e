package perioderrors

import (
	"net/http"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/apperror"
)

const CodeDatesOverlap = "PERIOD_DATES_OVERLAP"

var (
	ErrPeriodNotFound = apperror.New(
		apperror.CodeNotFound,
		"Payroll period not found",
		http.StatusNotFound,
	)
	ErrPeriodDatesOverlap = apperror.New(
		CodeDatesOverlap,
		"The period dates overlap an existing period",
		http.StatusUnprocessableEntity,
	)
	ErrEndBeforeStart = apperror.New(
		apperror.CodeValidation,
		"end_date must be after start_date",
		http.StatusUnprocessableEntity,
	)
	ErrPayBeforeEnd = apperror.New(
		apperror.CodeValidation,
		"pay_date must be on or after end_date",
		http.StatusUnprocessableEntity,
	)
	ErrPeriodNotEditable = apperror.New(
		apperror.CodeValidation,
		"Only draft periods can be edited",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidPeriodTransition = apperror.New(
		apperror.CodeInvalidState,
		"The period cannot move to the requested status",
		http.StatusConflict,
	)
	ErrPendingPayrolls = apperror.New(
		apperror.CodeInvalidState,
		"The period still has draft payrolls",
		http.StatusConflict,
	)
	ErrPeriodHasPayrolls = apperror.New(
		apperror.CodeInvalidState,
		"Only draft periods without payrolls can be deleted",
		http.StatusConflict,
	)
)
