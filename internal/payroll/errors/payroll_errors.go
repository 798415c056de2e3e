package payrollerrors

import (
	"net/http"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/apperror"
)

const (
	CodeAlreadyCalculated = "PAYROLL_ALREADY_CALCULATED"
	CodeCalculation       = "CALCULATION_ERROR"
)

var (
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"Payroll not found",
		http.StatusNotFound,
	)
	ErrPayrollAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"A payroll already exists for this employee and period",
		http.StatusConflict,
	)
	ErrPayrollAlreadyCalculated = apperror.New(
		CodeAlreadyCalculated,
		"Payroll for this employee and period is already calculated",
		http.StatusConflict,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"Payroll status transition is not allowed",
		http.StatusConflict,
	)
	ErrPayrollNotEditable = apperror.New(
		apperror.CodeInvalidState,
		"Only draft payrolls can be modified",
		http.StatusConflict,
	)
	ErrPayrollNotCalculated = apperror.New(
		apperror.CodeInvalidState,
		"Only calculated payrolls can be approved",
		http.StatusConflict,
	)
	ErrPayrollNotRejectable = apperror.New(
		apperror.CodeInvalidState,
		"Only calculated or approved payrolls can be rejected",
		http.StatusConflict,
	)
	ErrPayrollNotApproved = apperror.New(
		apperror.CodeInvalidState,
		"Only approved payrolls can be paid",
		http.StatusConflict,
	)
	ErrPeriodNotAcceptingPayrolls = apperror.New(
		apperror.CodeInvalidState,
		"Payroll period is not open for calculations",
		http.StatusConflict,
	)
	ErrPeriodClosed = apperror.New(
		apperror.CodeInvalidState,
		"Payroll period is closed",
		http.StatusConflict,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeValidation,
		"Rejection reason is required",
		http.StatusUnprocessableEntity,
	).WithDetails(map[string]string{"rejection_reason": "is required"})
	ErrCalculationFailed = apperror.New(
		CodeCalculation,
		"Payroll could not be calculated",
		http.StatusUnprocessableEntity,
	)
	ErrUnknownConcept = apperror.New(
		apperror.CodeValidation,
		"Unknown or inactive payroll concept",
		http.StatusUnprocessableEntity,
	)
	ErrPayslipUnavailable = apperror.New(
		apperror.CodeInvalidState,
		"Payslip is not available for a payroll in this status",
		http.StatusConflict,
	)
)
