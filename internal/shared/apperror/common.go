package apperror

import "net/http"

var (
	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrForbidden = New(
		CodeForbidden,
		"You do not have permission to access this resource",
		http.StatusForbidden,
	)

	ErrInternal = New(
		CodeInternalError,
		"An unexpected error occurred",
		http.StatusInternalServerError,
	)

	ErrUnauthorized = New(
		CodeUnauthorized,
		"Authentication is required",
		http.StatusUnauthorized,
	)

	ErrInvalidInput = New(
		CodeValidation,
		"The provided input is invalid",
		http.StatusUnprocessableEntity,
	)

	ErrTooManyRequests = New(
		CodeTooMany,
		"Too many requests, slow down",
		http.StatusTooManyRequests,
	)
)

// RequiredField builds a 422 for a missing field.
func RequiredField(field string) *AppError {
	return New(CodeValidation, field+" is required", http.StatusUnprocessableEntity).
		WithDetails(map[string]string{field: "is required"})
}

// InvalidField builds a 422 for a malformed field.
func InvalidField(field string) *AppError {
	return New(CodeValidation, field+" is invalid", http.StatusUnprocessableEntity).
		WithDetails(map[string]string{field: "is invalid"})
}
