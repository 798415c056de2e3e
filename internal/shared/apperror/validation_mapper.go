package apperror

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

func describeTag(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte", "min":
		return "must be greater than or equal to " + e.Param()
	case "lte", "max":
		return "must be less than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "uuid":
		return "must be a valid UUID"
	case "datetime":
		return "must be a date in format " + e.Param()
	default:
		return "is invalid"
	}
}

// MapValidationError converts binding errors into a 422 with one message
// per offending field. The headline message names the first field.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		details := make(map[string]string, len(errs))
		for _, e := range errs {
			details[e.Field()] = describeTag(e)
		}

		first := errs[0]
		human := formatFieldName(first.Field())
		if first.Tag() == "required" {
			return RequiredField(human).WithDetails(details)
		}
		return InvalidField(human).WithDetails(details)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return InvalidField(formatFieldName(typeErr.Field)).
			WithDetails(map[string]string{typeErr.Field: "has the wrong type"})
	}
	if errors.As(err, &syntaxErr) {
		return New(CodeValidation, "Malformed JSON body", http.StatusUnprocessableEntity)
	}

	return New(
		CodeValidation,
		"Invalid input",
		http.StatusUnprocessableEntity,
	)
}
