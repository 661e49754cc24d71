// Package validation contains the logic for validating
// request data.
//
// It uses the `validator` library to enforce rules (like
// required fields) defined in struct tags, runs the custom
// parsing each payload needs, and extracts validation errors
// into a format the client can understand
package validation

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/deppfellow/people/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = validator.New()

// Struct runs the tag-based rules on v.
func Struct(v any) error {
	return validate.Struct(v)
}

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Validate returns validator.ValidationErrors or CustomValidationErrors.
type Validatable interface {
	Validate() error
}

// Rejecter is implemented by payloads that answer a failed bind or
// validation with their own error instead of the default 400.
type Rejecter interface {
	Reject(fieldErrors []errs.FieldError) *errs.HTTPError
}

// QueryKeys is implemented by payloads whose query parameters must be
// present in the URL. An empty value ("?name=") still counts as present.
type QueryKeys interface {
	RequiredQueryKeys() []string
}

// CustomValidationError represents a single validation issue for a specific field.
// This is used for validation errors that cannot be expressed via validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// BindAndValidate binds path, query and body data into payload and validates it.
//
// Query parameters are bound for every method, not only GET/DELETE, so write
// routes can take their input from the URL. Failures become a 400 with field
// errors, or the payload's own error when it implements Rejecter.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := bind(c, payload); err != nil {
		if r, ok := payload.(Rejecter); ok {
			return r.Reject(nil)
		}
		return errs.NewBadRequestError(bindErrorMessage(err), false, nil, nil)
	}

	if fieldErrors := missingQueryKeys(c, payload); fieldErrors != nil {
		if r, ok := payload.(Rejecter); ok {
			return r.Reject(fieldErrors)
		}
		return errs.NewBadRequestError("Validation failed", true, nil, fieldErrors)
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		if r, ok := payload.(Rejecter); ok {
			return r.Reject(fieldErrors)
		}
		return errs.NewBadRequestError(msg, true, nil, fieldErrors)
	}

	return nil
}

func bind(c echo.Context, payload any) error {
	if err := c.Bind(payload); err != nil {
		return err
	}

	switch c.Request().Method {
	case http.MethodGet, http.MethodDelete, http.MethodHead:
		// Already bound by echo's DefaultBinder.
		return nil
	}
	return (&echo.DefaultBinder{}).BindQueryParams(c, payload)
}

func missingQueryKeys(c echo.Context, payload any) []errs.FieldError {
	q, ok := payload.(QueryKeys)
	if !ok {
		return nil
	}

	params := c.QueryParams()

	var fieldErrors []errs.FieldError
	for _, key := range q.RequiredQueryKeys() {
		if !params.Has(key) {
			fieldErrors = append(fieldErrors, errs.FieldError{Field: key, Error: "is required"})
		}
	}
	return fieldErrors
}

func bindErrorMessage(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			return msg
		}
		return fmt.Sprint(he.Message)
	}
	return err.Error()
}

// validateStruct calls v.Validate() and extracts field errors if validation fails.
func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}
