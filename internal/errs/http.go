package errs

import "strings"

// FieldError represents a field-level validation error.
//
//	{ "field": "age", "error": "must be an integer" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// HTTPError is the main custom error type for API responses.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "BAD_REQUEST").
//   - Message: human-friendly message.
//   - Status: HTTP status code.
//   - Override: lets the client show Message verbatim.
//   - Errors: list of per-field errors (validation).
//   - PlainText: render only Message as a text/plain body instead of JSON.
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	Errors []FieldError `json:"errors"`

	PlainText bool `json:"-"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is any *HTTPError, regardless of code or status.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// AsPlainText returns a copy of this HTTPError rendered as a bare text body.
func (e *HTTPError) AsPlainText() *HTTPError {
	cp := *e
	cp.PlainText = true
	return &cp
}

// MakeUpperCaseWithUnderscores converts "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
