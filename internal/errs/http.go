package errs

import "strings"

// FieldError represents a single field-level validation failure.
// Example:
//
//	{ "field": "username", "msg": "is required" }
type FieldError struct {
	// Field is the request field the error relates to (e.g. "userId").
	Field string `json:"field"`

	// Message is the human-readable error message.
	Message string `json:"msg"`
}

// HTTPError is the error type every failed request resolves to.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "NOT_FOUND").
//   - Message: human-friendly message.
//   - Status: HTTP status code to respond with.
//   - Errors: field-level validation batch; set only for validation failures.
type HTTPError struct {
	Code    string
	Message string
	Status  int
	Errors  []FieldError
}

// Error makes *HTTPError satisfy the built-in error interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError. It matches on type only,
// not on Code or Status.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// Envelope returns the JSON body for this error, in the wire shape the API
// uses everywhere: {"error": <message>} for plain failures and
// {"error": [<field errors>]} for validation batches.
func (e *HTTPError) Envelope() map[string]any {
	if len(e.Errors) > 0 {
		return map[string]any{"error": e.Errors}
	}
	return map[string]any{"error": e.Message}
}

// MakeUpperCaseWithUnderscores converts a status text into an
// UPPER_CASE_WITH_UNDERSCORES error code.
//
// Example:
//
//	"Unprocessable Entity" -> "UNPROCESSABLE_ENTITY"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
