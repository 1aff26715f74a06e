// Package validation contains the logic for validating request data.
//
// Tag-driven rules run through the validator library; rules that cannot be
// expressed as tags (interdependent fields, numeric strings) are added as
// CustomValidationErrors. Either way a failed request yields the full batch
// of field errors, never just the first one.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/fitlog/exercise-tracker/internal/errs"
)

// Validatable is implemented by request payload types that know how to
// validate themselves.
//
// Typical pattern:
//   - define a request struct with `form`/`query` binding tags and
//     validator tags
//   - implement Validate() that merges Tags(...) with any custom checks
//   - return CustomValidationErrors carrying the whole batch
type Validatable interface {
	Validate() error
}

// CustomValidationError represents a single validation issue for a specific
// field.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of validation errors that satisfies
// error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

var validate = newValidator()

// newValidator builds the shared validator instance. Field names in error
// batches come from the `form` binding tag, so clients see the names they
// actually sent (e.g. "userId", not "UserID").
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("form")
		if name == "" {
			name = fld.Tag.Get("query")
		}
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Tags runs tag-driven validation on payload and converts any failures into
// the batch form, so Validate() implementations can merge them with custom
// checks.
func Tags(payload any) CustomValidationErrors {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return CustomValidationErrors{{Field: "", Message: err.Error()}}
	}

	var batch CustomValidationErrors
	for _, fieldErr := range validationErrors {
		batch = append(batch, CustomValidationError{
			Field:   fieldErr.Field(),
			Message: tagMessage(fieldErr),
		})
	}
	return batch
}

// tagMessage converts a validator tag failure into a user-friendly message.
func tagMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"

	case "min":
		if err.Type().Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", err.Param())
		}
		return fmt.Sprintf("must be at least %s", err.Param())

	case "max":
		if err.Type().Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", err.Param())
		}
		return fmt.Sprintf("must not exceed %s", err.Param())

	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())

	default:
		if err.Param() != "" {
			return fmt.Sprintf("%s:%s", err.Tag(), err.Param())
		}
		return err.Tag()
	}
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
//  1. c.Bind(payload) populates the request struct from body/query params.
//  2. payload.Validate() applies validation rules.
//  3. A failed validation becomes a 422 carrying the full field batch.
//
// payload must be a pointer to a struct so Bind can mutate it.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return errs.NewBadRequestError("malformed request")
	}

	if err := payload.Validate(); err != nil {
		return errs.NewValidationError(extractFieldErrors(err))
	}

	return nil
}

// extractFieldErrors converts either error form into the response batch.
func extractFieldErrors(err error) []errs.FieldError {
	var fieldErrors []errs.FieldError

	switch batch := err.(type) {
	case CustomValidationErrors:
		for _, e := range batch {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field:   e.Field,
				Message: e.Message,
			})
		}

	case validator.ValidationErrors:
		for _, e := range batch {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field:   strings.ToLower(e.Field()),
				Message: tagMessage(e),
			})
		}

	default:
		fieldErrors = append(fieldErrors, errs.FieldError{
			Field:   "",
			Message: err.Error(),
		})
	}

	return fieldErrors
}
