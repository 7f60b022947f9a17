package validation

import (
	"errors"
	"strings"

	"github.com/maltedev/ekatra-normalizer/internal/models"
)

const DefaultMessage = "Product validation failed"

// ValidationError is returned by the fail-fast entry points and carries the
// full result.
type ValidationError struct {
	Message string
	Result  models.ValidationResult
}

func NewValidationError(message string, result models.ValidationResult) *ValidationError {
	if message == "" {
		message = DefaultMessage
	}
	return &ValidationError{Message: message, Result: result}
}

func (e *ValidationError) Error() string {
	if len(e.Result.Errors) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Result.Errors, "; ")
}

// Errors returns the individual validation messages.
func (e *ValidationError) Errors() []string {
	return e.Result.Errors
}

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
