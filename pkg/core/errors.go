package core

import "errors"

// Error codes used by ValidationError
const (
	CodeInvalidSize    = "INVALID_SIZE"
	CodeInvalidAddress = "INVALID_ADDRESS"
	CodeInvalidTimeout = "INVALID_TIMEOUT"
	CodeInvalidJob     = "INVALID_JOB"
	CodeInvalidConfig  = "INVALID_CONFIG"
)

// ValidationError is a coded error returned by the validators and carried by
// fail-fast panics.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is matches another *ValidationError with the same code, so callers can
// compare against a template such as &ValidationError{Code: CodeInvalidSize}.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// HasCode reports whether err wraps a *ValidationError with the given code.
func HasCode(err error, code string) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code == code
	}
	return false
}
