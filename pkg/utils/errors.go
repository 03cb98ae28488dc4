package utils

import "errors"

// Error taxonomy shared by services and handlers. Handlers classify with errors.Is;
// anything that matches none of these is reported as an internal error.
var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
)

// ValidationError carries per-field messages and matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + FormatValidationErrors(e.Fields)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validate runs the struct tags on data and returns a *ValidationError, or nil.
func Validate(data any) error {
	if fields := ValidateStruct(data); len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
