package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business-level errors that can occur in the system.
// These errors are used across layers to communicate specific failure conditions.
var (
	// Translation error kinds
	ErrInvalidJSON         = errors.New("invalid JSON")
	ErrAllocationFailure   = errors.New("allocation failure")
	ErrMalformedField      = errors.New("malformed field")
	ErrConstraintViolation = errors.New("constraint violation")

	// Source errors
	ErrContainerNotFound = errors.New("container or image not found")
	ErrSourceUnavailable = errors.New("config source unavailable")

	// Output errors
	ErrUnknownFormat = errors.New("unknown output format")

	// Config errors
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrConfigLoadFailed = errors.New("failed to load configuration")

	// Environment errors
	ErrEnvFileNotFound = errors.New("environment file not found")
	ErrInvalidEnvKey   = errors.New("invalid environment key")
)

// TranslationError reports why a config could not be turned into a definition.
// Path is the JSON key path of the offending field, empty for document-level failures.
type TranslationError struct {
	Kind error
	Path string
	Err  error
}

// NewTranslationError builds a TranslationError of the given kind.
func NewTranslationError(kind error, path string, err error) *TranslationError {
	return &TranslationError{Kind: kind, Path: path, Err: err}
}

func (e *TranslationError) Error() string {
	msg := e.Kind.Error()
	if e.Path != "" {
		msg = fmt.Sprintf("%s at %s", msg, e.Path)
	}
	if e.Err != nil {
		cause := strings.TrimPrefix(e.Err.Error(), e.Kind.Error()+": ")
		msg = fmt.Sprintf("%s: %s", msg, cause)
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *TranslationError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ErrorKind returns a stable snake_case label for a translation error kind,
// used for metrics attributes and API responses.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidJSON):
		return "invalid_json"
	case errors.Is(err, ErrMalformedField):
		return "malformed_field"
	case errors.Is(err, ErrConstraintViolation):
		return "constraint_violation"
	case errors.Is(err, ErrAllocationFailure):
		return "allocation_failure"
	case errors.Is(err, ErrContainerNotFound):
		return "not_found"
	default:
		return "internal"
	}
}
