package shared

import (
	"errors"
	"fmt"
)

// Error codes
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeInvalidState       = "INVALID_STATE"
	CodePersistence        = "PERSISTENCE_ERROR"
	CodeConfigurationDrift = "CONFIGURATION_DRIFT"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError carrying the same code, so callers can test
// errors.Is(err, shared.ErrNotFound) against a specific not-found error.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound           = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidInput       = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrValidation         = NewDomainError(CodeValidation, "Validation failed")
	ErrInvalidState       = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrPersistence        = NewDomainError(CodePersistence, "Persistence failure")
	ErrConfigurationDrift = NewDomainError(CodeConfigurationDrift, "Datastore schema is missing an expected table")
)

// NewValidationError reports a missing, malformed or contradictory field
func NewValidationError(field, message string) *DomainError {
	return &DomainError{
		Code:    CodeValidation,
		Message: fmt.Sprintf("%s: %s", field, message),
		Field:   field,
	}
}

// NewNotFoundError reports that the referenced entity does not exist
func NewNotFoundError(entity string, id int64) *DomainError {
	return &DomainError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %d not found", entity, id),
	}
}

// NewInvalidStateError reports a forbidden state transition
func NewInvalidStateError(message string) *DomainError {
	return &DomainError{
		Code:    CodeInvalidState,
		Message: message,
	}
}

// NewPersistenceError wraps a store failure; the cause stays reachable via errors.Unwrap
func NewPersistenceError(op string, cause error) *DomainError {
	return &DomainError{
		Code:    CodePersistence,
		Message: fmt.Sprintf("failed to %s", op),
		Err:     cause,
	}
}

// NewConfigurationDrift reports that an expected table is absent from the datastore
func NewConfigurationDrift(table string) *DomainError {
	return &DomainError{
		Code:    CodeConfigurationDrift,
		Message: fmt.Sprintf("table %q is not available", table),
	}
}

// AsDomainError returns err as a *DomainError when it is one
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsDomainError reports whether err is (or wraps) a *DomainError
func IsDomainError(err error) bool {
	_, ok := AsDomainError(err)
	return ok
}
