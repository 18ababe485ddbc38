package domain

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned when an operation is invoked without a
// valid caller identity.
var ErrNotAuthenticated = errors.New("not authenticated")

// NotFoundError indicates that a referenced entity does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with id %s not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// NewNotFound builds a NotFoundError for the given resource type.
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// AuthorizationError indicates the entity exists but the caller is not its
// owner.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	if e.Message == "" {
		return "unauthorized"
	}
	return e.Message
}

// NewAuthorization builds an AuthorizationError with an explicit message.
func NewAuthorization(message string) *AuthorizationError {
	return &AuthorizationError{Message: message}
}

// ValidationError indicates an input failed a format, length, or
// required-ness rule. Field names the offending input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// NewValidation builds a ValidationError tagged with a field name.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ConflictError indicates the operation would violate a uniqueness or
// referential-integrity invariant.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NewConflict builds a ConflictError.
func NewConflict(message string) *ConflictError {
	return &ConflictError{Message: message}
}

// OperationFailedError is the catch-all for unexpected failures from the
// storage boundary. The message never exposes the underlying cause; the
// cause stays reachable through Unwrap for server-side logging.
type OperationFailedError struct {
	Op  string
	Err error
}

func (e *OperationFailedError) Error() string {
	return fmt.Sprintf("failed to %s", e.Op)
}

func (e *OperationFailedError) Unwrap() error {
	return e.Err
}

// NewOperationFailed wraps an unexpected storage error.
func NewOperationFailed(op string, err error) *OperationFailedError {
	return &OperationFailedError{Op: op, Err: err}
}

// IsDomainError reports whether err is one of the recognized error kinds
// that propagate to callers unchanged.
func IsDomainError(err error) bool {
	var (
		notFound   *NotFoundError
		authz      *AuthorizationError
		validation *ValidationError
		conflict   *ConflictError
	)
	return errors.Is(err, ErrNotAuthenticated) ||
		errors.As(err, &notFound) ||
		errors.As(err, &authz) ||
		errors.As(err, &validation) ||
		errors.As(err, &conflict)
}
