// Package domain contains the personalization model and its errors.
// Domain errors describe business outcomes, not transport failures; adapters
// translate them into HTTP statuses or user-facing notices.
package domain

import (
	"errors"
	"fmt"
)

// Outcome sentinels. Every typed error below unwraps to exactly one of them.
var (
	// ErrNotFound: login named a username the directory does not hold.
	ErrNotFound = errors.New("not found")

	// ErrConflict: a username is taken, or a generation is already pending.
	ErrConflict = errors.New("conflict")

	// ErrValidation: a blank name or topic, or an unknown filter or category.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthenticated: a personalization operation ran with no session user.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrUnavailable: the store or the AI collaborator could not serve the call.
	ErrUnavailable = errors.New("unavailable")

	// ErrEmptyCorpus: quote of the day was asked to pick from no quotes.
	ErrEmptyCorpus = errors.New("quote corpus is empty")
)

// NotFoundError names the missing entity, usually a user.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}

	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFoundError returns a *NotFoundError for entity id.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError reports why entity could not take the requested state.
type ConflictError struct {
	Entity string
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Entity + " conflict: " + e.Reason
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// NewConflictError returns a *ConflictError.
func NewConflictError(entity, reason string) error {
	return &ConflictError{Entity: entity, Reason: reason}
}

// ValidationError carries the rejected input field, which the HTTP layer
// echoes back in the error details.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}

	return "validation failed for " + e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError returns a *ValidationError for field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// UnauthenticatedError names the operation attempted without a session.
type UnauthenticatedError struct {
	Operation string
}

func (e *UnauthenticatedError) Error() string {
	return e.Operation + " requires a signed-in user"
}

func (e *UnauthenticatedError) Unwrap() error { return ErrUnauthenticated }

// NewUnauthenticatedError returns an *UnauthenticatedError for operation.
func NewUnauthenticatedError(operation string) error {
	return &UnauthenticatedError{Operation: operation}
}

// UnavailableError identifies the collaborator that failed. Reason is the
// short text shown to the user, such as "empty response from AI".
type UnavailableError struct {
	Service string
	Reason  string
}

func (e *UnavailableError) Error() string {
	msg := fmt.Sprintf("service %q unavailable", e.Service)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}

	return msg
}

func (e *UnavailableError) Unwrap() error { return ErrUnavailable }

// NewUnavailableError returns an *UnavailableError.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err is or wraps ErrConflict.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsValidation reports whether err is or wraps ErrValidation.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsUnauthenticated reports whether err is or wraps ErrUnauthenticated.
func IsUnauthenticated(err error) bool { return errors.Is(err, ErrUnauthenticated) }

// IsUnavailable reports whether err is or wraps ErrUnavailable.
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }

// IsEmptyCorpus reports whether err is or wraps ErrEmptyCorpus.
func IsEmptyCorpus(err error) bool { return errors.Is(err, ErrEmptyCorpus) }
