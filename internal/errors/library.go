package errors

import (
	stdErrors "errors"
	"fmt"
)

// NotFoundError represents a lookup of a book, member or loan that does not exist.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Key)
}

// NewNotFoundError creates a NotFoundError for the given entity kind and key.
func NewNotFoundError(kind, key string) *NotFoundError {
	return &NotFoundError{Kind: kind, Key: key}
}

// IsNotFoundError checks if error is a NotFoundError
func IsNotFoundError(err error) bool {
	var notFound *NotFoundError
	return stdErrors.As(err, &notFound)
}

// ConflictError represents an attempt to create something that already exists.
type ConflictError struct {
	Kind    string
	Key     string
	Message string
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s already exists", e.Kind, e.Key)
}

// NewConflictError creates a ConflictError with the default message.
func NewConflictError(kind, key string) *ConflictError {
	return &ConflictError{Kind: kind, Key: key}
}

// IsConflictError checks if error is a ConflictError
func IsConflictError(err error) bool {
	var conflict *ConflictError
	return stdErrors.As(err, &conflict)
}

// UnavailableError is returned when every copy of a book is on loan.
type UnavailableError struct {
	ISBN  string
	Title string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("no copies of '%s' are available", e.Title)
}

// NewUnavailableError creates an UnavailableError for a book.
func NewUnavailableError(isbn, title string) *UnavailableError {
	return &UnavailableError{ISBN: isbn, Title: title}
}

// IsUnavailableError checks if error is an UnavailableError
func IsUnavailableError(err error) bool {
	var unavailable *UnavailableError
	return stdErrors.As(err, &unavailable)
}

// AuthError represents a failed login or a missing/insufficient session.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return e.Reason
}

// NewAuthError creates an AuthError with the given reason.
func NewAuthError(reason string) *AuthError {
	return &AuthError{Reason: reason}
}

// IsAuthError reports whether err is an AuthError (even when wrapped).
func IsAuthError(err error) bool {
	var authErr *AuthError
	return stdErrors.As(err, &authErr)
}
