// Package apperr defines the error taxonomy shared by the gateway, the
// repositories and the HTTP handlers: authentication failures, missing
// records, invalid input and backend read/write failures. Services
// return these unchanged; only the handler layer maps them to HTTP
// status codes.
package apperr

import (
	"errors"
	"fmt"
)

// AuthError covers bad credentials, duplicate accounts and weak
// passwords.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	return e.Reason
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a missing record.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ValidationError reports input rejected at the boundary, such as an
// unknown task status or an assignee without the employee role.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// PersistenceError wraps a backend read/write failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func IsAuth(err error) bool {
	var e *AuthError
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsPersistence(err error) bool {
	var e *PersistenceError
	return errors.As(err, &e)
}
