// Package apierr defines the error kinds the core services surface to the
// HTTP boundary. The boundary maps them to transport status codes; the core
// never swallows them.
package apierr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a referenced document, version, user,
	// department, role, or tag does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the access evaluator denied the requested
	// operation. Denial is surfaced uniformly regardless of why.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict indicates a duplicate unique key: a role, department, or
	// tag name collision, or a version-number race that could not be
	// resolved after bounded retries.
	ErrConflict = errors.New("conflict")

	// ErrInvalidState indicates an entity is in a state the operation cannot
	// act on, such as an unrecognized access level.
	ErrInvalidState = errors.New("invalid state")
)

// NotFoundf wraps ErrNotFound with context.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// Forbiddenf wraps ErrForbidden with context.
func Forbiddenf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrForbidden)...)
}

// Conflictf wraps ErrConflict with context.
func Conflictf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrConflict)...)
}

// InvalidStatef wraps ErrInvalidState with context.
func InvalidStatef(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidState)...)
}
