// Package apperr defines the error taxonomy shared by services and handlers:
// validation failures, auth failures, conflicts, and not-found conditions.
// Anything outside this set is treated as a storage/internal failure and is
// surfaced to clients as a generic message only.
package apperr

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound marks a lookup that matched no record where absence is an error.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a uniqueness violation (duplicate username or email).
	ErrConflict = errors.New("already exists")
	// ErrUnauthorized marks a missing or failed authentication.
	ErrUnauthorized = errors.New("not authenticated")
)

// ValidationError reports every missing or invalid field of a request, not
// just the first one encountered.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing fields: " + strings.Join(e.Fields, ", ")
}

// Validation builds a ValidationError for the given field names.
func Validation(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// Invalid builds a ValidationError carrying a single free-form message, for
// inputs that are present but malformed (bad email, unknown status, ...).
type Invalid struct {
	Msg string
}

func (e *Invalid) Error() string { return e.Msg }
