package failure

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds. Every typed error below unwraps to one of these so callers
// can branch with errors.Is without knowing the concrete type.
var (
	ErrValidation           = errors.New("validation failed")
	ErrDuplicateName        = errors.New("duplicate name")
	ErrNotFound             = errors.New("not found")
	ErrReferentialIntegrity = errors.New("referenced by events")
)

// ValidationError reports an empty or malformed required field.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Unwrap returns ErrValidation.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid is shorthand for a *ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// DuplicateNameError reports a roster name collision.
type DuplicateNameError struct {
	Name string
}

// Error implements error.
func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("a member named %q already exists", e.Name)
}

// Unwrap returns ErrDuplicateName.
func (e *DuplicateNameError) Unwrap() error { return ErrDuplicateName }

// NotFoundError reports an id absent from the relevant collection.
type NotFoundError struct {
	Kind string // "member" or "event"
	ID   int
}

// Error implements error.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// Unwrap returns ErrNotFound.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ReferentialIntegrityError blocks a member deletion while events still list
// the member as an attendee.
type ReferentialIntegrityError struct {
	MemberID   int
	MemberName string
	EventNames []string
}

// Error implements error.
func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("cannot delete %q: attends events: %s", e.MemberName, strings.Join(e.EventNames, ", "))
}

// Unwrap returns ErrReferentialIntegrity.
func (e *ReferentialIntegrityError) Unwrap() error { return ErrReferentialIntegrity }
