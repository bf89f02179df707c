package roster

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound                 = errors.New("record not found")
	ErrInvalidRow               = errors.New("invalid row")
	ErrConstraintViolation      = errors.New("constraint violation")
	ErrIdentifierSpaceExhausted = errors.New("identifier space exhausted")
)

// RowValidationError reports a malformed or missing cell value.
type RowValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *RowValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s (got %q)", e.Field, e.Reason, e.Value)
}

func (e *RowValidationError) Unwrap() error {
	return ErrInvalidRow
}

// PersistenceConstraintError reports a uniqueness or integrity violation raised
// while creating an entity.
type PersistenceConstraintError struct {
	Entity     string
	Constraint string
	Err        error
}

func (e *PersistenceConstraintError) Error() string {
	msg := fmt.Sprintf("%s violates %s", e.Entity, e.Constraint)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PersistenceConstraintError) Unwrap() error {
	return e.Err
}

func (e *PersistenceConstraintError) Is(target error) bool {
	return target == ErrConstraintViolation
}
