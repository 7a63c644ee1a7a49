package errs

import (
	"errors"
	"fmt"
)

// StoreError wraps a driver failure with enough context to reconcile state by hand.
type StoreError struct {
	Op     string // e.g. "delete perfume", "cascade perfume_notes"
	Entity string
	ID     string // owning record, if any
	Err    error
}

func (e *StoreError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s %s: %v", e.Op, e.Entity, e.ID, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Err)
}

// Unwrap exposes the driver error.
func (e *StoreError) Unwrap() error { return e.Err }

// Is makes every StoreError match ErrStore.
func (e *StoreError) Is(target error) bool { return target == ErrStore }

// Store wraps err as a StoreError unless it already carries a catalog error kind.
func Store(op, entity, id string, err error) error {
	if err == nil {
		return nil
	}
	if IsKind(err) {
		return err
	}
	return &StoreError{Op: op, Entity: entity, ID: id, Err: err}
}

// IsKind reports whether err already carries one of the catalog error kinds.
func IsKind(err error) bool {
	for _, k := range []error{ErrValidation, ErrConflict, ErrNotFound, ErrStore, ErrUnauthorized, ErrRateLimited} {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}

// Validationf formats a validation error.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Conflictf formats a conflict error.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// NotFoundf formats a not-found error.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
