// Package errs contains error kinds shared by the store and service layers so callers
// can map failures with errors.Is.
package errs

import "errors"

// Error kinds reported by the catalog core.
var (
	// ErrValidation indicates missing or malformed input. Not retryable.
	ErrValidation = errors.New("validation")

	// ErrConflict indicates a uniqueness violation or a record that is still referenced.
	ErrConflict = errors.New("conflict")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStore indicates an underlying store failure. Reads may be retried.
	ErrStore = errors.New("store failure")

	// ErrUnauthorized indicates failed credential verification.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates a temporary lock after repeated failed credential checks.
	ErrRateLimited = errors.New("rate limited")
)
