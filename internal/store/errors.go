package store

import (
	"errors"
	"fmt"
)

// Errors returned by Store operations.
var (
	// ErrClosed indicates the store was used after Close.
	ErrClosed = errors.New("store is closed")

	// ErrReadOnly indicates a change was scheduled or flushed on a read-only medium.
	ErrReadOnly = errors.New("medium is read-only")

	// ErrMediumChanged indicates the medium content no longer matches the
	// fingerprint taken at open or after the last flush.
	ErrMediumChanged = errors.New("medium changed externally")

	// ErrBrokenPlan indicates a relocation Write without a directly preceding
	// Read of the same size.
	ErrBrokenPlan = errors.New("flush plan is broken")

	// ErrInconsistent indicates a flush stopped after modifying the medium.
	// The store has to be reopened.
	ErrInconsistent = errors.New("medium left inconsistent by an interrupted flush")

	// ErrEndOfMedium indicates a read reaching past the end of the medium.
	ErrEndOfMedium = errors.New("end of medium")
)

// MediumError records a failed store operation and the medium it ran on.
type MediumError struct {
	Op     string // Operation that failed (flush, read, schedule, ...)
	Medium string // Medium name
	Err    error  // Underlying error
}

// Error implements the error interface.
func (e *MediumError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Medium, e.Err)
}

// Unwrap returns the underlying error.
func (e *MediumError) Unwrap() error {
	return e.Err
}
