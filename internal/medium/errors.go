package medium

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the parent of all precondition violations reported by
// this package and the packages built on it. Use errors.Is to test for it.
var ErrInvalidArgument = errors.New("invalid argument")

// Precondition errors.
var (
	// ErrNegativeOffset indicates an absolute position below zero.
	ErrNegativeOffset = fmt.Errorf("%w: negative offset", ErrInvalidArgument)

	// ErrNegativeSize indicates a region or chunk size below zero.
	ErrNegativeSize = fmt.Errorf("%w: negative size", ErrInvalidArgument)

	// ErrMediumMismatch indicates offsets or regions of different media were mixed.
	ErrMediumMismatch = fmt.Errorf("%w: offsets belong to different media", ErrInvalidArgument)

	// ErrNotCached indicates an operation that needs cached bytes was used on an uncached region.
	ErrNotCached = fmt.Errorf("%w: region is not cached", ErrInvalidArgument)

	// ErrOutsideRegion indicates an offset outside the bounds allowed for the operation.
	ErrOutsideRegion = fmt.Errorf("%w: offset outside region", ErrInvalidArgument)

	// ErrNoOverlap indicates two regions were expected to overlap but do not.
	ErrNoOverlap = fmt.Errorf("%w: regions do not overlap", ErrInvalidArgument)

	// ErrInvalidChunkSize indicates a chunk size of zero or less.
	ErrInvalidChunkSize = fmt.Errorf("%w: chunk size must be positive", ErrInvalidArgument)
)

// Anchor errors.
var (
	// ErrAnchorNotFound indicates a tracked anchor name is unknown.
	ErrAnchorNotFound = errors.New("anchor not found")
)
