package change

import (
	"errors"
	"fmt"

	"github.com/dshills/shiftplan/internal/action"
	"github.com/dshills/shiftplan/internal/medium"
)

// Errors returned by Manager operations.
var (
	// ErrOverlappingWrite indicates a new edit conflicts with a pending one in
	// a way subsumption cannot resolve.
	ErrOverlappingWrite = errors.New("overlapping write")

	// ErrUnknownAction indicates an action that is not pending in this manager.
	ErrUnknownAction = errors.New("action is not pending")

	// ErrSequenceExhausted indicates no further sequence numbers can be
	// assigned. The medium has to be reopened.
	ErrSequenceExhausted = errors.New("schedule sequence numbers exhausted")
)

// Flush plan precondition errors. All wrap medium.ErrInvalidArgument.
var (
	// ErrInvalidBlockSize indicates a maximum block size of zero or less.
	ErrInvalidBlockSize = fmt.Errorf("%w: max block size must be positive", medium.ErrInvalidArgument)

	// ErrInvalidMediumSize indicates a negative medium size.
	ErrInvalidMediumSize = fmt.Errorf("%w: negative medium size", medium.ErrInvalidArgument)

	// ErrBeyondMedium indicates a pending action reaching past the end of the medium.
	ErrBeyondMedium = fmt.Errorf("%w: action beyond end of medium", medium.ErrInvalidArgument)
)

// OverlapError describes a rejected edit and the pending action it collides with.
type OverlapError struct {
	Kind     action.Kind    // Kind of the rejected edit
	Region   medium.Region  // Region of the rejected edit
	Existing action.Action  // Pending action in the way
	Overlap  medium.Overlap // Relation of Region to the existing region
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%s %s conflicts with pending %s #%d %s (%s)",
		e.Kind, e.Region, e.Existing.Kind(), e.Existing.Sequence(), e.Existing.Region(), e.Overlap)
}

func (e *OverlapError) Unwrap() error {
	return ErrOverlappingWrite
}
