package action

import (
	"fmt"

	"github.com/dshills/shiftplan/internal/medium"
)

// Construction errors. All wrap medium.ErrInvalidArgument.
var (
	// ErrCachedRegion indicates a region carrying cached bytes was passed to New.
	ErrCachedRegion = fmt.Errorf("%w: action region must not be cached", medium.ErrInvalidArgument)

	// ErrPayloadRequired indicates an Insert or Replace without payload.
	ErrPayloadRequired = fmt.Errorf("%w: payload required", medium.ErrInvalidArgument)

	// ErrPayloadForbidden indicates a payload on Remove, Read or Truncate.
	ErrPayloadForbidden = fmt.Errorf("%w: payload not allowed", medium.ErrInvalidArgument)

	// ErrPayloadSizeMismatch indicates an Insert whose payload length differs from its region size.
	ErrPayloadSizeMismatch = fmt.Errorf("%w: payload length does not match region size", medium.ErrInvalidArgument)

	// ErrNegativeSequence indicates a negative schedule sequence number.
	ErrNegativeSequence = fmt.Errorf("%w: negative sequence number", medium.ErrInvalidArgument)

	// ErrUnknownKind indicates a kind outside the defined set.
	ErrUnknownKind = fmt.Errorf("%w: unknown action kind", medium.ErrInvalidArgument)
)
