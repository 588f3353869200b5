package transform

import "errors"

var (
	// ErrDimensionMismatch is returned for channel or axis counts other than 3.
	ErrDimensionMismatch = errors.New("transform: dimension mismatch")
	// ErrInvalidDepth is returned for color depths the target type cannot hold.
	ErrInvalidDepth = errors.New("transform: invalid color depth")
)
