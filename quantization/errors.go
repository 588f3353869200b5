package quantization

import "errors"

var (
	// ErrDimensionMismatch is returned unless exactly 3 equal-length axes are given.
	ErrDimensionMismatch = errors.New("quantization: expected 3 equal-length axes")
	// ErrEmpty is returned when a bounding box is requested for zero points.
	ErrEmpty = errors.New("quantization: no points")
	// ErrInvalidBits is returned for bit depths outside [MinBits, MaxBits].
	ErrInvalidBits = errors.New("quantization: invalid bits per dimension")
)
