package morton

import "errors"

var (
	// ErrDimensionMismatch is returned when array lengths disagree with the permutation.
	ErrDimensionMismatch = errors.New("morton: dimension mismatch")
	// ErrInvalidPermutation is returned when a permutation index is out of range.
	ErrInvalidPermutation = errors.New("morton: invalid permutation")
)
