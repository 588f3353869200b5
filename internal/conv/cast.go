package conv

import (
	"errors"
	"fmt"
	"math"
)

// ErrOutOfRange is returned when a value does not fit the target type.
var ErrOutOfRange = errors.New("conv: value out of range")

// IntToUint32 converts int to uint32 safely.
func IntToUint32(v int) (uint32, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: %d cannot be converted to uint32 (negative)", ErrOutOfRange, v)
	}
	// On 64-bit systems, int can exceed uint32 max; on 32-bit, this is always false
	if uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d cannot be converted to uint32 (too large)", ErrOutOfRange, v)
	}
	return uint32(v), nil
}

// Float32ToUint32 converts an integral float in [0, limit] to uint32.
// Fractions, NaN and infinities are rejected.
func Float32ToUint32(v float32, limit uint32) (uint32, error) {
	f := float64(v)
	if !(f >= 0) || f > float64(limit) {
		return 0, fmt.Errorf("%w: %v not in [0, %d]", ErrOutOfRange, v, limit)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %v is not integral", ErrOutOfRange, v)
	}
	return uint32(f), nil
}

// Float32sToUint32s applies Float32ToUint32 to every value.
func Float32sToUint32s(in []float32, limit uint32) ([]uint32, error) {
	out := make([]uint32, len(in))
	for i, v := range in {
		u, err := Float32ToUint32(v, limit)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out[i] = u
	}
	return out, nil
}
