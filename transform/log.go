package transform

import (
	"context"
	"fmt"
	"math"

	"github.com/hupe1980/splatpress/internal/parallel"
	"github.com/hupe1980/splatpress/quantization"
)

// Log returns sign(v) * ln(|v| + 1).
func Log(v float32) float32 {
	f := float64(v)
	if f < 0 {
		return float32(-math.Log1p(-f))
	}
	return float32(math.Log1p(f))
}

// Exp returns sign(v) * (exp(|v|) - 1), the inverse of Log.
func Exp(v float32) float32 {
	f := float64(v)
	if f < 0 {
		return float32(-math.Expm1(-f))
	}
	return float32(math.Expm1(f))
}

// LogInPlace applies Log to every coordinate and to every bbox scalar so the
// box stays valid in log space. bb may be nil.
func LogInPlace(ctx context.Context, points [][]float32, bb *quantization.BoundingBox, workers int) error {
	return apply(ctx, points, bb, workers, Log)
}

// ExpInPlace undoes LogInPlace.
func ExpInPlace(ctx context.Context, points [][]float32, bb *quantization.BoundingBox, workers int) error {
	return apply(ctx, points, bb, workers, Exp)
}

func apply(ctx context.Context, points [][]float32, bb *quantization.BoundingBox, workers int, fn func(float32) float32) error {
	if len(points) != quantization.Dims {
		return fmt.Errorf("%w: got %d axes", ErrDimensionMismatch, len(points))
	}
	n := len(points[0])
	for a, axis := range points {
		if len(axis) != n {
			return fmt.Errorf("%w: axis %d has %d values, axis 0 has %d", ErrDimensionMismatch, a, len(axis), n)
		}
	}

	err := parallel.For(ctx, n, workers, func(lo, hi int) error {
		for _, axis := range points {
			for i := lo; i < hi; i++ {
				axis[i] = fn(axis[i])
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if bb != nil {
		s := bb.Scalars()
		for i := range s {
			s[i] = fn(s[i])
		}
		bb.SetScalars(s)
	}
	return nil
}
