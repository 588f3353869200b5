package quantization

import (
	"context"
	"fmt"
	"math"

	"github.com/hupe1980/splatpress/internal/parallel"
)

const (
	// MinBits is the smallest supported bit depth.
	MinBits = 1
	// MaxBits is the widest depth that still fits one Morton field.
	MaxBits = 21
)

// Quantizer converts between float coordinates and bits-wide integers.
// It is immutable and safe for concurrent use.
type Quantizer struct {
	bits    int
	levels  float64
	workers int
}

// Option configures a Quantizer.
type Option func(*Quantizer)

// WithWorkers bounds the goroutines used per call. n <= 0 means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(q *Quantizer) {
		q.workers = n
	}
}

// New returns a quantizer with bits per dimension.
func New(bits int, opts ...Option) (*Quantizer, error) {
	if bits < MinBits || bits > MaxBits {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidBits, bits, MinBits, MaxBits)
	}
	q := &Quantizer{bits: bits, levels: float64(uint32(1)<<bits - 1), workers: 1}
	for _, opt := range opts {
		opt(q)
	}
	return q, nil
}

// Bits returns the bit depth.
func (q *Quantizer) Bits() int {
	return q.bits
}

// MaxValue returns the largest quantized value, 2^bits - 1.
func (q *Quantizer) MaxValue() uint32 {
	return uint32(q.levels)
}

// Step returns the quantization step along axis.
func (q *Quantizer) Step(bb BoundingBox, axis int) float64 {
	return (float64(bb.Max[axis]) - float64(bb.Min[axis])) / q.levels
}

// Quantize maps points into [0, 2^bits-1] per axis. Values outside bbox are
// clamped.
func (q *Quantizer) Quantize(ctx context.Context, points [][]float32, bb BoundingBox) ([][]uint32, error) {
	n, err := axisLen(points)
	if err != nil {
		return nil, err
	}

	out := make([][]uint32, Dims)
	var scale, lo [Dims]float64
	for a := 0; a < Dims; a++ {
		out[a] = make([]uint32, n)
		lo[a] = float64(bb.Min[a])
		if ext := float64(bb.Max[a]) - lo[a]; ext > 0 {
			scale[a] = q.levels / ext
		}
	}

	err = parallel.For(ctx, n, q.workers, func(from, to int) error {
		for a := 0; a < Dims; a++ {
			src, dst := points[a][from:to], out[a][from:to]
			if scale[a] == 0 {
				// Zero extent: every point sits at min.
				continue
			}
			for i, v := range src {
				dst[i] = q.clamp(math.Round((float64(v) - lo[a]) * scale[a]))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (q *Quantizer) clamp(t float64) uint32 {
	switch {
	case !(t >= 0):
		return 0
	case t > q.levels:
		return uint32(q.levels)
	default:
		return uint32(t)
	}
}

// Dequantize is the inverse mapping of Quantize.
func (q *Quantizer) Dequantize(ctx context.Context, ints [][]uint32, bb BoundingBox) ([][]float32, error) {
	n, err := axisLen(ints)
	if err != nil {
		return nil, err
	}

	out := make([][]float32, Dims)
	var step, lo [Dims]float64
	for a := 0; a < Dims; a++ {
		out[a] = make([]float32, n)
		lo[a] = float64(bb.Min[a])
		step[a] = q.Step(bb, a)
	}

	err = parallel.For(ctx, n, q.workers, func(from, to int) error {
		for a := 0; a < Dims; a++ {
			src, dst := ints[a][from:to], out[a][from:to]
			for i, v := range src {
				dst[i] = float32(float64(v)*step[a] + lo[a])
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
