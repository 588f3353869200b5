package quantization

import (
	"fmt"
	"math"
)

// Dims is the number of coordinate axes.
const Dims = 3

// BoundingBox is an axis-aligned box. The range transform rewrites it in
// place so it stays valid in transformed space.
type BoundingBox struct {
	Min [Dims]float32 `json:"min"`
	Max [Dims]float32 `json:"max"`
}

// ComputeBoundingBox tracks per-axis running min and max in a single pass.
func ComputeBoundingBox(points [][]float32) (BoundingBox, error) {
	n, err := axisLen(points)
	if err != nil {
		return BoundingBox{}, err
	}
	if n == 0 {
		return BoundingBox{}, ErrEmpty
	}

	var bb BoundingBox
	for a := 0; a < Dims; a++ {
		bb.Min[a] = math.MaxFloat32
		bb.Max[a] = -math.MaxFloat32
	}
	for i := 0; i < n; i++ {
		for a := 0; a < Dims; a++ {
			v := points[a][i]
			if v < bb.Min[a] {
				bb.Min[a] = v
			}
			if v > bb.Max[a] {
				bb.Max[a] = v
			}
		}
	}
	return bb, nil
}

// Extent returns max - min along axis.
func (bb BoundingBox) Extent(axis int) float32 {
	return bb.Max[axis] - bb.Min[axis]
}

// Scalars returns min x,y,z followed by max x,y,z.
func (bb BoundingBox) Scalars() [2 * Dims]float32 {
	var s [2 * Dims]float32
	copy(s[:Dims], bb.Min[:])
	copy(s[Dims:], bb.Max[:])
	return s
}

// SetScalars is the inverse of Scalars.
func (bb *BoundingBox) SetScalars(s [2 * Dims]float32) {
	copy(bb.Min[:], s[:Dims])
	copy(bb.Max[:], s[Dims:])
}

// Contains reports whether p lies inside the closed box.
func (bb BoundingBox) Contains(p [Dims]float32) bool {
	for a := 0; a < Dims; a++ {
		if p[a] < bb.Min[a] || p[a] > bb.Max[a] {
			return false
		}
	}
	return true
}

func (bb BoundingBox) String() string {
	return fmt.Sprintf("[%v %v %v]-[%v %v %v]", bb.Min[0], bb.Min[1], bb.Min[2], bb.Max[0], bb.Max[1], bb.Max[2])
}

// axisLen checks for 3 equal-length axes and returns the point count.
func axisLen[T any](axes [][]T) (int, error) {
	if len(axes) != Dims {
		return 0, fmt.Errorf("%w: got %d axes", ErrDimensionMismatch, len(axes))
	}
	n := len(axes[0])
	for a := 1; a < Dims; a++ {
		if len(axes[a]) != n {
			return 0, fmt.Errorf("%w: axis %d has %d values, axis 0 has %d", ErrDimensionMismatch, a, len(axes[a]), n)
		}
	}
	return n, nil
}
