package transform

import (
	"fmt"
	"math"
	"unsafe"
)

// SH0Factor is the degree-0 real spherical harmonic, 1/sqrt(4*pi).
const SH0Factor = 0.28209479177387814

// Unsigned is the set of integer types a color channel may be stored in.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32
}

// Channels is the number of color channels.
const Channels = 3

func levels[T Unsigned](depth int) (float64, error) {
	var zero T
	if depth < 1 || depth > int(unsafe.Sizeof(zero))*8 {
		return 0, fmt.Errorf("%w: %d bits into %d-bit channel", ErrInvalidDepth, depth, unsafe.Sizeof(zero)*8)
	}
	return float64(uint64(1)<<depth - 1), nil
}

func toColor[T Unsigned](sh float32, top float64) T {
	c := math.Round((float64(sh)*SH0Factor + 0.5) * top)
	switch {
	case !(c >= 0):
		return 0
	case c > top:
		return T(top)
	default:
		return T(c)
	}
}

func toSH0[T Unsigned](c T, top float64) float32 {
	return float32((float64(c)/top - 0.5) / SH0Factor)
}

func checkPlanar[T any](in [][]T) (int, error) {
	if len(in) != Channels {
		return 0, fmt.Errorf("%w: got %d channels", ErrDimensionMismatch, len(in))
	}
	n := len(in[0])
	for c := 1; c < Channels; c++ {
		if len(in[c]) != n {
			return 0, fmt.Errorf("%w: channel %d has %d values, channel 0 has %d", ErrDimensionMismatch, c, len(in[c]), n)
		}
	}
	return n, nil
}

// SH0ToPlanarRGB converts three coefficient arrays into three color arrays
// of the given bit depth.
func SH0ToPlanarRGB[T Unsigned](sh0 [][]float32, depth int) ([][]T, error) {
	top, err := levels[T](depth)
	if err != nil {
		return nil, err
	}
	n, err := checkPlanar(sh0)
	if err != nil {
		return nil, err
	}
	out := make([][]T, Channels)
	for c := range out {
		out[c] = make([]T, n)
		for i, v := range sh0[c] {
			out[c][i] = toColor[T](v, top)
		}
	}
	return out, nil
}

// SH0ToPackedRGB converts interleaved coefficient triples into interleaved
// color triples.
func SH0ToPackedRGB[T Unsigned](sh0 []float32, depth int) ([]T, error) {
	top, err := levels[T](depth)
	if err != nil {
		return nil, err
	}
	if len(sh0)%Channels != 0 {
		return nil, fmt.Errorf("%w: packed length %d is not a multiple of %d", ErrDimensionMismatch, len(sh0), Channels)
	}
	out := make([]T, len(sh0))
	for i, v := range sh0 {
		out[i] = toColor[T](v, top)
	}
	return out, nil
}

// PlanarRGBToSH0 is the inverse of SH0ToPlanarRGB.
func PlanarRGBToSH0[T Unsigned](rgb [][]T, depth int) ([][]float32, error) {
	top, err := levels[T](depth)
	if err != nil {
		return nil, err
	}
	n, err := checkPlanar(rgb)
	if err != nil {
		return nil, err
	}
	out := make([][]float32, Channels)
	for c := range out {
		out[c] = make([]float32, n)
		for i, v := range rgb[c] {
			out[c][i] = toSH0(v, top)
		}
	}
	return out, nil
}

// PackedRGBToSH0 is the inverse of SH0ToPackedRGB.
func PackedRGBToSH0[T Unsigned](rgb []T, depth int) ([]float32, error) {
	top, err := levels[T](depth)
	if err != nil {
		return nil, err
	}
	if len(rgb)%Channels != 0 {
		return nil, fmt.Errorf("%w: packed length %d is not a multiple of %d", ErrDimensionMismatch, len(rgb), Channels)
	}
	out := make([]float32, len(rgb))
	for i, v := range rgb {
		out[i] = toSH0(v, top)
	}
	return out, nil
}

// Pack interleaves three planar channels.
func Pack[T any](planar [][]T) ([]T, error) {
	n, err := checkPlanar(planar)
	if err != nil {
		return nil, err
	}
	out := make([]T, n*Channels)
	for i := 0; i < n; i++ {
		for c := 0; c < Channels; c++ {
			out[i*Channels+c] = planar[c][i]
		}
	}
	return out, nil
}

// Unpack splits interleaved triples into three planar channels.
func Unpack[T any](packed []T) ([][]T, error) {
	if len(packed)%Channels != 0 {
		return nil, fmt.Errorf("%w: packed length %d is not a multiple of %d", ErrDimensionMismatch, len(packed), Channels)
	}
	n := len(packed) / Channels
	out := make([][]T, Channels)
	for c := range out {
		out[c] = make([]T, n)
		for i := 0; i < n; i++ {
			out[c][i] = packed[i*Channels+c]
		}
	}
	return out, nil
}
