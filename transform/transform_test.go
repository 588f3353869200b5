package transform

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/splatpress/quantization"
)

func TestLogExpInverse(t *testing.T) {
	values := []float32{0, 1, -1, 0.5, -0.5, 1e-6, -1e-6, 3.25, -42, 1000, -1e4, 60}
	for _, v := range values {
		l := Log(v)
		if v != 0 {
			assert.Equal(t, math.Signbit(float64(v)), math.Signbit(float64(l)), "sign of Log(%v)", v)
		}
		back := Exp(l)
		tol := 1e-6 * math.Max(1, math.Abs(float64(v)))
		assert.InDelta(t, v, back, tol, "v=%v", v)
	}
	assert.InDelta(t, math.Log(2), Log(1), 1e-7)
	assert.InDelta(t, -math.Log(2), Log(-1), 1e-7)
}

func TestLogInPlace(t *testing.T) {
	points := [][]float32{{-3, 0, 5}, {1, 2, 3}, {-1, -2, -8}}
	orig := [][]float32{
		append([]float32(nil), points[0]...),
		append([]float32(nil), points[1]...),
		append([]float32(nil), points[2]...),
	}
	bb, err := quantization.ComputeBoundingBox(points)
	require.NoError(t, err)

	require.NoError(t, LogInPlace(context.Background(), points, &bb, 2))
	assert.Equal(t, Log(-3), points[0][0])
	assert.Equal(t, Log(-8), bb.Min[2])
	assert.Equal(t, Log(5), bb.Max[0])

	// The transformed box still bounds the transformed points.
	for i := 0; i < 3; i++ {
		assert.True(t, bb.Contains([3]float32{points[0][i], points[1][i], points[2][i]}))
	}

	require.NoError(t, ExpInPlace(context.Background(), points, &bb, 2))
	for a := range points {
		assert.InDeltaSlice(t, orig[a], points[a], 1e-5)
	}
	assert.InDelta(t, -8, bb.Min[2], 1e-5)
}

func TestLogInPlaceDimensionMismatch(t *testing.T) {
	err := LogInPlace(context.Background(), [][]float32{{1}}, nil, 1)
	require.ErrorIs(t, err, ErrDimensionMismatch)
	err = ExpInPlace(context.Background(), [][]float32{{1}, {1}, {}}, nil, 1)
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestSH0RGB(t *testing.T) {
	sh := [][]float32{{0, 1.7724539, -1.7724539}, {0.5, -0.5, 10}, {-10, 0.1, 0}}

	planar, err := SH0ToPlanarRGB[uint8](sh, 8)
	require.NoError(t, err)
	// sh=0 maps to mid grey, +-1/(2F) to the channel limits, beyond is clamped.
	assert.Equal(t, []uint8{128, 255, 0}, planar[0])
	assert.Equal(t, uint8(255), planar[1][2])
	assert.Equal(t, uint8(0), planar[2][0])

	packedIn, err := Pack(sh)
	require.NoError(t, err)
	packed, err := SH0ToPackedRGB[uint8](packedIn, 8)
	require.NoError(t, err)
	unpacked, err := Unpack(packed)
	require.NoError(t, err)
	assert.Equal(t, planar, unpacked)

	back, err := PlanarRGBToSH0(planar, 8)
	require.NoError(t, err)
	step := 1 / (255 * SH0Factor)
	for c := 0; c < 3; c++ {
		for i, v := range sh[c] {
			if math.Abs(float64(v)) > 1.7 {
				continue
			}
			assert.InDelta(t, v, back[c][i], step, "c=%d i=%d", c, i)
		}
	}

	backPacked, err := PackedRGBToSH0(packed, 8)
	require.NoError(t, err)
	repacked, err := Pack(back)
	require.NoError(t, err)
	assert.Equal(t, repacked, backPacked)
}

func TestSH0RGBDepth(t *testing.T) {
	_, err := SH0ToPlanarRGB[uint8]([][]float32{{0}, {0}, {0}}, 9)
	require.ErrorIs(t, err, ErrInvalidDepth)
	_, err = SH0ToPackedRGB[uint16]([]float32{0, 0, 0}, 0)
	require.ErrorIs(t, err, ErrInvalidDepth)

	c, err := SH0ToPackedRGB[uint16]([]float32{0, 0, 0}, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint16{512, 512, 512}, c)
}

func TestSH0RGBDimensionMismatch(t *testing.T) {
	_, err := SH0ToPlanarRGB[uint8]([][]float32{{0}, {0}}, 8)
	require.ErrorIs(t, err, ErrDimensionMismatch)
	_, err = PackedRGBToSH0([]uint8{1, 2}, 8)
	require.ErrorIs(t, err, ErrDimensionMismatch)
	_, err = Unpack([]int{1, 2, 3, 4})
	require.ErrorIs(t, err, ErrDimensionMismatch)
}
