package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntToUint32(t *testing.T) {
	t.Run("valid zero", func(t *testing.T) {
		got, err := IntToUint32(0)
		assert.NoError(t, err)
		assert.Equal(t, uint32(0), got)
	})

	t.Run("valid max int32", func(t *testing.T) {
		got, err := IntToUint32(math.MaxInt32)
		assert.NoError(t, err)
		assert.Equal(t, uint32(math.MaxInt32), got)
	})

	t.Run("invalid negative", func(t *testing.T) {
		_, err := IntToUint32(-1)
		assert.ErrorIs(t, err, ErrOutOfRange)
	})
}

func TestFloat32ToUint32(t *testing.T) {
	got, err := Float32ToUint32(65535, 65535)
	require.NoError(t, err)
	assert.Equal(t, uint32(65535), got)

	got, err = Float32ToUint32(1<<21-1, 1<<21-1)
	require.NoError(t, err)
	assert.Equal(t, uint32(1<<21-1), got)

	for _, bad := range []float32{-1, 1.5, 65536, float32(math.NaN()), float32(math.Inf(1))} {
		_, err := Float32ToUint32(bad, 65535)
		assert.ErrorIs(t, err, ErrOutOfRange, "value %v", bad)
	}
}

func TestFloat32sToUint32s(t *testing.T) {
	got, err := Float32sToUint32s([]float32{0, 3, 7}, 7)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 3, 7}, got)

	_, err = Float32sToUint32s([]float32{0, 0.25}, 7)
	require.ErrorIs(t, err, ErrOutOfRange)
	assert.Contains(t, err.Error(), "index 1")
}
