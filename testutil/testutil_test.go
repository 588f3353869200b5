package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/splatpress/ply"
	"github.com/hupe1980/splatpress/schema"
)

func TestUniformPoints(t *testing.T) {
	rng := NewRNG(4711)

	pts := rng.UniformPoints(100, -2, 3)

	require.Len(t, pts, 3)
	for _, axis := range pts {
		require.Len(t, axis, 100)
		for _, v := range axis {
			assert.GreaterOrEqual(t, v, float32(-2))
			assert.Less(t, v, float32(3))
		}
	}
}

func TestClusteredPoints(t *testing.T) {
	rng := NewRNG(4711)

	pts := rng.ClusteredPoints(50, 4, 0.1)

	require.Len(t, pts, 3)
	assert.Len(t, pts[2], 50)
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	v1 := rng.UniformPoints(10, 0, 1)

	rng.Reset()
	v2 := rng.UniformPoints(10, 0, 1)

	assert.Equal(t, v1, v2)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestSplatDataset(t *testing.T) {
	reg := schema.Default()

	ds, err := SplatDataset(NewRNG(1), reg, 20)
	require.NoError(t, err)

	es, ok := ds.Schema("vertex")
	require.True(t, ok)
	assert.Equal(t, 65, es.Len())
	assert.Equal(t, 20, es.Count)

	_, ok = ds.Schema("camera")
	assert.False(t, ok)

	path := WritePLY(t, t.TempDir(), "scene.ply", ds, ply.BinaryLittleEndian)
	back, err := ply.NewReader(reg).ReadFile(path)
	require.NoError(t, err)

	want, err := ds.Float32s("vertex", "x", "opacity")
	require.NoError(t, err)
	got, err := back.Float32s("vertex", "x", "opacity")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
