package testutil

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/splatpress/ply"
	"github.com/hupe1980/splatpress/schema"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// FillUniformRange fills dst with random values in range [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float32, minVal, maxVal float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for i := range dst {
		dst[i] = minVal + r.rand.Float32()*span
	}
}

// FillGaussian fills dst with standard normal values.
func (r *RNG) FillGaussian(dst []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = float32(r.rand.NormFloat64())
	}
}

// UniformPoints returns num points in [minVal, maxVal)^3 as three axis
// columns sharing one backing array.
func (r *RNG) UniformPoints(num int, minVal, maxVal float32) [][]float32 {
	data := make([]float32, 3*num)
	r.FillUniformRange(data, minVal, maxVal)
	return [][]float32{data[:num], data[num : 2*num], data[2*num:]}
}

// ClusteredPoints returns num points drawn around clusters centers placed in
// [-10, 10)^3, with gaussian spread. Splat scenes look like this: dense
// surfaces and a few far outliers.
func (r *RNG) ClusteredPoints(num, clusters int, spread float32) [][]float32 {
	centers := r.UniformPoints(clusters, -10, 10)

	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float32, 3*num)
	pts := [][]float32{data[:num], data[num : 2*num], data[2*num:]}
	for i := 0; i < num; i++ {
		c := i % clusters
		for a := range pts {
			pts[a][i] = centers[a][c] + float32(r.rand.NormFloat64())*spread
		}
	}
	return pts
}

// SplatDataset builds a vertex element with every property reg knows for
// "vertex", filled with plausible values, plus a one-row camera element when
// reg registers camera/fov.
func SplatDataset(rng *RNG, reg *schema.Registry, num int) (*ply.Dataset, error) {
	es := schema.NewElementSchema("vertex", num)
	for _, e := range reg.Entries() {
		if e.Element != "vertex" {
			continue
		}
		if err := es.AddProperty(reg, "vertex", e.Name, ""); err != nil {
			return nil, err
		}
	}
	ds := ply.NewDataset()
	ds.AddElement(es)

	pos := rng.ClusteredPoints(num, 8, 0.5)
	for _, p := range es.Properties {
		var vals []ply.Value
		switch {
		case p.Name == "x" || p.Name == "y" || p.Name == "z":
			vals = ply.Float32Values(pos[p.Name[0]-'x'])
		case p.StorageType == schema.Int32:
			col := make([]int32, num)
			for i := range col {
				col[i] = int32(rng.Intn(256))
			}
			vals = ply.Int32Values(col)
		default:
			col := make([]float32, num)
			rng.FillGaussian(col)
			vals = ply.Float32Values(col)
		}
		ds.SetProperty("vertex", p.Name, vals)
	}

	if reg.IsAccepted("camera", "fov", "float") {
		cs := schema.NewElementSchema("camera", 1)
		if err := cs.AddProperty(reg, "camera", "fov", ""); err != nil {
			return nil, err
		}
		ds.AddElement(cs)
		ds.SetProperty("camera", "fov", ply.Float32Values([]float32{60}))
	}
	return ds, nil
}

// WritePLY writes ds to dir/name and returns the path.
func WritePLY(t testing.TB, dir, name string, ds *ply.Dataset, f ply.Format) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, ply.NewWriter(nil).WriteFile(path, ds, f), fmt.Sprintf("write %s", name))
	return path
}
