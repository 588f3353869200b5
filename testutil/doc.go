// Package testutil provides testing utilities for splatpress.
//
// This package is intended for use in tests and benchmarks only.
// It generates seeded random point clouds and splat scenes and writes them
// as PLY files.
//
// # Random Points
//
//	rng := testutil.NewRNG(seed)
//	pts := rng.UniformPoints(1000, -10, 10)   // axis-major x, y, z
//	pts = rng.ClusteredPoints(1000, 8, 0.5)    // gaussian blobs
//
// # Scenes
//
//	ds := testutil.SplatDataset(rng, schema.Default(), 1000)
//	path := testutil.WritePLY(t, dir, "scene.ply", ds, ply.BinaryLittleEndian)
package testutil
