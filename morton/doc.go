// Package morton computes Z-order keys for quantized 3-D points and the
// permutation that sorts points by them.
//
// A key interleaves the bits of its coordinates, x in the lowest position of
// every triple and z in the highest, so ascending keys walk the octree depth
// first: octant by octant, recursively.
//
//	keys, _ := morton.Keys(ctx, q, 0)
//	perm := morton.SortedIndices(keys)
//	xs, _ = morton.Apply(xs, perm)
//
// The permutation must be applied to every per-point array of an element,
// positions and attributes alike, or point identity is lost.
package morton
