package morton

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/splatpress/internal/parallel"
)

// Keys encodes every point of q, given as 3 axes. workers <= 0 means
// GOMAXPROCS.
func Keys(ctx context.Context, q [][]uint32, workers int) ([]uint64, error) {
	if len(q) != 3 {
		return nil, fmt.Errorf("%w: got %d axes", ErrDimensionMismatch, len(q))
	}
	n := len(q[0])
	if len(q[1]) != n || len(q[2]) != n {
		return nil, fmt.Errorf("%w: axis lengths %d/%d/%d", ErrDimensionMismatch, n, len(q[1]), len(q[2]))
	}

	keys := make([]uint64, n)
	err := parallel.For(ctx, n, workers, func(lo, hi int) error {
		xs, ys, zs := q[0][lo:hi], q[1][lo:hi], q[2][lo:hi]
		for i := range xs {
			keys[lo+i] = Encode(xs[i], ys[i], zs[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// SortedIndices returns the permutation ordering keys ascending. Equal keys
// keep their original relative order.
func SortedIndices(keys []uint64) []int {
	type entry struct {
		key uint64
		idx int
	}
	entries := make([]entry, len(keys))
	for i, k := range keys {
		entries[i] = entry{k, i}
	}
	slices.SortFunc(entries, func(a, b entry) int {
		if c := cmp.Compare(a.key, b.key); c != 0 {
			return c
		}
		return cmp.Compare(a.idx, b.idx)
	})

	perm := make([]int, len(keys))
	for i, e := range entries {
		perm[i] = e.idx
	}
	return perm
}

func checkPerm(n int, perm []int) error {
	if n != len(perm) {
		return fmt.Errorf("%w: %d values for permutation of %d", ErrDimensionMismatch, n, len(perm))
	}
	for i, p := range perm {
		if p < 0 || p >= n {
			return fmt.Errorf("%w: index %d at position %d", ErrInvalidPermutation, p, i)
		}
	}
	return nil
}

// Apply returns out with out[i] = values[perm[i]].
func Apply[T any](values []T, perm []int) ([]T, error) {
	if err := checkPerm(len(values), perm); err != nil {
		return nil, err
	}
	return apply(values, perm), nil
}

func apply[T any](values []T, perm []int) []T {
	out := make([]T, len(values))
	for i, p := range perm {
		out[i] = values[p]
	}
	return out
}

// ApplyAll applies perm to every array. Either all arrays are permuted or,
// on a length mismatch, none are.
func ApplyAll[T any](arrays [][]T, perm []int) ([][]T, error) {
	for i, a := range arrays {
		if err := checkPerm(len(a), perm); err != nil {
			return nil, fmt.Errorf("array %d: %w", i, err)
		}
	}
	out := make([][]T, len(arrays))
	for i, a := range arrays {
		out[i] = apply(a, perm)
	}
	return out, nil
}

// Invert returns inv with inv[perm[i]] = i.
func Invert(perm []int) []int {
	inv := make([]int, len(perm))
	for i, p := range perm {
		inv[p] = i
	}
	return inv
}

// Duplicates returns the sorted positions whose key equals the key at the
// previous sorted position, that is points sharing a quantized cell.
func Duplicates(keys []uint64, perm []int) *roaring.Bitmap {
	bm := roaring.New()
	for i := 1; i < len(perm); i++ {
		if keys[perm[i]] == keys[perm[i-1]] {
			bm.Add(uint32(i))
		}
	}
	return bm
}
