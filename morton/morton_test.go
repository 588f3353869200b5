package morton

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBitLayout(t *testing.T) {
	assert.Equal(t, uint64(0), Encode(0, 0, 0))
	assert.Equal(t, uint64(1), Encode(1, 0, 0))
	assert.Equal(t, uint64(2), Encode(0, 1, 0))
	assert.Equal(t, uint64(4), Encode(0, 0, 1))
	assert.Equal(t, uint64(7), Encode(1, 1, 1))
	assert.Equal(t, uint64(8), Encode(2, 0, 0))
	assert.Equal(t, uint64(1)<<62, Encode(0, 0, 1<<20))
	// Bits above the field width are ignored.
	assert.Equal(t, Encode(5, 6, 7), Encode(5|1<<21, 6|1<<30, 7))
}

func TestEncodeDecode(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		x, y, z := rng.Uint32()&fieldMask, rng.Uint32()&fieldMask, rng.Uint32()&fieldMask
		dx, dy, dz := Decode(Encode(x, y, z))
		require.Equal(t, [3]uint32{x, y, z}, [3]uint32{dx, dy, dz})
	}
	x, y, z := Decode(Encode(fieldMask, fieldMask, fieldMask))
	assert.Equal(t, [3]uint32{fieldMask, fieldMask, fieldMask}, [3]uint32{x, y, z})
}

func TestEncode2Decode2(t *testing.T) {
	cases := [][2]uint32{{0, 0}, {1, 0}, {0, 1}, {0xffffffff, 0}, {0, 0xffffffff}, {0xffffffff, 0xffffffff}, {0xdeadbeef, 0x12345678}}
	for _, c := range cases {
		x, y := Decode2(Encode2(c[0], c[1]))
		assert.Equal(t, c, [2]uint32{x, y})
	}
	assert.Equal(t, uint64(2), Encode2(0, 1))

	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 10000; i++ {
		a, b := rng.Uint32(), rng.Uint32()
		x, y := Decode2(Encode2(a, b))
		require.Equal(t, a, x)
		require.Equal(t, b, y)
	}
}

// zLess compares two cells by walking the octree from the root: the first
// level where they fall into different octants decides, octants numbered
// x + 2y + 4z.
func zLess(a, b [3]uint32) bool {
	for level := FieldBits - 1; level >= 0; level-- {
		oa := a[0]>>level&1 | (a[1]>>level&1)<<1 | (a[2]>>level&1)<<2
		ob := b[0]>>level&1 | (b[1]>>level&1)<<1 | (b[2]>>level&1)<<2
		if oa != ob {
			return oa < ob
		}
	}
	return false
}

func TestKeyOrderMatchesOctreeTraversal(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 5000; i++ {
		var a, b [3]uint32
		for d := 0; d < 3; d++ {
			a[d] = rng.Uint32() & 0xff
			b[d] = rng.Uint32() & 0xff
		}
		ka, kb := Encode(a[0], a[1], a[2]), Encode(b[0], b[1], b[2])
		require.Equal(t, zLess(a, b), ka < kb, "a=%v b=%v", a, b)
		require.Equal(t, a == b, ka == kb)
	}
}

func TestFourPointScenario(t *testing.T) {
	q := [][]uint32{
		{1, 1, 0, 0},
		{1, 0, 1, 0},
		{1, 0, 0, 0},
	}
	keys, err := Keys(context.Background(), q, 1)
	require.NoError(t, err)
	perm := SortedIndices(keys)
	assert.Equal(t, []int{3, 1, 2, 0}, perm)

	sorted, err := ApplyAll(q, perm)
	require.NoError(t, err)
	assert.Equal(t, [][]uint32{{0, 1, 0, 1}, {0, 0, 1, 1}, {0, 0, 0, 1}}, sorted)
}

func TestSortedIndicesStable(t *testing.T) {
	keys := []uint64{5, 1, 5, 1, 0, 5}
	assert.Equal(t, []int{4, 1, 3, 0, 2, 5}, SortedIndices(keys))
	assert.Empty(t, SortedIndices(nil))
}

func TestApplyKeepsPointIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	const n = 1000
	q := make([][]uint32, 3)
	for d := range q {
		q[d] = make([]uint32, n)
		for i := range q[d] {
			q[d][i] = rng.Uint32() & 0x3ff
		}
	}
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}

	keys, err := Keys(context.Background(), q, 4)
	require.NoError(t, err)
	perm := SortedIndices(keys)

	axes, err := ApplyAll(q, perm)
	require.NoError(t, err)
	permIDs, err := Apply(ids, perm)
	require.NoError(t, err)

	for i := 0; i < n; i++ {
		orig := permIDs[i]
		for d := 0; d < 3; d++ {
			require.Equal(t, q[d][orig], axes[d][i])
		}
		if i > 0 {
			require.LessOrEqual(t, keys[perm[i-1]], keys[perm[i]])
		}
	}

	inv := Invert(perm)
	back, err := Apply(permIDs, inv)
	require.NoError(t, err)
	assert.Equal(t, ids, back)
}

func TestApplyErrors(t *testing.T) {
	_, err := Apply([]int{1, 2}, []int{0})
	require.ErrorIs(t, err, ErrDimensionMismatch)
	_, err = Apply([]int{1, 2}, []int{0, 2})
	require.ErrorIs(t, err, ErrInvalidPermutation)
	_, err = ApplyAll([][]int{{1, 2}, {1}}, []int{1, 0})
	require.ErrorIs(t, err, ErrDimensionMismatch)
	_, err = Keys(context.Background(), [][]uint32{{1}, {1}}, 1)
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestDuplicates(t *testing.T) {
	keys := []uint64{9, 3, 9, 3, 1}
	perm := SortedIndices(keys)
	dups := Duplicates(keys, perm)
	assert.Equal(t, []uint32{2, 4}, dups.ToArray())
	assert.True(t, Duplicates([]uint64{1, 2}, []int{0, 1}).IsEmpty())
}
