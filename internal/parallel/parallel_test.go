package parallel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor(t *testing.T) {
	for _, n := range []int{0, 1, MinChunk, 3*MinChunk + 17} {
		for _, workers := range []int{0, 1, 4} {
			out := make([]int, n)
			var calls atomic.Int32
			err := For(context.Background(), n, workers, func(lo, hi int) error {
				calls.Add(1)
				for i := lo; i < hi; i++ {
					out[i]++
				}
				return nil
			})
			require.NoError(t, err)
			for i, v := range out {
				require.Equal(t, 1, v, "index %d visited %d times", i, v)
			}
			assert.Positive(t, calls.Load())
		}
	}
}

func TestForError(t *testing.T) {
	boom := errors.New("boom")
	err := For(context.Background(), 10*MinChunk, 4, func(lo, hi int) error {
		if lo == 0 {
			return boom
		}
		return nil
	})
	require.ErrorIs(t, err, boom)
}

func TestForCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := For(ctx, 10, 1, func(lo, hi int) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}
