// Package parallel runs independent per-index work in chunks.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MinChunk is the smallest range handed to one goroutine.
const MinChunk = 4096

// Workers normalizes a worker count: n <= 0 means GOMAXPROCS.
func Workers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// For splits [0, n) into contiguous chunks and calls fn(lo, hi) for each,
// with at most workers chunks in flight. Small inputs run on the calling
// goroutine. For returns the first error; ranges are disjoint so fn may write
// to shared slices without locking.
func For(ctx context.Context, n, workers int, fn func(lo, hi int) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	workers = Workers(workers)
	if n <= MinChunk || workers == 1 {
		return fn(0, n)
	}

	chunk := (n + workers - 1) / workers
	if chunk < MinChunk {
		chunk = MinChunk
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		lo := lo
		hi := min(lo+chunk, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(lo, hi)
		})
	}
	return g.Wait()
}
