package trainer

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// parallelFor calls fn for every index in [0, n), split into at most workers contiguous chunks,
// and waits for all of them. The first error cancels the remaining chunks.
func parallelFor(ctx context.Context, n, workers int, fn func(i int) error) error {
	if n == 0 {
		return nil
	}
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < n; start += chunk {
		start, end := start, min(start+chunk, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := fn(i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
