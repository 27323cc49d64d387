package api

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// All runs fns concurrently and waits for every one of them. The first
// error cancels the shared context and is returned; the rest are dropped.
// Screens that need several lists before rendering use it so a single
// failure fails the whole load.
func All(ctx context.Context, fns ...func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, fn := range fns {
		g.Go(func() error {
			return fn(gctx)
		})
	}
	return g.Wait()
}
