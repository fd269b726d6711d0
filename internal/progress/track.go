package progress

import (
	"context"

	"golang.org/x/sync/errgroup"
)

const updateBuffer = 64

// Reporter publishes progress from the worker.
type Reporter func(Update)

// Track runs work on a worker goroutine while a renderer goroutine draws
// its updates. It returns work's error after the last update was drawn.
func Track(ctx context.Context, r *Renderer, work func(ctx context.Context, report Reporter) error) error {
	updates := make(chan Update, updateBuffer)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(updates)

		return work(gctx, func(u Update) {
			select {
			case updates <- u:
			case <-gctx.Done():
			}
		})
	})

	g.Go(func() error {
		defer r.Finish()

		for u := range updates {
			r.Render(u)
		}

		return nil
	})

	return g.Wait()
}
