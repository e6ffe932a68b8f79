// Package parallel provides a bounded worker pool for column-wise work.
//
// Work items are processed concurrently up to the pool size and results keep
// the input order. The first error cancels the remaining items.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// WorkerPool bounds the number of goroutines used by Map
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a new worker pool. Non-positive sizes use runtime.NumCPU().
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// Workers returns the pool size
func (wp *WorkerPool) Workers() int { return wp.numWorkers }

// Map applies worker to every item and returns the results in input order.
// A nil pool runs the items sequentially.
func Map[T, R any](ctx context.Context, wp *WorkerPool, items []T, worker func(ctx context.Context, i int, item T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	if wp == nil || wp.numWorkers == 1 || len(items) < 2 {
		for i, item := range items {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			r, err := worker(ctx, i, item)
			if err != nil {
				return nil, err
			}
			results[i] = r
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(wp.numWorkers)
	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := worker(gctx, i, item)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
