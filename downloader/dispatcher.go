package downloader

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/fwojciec/schedq"
)

// DispatchFunc executes one dispatched request.
type DispatchFunc func(ctx context.Context, r *schedq.Request) error

// Dispatcher drains a scheduler with a bounded worker pool. The scheduler
// itself is single-threaded, so every queue call happens under one mutex;
// the activity hooks fire around each dispatch so downloader-aware
// selection sees accurate counts. Workers stop when the scheduler runs
// dry or a dispatch fails.
type Dispatcher struct {
	Scheduler schedq.Scheduler
	Activity  *Activity
	Dispatch  DispatchFunc

	// Workers bounds concurrent dispatches. Values below 1 mean 1.
	Workers int

	// Limiter paces dispatches per slot. Nil disables pacing.
	Limiter *SlotLimiter

	mu sync.Mutex // serializes access to Scheduler
}

// Run dispatches pending requests until the scheduler is empty.
func (d *Dispatcher) Run(ctx context.Context) error {
	workers := d.Workers
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for {
				d.mu.Lock()
				r, nextErr := d.Scheduler.Next()
				d.mu.Unlock()
				if r == nil {
					return nextErr
				}

				// An entry returned alongside an error is already off
				// the queue, so dispatch it before reporting.
				d.Activity.DispatchStarted(r)
				err := d.dispatch(gctx, r)
				d.Activity.DispatchCompleted(r)
				if err != nil {
					return err
				}
				if nextErr != nil {
					return nextErr
				}
			}
		})
	}
	return g.Wait()
}

func (d *Dispatcher) dispatch(ctx context.Context, r *schedq.Request) error {
	if d.Limiter != nil {
		if err := d.Limiter.Wait(ctx, r.Slot); err != nil {
			return err
		}
	}
	return d.Dispatch(ctx, r)
}
