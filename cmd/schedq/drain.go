package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/fwojciec/schedq"
	"github.com/fwojciec/schedq/downloader"
	"github.com/fwojciec/schedq/job"
	schedslog "github.com/fwojciec/schedq/slog"
)

// DrainCmd is the "drain" subcommand.
type DrainCmd struct {
	Dir             string  `required:"" help:"Job directory for persisted state"`
	Lifo            bool    `help:"Pop newest entries first within a priority level"`
	DownloaderAware bool    `help:"Prefer slots with the fewest requests in flight"`
	Workers         int     `short:"w" default:"1" help:"Concurrent dispatch workers"`
	RPS             float64 `name:"rps" default:"0" help:"Per-slot dispatches per second (0 disables pacing)"`
}

func (c *DrainCmd) Run(deps *Dependencies) error {
	activity := downloader.NewActivity()

	cfg := job.Config{Dir: c.Dir, Order: order(c.Lifo)}
	if c.DownloaderAware {
		cfg.Policy = job.DownloaderAware
		cfg.Tracker = activity
	}

	sched := schedslog.NewScheduler(job.NewScheduler(cfg), deps.Logger)
	if err := sched.Open(); err != nil {
		return err
	}

	var mu sync.Mutex
	d := &downloader.Dispatcher{
		Scheduler: sched,
		Activity:  activity,
		Workers:   c.Workers,
		Dispatch: func(ctx context.Context, r *schedq.Request) error {
			mu.Lock()
			defer mu.Unlock()
			_, err := fmt.Fprintln(deps.Stdout, r.URL)
			return err
		},
	}
	if c.RPS > 0 {
		d.Limiter = downloader.NewSlotLimiter(c.RPS)
	}

	if err := d.Run(deps.Ctx); err != nil {
		_ = sched.Close("error")
		return err
	}
	return sched.Close("finished")
}
