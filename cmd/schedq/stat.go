package main

import (
	"fmt"

	"github.com/fwojciec/schedq/job"
	schedslog "github.com/fwojciec/schedq/slog"
)

// StatCmd is the "stat" subcommand.
type StatCmd struct {
	Dir string `required:"" help:"Job directory for persisted state"`
}

func (c *StatCmd) Run(deps *Dependencies) error {
	sched := schedslog.NewScheduler(job.NewScheduler(job.Config{Dir: c.Dir}), deps.Logger)
	if err := sched.Open(); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "%d pending\n", sched.Len())

	// Closing re-persists the untouched state.
	return sched.Close("paused")
}
