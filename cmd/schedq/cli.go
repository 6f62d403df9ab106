package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/schedq"
)

// Dependencies holds shared services for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Enqueue EnqueueCmd `cmd:"" help:"Read requests from a file and queue them under a job directory"`
	Drain   DrainCmd   `cmd:"" help:"Dispatch every pending request, printing each URL"`
	Stat    StatCmd    `cmd:"" help:"Show the pending request count for a job directory"`
}

func order(lifo bool) schedq.Order {
	if lifo {
		return schedq.LIFO
	}
	return schedq.FIFO
}
