// Package slog provides logging decorators for schedq interfaces.
package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/schedq"
)

// Ensure Scheduler implements schedq.Scheduler.
var _ schedq.Scheduler = (*Scheduler)(nil)

// Scheduler wraps a schedq.Scheduler with structured logging.
type Scheduler struct {
	next   schedq.Scheduler
	logger *slog.Logger
}

// NewScheduler creates a logging decorator around next.
func NewScheduler(next schedq.Scheduler, logger *slog.Logger) *Scheduler {
	return &Scheduler{next: next, logger: logger}
}

// Open delegates and logs the resumed pending count.
func (s *Scheduler) Open() error {
	begin := time.Now()
	if err := s.next.Open(); err != nil {
		s.logger.Error("scheduler open failed", "error", err)
		return err
	}
	s.logger.Info("scheduler opened",
		"pending", s.next.Len(),
		"duration", time.Since(begin),
	)
	return nil
}

// Enqueue delegates and logs the stored request.
func (s *Scheduler) Enqueue(r *schedq.Request) error {
	if err := s.next.Enqueue(r); err != nil {
		s.logger.Error("enqueue rejected", "error", err)
		return err
	}
	s.logger.Debug("request enqueued",
		"url", r.URL,
		"slot", r.Slot,
		"priority", r.Priority,
	)
	return nil
}

// Next delegates and logs the dispatched request. A request returned
// alongside an error is passed through, it is already off the queue.
func (s *Scheduler) Next() (*schedq.Request, error) {
	r, err := s.next.Next()
	if err != nil {
		s.logger.Error("dispatch failed", "error", err)
		return r, err
	}
	if r != nil {
		s.logger.Debug("request dispatched",
			"url", r.URL,
			"slot", r.Slot,
			"priority", r.Priority,
			"pending", s.next.Len(),
		)
	}
	return r, nil
}

// HasPending delegates to the wrapped scheduler.
func (s *Scheduler) HasPending() bool {
	return s.next.HasPending()
}

// Len delegates to the wrapped scheduler.
func (s *Scheduler) Len() int {
	return s.next.Len()
}

// Close delegates and logs the close reason and leftover count.
func (s *Scheduler) Close(reason string) error {
	pending := s.next.Len()
	begin := time.Now()
	if err := s.next.Close(reason); err != nil {
		s.logger.Error("scheduler close failed", "reason", reason, "error", err)
		return err
	}
	s.logger.Info("scheduler closed",
		"reason", reason,
		"pending", pending,
		"duration", time.Since(begin),
	)
	return nil
}
