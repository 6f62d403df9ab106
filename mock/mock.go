// Package mock provides function-field mocks for schedq interfaces.
package mock

import "github.com/fwojciec/schedq"

var _ schedq.Queue = (*Queue)(nil)

// Queue is a mock implementation of schedq.Queue.
type Queue struct {
	PushFn  func(*schedq.Request) error
	PopFn   func() (*schedq.Request, error)
	LenFn   func() int
	CloseFn func() error
}

func (q *Queue) Push(r *schedq.Request) error {
	return q.PushFn(r)
}

func (q *Queue) Pop() (*schedq.Request, error) {
	return q.PopFn()
}

func (q *Queue) Len() int {
	return q.LenFn()
}

func (q *Queue) Close() error {
	return q.CloseFn()
}

var _ schedq.FairQueue = (*FairQueue)(nil)

// FairQueue is a mock implementation of schedq.FairQueue.
type FairQueue struct {
	PushFn  func(*schedq.Request, int) error
	PopFn   func() (*schedq.Request, error)
	LenFn   func() int
	CloseFn func() (schedq.Snapshot, error)
}

func (q *FairQueue) Push(r *schedq.Request, priority int) error {
	return q.PushFn(r, priority)
}

func (q *FairQueue) Pop() (*schedq.Request, error) {
	return q.PopFn()
}

func (q *FairQueue) Len() int {
	return q.LenFn()
}

func (q *FairQueue) Close() (schedq.Snapshot, error) {
	return q.CloseFn()
}

var _ schedq.Tracker = (*Tracker)(nil)

// Tracker is a mock implementation of schedq.Tracker.
type Tracker struct {
	InFlightFn func(slot string) int
}

func (t *Tracker) InFlight(slot string) int {
	return t.InFlightFn(slot)
}

var _ schedq.Scheduler = (*Scheduler)(nil)

// Scheduler is a mock implementation of schedq.Scheduler.
type Scheduler struct {
	OpenFn       func() error
	EnqueueFn    func(*schedq.Request) error
	NextFn       func() (*schedq.Request, error)
	HasPendingFn func() bool
	LenFn        func() int
	CloseFn      func(reason string) error
}

func (s *Scheduler) Open() error {
	return s.OpenFn()
}

func (s *Scheduler) Enqueue(r *schedq.Request) error {
	return s.EnqueueFn(r)
}

func (s *Scheduler) Next() (*schedq.Request, error) {
	return s.NextFn()
}

func (s *Scheduler) HasPending() bool {
	return s.HasPendingFn()
}

func (s *Scheduler) Len() int {
	return s.LenFn()
}

func (s *Scheduler) Close(reason string) error {
	return s.CloseFn(reason)
}
