// Package memory provides in-memory queue backends. Contents are lost on
// process exit, so schedulers built on them are not resumable.
package memory

import "github.com/fwojciec/schedq"

// Compile-time interface verification.
var (
	_ schedq.Queue = (*FIFO)(nil)
	_ schedq.Queue = (*LIFO)(nil)
)

// New returns an empty in-memory queue with the given order.
func New(order schedq.Order) schedq.Queue {
	if order == schedq.LIFO {
		return NewLIFO()
	}
	return NewFIFO()
}

// FIFO is an in-memory queue that pops entries in insertion order.
type FIFO struct {
	items []*schedq.Request
}

// NewFIFO creates an empty FIFO queue.
func NewFIFO() *FIFO {
	return &FIFO{}
}

func (q *FIFO) Push(r *schedq.Request) error {
	q.items = append(q.items, r)
	return nil
}

func (q *FIFO) Pop() (*schedq.Request, error) {
	if len(q.items) == 0 {
		return nil, nil
	}
	r := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return r, nil
}

func (q *FIFO) Len() int {
	return len(q.items)
}

func (q *FIFO) Close() error {
	q.items = nil
	return nil
}

// LIFO is an in-memory queue that pops the most recently inserted entry
// first.
type LIFO struct {
	items []*schedq.Request
}

// NewLIFO creates an empty LIFO queue.
func NewLIFO() *LIFO {
	return &LIFO{}
}

func (q *LIFO) Push(r *schedq.Request) error {
	q.items = append(q.items, r)
	return nil
}

func (q *LIFO) Pop() (*schedq.Request, error) {
	if len(q.items) == 0 {
		return nil, nil
	}
	n := len(q.items) - 1
	r := q.items[n]
	q.items[n] = nil
	q.items = q.items[:n]
	return r, nil
}

func (q *LIFO) Len() int {
	return len(q.items)
}

func (q *LIFO) Close() error {
	q.items = nil
	return nil
}
