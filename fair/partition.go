// Package fair implements the slot-partitioned fairness queues that decide
// which pending request is dispatched next: a per-slot priority queue, a
// round-robin rotation across slots, and a downloader-aware variant that
// favors the least busy slot.
package fair

import (
	"sort"

	"github.com/fwojciec/schedq"
)

// MakeQueue returns the backing queue for one priority level of a slot.
// The priority is the only input: disk-backed factories derive the file
// path from it, memory factories ignore it.
type MakeQueue func(priority int) (schedq.Queue, error)

// Partition holds the pending requests of a single slot, ordered by
// priority. Entries with numerically higher priority pop first; ties
// within a level follow the backing queue's order.
type Partition struct {
	mk     MakeQueue
	queues map[int]schedq.Queue
	cur    int // highest open priority, meaningful while len(queues) > 0
}

// NewPartition creates a partition. A non-empty levels slice re-attaches
// the given priority levels from persisted state; any level that cannot
// be attached fails the whole construction.
func NewPartition(mk MakeQueue, levels []int) (*Partition, error) {
	p := &Partition{mk: mk, queues: make(map[int]schedq.Queue)}
	for _, lvl := range levels {
		q, err := mk(lvl)
		if err != nil {
			return nil, err
		}
		if len(p.queues) == 0 || lvl > p.cur {
			p.cur = lvl
		}
		p.queues[lvl] = q
	}
	return p, nil
}

// Push stores the request at the given priority, creating the level's
// backing queue on first use.
func (p *Partition) Push(r *schedq.Request, priority int) error {
	q, ok := p.queues[priority]
	if !ok {
		var err error
		q, err = p.mk(priority)
		if err != nil {
			return err
		}
		if len(p.queues) == 0 || priority > p.cur {
			p.cur = priority
		}
		p.queues[priority] = q
	}
	return q.Push(r)
}

// Pop removes and returns the entry with the highest open priority, or
// nil when the partition is empty. A level's queue is retired the moment
// it empties, which for durable backends removes its file.
func (p *Partition) Pop() (*schedq.Request, error) {
	if len(p.queues) == 0 {
		return nil, nil
	}
	q := p.queues[p.cur]
	r, err := q.Pop()
	if err != nil {
		return nil, err
	}
	if q.Len() == 0 {
		delete(p.queues, p.cur)
		p.recalc()
		if err := q.Close(); err != nil {
			return r, err
		}
	}
	return r, nil
}

// recalc restores cur to the highest remaining open priority.
func (p *Partition) recalc() {
	first := true
	for lvl := range p.queues {
		if first || lvl > p.cur {
			p.cur = lvl
			first = false
		}
	}
}

// Len returns the number of pending entries across all priority levels.
func (p *Partition) Len() int {
	n := 0
	for _, q := range p.queues {
		n += q.Len()
	}
	return n
}

// Close shuts every priority-level queue and returns the levels that
// still have entries pending, highest first. The returned levels are the
// per-slot share of the resume snapshot; the entries themselves stay in
// the backing storage.
func (p *Partition) Close() ([]int, error) {
	levels := make([]int, 0, len(p.queues))
	for lvl, q := range p.queues {
		if q.Len() > 0 {
			levels = append(levels, lvl)
		}
		if err := q.Close(); err != nil {
			return nil, err
		}
	}
	p.queues = make(map[int]schedq.Queue)
	sort.Sort(sort.Reverse(sort.IntSlice(levels)))
	return levels, nil
}
