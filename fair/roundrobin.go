package fair

import (
	"sort"

	"github.com/fwojciec/schedq"
)

// PartitionFactory creates the partition for a slot. A non-empty levels
// slice means the slot is being resumed from a snapshot and the factory
// must re-attach existing storage rather than create fresh queues.
type PartitionFactory func(slot string, levels []int) (*Partition, error)

// Compile-time interface verification.
var _ schedq.FairQueue = (*RoundRobin)(nil)

// RoundRobin dispatches one request per active slot per rotation cycle,
// so no slot is starved while any other slot drains. A slot is in the
// rotation exactly when its partition has pending entries.
type RoundRobin struct {
	factory  PartitionFactory
	rotation []string
	parts    map[string]*Partition
}

// NewRoundRobin builds the queue, resuming from snap when non-nil. Slot
// keys seed the rotation in sorted order so resumed runs are
// deterministic. A slot listed with no priority levels is rejected as
// malformed, since snapshots only record slots with pending entries.
// The factory decides the queue backend.
func NewRoundRobin(factory PartitionFactory, snap schedq.Snapshot) (*RoundRobin, error) {
	rr := &RoundRobin{
		factory: factory,
		parts:   make(map[string]*Partition),
	}

	slots := make([]string, 0, len(snap))
	for slot := range snap {
		slots = append(slots, slot)
	}
	sort.Strings(slots)

	for _, slot := range slots {
		if len(snap[slot]) == 0 {
			return nil, schedq.Errorf(schedq.EMALFORMED, "snapshot lists slot %q with no priority levels", slot)
		}
		p, err := factory(slot, snap[slot])
		if err != nil {
			return nil, err
		}
		rr.parts[slot] = p
		rr.rotation = append(rr.rotation, slot)
	}
	return rr, nil
}

// Push stores the request under its slot, resolving and recording the
// slot key when absent. A slot seen for the first time joins the tail of
// the rotation.
func (rr *RoundRobin) Push(r *schedq.Request, priority int) error {
	slot, err := schedq.Slot(r)
	if err != nil {
		return err
	}
	p, ok := rr.parts[slot]
	if !ok {
		p, err = rr.factory(slot, nil)
		if err != nil {
			return err
		}
		rr.parts[slot] = p
		rr.rotation = append(rr.rotation, slot)
	}
	return p.Push(r, priority)
}

// Pop takes the slot at the rotation head and dispatches one entry from
// it. Returns nil with no error when nothing is pending.
func (rr *RoundRobin) Pop() (*schedq.Request, error) {
	if len(rr.rotation) == 0 {
		return nil, nil
	}
	slot := rr.rotation[0]
	rr.rotation = rr.rotation[1:]
	return rr.popSlot(slot)
}

// popSlot pops one entry from slot's partition. The slot must already be
// removed from the rotation; it rejoins the tail only when entries
// remain, and its partition is discarded once empty. The popped entry is
// returned even alongside an error: at that point it is already gone
// from the backing storage and must not be dropped.
func (rr *RoundRobin) popSlot(slot string) (*schedq.Request, error) {
	p := rr.parts[slot]
	if p == nil {
		return nil, nil
	}
	r, err := p.Pop()
	if p.Len() > 0 {
		rr.rotation = append(rr.rotation, slot)
	} else {
		delete(rr.parts, slot)
	}
	return r, err
}

// Len returns the total number of pending requests across all slots.
func (rr *RoundRobin) Len() int {
	n := 0
	for _, p := range rr.parts {
		n += p.Len()
	}
	return n
}

// Close shuts down every partition and returns the resume snapshot:
// slot key to still-open priority levels. All in-memory structures are
// cleared.
func (rr *RoundRobin) Close() (schedq.Snapshot, error) {
	snap := make(schedq.Snapshot, len(rr.parts))
	for slot, p := range rr.parts {
		levels, err := p.Close()
		if err != nil {
			return nil, err
		}
		if len(levels) > 0 {
			snap[slot] = levels
		}
	}
	rr.parts = make(map[string]*Partition)
	rr.rotation = nil
	return snap, nil
}
