// Package downloader tracks downstream dispatch activity and provides a
// paced dispatcher for draining a scheduler. It is the execution-side
// collaborator of the downloader-aware fairness policy: the execution
// layer calls the lifecycle hooks, the fairness queue reads the counts.
package downloader

import (
	"sync"

	"github.com/fwojciec/schedq"
)

// Compile-time interface verification.
var _ schedq.Tracker = (*Activity)(nil)

// Activity counts in-flight requests per slot. Hooks may be called from
// concurrent goroutines; reads and writes are serialized internally.
type Activity struct {
	mu       sync.Mutex
	inflight map[string]int
}

// NewActivity creates an Activity with no recorded dispatches.
func NewActivity() *Activity {
	return &Activity{inflight: make(map[string]int)}
}

// DispatchStarted records that a popped request entered transit.
// Must be called exactly once per dispatched request, before
// DispatchCompleted.
func (a *Activity) DispatchStarted(r *schedq.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.inflight[r.Slot]++
}

// DispatchCompleted records that a dispatched request finished, whatever
// the outcome. Counters never go below zero.
func (a *Activity) DispatchCompleted(r *schedq.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.inflight[r.Slot] <= 1 {
		delete(a.inflight, r.Slot)
		return
	}
	a.inflight[r.Slot]--
}

// InFlight returns the number of dispatched requests from slot still in
// transit. Slots never dispatched report zero.
func (a *Activity) InFlight(slot string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inflight[slot]
}
