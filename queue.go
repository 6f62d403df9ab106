package schedq

// Order selects the tie-break applied within a single priority level.
type Order int

const (
	// FIFO pops entries in insertion order.
	FIFO Order = iota

	// LIFO pops the most recently inserted entry first.
	LIFO
)

// Queue is a single ordered container of requests. It is the pluggable
// storage unit beneath the priority machinery: one Queue holds the entries
// of one priority level of one slot.
type Queue interface {
	// Push appends a request.
	Push(*Request) error

	// Pop removes and returns the next request per the queue's order.
	// Returns nil with no error when the queue is empty.
	Pop() (*Request, error)

	// Len returns the number of entries currently stored.
	Len() int

	// Close releases the queue's resources. Durable backends keep their
	// contents when entries remain and remove their backing file when empty.
	Close() error
}

// DiskQueueFactory opens or creates a durable Queue at the given path.
type DiskQueueFactory func(path string) (Queue, error)

// Snapshot records, per slot key, the priority levels with entries still
// pending at close. It is the minimal persisted state needed to rebuild
// the slot partitioning and priority ordering after a restart; the queue
// contents themselves live in the backing files.
type Snapshot map[string][]int

// FairQueue dispatches pending requests across slots. Implementations are
// single-threaded: callers must not interleave Push, Pop, and Close.
type FairQueue interface {
	// Push stores the request under its slot at the given priority,
	// resolving and recording the slot key if absent.
	Push(req *Request, priority int) error

	// Pop removes and returns the next request per the fairness policy.
	// Returns nil with no error when nothing is pending.
	Pop() (*Request, error)

	// Len returns the total number of pending requests across all slots.
	Len() int

	// Close shuts down every partition and returns the resume snapshot.
	Close() (Snapshot, error)
}

// Tracker reports how many dispatched requests from a slot are currently
// in flight downstream. Slots that were never dispatched report zero.
type Tracker interface {
	InFlight(slot string) int
}

// Scheduler is the external-facing orchestration surface over a FairQueue.
type Scheduler interface {
	// Open prepares the scheduler, resuming persisted state if present.
	Open() error

	// Enqueue adds a request using its own Priority field.
	Enqueue(*Request) error

	// Next returns the next request to dispatch, or nil when none pending.
	Next() (*Request, error)

	// HasPending reports whether any request is waiting.
	HasPending() bool

	// Len returns the number of pending requests.
	Len() int

	// Close shuts the scheduler down, persisting state for resumption.
	// The reason is informational (e.g. "finished", "shutdown").
	Close(reason string) error
}
